package engine

// fillGapRowScalar writes the boundary row row[k] = k*gap.
func fillGapRowScalar(row []int32, gap int32) {
	for k := range row {
		row[k] = int32(k) * gap
	}
}

// fillGapRowWide writes the same values as fillGapRowScalar eight lanes at a
// time, with a scalar tail.
func fillGapRowWide(row []int32, gap int32) {
	n := len(row)
	k := 0
	step := 8 * gap
	base := int32(0)
	for ; k+8 <= n; k += 8 {
		r := row[k : k+8 : k+8]
		r[0] = base
		r[1] = base + gap
		r[2] = base + 2*gap
		r[3] = base + 3*gap
		r[4] = base + 4*gap
		r[5] = base + 5*gap
		r[6] = base + 6*gap
		r[7] = base + 7*gap
		base += step
	}
	for ; k < n; k++ {
		row[k] = int32(k) * gap
	}
}
