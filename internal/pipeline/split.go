package pipeline

// Span is a half-open index range [Start, End).
type Span struct{ Start, End int }

// Len returns End - Start.
func (s Span) Len() int { return s.End - s.Start }

// Split divides n tasks into one contiguous span per worker. Every worker gets
// n/workers tasks and the last also takes the remainder, so with n < workers
// all spans but the last are empty.
func Split(n, workers int) []Span {
	if workers < 1 {
		workers = 1
	}
	size := n / workers
	spans := make([]Span, workers)
	for t := range spans {
		spans[t] = Span{Start: t * size, End: (t + 1) * size}
	}
	spans[workers-1].End = n
	return spans
}
