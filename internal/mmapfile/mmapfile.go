// Package mmapfile exposes a whole input file as a read-only byte slice,
// memory-mapped where the platform allows and read into memory otherwise.
package mmapfile

import (
	"fmt"
	"os"

	"seqalign/internal/errs"
)

// File is an opened input. Bytes stays valid until Close.
type File struct {
	data   []byte
	mapped bool
}

// Open maps path. Empty files and platforms without mmap fall back to a
// plain read.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.E(errs.ErrPath, "open input", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errs.E(errs.ErrIO, "stat input", err)
	}
	if st.IsDir() {
		return nil, errs.Ef(errs.ErrPath, "open input", "%s is a directory", path)
	}
	size := st.Size()
	if size == 0 {
		return &File{}, nil
	}
	if int64(int(size)) != size {
		return nil, errs.Ef(errs.ErrResource, "open input", "%s: %d bytes do not fit in memory", path, size)
	}
	if data, err := mmap(f, int(size)); err == nil {
		return &File{data: data, mapped: true}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.E(errs.ErrIO, "read input", err)
	}
	return &File{data: data}, nil
}

// Bytes returns the file contents.
func (f *File) Bytes() []byte { return f.data }

// Mapped reports whether the contents are memory-mapped.
func (f *File) Mapped() bool { return f.mapped }

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	if !f.mapped {
		f.data = nil
		return nil
	}
	data := f.data
	f.data, f.mapped = nil, false
	if err := munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
