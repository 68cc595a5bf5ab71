package lm

import (
	"encoding/gob"
	"io"

	"github.com/kho/easy"
	"github.com/kho/stream"
)

// FromGob decodes a Hashed model previously written with gob (the slow,
// portable path; see FromBinary for the mmap fast path).
func FromGob(in io.Reader) (*Hashed, error) {
	var m Hashed
	if err := gob.NewDecoder(in).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// FromGobFile opens path (transparently decompressing .gz/.bz2/.xz, per
// easy.Open) and decodes a Hashed model from it.
func FromGobFile(path string) (*Hashed, error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return FromGob(in)
}

// FromARPA builds a Hashed model from an ARPA-format n-gram file.
func FromARPA(in io.Reader, scale float64) (*Hashed, error) {
	builder := NewBuilder(nil, "", "")
	if err := stream.Run(stream.EnumRead(in, lineSplit), arpaTop{builder}); err != nil {
		return nil, err
	}
	return builder.DumpHashed(scale), nil
}

// FromARPAFile is FromARPA over a path, transparently decompressed.
func FromARPAFile(path string, scale float64) (*Hashed, error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return FromARPA(in, scale)
}

// FromSortedARPA is FromARPA's Sorted counterpart.
func FromSortedARPA(in io.Reader) (*Sorted, error) {
	builder := NewBuilder(nil, "", "")
	if err := stream.Run(stream.EnumRead(in, lineSplit), arpaTop{builder}); err != nil {
		return nil, err
	}
	return builder.DumpSorted(), nil
}

// FromSortedARPAFile is FromSortedARPA over a path.
func FromSortedARPAFile(path string) (*Sorted, error) {
	in, err := easy.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	return FromSortedARPA(in)
}
