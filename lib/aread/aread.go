//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package aread models a read aligned to a reference and supports exact
// extraction of sub-ranges of the alignment.
package aread

import (
	"bytes"
	"fmt"

	"github.com/biogo/hts/sam"
)

// Open marks an unbounded side in Slice.
const Open = -1

// AlignedRead is one alignment: its cigar, the query bases, the reference
// bases of the covered span and the half-open span [Start, End).
// The four are kept consistent by every method; an AlignedRead is never
// modified after construction, extraction returns a new value.
type AlignedRead struct {
	cigar     sam.Cigar
	query     []byte
	reference []byte
	start     int
	end       int
}

// New checks the consistency of the alignment and returns an AlignedRead
// owning copies of the given slices. Reference bases are upper-cased.
func New(cigar sam.Cigar, query, reference []byte, start, end int) (*AlignedRead, error) {
	for i, co := range cigar {
		if _, _, err := Consumes(co.Type()); err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if co.Len() <= 0 {
			return nil, fmt.Errorf("%w: operation %d (%v) has length %d", ErrInvalidAlignment, i, co.Type(), co.Len())
		}
	}
	lq, lr, _ := Lengths(cigar)
	if lq != len(query) {
		return nil, fmt.Errorf("%w: cigar %v consumes %d query bases, got %d", ErrInvalidAlignment, cigar, lq, len(query))
	}
	if lr != len(reference) {
		return nil, fmt.Errorf("%w: cigar %v consumes %d reference bases, got %d", ErrInvalidAlignment, cigar, lr, len(reference))
	}
	if end-start != lr {
		return nil, fmt.Errorf("%w: span [%d,%d) does not match cigar %v reference length %d", ErrInvalidAlignment, start, end, cigar, lr)
	}
	a := AlignedRead{
		cigar:     append(sam.Cigar(nil), cigar...),
		query:     append([]byte(nil), query...),
		reference: bytes.ToUpper(reference),
		start:     start,
		end:       end,
	}
	return &a, nil
}

func (a *AlignedRead) clone() *AlignedRead {
	c := AlignedRead{
		cigar:     append(sam.Cigar(nil), a.cigar...),
		query:     a.query,
		reference: a.reference,
		start:     a.start,
		end:       a.end,
	}
	return &c
}

// Start returns the first reference position covered by the alignment.
func (a *AlignedRead) Start() int { return a.start }

// End returns the half-open end of the alignment on the reference.
func (a *AlignedRead) End() int { return a.end }

// Span returns the number of reference positions covered.
func (a *AlignedRead) Span() int { return a.end - a.start }

// Cigar returns a copy of the operations.
func (a *AlignedRead) Cigar() sam.Cigar { return append(sam.Cigar(nil), a.cigar...) }

// Query returns a copy of the query bases.
func (a *AlignedRead) Query() []byte { return append([]byte(nil), a.query...) }

// Reference returns a copy of the reference bases.
func (a *AlignedRead) Reference() []byte { return append([]byte(nil), a.reference...) }

// Slice returns the part of the alignment within the reference interval
// [start, end). Bounds are clamped to the read span and Open selects the
// read start or end. An interval outside of the read gives an empty alignment.
func (a *AlignedRead) Slice(start, end int) *AlignedRead {
	if start == Open {
		start = a.start
	}
	if end == Open {
		end = a.end
	}
	s := a.clone()
	s.trim(clamp(start-s.start, 0, s.Span()), Left)
	s.trim(clamp(s.end-end, 0, s.Span()), Right)
	return s
}

// Blocks returns the maximal reference intervals covered by aligned bases.
// Deletions and skips split blocks; insertions and clips do not.
func (a *AlignedRead) Blocks() [][2]int {
	var blocks [][2]int
	pos := a.start
	open := false
	for _, co := range a.cigar {
		q, r := consumes(co)
		l := co.Len()
		switch {
		case q && r:
			if open {
				blocks[len(blocks)-1][1] = pos + l
			} else {
				blocks = append(blocks, [2]int{pos, pos + l})
				open = true
			}
			pos += l
		case r:
			open = false
			pos += l
		}
	}
	return blocks
}

// AlignedSequenceAndPositions returns the query base and the reference
// coordinate of every position aligned on both axes.
func (a *AlignedRead) AlignedSequenceAndPositions() ([]byte, []int) {
	var size int
	for _, co := range a.cigar {
		if q, r := consumes(co); q && r {
			size += co.Len()
		}
	}
	seq := make([]byte, size)
	positions := make([]int, size)
	var iQuery, iRef, n int
	for _, co := range a.cigar {
		q, r := consumes(co)
		l := co.Len()
		switch {
		case q && r:
			copy(seq[n:n+l], a.query[iQuery:iQuery+l])
			for i := 0; i < l; i++ {
				positions[n+i] = a.start + iRef + i
			}
			n += l
			iQuery += l
			iRef += l
		case r:
			iRef += l
		case q:
			iQuery += l
		}
	}
	return seq, positions
}

// String renders the alignment of the read against the reference.
func (a *AlignedRead) String() string {
	var read, ref bytes.Buffer
	var iQuery, iRef int
	for _, co := range a.cigar {
		q, r := consumes(co)
		l := co.Len()
		if q {
			read.Write(a.query[iQuery : iQuery+l])
			iQuery += l
		} else {
			read.Write(bytes.Repeat([]byte("-"), l))
		}
		if r {
			ref.Write(a.reference[iRef : iRef+l])
			iRef += l
		} else {
			ref.Write(bytes.Repeat([]byte("-"), l))
		}
	}
	return fmt.Sprintf("[%d,%d) %v\nread      : %s\nreference : %s", a.start, a.end, sam.Cigar(a.cigar), read.String(), ref.String())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
