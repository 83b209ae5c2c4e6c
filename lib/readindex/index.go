//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package readindex indexes aligned reads by contig and span.
package readindex

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"

	"git.sr.ht/~vejnar/CovAbacus/lib/aread"
)

// Integer-specific intervals

type ReadInterval struct {
	Start, End int
	UID        uintptr
	Read       *aread.AlignedRead
}

func (i ReadInterval) Overlap(b interval.IntRange) bool {
	// Half-open interval indexing.
	return i.End > b.Start && i.Start < b.End
}

func (i ReadInterval) ID() uintptr {
	return i.UID
}

func (i ReadInterval) Range() interval.IntRange {
	return interval.IntRange{Start: i.Start, End: i.End}
}

func (i ReadInterval) String() string {
	return fmt.Sprintf("[%d,%d)#%d", i.Start, i.End, i.UID)
}

// Index stores reads in one interval tree per contig.
// Add must not be called concurrently; Fetch can.
type Index struct {
	trees map[string]*interval.IntTree
	n     int
}

func New() *Index {
	return &Index{trees: make(map[string]*interval.IntTree)}
}

// Add inserts a read aligned on contig. Reads without reference span are ignored.
func (idx *Index) Add(contig string, r *aread.AlignedRead) error {
	if r.Span() == 0 {
		return nil
	}
	// New tree for unseen contig
	tree, ok := idx.trees[contig]
	if !ok {
		tree = &interval.IntTree{}
		idx.trees[contig] = tree
	}
	iv := ReadInterval{Start: r.Start(), End: r.End(), UID: uintptr(idx.n), Read: r}
	if err := tree.Insert(iv, false); err != nil {
		return fmt.Errorf("Inserting read %v on %s: %w", iv, contig, err)
	}
	idx.n++
	return nil
}

// Len returns the number of indexed reads.
func (idx *Index) Len() int {
	return idx.n
}

// Contigs returns the sorted names of contigs with reads.
func (idx *Index) Contigs() []string {
	contigs := make([]string, 0, len(idx.trees))
	for c := range idx.trees {
		contigs = append(contigs, c)
	}
	sort.Strings(contigs)
	return contigs
}

// Fetch returns the reads of contig whose span overlaps [start, end), by increasing start.
func (idx *Index) Fetch(contig string, start, end int) []*aread.AlignedRead {
	tree, ok := idx.trees[contig]
	if !ok || end <= start {
		return nil
	}
	ivs := tree.Get(ReadInterval{Start: start, End: end})
	reads := make([]*aread.AlignedRead, len(ivs))
	for i, iv := range ivs {
		reads[i] = iv.(ReadInterval).Read
	}
	return reads
}

// FetchAndTrim returns the overlapping reads sliced to [start, end).
// Reads left without aligned positions in the window are dropped.
func (idx *Index) FetchAndTrim(contig string, start, end int) []*aread.AlignedRead {
	reads := idx.Fetch(contig, start, end)
	trimmed := reads[:0]
	for _, r := range reads {
		s := r.Slice(start, end)
		if s.Span() > 0 {
			trimmed = append(trimmed, s)
		}
	}
	return trimmed
}
