//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package coverage computes the per-position depth of aligned reads over a
// reference window and its summary statistics.
package coverage

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/CovAbacus/lib/aread"
)

// ErrInvalidWindow is returned when a window ends before it starts.
var ErrInvalidWindow = errors.New("invalid window")

type Options struct {
	// MaxCoverage clamps depth values after accumulation; 0 disables.
	MaxCoverage int
	// SkipStats leaves the summary fields unset.
	SkipStats bool
	// Workers shards the reads of a window over goroutines in RunSharded.
	Workers int
}

// Accumulator adds the blocks of reads to the depth of the window [Start, End).
// Additions commute: accumulators over disjoint read sets can be merged in any order.
type Accumulator struct {
	Start, End int
	depth      []int
}

func NewAccumulator(start, end int) (*Accumulator, error) {
	if end < start {
		return nil, fmt.Errorf("%w: [%d,%d)", ErrInvalidWindow, start, end)
	}
	return &Accumulator{Start: start, End: end, depth: make([]int, end-start)}, nil
}

// Add increments the depth at every position of the window covered by a block of r.
func (acc *Accumulator) Add(r *aread.AlignedRead) {
	if r.End() <= acc.Start || r.Start() >= acc.End {
		return
	}
	for _, b := range r.Blocks() {
		s := max(b[0], acc.Start) - acc.Start
		e := min(b[1], acc.End) - acc.Start
		for ip := s; ip < e; ip++ {
			acc.depth[ip]++
		}
	}
}

// Merge adds the depth of o, which must cover the same window.
func (acc *Accumulator) Merge(o *Accumulator) error {
	if o.Start != acc.Start || o.End != acc.End {
		return fmt.Errorf("%w: merging [%d,%d) into [%d,%d)", ErrInvalidWindow, o.Start, o.End, acc.Start, acc.End)
	}
	for ip, d := range o.depth {
		acc.depth[ip] += d
	}
	return nil
}

// Depth returns the accumulated depth. The slice is owned by the accumulator.
func (acc *Accumulator) Depth() []int {
	return acc.depth
}

// Run computes the coverage of reads over [start, end).
func Run(reads []*aread.AlignedRead, start, end int, opts Options) (*Coverage, error) {
	acc, err := NewAccumulator(start, end)
	if err != nil {
		return nil, err
	}
	for _, r := range reads {
		acc.Add(r)
	}
	return finalize(acc, opts), nil
}

// RunSharded is Run with reads split in opts.Workers shards accumulated concurrently.
func RunSharded(ctx context.Context, reads []*aread.AlignedRead, start, end int, opts Options) (*Coverage, error) {
	if opts.Workers <= 1 || len(reads) < 2 {
		return Run(reads, start, end, opts)
	}
	nShard := min(opts.Workers, len(reads))
	shards := make([]*Accumulator, nShard)
	for i := range shards {
		acc, err := NewAccumulator(start, end)
		if err != nil {
			return nil, err
		}
		shards[i] = acc
	}
	g, gctx := errgroup.WithContext(ctx)
	size := (len(reads) + nShard - 1) / nShard
	for i := 0; i < nShard; i++ {
		acc := shards[i]
		low := i * size
		high := min(low+size, len(reads))
		g.Go(func() error {
			for ir := low; ir < high; ir++ {
				if ir%4096 == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				acc.Add(reads[ir])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Stats only once all shards are merged
	for _, acc := range shards[1:] {
		if err := shards[0].Merge(acc); err != nil {
			return nil, err
		}
	}
	return finalize(shards[0], opts), nil
}

func finalize(acc *Accumulator, opts Options) *Coverage {
	c := &Coverage{Start: acc.Start, End: acc.End, Depth: acc.depth}
	if opts.MaxCoverage > 0 {
		for ip, d := range c.Depth {
			if d > opts.MaxCoverage {
				c.Depth[ip] = opts.MaxCoverage
			}
		}
	}
	if len(c.Depth) > 0 && !opts.SkipStats {
		c.process()
	}
	return c
}

func min(a, b int) int {
	if a > b {
		return b
	}
	return a
}

func max(a, b int) int {
	if a < b {
		return b
	}
	return a
}
