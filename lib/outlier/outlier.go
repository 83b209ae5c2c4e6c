//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package outlier classifies values with the modified z-score built on the
// median absolute deviation (Iglewicz and Hoaglin, 1993).
package outlier

import (
	"fmt"
	"math"
	"sort"

	"github.com/willf/bitset"
)

const (
	// DefaultThreshold is the modified z-score above which a value is marked.
	DefaultThreshold = 1.5
	zScale           = 0.6745
)

type Options struct {
	// Threshold on the modified z-score; DefaultThreshold if 0.
	Threshold float64
	// ZerosAreOutliers marks every zero value.
	ZerosAreOutliers bool
	// Median of the values if already known.
	Median *float64
}

func (o Options) threshold() float64 {
	if o.Threshold == 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// Classify returns true for each value whose modified z-score,
// 0.6745*|v-median|/MAD, is above the threshold. When the MAD is 0 all
// values are marked if the first one is 0, and none otherwise.
func Classify(values []float64, opts Options) []bool {
	if len(values) == 0 {
		return []bool{}
	}
	var median float64
	if opts.Median != nil {
		median = *opts.Median
	} else {
		median = Median(values)
	}
	diff := make([]float64, len(values))
	for i, v := range values {
		diff[i] = math.Abs(v - median)
	}
	return classify(diff, values[0] == 0, func(i int) bool { return values[i] == 0 }, opts)
}

// ClassifyRows is Classify for multi-dimensional observations: the deviation
// of a row is its Euclidean distance to the per-column median.
// opts.Median is ignored.
func ClassifyRows(rows [][]float64, opts Options) ([]bool, error) {
	if len(rows) == 0 {
		return []bool{}, nil
	}
	ncol := len(rows[0])
	for i, row := range rows {
		if len(row) != ncol {
			return nil, fmt.Errorf("Row %d has %d columns, expected %d", i, len(row), ncol)
		}
	}
	// Per-column median
	medians := make([]float64, ncol)
	col := make([]float64, len(rows))
	for j := 0; j < ncol; j++ {
		for i, row := range rows {
			col[i] = row[j]
		}
		medians[j] = Median(col)
	}
	diff := make([]float64, len(rows))
	for i, row := range rows {
		var d float64
		for j, v := range row {
			d += (v - medians[j]) * (v - medians[j])
		}
		diff[i] = math.Sqrt(d)
	}
	isZero := func(i int) bool {
		for _, v := range rows[i] {
			if v != 0 {
				return false
			}
		}
		return true
	}
	return classify(diff, isZero(0), isZero, opts), nil
}

func classify(diff []float64, firstZero bool, isZero func(int) bool, opts Options) []bool {
	mask := make([]bool, len(diff))
	mad := Median(diff)
	if mad == 0 {
		// Flat zero signal is wholly marked, flat non-zero signal is not
		if firstZero {
			for i := range mask {
				mask[i] = true
			}
		}
		return mask
	}
	threshold := opts.threshold()
	for i, d := range diff {
		mask[i] = zScale*d/mad > threshold
	}
	if opts.ZerosAreOutliers {
		for i := range mask {
			if isZero(i) {
				mask[i] = true
			}
		}
	}
	return mask
}

// Positions returns the indices set in mask.
func Positions(mask []bool) *bitset.BitSet {
	b := bitset.New(uint(len(mask)))
	for i, m := range mask {
		if m {
			b.Set(uint(i))
		}
	}
	return b
}

// Median returns the median of values, averaging the two middle values for
// even lengths. values is not modified. Median of no value is NaN.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return math.NaN()
	}
	s := make([]float64, n)
	copy(s, values)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
