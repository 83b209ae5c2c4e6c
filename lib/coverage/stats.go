//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"math"
	"sort"

	"github.com/willf/bitset"

	"git.sr.ht/~vejnar/CovAbacus/lib/outlier"
)

// Coverage is the depth over [Start, End) and its summary. It is read-only once returned.
type Coverage struct {
	Start, End int
	Depth      []int
	Min        int
	Max        int
	Mean       float64
	Median     float64
	Std        float64
	// Detection is the fraction of positions with a non-zero depth.
	Detection float64
	// MeanQ2Q3 is the mean of the sorted depth without its lowest and highest quarters.
	MeanQ2Q3  float64
	IsOutlier []bool
}

func (c *Coverage) process() {
	n := len(c.Depth)
	values := make([]float64, n)
	c.Min, c.Max = c.Depth[0], c.Depth[0]
	var sum float64
	var detected int
	for ip, d := range c.Depth {
		if d < c.Min {
			c.Min = d
		}
		if d > c.Max {
			c.Max = d
		}
		if d > 0 {
			detected++
		}
		values[ip] = float64(d)
		sum += values[ip]
	}
	c.Mean = sum / float64(n)
	var ss float64
	for _, v := range values {
		ss += (v - c.Mean) * (v - c.Mean)
	}
	c.Std = math.Sqrt(ss / float64(n))
	c.Detection = float64(detected) / float64(n)

	sorted := make([]int, n)
	copy(sorted, c.Depth)
	sort.Ints(sorted)
	if n%2 == 1 {
		c.Median = float64(sorted[n/2])
	} else {
		c.Median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	med := c.Median
	c.IsOutlier = outlier.Classify(values, outlier.Options{Median: &med})

	if n < 4 {
		c.MeanQ2Q3 = c.Mean
	} else {
		q := int(float64(n) * 0.25)
		var s float64
		for _, d := range sorted[q : n-q] {
			s += float64(d)
		}
		c.MeanQ2Q3 = s / float64(n-2*q)
	}
}

// Len returns the number of positions of the window.
func (c *Coverage) Len() int {
	return len(c.Depth)
}

// OutlierPositions returns the window offsets marked by the outlier classifier.
func (c *Coverage) OutlierPositions() *bitset.BitSet {
	return outlier.Positions(c.IsOutlier)
}
