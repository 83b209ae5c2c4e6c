//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package aread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrimMatch(t *testing.T) {
	a := newRead(t, "5M", 100)
	l, err := a.Trim(2, Left)
	require.NoError(t, err)
	assert.Equal(t, 102, l.Start())
	assert.Equal(t, 105, l.End())
	assert.Len(t, l.Query(), 3)
	assert.Len(t, l.Reference(), 3)
	assert.Equal(t, "3M", l.Cigar().String())

	r, err := a.Trim(2, Right)
	require.NoError(t, err)
	assert.Equal(t, [2]int{100, 103}, [2]int{r.Start(), r.End()})
	assert.Equal(t, a.Query()[:3], r.Query())
	assert.Equal(t, a.Reference()[:3], r.Reference())

	// Receiver unchanged
	assert.Equal(t, "5M", a.Cigar().String())
	assert.Equal(t, 100, a.Start())
}

func TestTrimErrors(t *testing.T) {
	a := newRead(t, "3M2I4M", 10)
	for _, amount := range []int{-1, 8} {
		_, err := a.Trim(amount, Left)
		assert.ErrorIs(t, err, ErrInvalidTrim)
		_, err = a.Trim(amount, Right)
		assert.ErrorIs(t, err, ErrInvalidTrim)
	}
	assert.Equal(t, "3M2I4M", a.Cigar().String())
}

func TestTrimCollapse(t *testing.T) {
	tests := []struct {
		cigar      string
		amount     int
		side       Side
		want       string
		start, end int
		query      int
	}{
		// Dangling insertion absorbed
		{"3M2I4M", 3, Left, "4M", 3, 7, 4},
		{"3M2I4M", 4, Right, "3M", 0, 3, 3},
		// Dangling deletion absorbed beyond the requested amount
		{"3M2D4M", 3, Left, "4M", 5, 9, 4},
		{"3M2D4M", 1, Right, "3M2D3M", 0, 8, 6},
		{"3M2D4M", 4, Right, "3M", 0, 3, 3},
		// Cut inside the deletion
		{"3M2D4M", 4, Left, "4M", 5, 9, 4},
		{"4M3N2M", 5, Left, "2M", 7, 9, 2},
		// Clips on the trimmed side
		{"2S5M3S", 1, Left, "4M3S", 1, 5, 7},
		{"2S5M3S", 0, Right, "2S5M", 0, 5, 7},
		{"5H2S5M", 2, Left, "3M", 2, 5, 3},
		// Whole span
		{"2S3M1I3M2S", 6, Left, "", 6, 6, 0},
		{"2S3M1I3M2S", 6, Right, "", 0, 0, 0},
		// Mixed
		{"2M1I1D3M", 2, Left, "3M", 3, 6, 3},
		{"2M1I1D3M", 1, Left, "1M1I1D3M", 1, 6, 5},
	}
	for _, tt := range tests {
		t.Run(tt.cigar+"/"+tt.side.String(), func(t *testing.T) {
			a := newRead(t, tt.cigar, 0)
			tr, err := a.Trim(tt.amount, tt.side)
			require.NoError(t, err)
			checkConsistent(t, tr)
			cigar := tr.Cigar()
			if tt.want == "" {
				assert.Empty(t, cigar)
			} else {
				assert.Equal(t, tt.want, cigar.String())
			}
			assert.Equal(t, tt.start, tr.Start())
			assert.Equal(t, tt.end, tr.End())
			assert.Len(t, tr.Query(), tt.query)
		})
	}
}

func TestTrimNoDanglingTerminal(t *testing.T) {
	cigars := []string{"3M2D4M", "3M2I4M", "1M1I1M1D1M1I1D1M", "2M3N2M1I2M", "4M1D1I4M"}
	for _, cigar := range cigars {
		a := newRead(t, cigar, 0)
		for amount := 0; amount <= a.Span(); amount++ {
			for _, side := range []Side{Left, Right} {
				tr, err := a.Trim(amount, side)
				require.NoError(t, err)
				checkConsistent(t, tr)
				c := tr.Cigar()
				if len(c) == 0 {
					continue
				}
				for _, co := range []int{0, len(c) - 1} {
					q, r := consumes(c[co])
					assert.True(t, q && r, "%s trimmed %d %s gives %v", cigar, amount, side, c)
				}
			}
		}
	}
}

func TestTrimLeftAssociative(t *testing.T) {
	// Successive left trims add up when no cut lands next to a deletion
	cigars := []string{"10M", "3M2I4M", "2S4M1I3M2I2M", "1M1I1M1I1M1I1M"}
	for _, cigar := range cigars {
		a := newRead(t, cigar, 20)
		for x := 0; x <= a.Span(); x++ {
			for y := 0; x+y <= a.Span(); y++ {
				first, err := a.Trim(x, Left)
				require.NoError(t, err)
				twice, err := first.Trim(y, Left)
				require.NoError(t, err)
				once, err := a.Trim(x+y, Left)
				require.NoError(t, err)
				assert.Equal(t, once.Cigar(), twice.Cigar(), "%s %d+%d", cigar, x, y)
				assert.Equal(t, once.Query(), twice.Query())
				assert.Equal(t, once.Reference(), twice.Reference())
				assert.Equal(t, once.Start(), twice.Start())
			}
		}
	}
}
