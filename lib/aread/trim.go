//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package aread

import (
	"fmt"

	"github.com/biogo/hts/sam"
)

// Side selects the end of the alignment to trim.
type Side int8

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Trim returns a copy of the alignment without its first (Left) or last
// (Right) amount reference positions. Operations consuming only the query
// or only the reference left at the new end are removed as well, even if
// this trims more than amount.
func (a *AlignedRead) Trim(amount int, side Side) (*AlignedRead, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: requesting to trim %d positions (%s), which is negative", ErrInvalidTrim, amount, side)
	}
	if amount > a.Span() {
		return nil, fmt.Errorf("%w: requesting to trim %d positions (%s), exceeding the alignment span of %d", ErrInvalidTrim, amount, side, a.Span())
	}
	t := a.clone()
	t.trim(amount, side)
	return t, nil
}

// trim cuts the alignment in place. a must not be visible to any other owner.
func (a *AlignedRead) trim(amount int, side Side) {
	n := len(a.cigar)
	if n == 0 {
		return
	}
	// Operation i counted from the trimmed end
	at := func(i int) int {
		if side == Right {
			return n - 1 - i
		}
		return i
	}
	var trimmedRef, trimmedQuery, count int
	var terminateNext bool
	for ; count < n; count++ {
		co := a.cigar[at(count)]
		q, r := consumes(co)
		l := co.Len()
		if q && r {
			if terminateNext {
				break
			}
			remaining := amount - trimmedRef
			if l > remaining {
				// Boundary operation: shortened and kept
				a.cigar[at(count)] = sam.NewCigarOp(co.Type(), l-remaining)
				trimmedRef += remaining
				trimmedQuery += remaining
				break
			}
			trimmedRef += l
			trimmedQuery += l
		} else if r {
			trimmedRef += l
		} else if q {
			trimmedQuery += l
		}
		if trimmedRef >= amount {
			terminateNext = true
		}
	}
	if side == Right {
		a.cigar = a.cigar[:n-count]
		a.query = a.query[:len(a.query)-trimmedQuery]
		a.reference = a.reference[:len(a.reference)-trimmedRef]
		a.end -= trimmedRef
	} else {
		a.cigar = a.cigar[count:]
		a.query = a.query[trimmedQuery:]
		a.reference = a.reference[trimmedRef:]
		a.start += trimmedRef
	}
}
