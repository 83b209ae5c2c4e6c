//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package aread

import (
	"errors"
	"fmt"

	"github.com/biogo/hts/sam"
)

var (
	// ErrInvalidAlignment is returned when the cigar, bases and coordinates of an alignment disagree.
	ErrInvalidAlignment = errors.New("invalid alignment")
	// ErrInvalidTrim is returned for a negative trim or a trim larger than the reference span.
	ErrInvalidTrim = errors.New("invalid trim")
	// ErrUnsupportedOperation is returned for cigar operations outside the operation table.
	ErrUnsupportedOperation = errors.New("unsupported cigar operation")
)

// Consumption of each supported cigar operation. CigarBack and unknown
// codes are not part of the table.
//
//	              Query  Reference
//	Match           x        x
//	Insertion       x
//	Deletion                 x
//	Skipped                  x
//	SoftClipped     x
//	HardClipped
//	Padded
//	Equal           x        x
//	Mismatch        x        x
type consume struct {
	query, ref, known bool
}

var opTable = [...]consume{
	sam.CigarMatch:       {query: true, ref: true, known: true},
	sam.CigarInsertion:   {query: true, known: true},
	sam.CigarDeletion:    {ref: true, known: true},
	sam.CigarSkipped:     {ref: true, known: true},
	sam.CigarSoftClipped: {query: true, known: true},
	sam.CigarHardClipped: {known: true},
	sam.CigarPadded:      {known: true},
	sam.CigarEqual:       {query: true, ref: true, known: true},
	sam.CigarMismatch:    {query: true, ref: true, known: true},
	sam.CigarBack:        {},
}

// Consumes reports whether operation type t advances the query and the reference.
func Consumes(t sam.CigarOpType) (query, ref bool, err error) {
	if int(t) >= len(opTable) || !opTable[t].known {
		return false, false, fmt.Errorf("%w: %v", ErrUnsupportedOperation, t)
	}
	c := opTable[t]
	return c.query, c.ref, nil
}

// consumes is the unchecked lookup used once a cigar has been validated.
func consumes(co sam.CigarOp) (bool, bool) {
	c := opTable[co.Type()]
	return c.query, c.ref
}

// Lengths returns the number of query and reference positions described by cigar.
func Lengths(cigar sam.Cigar) (query, ref int, err error) {
	for _, co := range cigar {
		q, r, err := Consumes(co.Type())
		if err != nil {
			return 0, 0, err
		}
		if q {
			query += co.Len()
		}
		if r {
			ref += co.Len()
		}
	}
	return query, ref, nil
}
