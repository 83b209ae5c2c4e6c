//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

// Package seqprop computes primitive properties of DNA sequences.
package seqprop

// Composition counts bases of a sequence. Any byte other than
// A, C, G or T (upper-case) is counted as N.
type Composition struct {
	A, C, G, T, N int
	GCContent     float64
}

func NewComposition(seq []byte) Composition {
	var c Composition
	for _, b := range seq {
		switch b {
		case 'A':
			c.A++
		case 'C':
			c.C++
		case 'G':
			c.G++
		case 'T':
			c.T++
		default:
			c.N++
		}
	}
	c.gc()
	return c
}

// Merge adds the counts of o to c.
func (c *Composition) Merge(o Composition) {
	c.A += o.A
	c.C += o.C
	c.G += o.G
	c.T += o.T
	c.N += o.N
	c.gc()
}

func (c *Composition) gc() {
	// Only Ns
	if length := c.A + c.C + c.G + c.T; length > 0 {
		c.GCContent = float64(c.G+c.C) / float64(length)
	} else {
		c.GCContent = 0
	}
}
