//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package aread

import (
	"bytes"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bases(n int, alphabet string) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[i%len(alphabet)]
	}
	return b
}

func newRead(t *testing.T, cigar string, start int) *AlignedRead {
	t.Helper()
	c, err := sam.ParseCigar([]byte(cigar))
	require.NoError(t, err)
	lq, lr, err := Lengths(c)
	require.NoError(t, err)
	a, err := New(c, bases(lq, "ACGT"), bases(lr, "acgtt"), start, start+lr)
	require.NoError(t, err)
	return a
}

// checkConsistent verifies the invariants shared by every AlignedRead.
func checkConsistent(t *testing.T, a *AlignedRead) {
	t.Helper()
	lq, lr, err := Lengths(a.cigar)
	require.NoError(t, err)
	assert.Equal(t, lq, len(a.query))
	assert.Equal(t, lr, len(a.reference))
	assert.Equal(t, lr, a.end-a.start)
	for _, co := range a.cigar {
		assert.Greater(t, co.Len(), 0)
	}
}

func TestNew(t *testing.T) {
	c, _ := sam.ParseCigar([]byte("3M2I4M"))
	a, err := New(c, []byte("AAACCGGGG"), []byte("aaagggg"), 10, 17)
	require.NoError(t, err)
	assert.Equal(t, []byte("AAAGGGG"), a.Reference())
	assert.Equal(t, 7, a.Span())
	checkConsistent(t, a)

	tests := []struct {
		name       string
		cigar      sam.Cigar
		query, ref string
		start, end int
		want       error
	}{
		{"short query", c, "AAACCGGG", "AAAGGGG", 10, 17, ErrInvalidAlignment},
		{"short reference", c, "AAACCGGGG", "AAAGGG", 10, 17, ErrInvalidAlignment},
		{"bad span", c, "AAACCGGGG", "AAAGGGG", 10, 18, ErrInvalidAlignment},
		{"zero length", sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 0)}, "", "", 0, 0, ErrInvalidAlignment},
		{"back", sam.Cigar{sam.NewCigarOp(sam.CigarBack, 2)}, "", "", 0, 0, ErrUnsupportedOperation},
		{"unknown", sam.Cigar{sam.CigarOp(0xf | 2<<4)}, "", "", 0, 0, ErrUnsupportedOperation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cigar, []byte(tt.query), []byte(tt.ref), tt.start, tt.end)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNewOwnsSlices(t *testing.T) {
	c := sam.Cigar{sam.NewCigarOp(sam.CigarMatch, 3)}
	query := []byte("ACG")
	a, err := New(c, query, []byte("ACG"), 0, 3)
	require.NoError(t, err)
	query[0] = 'T'
	c[0] = sam.NewCigarOp(sam.CigarMatch, 1)
	assert.Equal(t, []byte("ACG"), a.Query())
	assert.Equal(t, "3M", a.Cigar().String())
}

func TestConsumes(t *testing.T) {
	q, r, err := Consumes(sam.CigarInsertion)
	require.NoError(t, err)
	assert.True(t, q)
	assert.False(t, r)
	q, r, err = Consumes(sam.CigarSkipped)
	require.NoError(t, err)
	assert.False(t, q)
	assert.True(t, r)
	q, r, err = Consumes(sam.CigarHardClipped)
	require.NoError(t, err)
	assert.False(t, q || r)
	_, _, err = Consumes(sam.CigarOpType(12))
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}

func TestBlocks(t *testing.T) {
	tests := []struct {
		cigar string
		start int
		want  [][2]int
	}{
		{"3M2I4M", 10, [][2]int{{10, 17}}},
		{"3M2D4M", 10, [][2]int{{10, 13}, {15, 19}}},
		{"2S5M100N5M3S", 0, [][2]int{{0, 5}, {105, 110}}},
		{"3=1X4=", 5, [][2]int{{5, 13}}},
		{"4M1D1I4M", 0, [][2]int{{0, 4}, {5, 9}}},
	}
	for _, tt := range tests {
		t.Run(tt.cigar, func(t *testing.T) {
			assert.Equal(t, tt.want, newRead(t, tt.cigar, tt.start).Blocks())
		})
	}
}

func TestAlignedSequenceAndPositions(t *testing.T) {
	c, _ := sam.ParseCigar([]byte("1S2M1I1M2D2M"))
	a, err := New(c, []byte("SACIGTT"), []byte("ACGNNTT"), 100, 107)
	require.NoError(t, err)
	seq, pos := a.AlignedSequenceAndPositions()
	assert.Equal(t, []byte("ACGTT"), seq)
	assert.Equal(t, []int{100, 101, 102, 105, 106}, pos)
}

func TestSlice(t *testing.T) {
	a := newRead(t, "10M", 4500)
	s := a.Slice(4502, 4505)
	assert.Equal(t, 4502, s.Start())
	assert.Equal(t, 4505, s.End())
	assert.Equal(t, a.Query()[2:5], s.Query())
	checkConsistent(t, s)

	s = a.Slice(Open, 4505)
	assert.Equal(t, [2]int{4500, 4505}, [2]int{s.Start(), s.End()})
	s = a.Slice(4505, Open)
	assert.Equal(t, [2]int{4505, 4510}, [2]int{s.Start(), s.End()})
	s = a.Slice(4400, 4700)
	assert.Equal(t, [2]int{4500, 4510}, [2]int{s.Start(), s.End()})

	// Outside of the read
	for _, iv := range [][2]int{{0, 100}, {5000, 6000}} {
		s = a.Slice(iv[0], iv[1])
		assert.Equal(t, 0, s.Span())
		assert.Empty(t, s.Cigar())
		assert.Empty(t, s.Query())
		checkConsistent(t, s)
	}

	// Original untouched
	assert.Equal(t, "10M", a.Cigar().String())
	assert.Equal(t, 4500, a.Start())
}

func TestSliceBlocksWithinWindow(t *testing.T) {
	cigars := []string{"3M2D4M", "2S3M1I3M2D2M4S", "5M10N5M", "1M1D1M1D1M1I1M"}
	for _, cigar := range cigars {
		a := newRead(t, cigar, 50)
		for s := 45; s < a.End()+3; s++ {
			for e := s; e < a.End()+5; e++ {
				sl := a.Slice(s, e)
				checkConsistent(t, sl)
				for _, b := range sl.Blocks() {
					assert.GreaterOrEqual(t, b[0], s, "%s [%d,%d)", cigar, s, e)
					assert.LessOrEqual(t, b[1], e, "%s [%d,%d)", cigar, s, e)
				}
			}
		}
	}
}

func TestString(t *testing.T) {
	c, _ := sam.ParseCigar([]byte("2M1I1M1D1M"))
	a, err := New(c, []byte("ACTGA"), []byte("ACGCA"), 0, 5)
	require.NoError(t, err)
	lines := bytes.Split([]byte(a.String()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Equal(t, "[0,5) 2M1I1M1D1M", string(lines[0]))
	assert.Equal(t, "read      : ACTG-A", string(lines[1]))
	assert.Equal(t, "reference : AC-GCA", string(lines[2]))
}

func TestFromRecord(t *testing.T) {
	ref, err := sam.NewReference("contig_1", "", "", 1000, nil, nil)
	require.NoError(t, err)
	c, _ := sam.ParseCigar([]byte("2S3M1D3M"))
	md, err := sam.NewAux(sam.NewTag("MD"), "1T1^G3")
	require.NoError(t, err)
	r := &sam.Record{
		Name:      "read1",
		Ref:       ref,
		Pos:       100,
		MapQ:      60,
		Cigar:     c,
		Seq:       sam.NewSeq([]byte("NNACGTTA")),
		AuxFields: sam.AuxFields{md},
	}
	a, err := FromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 100, a.Start())
	assert.Equal(t, 107, a.End())
	assert.Equal(t, []byte("ATGGTTA"), a.Reference())
	assert.Equal(t, [][2]int{{100, 103}, {104, 107}}, a.Blocks())

	r.Seq = sam.NewSeq([]byte("NNACG"))
	_, err = FromRecord(r)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	r.Cigar = sam.Cigar{sam.NewCigarOp(sam.CigarBack, 1)}
	_, err = FromRecord(r)
	assert.ErrorIs(t, err, ErrUnsupportedOperation)
}
