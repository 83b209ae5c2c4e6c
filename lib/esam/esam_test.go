//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecord(t *testing.T, cigar, seq, md string) *sam.Record {
	t.Helper()
	c, err := sam.ParseCigar([]byte(cigar))
	require.NoError(t, err)
	r := &sam.Record{Name: "read1", Pos: 10, MapQ: 30, Cigar: c, Seq: sam.NewSeq([]byte(seq))}
	if md != "" {
		aux, err := sam.NewAux(sam.NewTag("MD"), md)
		require.NoError(t, err)
		r.AuxFields = sam.AuxFields{aux}
	}
	return r
}

func TestParseTagMD(t *testing.T) {
	blocks, err := ParseTagMD("10A5^AC0T2")
	require.NoError(t, err)
	assert.Equal(t, []TagMDOp{
		{Op: MDSkip, Length: 10},
		{Op: MDMismatch, Length: 1, Seq: []byte("A")},
		{Op: MDSkip, Length: 5},
		{Op: MDDeletion, Length: 2, Seq: []byte("AC")},
		{Op: MDMismatch, Length: 1, Seq: []byte("T")},
		{Op: MDSkip, Length: 2},
	}, blocks)

	_, err = ParseTagMD("3^4")
	assert.Error(t, err)
	_, err = ParseTagMD("3*2")
	assert.Error(t, err)
}

func TestReferenceBases(t *testing.T) {
	tests := []struct {
		cigar, seq, md string
		want           string
	}{
		{"4M", "acgt", "", "ACGT"},
		{"2M2D2M", "ACGT", "", "ACNNGT"},
		{"2M2D2M", "ACGT", "2^TT0C1", "ACTTCT"},
		{"1S2M1I2M", "GACTGT", "0T3", "TCGT"},
		// Skipped regions are not described by MD
		{"2M3N2M", "ACGT", "1G2", "AGNNNGT"},
		{"2=1X1=", "ACGT", "2A1", "ACAT"},
	}
	for _, tt := range tests {
		got, err := ReferenceBases(newRecord(t, tt.cigar, tt.seq, tt.md))
		require.NoError(t, err, tt.cigar)
		assert.Equal(t, tt.want, string(got), tt.cigar)
	}

	_, err := ReferenceBases(newRecord(t, "6M", "ACGT", ""))
	assert.Error(t, err)
	_, err = ReferenceBases(newRecord(t, "4M", "ACGT", "10"))
	assert.Error(t, err)
	r := newRecord(t, "4M", "ACGT", "")
	r.Cigar = sam.Cigar{sam.NewCigarOp(sam.CigarBack, 2)}
	_, err = ReferenceBases(r)
	assert.Error(t, err)
}

func TestKeep(t *testing.T) {
	r := newRecord(t, "4M", "ACGT", "")
	assert.True(t, Keep(r, 30))
	assert.False(t, Keep(r, 31))
	for _, flag := range []sam.Flags{sam.Unmapped, sam.Secondary, sam.Supplementary} {
		r.Flags = flag
		assert.False(t, Keep(r, 0))
	}
	r.Flags = sam.Paired | sam.Reverse
	assert.True(t, Keep(r, 0))
}

func TestOpenSAM(t *testing.T) {
	p := filepath.Join(t.TempDir(), "test.sam")
	content := "@SQ\tSN:contig_1\tLN:100\n" +
		"read1\t0\tcontig_1\t11\t60\t4M\t*\t0\t0\tACGT\t*\n"
	require.NoError(t, os.WriteFile(p, []byte(content), 0666))
	f, pp, rr, err := OpenSAM(PathSAM{Path: p}, nil, 1)
	require.NoError(t, err)
	defer f.Close()
	assert.Nil(t, pp)
	r, err := rr.Read()
	require.NoError(t, err)
	assert.Equal(t, "read1", r.Name)
	assert.Equal(t, 10, r.Start())
	assert.Equal(t, 14, r.End())
}
