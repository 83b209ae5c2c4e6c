//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode"

	"github.com/biogo/hts/sam"
)

const (
	MDDeletion = iota
	MDMismatch
	MDSkip
)

type TagMDOp struct {
	Op     int
	Length int
	Seq    []byte
}

// ParseTagMD parses the MD attribute to blocks.
func ParseTagMD(rawTag string) (blocks []TagMDOp, err error) {
	var block []byte
	var l byte
	// Parsing tag
	i := 0
	for i < len(rawTag) {
		l = rawTag[i]
		if l == '^' {
			block = []byte("")
			i++ // Skipping "^"
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsLetter(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			if len(block) == 0 {
				return blocks, fmt.Errorf("Empty deletion in MD tag %s", rawTag)
			}
			blocks = append(blocks, TagMDOp{Op: MDDeletion, Length: len(block), Seq: block})
		} else if unicode.IsLetter(rune(l)) {
			blocks = append(blocks, TagMDOp{Op: MDMismatch, Length: 1, Seq: []byte{l}})
			i++
		} else {
			block = []byte("")
			for i < len(rawTag) {
				l = rawTag[i]
				if unicode.IsNumber(rune(l)) {
					block = append(block, l)
					i++
				} else {
					break
				}
			}
			step, err := strconv.Atoi(string(block))
			if err != nil {
				return blocks, fmt.Errorf("Malformed MD tag %s: %w", rawTag, err)
			}
			if step > 0 {
				blocks = append(blocks, TagMDOp{Op: MDSkip, Length: step})
			}
		}
	}
	return blocks, nil
}

// ReferenceBases reconstitutes the upper-case reference sequence of the span covered by the alignment.
// Matched positions take the read base and deleted positions are N, unless the MD tag is present.
// Skipped regions (N operations) are not described by MD and stay N.
func ReferenceBases(r *sam.Record) (ref []byte, err error) {
	var iRead, length int
	var co sam.CigarOp
	var con sam.Consume
	seq := r.Seq.Expand()
	// Positions described by the MD tag
	var described []int
	for i := 0; i < len(r.Cigar); i++ {
		co = r.Cigar[i]
		con = co.Type().Consumes()
		length = co.Len()
		if con.Reference < 0 {
			return nil, fmt.Errorf("Unsupported cigar operation %v in %s", co.Type(), r.Name)
		}
		if con.Query == 1 && con.Reference == 1 {
			if iRead+length > len(seq) {
				return nil, fmt.Errorf("Cigar %v longer than sequence in %s", r.Cigar, r.Name)
			}
			for ip := len(ref); ip < len(ref)+length; ip++ {
				described = append(described, ip)
			}
			ref = append(ref, seq[iRead:iRead+length]...)
		} else if con.Reference == 1 {
			if co.Type() == sam.CigarDeletion {
				for ip := len(ref); ip < len(ref)+length; ip++ {
					described = append(described, ip)
				}
			}
			ref = append(ref, bytes.Repeat([]byte("N"), length)...)
		}
		if con.Query == 1 {
			iRead += length
		}
	}
	// Parsing MD tag if present
	tag, found := r.Tag([]byte("MD"))
	if found {
		rawTag, ok := tag.Value().(string)
		if !ok {
			return nil, fmt.Errorf("MD tag of %s is not a string", r.Name)
		}
		var blocks []TagMDOp
		blocks, err = ParseTagMD(rawTag)
		if err != nil {
			return nil, err
		}
		var iDesc int
		for _, b := range blocks {
			if iDesc+b.Length > len(described) {
				return nil, fmt.Errorf("MD tag %s longer than alignment of %s", rawTag, r.Name)
			}
			switch b.Op {
			case MDDeletion, MDMismatch:
				for _, nt := range b.Seq {
					ref[described[iDesc]] = nt
					iDesc++
				}
			case MDSkip:
				iDesc += b.Length
			}
		}
	}
	return bytes.ToUpper(ref), nil
}
