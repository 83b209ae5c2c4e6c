//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package seqprop

import (
	"fmt"
	"sort"
)

// CodonToAA is the standard genetic code. Stop codons are STP.
var CodonToAA = map[string]string{
	"ATA": "Ile", "ATC": "Ile", "ATT": "Ile", "ATG": "Met",
	"ACA": "Thr", "ACC": "Thr", "ACG": "Thr", "ACT": "Thr",
	"AAC": "Asn", "AAT": "Asn", "AAA": "Lys", "AAG": "Lys",
	"AGC": "Ser", "AGT": "Ser", "AGA": "Arg", "AGG": "Arg",
	"CTA": "Leu", "CTC": "Leu", "CTG": "Leu", "CTT": "Leu",
	"CCA": "Pro", "CCC": "Pro", "CCG": "Pro", "CCT": "Pro",
	"CAC": "His", "CAT": "His", "CAA": "Gln", "CAG": "Gln",
	"CGA": "Arg", "CGC": "Arg", "CGG": "Arg", "CGT": "Arg",
	"GTA": "Val", "GTC": "Val", "GTG": "Val", "GTT": "Val",
	"GCA": "Ala", "GCC": "Ala", "GCG": "Ala", "GCT": "Ala",
	"GAC": "Asp", "GAT": "Asp", "GAA": "Glu", "GAG": "Glu",
	"GGA": "Gly", "GGC": "Gly", "GGG": "Gly", "GGT": "Gly",
	"TCA": "Ser", "TCC": "Ser", "TCG": "Ser", "TCT": "Ser",
	"TTC": "Phe", "TTT": "Phe", "TTA": "Leu", "TTG": "Leu",
	"TAC": "Tyr", "TAT": "Tyr", "TAA": "STP", "TAG": "STP",
	"TGC": "Cys", "TGT": "Cys", "TGA": "STP", "TGG": "Trp",
}

// Codons returns the 64 codons in lexical order.
func Codons() []string {
	codons := make([]string, 0, len(CodonToAA))
	for c := range CodonToAA {
		codons = append(codons, c)
	}
	sort.Strings(codons)
	return codons
}

// CodonTrajectories returns every path of single substitutions from codon
// from to codon to using the fewest substitutions. Each path starts with from
// and ends with to. With asAminoAcids, codons are translated and repeated
// amino acids are reduced to their first occurrence in each path.
func CodonTrajectories(from, to string, asAminoAcids bool) ([][]string, error) {
	for _, c := range []string{from, to} {
		if _, ok := CodonToAA[c]; !ok {
			return nil, fmt.Errorf("Unknown codon %q", c)
		}
	}
	var variable []int
	for i := 0; i < 3; i++ {
		if from[i] != to[i] {
			variable = append(variable, i)
		}
	}
	var trajectories [][]string
	permute(variable, 0, func(order []int) {
		mutate := []byte(from)
		trajectory := []string{from}
		for _, i := range order {
			mutate[i] = to[i]
			trajectory = append(trajectory, string(mutate))
		}
		trajectories = append(trajectories, trajectory)
	})
	if asAminoAcids {
		for it, trajectory := range trajectories {
			seen := make(map[string]bool)
			var aas []string
			for _, codon := range trajectory {
				aa := CodonToAA[codon]
				if !seen[aa] {
					seen[aa] = true
					aas = append(aas, aa)
				}
			}
			trajectories[it] = aas
		}
	}
	return trajectories, nil
}

// permute calls f with every permutation of s, in lexicographic order of positions.
func permute(s []int, k int, f func([]int)) {
	if k >= len(s) {
		f(append([]int(nil), s...))
		return
	}
	for i := k; i < len(s); i++ {
		p := append([]int(nil), s...)
		// Rotate p[i] into position k to keep lexicographic order
		v := p[i]
		copy(p[k+1:i+1], p[k:i])
		p[k] = v
		permute(p, k+1, f)
	}
}

// Distance between two codons: total differences, transitions and transversions.
type Distance struct {
	Differences   int
	Transitions   int
	Transversions int
}

func isPurine(b byte) bool {
	return b == 'A' || b == 'G'
}

// CodonDistance compares two codons position by position. A transition is a
// purine to purine (A<->G) or pyrimidine to pyrimidine (C<->T) substitution.
func CodonDistance(from, to string) Distance {
	var d Distance
	for i := 0; i < 3 && i < len(from) && i < len(to); i++ {
		if from[i] == to[i] {
			continue
		}
		d.Differences++
		if isPurine(from[i]) == isPurine(to[i]) {
			d.Transitions++
		} else {
			d.Transversions++
		}
	}
	return d
}

// CodonDistances returns the Distance of every pair of codons.
func CodonDistances() map[string]map[string]Distance {
	codons := Codons()
	dist := make(map[string]map[string]Distance, len(codons))
	for _, from := range codons {
		dist[from] = make(map[string]Distance, len(codons))
		for _, to := range codons {
			dist[from][to] = CodonDistance(from, to)
		}
	}
	return dist
}
