//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package region

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~vejnar/CovAbacus/lib/coverage"
)

// Region is a half-open window [Start, End) of a contig.
type Region struct {
	ID     uint32
	Name   string
	Contig string
	Start  int
	End    int
}

// Length returns the length of region
func (r Region) Length() int {
	return r.End - r.Start
}

// Window returns the coverage window of region
func (r Region) Window() coverage.Window {
	return coverage.Window{Contig: r.Contig, Start: r.Start, End: r.End}
}

// Sorting functions: By Name
// Use it with: sort.Sort(region.ByName(regions))
type ByName []Region

func (f ByName) Len() int           { return len(f) }
func (f ByName) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }
func (f ByName) Less(i, j int) bool { return f[i].Name < f[j].Name }

// Sorting functions: By Contig and Start
type ByPosition []Region

func (f ByPosition) Len() int      { return len(f) }
func (f ByPosition) Swap(i, j int) { f[i], f[j] = f[j], f[i] }
func (f ByPosition) Less(i, j int) bool {
	if f[i].Contig == f[j].Contig {
		return f[i].Start < f[j].Start
	}
	return f[i].Contig < f[j].Contig
}

// OpenTAB parses a two column tabulated files with name and length of contig and returns a list of Region covering each contig
func OpenTAB(tpath string) (regions []Region, err error) {
	tfos, err := os.Open(tpath)
	if err != nil {
		return
	}
	defer tfos.Close()

	var i uint32
	var length int
	tscanner := bufio.NewScanner(tfos)
	for tscanner.Scan() {
		line := tscanner.Text()
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return regions, fmt.Errorf("Missing length in %s: %q", tpath, line)
		}
		length, err = strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		regions = append(regions, Region{ID: i, Name: fields[0], Contig: fields[0], Start: 0, End: length})
		i++
	}
	err = tscanner.Err()
	return
}

// OpenBED parses a BED file (0-based, half-open) and returns a list of Region.
// The name column is optional and defaults to contig:start-end.
func OpenBED(bpath string) (regions []Region, err error) {
	bfos, err := os.Open(bpath)
	if err != nil {
		return
	}
	defer bfos.Close()

	var i uint32
	bscanner := bufio.NewScanner(bfos)
	for bscanner.Scan() {
		line := bscanner.Text()
		if len(line) == 0 || line[0] == '#' || strings.HasPrefix(line, "track") || strings.HasPrefix(line, "browser") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return regions, fmt.Errorf("Expected at least 3 columns in %s: %q", bpath, line)
		}
		r := Region{ID: i, Contig: fields[0]}
		if r.Start, err = strconv.Atoi(fields[1]); err != nil {
			return
		}
		if r.End, err = strconv.Atoi(fields[2]); err != nil {
			return
		}
		if r.End < r.Start {
			return regions, fmt.Errorf("Inverted region in %s: %q", bpath, line)
		}
		if len(fields) > 3 && fields[3] != "" {
			r.Name = fields[3]
		} else {
			r.Name = fmt.Sprintf("%s:%d-%d", r.Contig, r.Start, r.End)
		}
		regions = append(regions, r)
		i++
	}
	err = bscanner.Err()
	return
}

// Split cuts regions into consecutive regions of splitLength. The last
// split of a region absorbs a remainder shorter than half of splitLength.
// Splits are named name_split_00001, name_split_00002...
func Split(regions []Region, splitLength int) []Region {
	if splitLength <= 0 {
		return regions
	}
	var splits []Region
	var id uint32
	for _, r := range regions {
		n := r.Length() / splitLength
		if n == 0 || r.Length()-n*splitLength >= splitLength/2 {
			n++
		}
		for is := 0; is < n; is++ {
			s := Region{ID: id, Name: fmt.Sprintf("%s_split_%05d", r.Name, is+1), Contig: r.Contig, Start: r.Start + is*splitLength}
			if is == n-1 {
				s.End = r.End
			} else {
				s.End = s.Start + splitLength
			}
			splits = append(splits, s)
			id++
		}
	}
	return splits
}

// Windows returns the coverage windows of regions
func Windows(regions []Region) []coverage.Window {
	windows := make([]coverage.Window, len(regions))
	for i, r := range regions {
		windows[i] = r.Window()
	}
	return windows
}
