//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package region

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/adler32"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4"

	"git.sr.ht/~vejnar/CovAbacus/lib/coverage"
)

const binaryVersion uint8 = 1

type RegionExt struct {
	*Region
	Coverage *coverage.Coverage
}

// ExtendRegions pairs each region with its coverage.
func ExtendRegions(regions []Region, covs []*coverage.Coverage) ([]*RegionExt, error) {
	if len(regions) != len(covs) {
		return nil, fmt.Errorf("Got %d coverages for %d regions", len(covs), len(regions))
	}
	regionExts := make([]*RegionExt, len(regions))
	for i := range regions {
		if covs[i] == nil || covs[i].Len() != regions[i].Length() {
			return nil, fmt.Errorf("Wrong coverage for region %s", regions[i].Name)
		}
		regionExts[i] = &RegionExt{Region: &regions[i], Coverage: covs[i]}
	}
	return regionExts, nil
}

func openFlag(appendOutput bool) int {
	if appendOutput {
		return os.O_APPEND | os.O_CREATE | os.O_WRONLY
	}
	return os.O_RDWR | os.O_CREATE | os.O_TRUNC
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteSummaries writes one CSV line of summary statistics per region.
func WriteSummaries(regionExts []*RegionExt, regionsMapping map[string]string, summaryPath string, appendOutput bool) error {
	f, err := os.OpenFile(summaryPath, openFlag(appendOutput), 0666)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	// Write header
	w.WriteString("\"name\",\"contig\",\"start\",\"end\",\"min\",\"max\",\"mean\",\"median\",\"std\",\"detection\",\"mean_Q2Q3\",\"outliers\"\n")
	for _, re := range regionExts {
		c := re.Coverage
		fmt.Fprintf(w, "\"%s\",\"%s\",%d,%d,%d,%d,", MapName(re.Name, regionsMapping), re.Contig, re.Start, re.End, c.Min, c.Max)
		w.WriteString(strings.Join([]string{formatFloat(c.Mean), formatFloat(c.Median), formatFloat(c.Std), formatFloat(c.Detection), formatFloat(c.MeanQ2Q3)}, ","))
		fmt.Fprintf(w, ",%d\n", c.OutlierPositions().Count())
	}
	if err = w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

type GenericWriter interface {
	Write(buf []byte) (n int, err error)
	Close() error
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// WriteProfiles writes the depth of each region in profileFormat: "bedgraph", "csv" or "binary".
// The format can be suffixed by "+lz4", "+lz4hc" or "+gz" for compression.
func WriteProfiles(regionExts []*RegionExt, regionsMapping map[string]string, profilePath string, profileFormat string, appendOutput bool) error {
	var profileZip string
	if strings.Contains(profileFormat, "+") {
		doubleFormat := strings.Split(profileFormat, "+")
		profileFormat, profileZip = doubleFormat[0], doubleFormat[1]
	}
	f, err := os.OpenFile(profilePath, openFlag(appendOutput), 0666)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	var writer GenericWriter
	switch profileZip {
	case "lz4":
		writer = lz4.NewWriter(bw)
	case "lz4hc":
		lzWriter := lz4.NewWriter(bw)
		lzWriter.Header = lz4.Header{CompressionLevel: 9}
		writer = lzWriter
	case "gz":
		writer = gzip.NewWriter(bw)
	case "":
		writer = nopCloser{bw}
	default:
		return fmt.Errorf("Unknown profile compression %s", profileZip)
	}
	switch profileFormat {
	case "bedgraph":
		err = writeBedGraph(writer, regionExts)
	case "binary":
		err = writeBinary(writer, regionExts)
	case "csv":
		err = writeCSV(writer, regionExts, regionsMapping)
	default:
		err = fmt.Errorf("Unknown profile format %s", profileFormat)
	}
	if err != nil {
		return err
	}
	if err = writer.Close(); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// writeBedGraph writes steps of constant non-zero depth in contig coordinates.
func writeBedGraph(w io.Writer, regionExts []*RegionExt) error {
	for _, re := range regionExts {
		depth := re.Coverage.Depth
		var stepStart, stepValue int
		for ip := 0; ip <= len(depth); ip++ {
			currentValue := 0
			if ip < len(depth) {
				currentValue = depth[ip]
			}
			if currentValue != stepValue || ip == len(depth) {
				if stepValue != 0 {
					if _, err := fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", re.Contig, re.Start+stepStart, re.Start+ip, stepValue); err != nil {
						return err
					}
				}
				stepStart = ip
				stepValue = currentValue
			}
		}
	}
	return nil
}

func writeCSV(w io.Writer, regionExts []*RegionExt, regionsMapping map[string]string) error {
	for _, re := range regionExts {
		fprofile := fmt.Sprintf("%v", re.Coverage.Depth)
		if _, err := fmt.Fprintf(w, "%s,%d,%s\n", MapName(re.Name, regionsMapping), len(re.Coverage.Depth), strings.ReplaceAll(fprofile[1:len(fprofile)-1], " ", ",")); err != nil {
			return err
		}
	}
	return nil
}

// writeBinary writes version, total length, Adler-32 of the region lengths and the depths as little-endian uint32.
func writeBinary(w io.Writer, regionExts []*RegionExt) error {
	if err := binary.Write(w, binary.LittleEndian, binaryVersion); err != nil {
		return err
	}
	// Regions and total lengths
	var totalLength, l uint32
	bufChecksum := new(bytes.Buffer)
	for _, re := range regionExts {
		l = uint32(re.Length())
		if err := binary.Write(bufChecksum, binary.LittleEndian, l); err != nil {
			return err
		}
		totalLength += l
	}
	if err := binary.Write(w, binary.LittleEndian, totalLength); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, adler32.Checksum(bufChecksum.Bytes())); err != nil {
		return err
	}
	// Write profiles
	for _, re := range regionExts {
		depth := make([]uint32, len(re.Coverage.Depth))
		for ip, d := range re.Coverage.Depth {
			depth[ip] = uint32(d)
		}
		if err := binary.Write(w, binary.LittleEndian, depth); err != nil {
			return err
		}
	}
	return nil
}
