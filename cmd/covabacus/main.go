//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"git.sr.ht/~vejnar/CovAbacus/lib/coverage"
	"git.sr.ht/~vejnar/CovAbacus/lib/esam"
	"git.sr.ht/~vejnar/CovAbacus/lib/region"
)

var version = "DEV"

func main() {
	// Arguments: General
	var pathReport string
	var nWorker, verboseLevel int
	var appendOutput, verbose, printVersion bool
	flag.StringVar(&pathReport, "path_report", "", "Write report to path (stdout with -)")
	flag.IntVar(&nWorker, "num_worker", 1, "Number of worker(s)")
	flag.IntVar(&verboseLevel, "verbose_level", 0, "Verbose level")
	flag.BoolVar(&appendOutput, "append", false, "Append to output summary and profile (default create)")
	flag.BoolVar(&verbose, "verbose", false, "Verbose")
	flag.BoolVar(&printVersion, "version", false, "Print version and quit")
	// Arguments: Input
	var pathSAMsRaw, pathBAMsRaw, rawSAMCmdIn, pathRegions, formatRegions string
	var splitLength int
	flag.StringVar(&pathSAMsRaw, "path_sam", "", "Path to SAM file(s) (comma separated)")
	flag.StringVar(&pathBAMsRaw, "path_bam", "", "Path to BAM file(s) (comma separated)")
	flag.StringVar(&rawSAMCmdIn, "sam_command_in", "", "Command line to execute for opening each of the SAM file (comma separated)")
	flag.StringVar(&pathRegions, "path_regions", "", "Path to regions file")
	flag.StringVar(&formatRegions, "format_regions", "tab", "Format of regions file: 'tab' (contig and length) or 'bed'")
	flag.IntVar(&splitLength, "split_length", 0, "Split regions in consecutive regions of this length (0 to disable)")
	// Arguments: Read selection
	var minMappingQualityRaw int
	flag.IntVar(&minMappingQualityRaw, "read_min_mapping_quality", 0, "Minimum read mapping quality")
	// Arguments: Coverage
	var maxCoverage int
	var skipStats bool
	flag.IntVar(&maxCoverage, "max_coverage", 0, "Maximum depth reported at any position (0 for no limit)")
	flag.BoolVar(&skipStats, "skip_stats", false, "Skip coverage summary statistics")
	// Arguments: Output
	var pathMapping, profilePathsRaw, profileFormatsRaw, summaryPath string
	flag.StringVar(&pathMapping, "path_mapping", "", "Path to region name(s) mapping (tabulated file)")
	flag.StringVar(&profilePathsRaw, "profile_paths", "", "Path to profile output(s) (comma separated)")
	flag.StringVar(&profileFormatsRaw, "profile_formats", "bedgraph", "Profile output format: 'bedgraph', 'binary' or 'csv', optionally compressed with '+lz4', '+lz4hc' or '+gz' (comma separated)")
	flag.StringVar(&summaryPath, "summary_path", "summary.csv", "Path to coverage summary output")
	// Arguments: Parse
	flag.Parse()

	// Version
	if printVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Verbose
	if verbose && verboseLevel == 0 {
		verboseLevel = 1
	}

	// Max CPU
	runtime.GOMAXPROCS(nWorker * 2)

	// Time start
	var timeStart time.Time
	if verboseLevel > 0 {
		timeStart = time.Now()
	}

	// Check arguments
	if len(pathRegions) == 0 {
		log.Fatal("No region input")
	} else if _, err := os.Stat(pathRegions); os.IsNotExist(err) {
		log.Fatalln(pathRegions, "not found")
	}

	// Parse raw arguments
	// pathSAMs
	var pathSAMs []esam.PathSAM
	var SAMCmdIn []string
	if len(pathSAMsRaw) > 0 {
		for _, p := range strings.Split(pathSAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			} else {
				pathSAMs = append(pathSAMs, esam.PathSAM{Path: p, Binary: false})
			}
		}
		if len(rawSAMCmdIn) > 0 {
			SAMCmdIn = strings.Split(rawSAMCmdIn, ",")
		}
	}
	if len(pathBAMsRaw) > 0 {
		for _, p := range strings.Split(pathBAMsRaw, ",") {
			if _, err := os.Stat(p); os.IsNotExist(err) {
				log.Fatalln(p, "not found")
			} else {
				pathSAMs = append(pathSAMs, esam.PathSAM{Path: p, Binary: true})
			}
		}
	}
	if len(pathSAMs) == 0 {
		log.Fatal("No SAM/BAM input")
	}
	// minMappingQuality
	if minMappingQualityRaw < 0 || minMappingQualityRaw > 255 {
		log.Fatalln("Mapping quality out of range:", minMappingQualityRaw)
	}
	minMappingQuality := byte(minMappingQualityRaw)
	// profilePaths & profileFormats
	var profilePaths, profileFormats []string
	if len(profilePathsRaw) > 0 {
		profilePaths = strings.Split(profilePathsRaw, ",")
		profileFormats = strings.Split(profileFormatsRaw, ",")
		if len(profilePaths) != len(profileFormats) {
			log.Fatal("Number of profile paths and formats differ")
		}
	}

	// Open regions
	var regions []region.Region
	var err error
	switch strings.ToLower(formatRegions) {
	case "tab":
		regions, err = region.OpenTAB(pathRegions)
	case "bed":
		regions, err = region.OpenBED(pathRegions)
	default:
		err = fmt.Errorf("Unknown region format %s", formatRegions)
	}
	if err != nil {
		log.Fatal(err)
	}
	sort.Stable(region.ByPosition(regions))
	if splitLength > 0 {
		regions = region.Split(regions, splitLength)
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Split into %d regions of %d nt\n", timeNow.Sub(timeStart).Minutes(), len(regions), splitLength)
		}
	}

	// Open region mapping
	var regionsMapping map[string]string
	if pathMapping != "" {
		regionsMapping, err = region.OpenMapping(pathMapping)
		if err != nil {
			log.Fatal(err)
		}
	}

	// Coverage of alignments on regions
	opts := coverage.Options{MaxCoverage: maxCoverage, SkipStats: skipStats, Workers: nWorker}
	nAlign, err := PConRegion(pathSAMs, SAMCmdIn, regions, regionsMapping, minMappingQuality, opts, summaryPath, profilePaths, profileFormats, appendOutput, pathReport, nWorker, timeStart, verboseLevel)
	if err != nil {
		log.Fatal(err)
	}

	// Verbose
	if verboseLevel > 0 {
		timeEnd := time.Now()
		fmt.Printf("%.1fmin - Done %d align.\n", timeEnd.Sub(timeStart).Minutes(), nAlign)
	}
}
