//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/biogo/hts/sam"
	"golang.org/x/sync/errgroup"
	"gopkg.in/fatih/set.v0"

	"git.sr.ht/~vejnar/CovAbacus/lib/aread"
	"git.sr.ht/~vejnar/CovAbacus/lib/coverage"
	"git.sr.ht/~vejnar/CovAbacus/lib/esam"
	"git.sr.ht/~vejnar/CovAbacus/lib/readindex"
	"git.sr.ht/~vejnar/CovAbacus/lib/region"
	"git.sr.ht/~vejnar/CovAbacus/lib/seqprop"
)

const batchLength = 100

// Packet holds the reads converted by a worker from one batch of records.
type Packet struct {
	Contigs     []string
	Reads       []*aread.AlignedRead
	Filtered    int
	Skipped     int
	Composition seqprop.Composition
}

func (p *Packet) add(contig string, a *aread.AlignedRead) {
	p.Contigs = append(p.Contigs, contig)
	p.Reads = append(p.Reads, a)
	p.Composition.Merge(seqprop.NewComposition(a.Reference()))
}

// AddCommas adds commas after every 3 characters.
func AddCommas(s string) string {
	if len(s) <= 3 {
		return s
	} else {
		return AddCommas(s[0:len(s)-3]) + "," + s[len(s)-3:]
	}
}

func Max(x, y int) int {
	if x > y {
		return x
	}
	return y
}

// readSAM sends batches of records of pathSAM to chAln.
func readSAM(ctx context.Context, pathSAM esam.PathSAM, SAMCmdIn []string, nWorker int, chAln chan<- []*sam.Record, nAlign *uint64, timeStart time.Time, verboseLevel int) error {
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Opening %s\n", timeNow.Sub(timeStart).Minutes(), pathSAM.Path)
	}
	f, pp, rr, err := esam.OpenSAM(pathSAM, SAMCmdIn, nWorker)
	if f != nil {
		defer f.Close()
	}
	if pp != nil {
		defer pp.Close()
	}
	if err != nil {
		return err
	}

	timeLog := time.Now()
	batch := make([]*sam.Record, 0, batchLength)
	for {
		r, err := rr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		batch = append(batch, r)
		if len(batch) == batchLength {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chAln <- batch:
			}
			batch = make([]*sam.Record, 0, batchLength)
		}
		*nAlign++

		if verboseLevel > 0 {
			timeNow := time.Now()
			if timeNow.Sub(timeLog).Minutes() > 1. {
				fmt.Printf("%.1fmin - %s align. - %.2f Ma/hr\n", timeNow.Sub(timeStart).Minutes(), AddCommas(strconv.FormatUint(*nAlign, 10)), (float64(*nAlign)/timeNow.Sub(timeStart).Hours())/1000000.)
				timeLog = timeNow
			}
		}
	}
	// Send last batch
	if len(batch) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chAln <- batch:
		}
	}
	return nil
}

// convert turns records into AlignedReads. Records that cannot be represented are skipped.
func convert(batch []*sam.Record, minMappingQuality byte, readNames set.Interface, verboseLevel int) *Packet {
	p := &Packet{}
	for _, r := range batch {
		if r.Ref == nil || !esam.Keep(r, minMappingQuality) {
			p.Filtered++
			continue
		}
		a, err := aread.FromRecord(r)
		if err != nil {
			p.Skipped++
			if verboseLevel > 1 {
				fmt.Printf("Skipping %s: %v\n", r.Name, err)
			}
			continue
		}
		readNames.Add(r.Name)
		p.add(r.Ref.Name(), a)
	}
	return p
}

func PConRegion(pathSAMs []esam.PathSAM, SAMCmdIn []string, regions []region.Region, regionsMapping map[string]string, minMappingQuality byte, opts coverage.Options, summaryPath string, profilePaths []string, profileFormats []string, appendOutput bool, pathReport string, nWorker int, timeStart time.Time, verboseLevel int) (nAlign uint64, err error) {
	// Workers
	nWorker1 := Max(1, int(nWorker/2.))
	nWorker2 := Max(1, nWorker-nWorker1)

	// Distinct read names
	readNames := set.New(set.ThreadSafe)

	// Start sync errgroup
	g, gctx := errgroup.WithContext(context.Background())

	// Start receiving channel
	chFinal := make(chan *Packet, nWorker*10)
	// Start alignment channel
	chAln := make(chan []*sam.Record, nWorker*10)

	g.Go(func() error {
		defer close(chAln)
		for _, pathSAM := range pathSAMs {
			if err := readSAM(gctx, pathSAM, SAMCmdIn, nWorker1, chAln, &nAlign, timeStart, verboseLevel); err != nil {
				return err
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	g.Go(func() error {
		defer close(chFinal)
		wg, wgctx := errgroup.WithContext(gctx)
		for i := 0; i < nWorker2; i++ {
			wg.Go(func() error {
				for batch := range chAln {
					p := convert(batch, minMappingQuality, readNames, verboseLevel)
					select {
					case <-wgctx.Done():
						return wgctx.Err()
					case chFinal <- p:
					}
				}
				return nil
			})
		}
		return wg.Wait()
	})

	// Combine converted reads into the index
	idx := readindex.New()
	var report Report
	var comp seqprop.Composition
	for p := range chFinal {
		for i, a := range p.Reads {
			if err = idx.Add(p.Contigs[i], a); err != nil {
				// Drain to let the pipeline stop
				for range chFinal {
				}
				g.Wait()
				return nAlign, err
			}
		}
		report.AlignFiltered += p.Filtered
		report.AlignSkipped += p.Skipped
		comp.Merge(p.Composition)
	}
	if err = g.Wait(); err != nil {
		return nAlign, err
	}
	report.AlignIndexed = idx.Len()
	report.ReadDistinct = readNames.Size()
	report.ReferenceGCContent = comp.GCContent
	if verboseLevel > 0 {
		timeNow := time.Now()
		fmt.Printf("%.1fmin - Indexed %s align. on %d contig(s), skipped %d, filtered %d\n", timeNow.Sub(timeStart).Minutes(), AddCommas(strconv.Itoa(idx.Len())), len(idx.Contigs()), report.AlignSkipped, report.AlignFiltered)
	}

	// Coverage
	covs, err := coverage.RunRegions(idx, region.Windows(regions), opts)
	if err != nil {
		return nAlign, err
	}
	regionExts, err := region.ExtendRegions(regions, covs)
	if err != nil {
		return nAlign, err
	}
	for _, re := range regionExts {
		report.PositionOutlier += int(re.Coverage.OutlierPositions().Count())
	}
	report.Region = len(regionExts)

	// Output: Summary
	if summaryPath != "" && !opts.SkipStats {
		if err = region.WriteSummaries(regionExts, regionsMapping, summaryPath, appendOutput); err != nil {
			return nAlign, err
		}
	}
	// Output: Profile
	for ip := 0; ip < len(profileFormats); ip++ {
		if verboseLevel > 0 {
			timeNow := time.Now()
			fmt.Printf("%.1fmin - Writing %s output in %s\n", timeNow.Sub(timeStart).Minutes(), profileFormats[ip], profilePaths[ip])
		}
		if err = region.WriteProfiles(regionExts, regionsMapping, profilePaths[ip], profileFormats[ip], appendOutput); err != nil {
			return nAlign, err
		}
	}
	// Output: Report
	if pathReport != "" {
		if err = WriteReport(pathReport, report); err != nil {
			return nAlign, err
		}
	}

	return nAlign, nil
}
