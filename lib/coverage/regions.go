//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package coverage

import (
	"github.com/exascience/pargo/parallel"

	"git.sr.ht/~vejnar/CovAbacus/lib/aread"
)

// Window is a half-open interval of a contig.
type Window struct {
	Contig     string
	Start, End int
}

// Source gives the reads overlapping a window.
type Source interface {
	Fetch(contig string, start, end int) []*aread.AlignedRead
}

// RunRegions computes the coverage of each window, in parallel over windows.
// Results are in the order of windows.
func RunRegions(src Source, windows []Window, opts Options) ([]*Coverage, error) {
	covs := make([]*Coverage, len(windows))
	if len(windows) == 0 {
		return covs, nil
	}
	errs := make([]error, len(windows))
	n := opts.Workers
	if n < 0 {
		n = 0
	}
	parallel.Range(0, len(windows), n, func(low, high int) {
		for iw := low; iw < high; iw++ {
			w := windows[iw]
			covs[iw], errs[iw] = Run(src.Fetch(w.Contig, w.Start, w.End), w.Start, w.End, opts)
		}
	})
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return covs, nil
}
