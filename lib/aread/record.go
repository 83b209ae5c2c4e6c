//
// Copyright (C) 2015-2022 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package aread

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"git.sr.ht/~vejnar/CovAbacus/lib/esam"
)

// FromRecord builds an AlignedRead from a SAM record. The reference bases
// come from the MD tag when present (see esam.ReferenceBases).
func FromRecord(r *sam.Record) (*AlignedRead, error) {
	if _, _, err := Lengths(r.Cigar); err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	ref, err := esam.ReferenceBases(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAlignment, err)
	}
	a, err := New(r.Cigar, r.Seq.Expand(), ref, r.Start(), r.End())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}
	return a, nil
}
