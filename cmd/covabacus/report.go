//
// Copyright (C) 2015-2021 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"encoding/json"
	"fmt"
	"os"
)

type Report struct {
	ReadDistinct       int     `json:"read_distinct"`
	AlignIndexed       int     `json:"align_indexed"`
	AlignFiltered      int     `json:"align_filtered"`
	AlignSkipped       int     `json:"align_skipped"`
	Region             int     `json:"region"`
	PositionOutlier    int     `json:"position_outlier"`
	ReferenceGCContent float64 `json:"reference_gc_content"`
}

func WriteReport(pathReport string, r Report) (err error) {
	report, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if pathReport != "-" {
		if f, err := os.Create(pathReport); err != nil {
			return err
		} else {
			f.Write(report)
			return f.Close()
		}
	} else {
		fmt.Println(string(report))
	}
	return nil
}
