//
// Copyright © 2015 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package esam

import (
	"io"
	"os"
	"os/exec"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// PathSAM stores Path to SAM (Binary=false) or BAM (Binary=true) file.
type PathSAM struct {
	Path   string
	Binary bool
}

// OpenSAM opens a SAM or BAM reader. SAM input can be piped from cmd when set.
// The returned file and pipe must be closed by the caller when not nil.
func OpenSAM(pathSAM PathSAM, cmd []string, nWorker int) (f *os.File, pp io.ReadCloser, rr sam.RecordReader, err error) {
	if pathSAM.Binary {
		f, err = os.Open(pathSAM.Path)
		if err != nil {
			return f, pp, rr, err
		}
		rr, err = bam.NewReader(f, nWorker)
	} else {
		if len(cmd) == 0 {
			f, err = os.Open(pathSAM.Path)
			if err != nil {
				return f, pp, rr, err
			}
			rr, err = sam.NewReader(f)
		} else {
			cmd = append(append([]string{}, cmd...), pathSAM.Path)
			p := exec.Command(cmd[0], cmd[1:]...)
			if pp, err = p.StdoutPipe(); err != nil {
				return f, pp, rr, err
			}
			if err = p.Start(); err != nil {
				return f, pp, rr, err
			}
			rr, err = sam.NewReader(pp)
		}
	}
	return f, pp, rr, err
}

// Keep reports whether a record is a mapped primary alignment with at least minMappingQuality.
func Keep(r *sam.Record, minMappingQuality byte) bool {
	if r.Flags&(sam.Unmapped|sam.Secondary|sam.Supplementary) != 0 {
		return false
	}
	return r.MapQ >= minMappingQuality
}
