// Copyright (c) 2017 Intel Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sweep

import (
	"fmt"
	"path/filepath"

	"github.com/daynix/NetMeter/pkg/workloads/iperf"
)

const rawDataDir = "raw-data"

// Directions of a sweep.
const (
	One2Two = "one2two"
	Two2One = "two2one"
)

// layout names the files of one sweep:
//  <export>/<timestamp>_<protocol>_<streams>_st/<common>.txt
//  <export>/<timestamp>_<protocol>_<streams>_st/raw-data/<common>_...
// where common is <protocol>_<streams>_st_<timestamp>.
type layout struct {
	topDir string
	common string
}

func newLayout(exportDir, timestamp string, protocol iperf.Protocol, streams int) layout {
	return layout{
		topDir: filepath.Join(exportDir, fmt.Sprintf("%s_%s_%d_st", timestamp, protocol, streams)),
		common: fmt.Sprintf("%s_%d_st_%s", protocol, streams, timestamp),
	}
}

func (l layout) rawDir() string {
	return filepath.Join(l.topDir, rawDataDir)
}

func (l layout) prefix() string {
	return filepath.Join(l.rawDir(), l.common)
}

// run is the prefix of the files of one payload size.
func (l layout) run(direction string, size int) string {
	return fmt.Sprintf("%s_%s_%05dB", l.prefix(), direction, size)
}

func (l layout) iperfSummary(direction string) string {
	return fmt.Sprintf("%s_%s_iperf_summary.dat", l.prefix(), direction)
}

func (l layout) mpstatSummary(direction string) string {
	return fmt.Sprintf("%s_%s_mpstat_summary.dat", l.prefix(), direction)
}

func (l layout) commandLog() string {
	return l.prefix() + "_iperf_commands.log"
}

func (l layout) report() string {
	return filepath.Join(l.topDir, l.common+".txt")
}
