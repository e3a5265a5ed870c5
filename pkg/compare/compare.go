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

package compare

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/daynix/NetMeter/pkg/utils/fs"
	"github.com/daynix/NetMeter/pkg/visualization"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Side is one direction of one result directory.
type Side struct {
	Found  bool
	Series summary.Series
	CPU    summary.CPUSeries
}

func loadSide(results Results, direction string) (Side, error) {
	path := results.Iperf(direction)
	if path == "" {
		return Side{}, nil
	}
	series, _, err := summary.ReadFile(path)
	if err != nil {
		return Side{}, err
	}
	side := Side{Found: true, Series: series}

	if cpuPath := results.Mpstat(direction); cpuPath != "" {
		if side.CPU, err = summary.ReadCPUFile(cpuPath); err != nil {
			return Side{}, err
		}
	}
	return side, nil
}

// Block compares one direction.
type Block struct {
	Title string
	Old   Side
	New   Side
}

// Unit is the rate unit fitting the highest rate on either side.
func (b Block) Unit() summary.RateUnit {
	return summary.RateUnitFor(math.Max(b.Old.Series.Max(), b.New.Series.Max()))
}

// Comparison of an old and a new result directory.
type Comparison struct {
	Old      Results
	New      Results
	DataUnit string
	Blocks   []Block
}

// New loads the summaries of both directories.
func New(oldDir, newDir string) (Comparison, error) {
	older, err := Find(oldDir)
	if err != nil {
		return Comparison{}, err
	}
	newer, err := Find(newDir)
	if err != nil {
		return Comparison{}, err
	}

	comparison := Comparison{Old: older, New: newer, DataUnit: DataUnit(older.Protocol, newer.Protocol)}
	for _, direction := range directions {
		block := Block{Title: direction.title}
		if block.Old, err = loadSide(older, direction.name); err != nil {
			return Comparison{}, err
		}
		if block.New, err = loadSide(newer, direction.name); err != nil {
			return Comparison{}, err
		}
		comparison.Blocks = append(comparison.Blocks, block)
	}
	return comparison, nil
}

func describe(label string, results Results) string {
	if results.Protocol == "" {
		return fmt.Sprintf("%s: %s", label, results.Dir)
	}
	return fmt.Sprintf("%s: %s (%s, %s streams)", label, results.Dir, results.Protocol, results.Streams)
}

func writeBlock(w io.Writer, dataUnit string, block Block) {
	fmt.Fprintf(w, "\n%s\n", block.Title)
	if !block.New.Found || !block.Old.Found {
		if !block.New.Found {
			fmt.Fprintf(w, "No new %s results found\n", block.Title)
		}
		if !block.Old.Found {
			fmt.Fprintf(w, "No old %s results found\n", block.Title)
		}
		return
	}

	unit := block.Unit()
	visualization.DrawTable(w, visualization.CompareTable(dataUnit, unit,
		block.Old.Series, block.New.Series, block.Old.CPU, block.New.CPU))
	fmt.Fprintf(w, "Status: old %s, new %s\n", block.Old.Series.Status(), block.New.Series.Status())
}

// Write renders the comparison as text tables.
func (c Comparison) Write(w io.Writer) error {
	buffer := &bytes.Buffer{}
	fmt.Fprintln(buffer, describe("Old", c.Old))
	fmt.Fprintln(buffer, describe("New", c.New))
	for _, block := range c.Blocks {
		writeBlock(buffer, c.DataUnit, block)
	}
	_, err := buffer.WriteTo(w)
	return errors.Wrap(err, "cannot write comparison")
}

// Export writes the comparison to path.
func (c Comparison) Export(path string) error {
	buffer := &bytes.Buffer{}
	if err := c.Write(buffer); err != nil {
		return err
	}
	return errors.Wrapf(ioutil.WriteFile(path, buffer.Bytes(), 0644), "cannot export comparison to %q", path)
}

// ExpandDirs resolves every pattern to its first match. Patterns without a match are
// kept as they are.
func ExpandDirs(patterns []string) []string {
	dirs := make([]string, len(patterns))
	for i, pattern := range patterns {
		dirs[i] = pattern
		if matches, err := filepath.Glob(pattern); err == nil && len(matches) > 0 {
			dirs[i] = matches[0]
		}
	}
	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Run compares every old directory with the new one at the same position and writes
// one comparison per pair to outDir. The written paths are returned.
func Run(oldDirs, newDirs []string, outDir string, now time.Time) ([]string, error) {
	if len(oldDirs) != len(newDirs) {
		return nil, errors.New("the number of old directories must be equal to the number of new ones")
	}
	for i := range oldDirs {
		for _, dir := range []string{oldDirs[i], newDirs[i]} {
			if !isDir(dir) {
				return nil, errors.Errorf("directory %q does not exist", dir)
			}
		}
	}
	if err := fs.CreateDir(outDir); err != nil {
		return nil, errors.Wrapf(err, "the output directory %q could not be created", outDir)
	}
	log.Infof("The output directory is: %s", outDir)

	rundate := now.Format("2006_01_02_15-04-05")
	written := []string{}
	for i := range oldDirs {
		comparison, err := New(oldDirs[i], newDirs[i])
		if err != nil {
			return written, err
		}
		path := filepath.Join(outDir, fmt.Sprintf("%s_comp_%04d.txt", rundate, i+1))
		if err := comparison.Export(path); err != nil {
			return written, err
		}
		log.Infof("Comparison of %s and %s written to %s", oldDirs[i], newDirs[i], path)
		written = append(written, path)
	}
	return written, nil
}
