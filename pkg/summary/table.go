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

package summary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/pkg/errors"
)

var humanUnitRegex = regexp.MustCompile(`BW\(([^)]*)\)\s*$`)

// Header returns the header of a bandwidth summary table.
func Header(printUnit string, unit RateUnit) string {
	return fmt.Sprintf("# TestOK %sSize(B) BW(b/s) Stdev(b/s) BW(%s)", printUnit, unit.Name)
}

// CPUHeader returns the header of a CPU summary table.
func CPUHeader(printUnit string) string {
	return fmt.Sprintf("# %sSize(B) Frac Stdev", printUnit)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", path)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return errors.Wrapf(err, "cannot write %q", path)
	}
	return file.Close()
}

// Write writes a bandwidth summary table.
func Write(w io.Writer, printUnit string, unit RateUnit, series Series) error {
	rows := make([][]float64, len(series))
	for i, row := range series {
		rows[i] = []float64{float64(row.OK), float64(row.Size), row.Rate, row.Stdev, row.HumanRate}
	}
	return measurement.WriteTable(w, Header(printUnit, unit), rows)
}

// Export writes a bandwidth summary table to path.
func Export(path, printUnit string, unit RateUnit, series Series) error {
	return writeFile(path, func(w io.Writer) error {
		return Write(w, printUnit, unit, series)
	})
}

// Read parses a bandwidth summary table. The unit of the human readable column is
// recovered from the header.
func Read(r io.Reader) (Series, RateUnit, error) {
	buffered := bufio.NewReader(r)
	header, err := buffered.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, RateUnit{}, errors.Wrap(err, "cannot read summary header")
	}
	unit := BitsPerSecond
	if match := humanUnitRegex.FindStringSubmatch(strings.TrimSpace(header)); match != nil {
		unit = unitByName(match[1])
	}

	rows, err := measurement.ReadTable(io.MultiReader(strings.NewReader(header), buffered), 5)
	if err != nil {
		return nil, RateUnit{}, err
	}
	series := make(Series, len(rows))
	for i, row := range rows {
		series[i] = Row{OK: int(row[0]), Size: int(row[1]), Rate: row[2], Stdev: row[3], HumanRate: row[4]}
	}
	return series, unit, nil
}

// ReadFile parses the bandwidth summary table stored at path.
func ReadFile(path string) (Series, RateUnit, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, RateUnit{}, errors.Wrapf(err, "cannot open summary %q", path)
	}
	defer file.Close()
	return Read(file)
}

func unitByName(name string) RateUnit {
	factor := 1.0
	for _, known := range rateUnits {
		if known == name {
			return RateUnit{Name: name, Factor: factor}
		}
		factor *= rateStep
	}
	return BitsPerSecond
}

// CPURow is the mean host CPU utilization during the run of one payload size.
type CPURow struct {
	Size  int
	Busy  float64
	Stdev float64
}

// CPUSeries is the CPU summary of one sweep.
type CPUSeries []CPURow

// ExportCPU writes a CPU summary table to path.
func ExportCPU(path, printUnit string, series CPUSeries) error {
	rows := make([][]float64, len(series))
	for i, row := range series {
		rows[i] = []float64{float64(row.Size), row.Busy, row.Stdev}
	}
	return writeFile(path, func(w io.Writer) error {
		return measurement.WriteTable(w, CPUHeader(printUnit), rows)
	})
}

// ReadCPUFile parses the CPU summary table stored at path.
func ReadCPUFile(path string) (CPUSeries, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open CPU summary %q", path)
	}
	defer file.Close()

	rows, err := measurement.ReadTable(file, 3)
	if err != nil {
		return nil, err
	}
	series := make(CPUSeries, len(rows))
	for i, row := range rows {
		series[i] = CPURow{Size: int(row[0]), Busy: row[1], Stdev: row[2]}
	}
	return series, nil
}
