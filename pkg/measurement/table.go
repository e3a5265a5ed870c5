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

package measurement

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SeriesHeader is the header line of processed bandwidth and CPU tables.
const SeriesHeader = "# TimeStamp(s) Sum Stdev"

// FormatFloat renders a table cell. Missing values are written as "nan".
func FormatFloat(value float64) string {
	if math.IsNaN(value) {
		return "nan"
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// WriteTable writes a whitespace delimited numeric table with a one line header.
func WriteTable(w io.Writer, header string, rows [][]float64) error {
	buffered := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(buffered, header); err != nil {
		return err
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, value := range row {
			cells[i] = FormatFloat(value)
		}
		if _, err := fmt.Fprintln(buffered, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return buffered.Flush()
}

// ReadTable reads a table written by WriteTable. Lines starting with '#' are skipped.
// Every row must have exactly columns fields.
func ReadTable(r io.Reader, columns int) ([][]float64, error) {
	rows := [][]float64{}
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != columns {
			return nil, errors.Errorf("line %d: expected %d columns but got %d", lineNumber, columns, len(fields))
		}

		row := make([]float64, columns)
		for i, field := range fields {
			value, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "line %d: column %d is not a number", lineNumber, i+1)
			}
			row[i] = value
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func writeTableFile(path, header string, rows [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "cannot create %q", path)
	}
	defer file.Close()

	if err := WriteTable(file, header, rows); err != nil {
		return errors.Wrapf(err, "cannot write %q", path)
	}
	return file.Close()
}

// ExportSeries writes a bandwidth series to path.
func ExportSeries(path string, series Series) error {
	rows := make([][]float64, len(series))
	for i, point := range series {
		rows[i] = []float64{point.Time, point.Sum.Float(), point.Stdev.Float()}
	}
	return writeTableFile(path, SeriesHeader, rows)
}

// ReadSeries parses a bandwidth series table.
func ReadSeries(r io.Reader) (Series, error) {
	rows, err := ReadTable(r, 3)
	if err != nil {
		return nil, err
	}

	series := make(Series, len(rows))
	for i, row := range rows {
		series[i] = Point{Time: row[0], Sum: RateFromFloat(row[1]), Stdev: RateFromFloat(row[2])}
	}
	return series, nil
}

// ExportCPUSeries writes a CPU utilization series to path.
func ExportCPUSeries(path string, series CPUSeries) error {
	rows := make([][]float64, len(series))
	for i, point := range series {
		rows[i] = []float64{point.Time, point.Busy, point.Stdev}
	}
	return writeTableFile(path, SeriesHeader, rows)
}
