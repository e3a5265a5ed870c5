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

package mpstat

import (
	"bufio"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

const (
	clock12Layout = "03:04:05PM"
	clock24Layout = "15:04:05"
)

// ErrNoSamples is returned when a report holds no per core rows.
var ErrNoSamples = errors.New("no CPU samples found in mpstat report")

// Result is a parsed mpstat report.
type Result struct {
	Series measurement.CPUSeries
	// Mean and Stdev of the busy column.
	Mean  float64
	Stdev float64
	Cores int
}

type parser struct {
	intervals [][]float64
	current   []float64

	interval   time.Duration
	firstClock time.Time
}

func (p *parser) line(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.Contains(fields[0], "Average") || containsToken(fields, "CPU") {
		return nil
	}

	if containsToken(fields, "all") {
		if len(p.current) > 0 {
			p.intervals = append(p.intervals, p.current)
		}
		p.current = nil
	} else {
		idle, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return errors.Wrapf(err, "cannot read idle time of %q", line)
		}
		p.current = append(p.current, idle)
	}

	if p.interval != 0 {
		return nil
	}
	clock, err := parseClock(fields)
	if err != nil {
		return err
	}
	if len(p.intervals) == 0 {
		p.firstClock = clock
	}
	p.interval = clock.Sub(p.firstClock)
	if p.interval < 0 {
		// Sampling crossed midnight.
		p.interval += 24 * time.Hour
	}
	return nil
}

func containsToken(fields []string, token string) bool {
	for _, field := range fields {
		if strings.Contains(field, token) {
			return true
		}
	}
	return false
}

// parseClock reads the sample clock, "03:04:05 PM" first and then "15:04:05".
func parseClock(fields []string) (time.Time, error) {
	if len(fields) > 1 {
		if clock, err := time.Parse(clock12Layout, fields[0]+fields[1]); err == nil {
			return clock, nil
		}
	}
	clock, err := time.Parse(clock24Layout, fields[0])
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "cannot read sample clock %q", fields[0])
	}
	return clock, nil
}

func (p *parser) result() (Result, error) {
	if len(p.current) > 0 {
		p.intervals = append(p.intervals, p.current)
	}
	if len(p.intervals) == 0 {
		return Result{}, ErrNoSamples
	}

	cores := len(p.intervals[0])
	scale := math.Sqrt(float64(cores))
	series := make(measurement.CPUSeries, len(p.intervals))
	for k, idle := range p.intervals {
		if len(idle) != cores {
			return Result{}, errors.Errorf("interval %d has %d cores, expected %d", k, len(idle), cores)
		}
		busy := make(stats.Float64Data, cores)
		for i, value := range idle {
			busy[i] = (1 - value/100) / float64(cores)
		}
		total, _ := busy.Sum()
		stdev, _ := busy.StandardDeviationPopulation()
		series[k] = measurement.CPUPoint{
			Time:  float64(k) * p.interval.Seconds(),
			Busy:  total,
			Stdev: stdev * scale,
		}
	}

	column := make(stats.Float64Data, len(series))
	for k, point := range series {
		column[k] = point.Busy
	}
	mean, _ := column.Mean()
	stdev, _ := column.StandardDeviationPopulation()
	return Result{Series: series, Mean: mean, Stdev: stdev, Cores: cores}, nil
}

// Parse reads an "mpstat -P ALL" report.
func Parse(r io.Reader) (Result, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := p.line(scanner.Text()); err != nil {
			return Result{}, err
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, errors.Wrap(err, "cannot read mpstat report")
	}
	return p.result()
}

// File parses the mpstat report stored at path.
func File(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "cannot open mpstat report %q", path)
	}
	defer file.Close()
	return Parse(file)
}
