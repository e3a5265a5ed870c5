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

// Package summary folds the runs of one sweep, one per payload size, into a summary
// series and reads and writes the summary tables.
package summary

import (
	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/montanaflynn/stats"
)

// Flag values of Row.OK.
const (
	// Passed means every interval of a finished run was measured without fault.
	Passed = 1
	// Approximate means the run finished with faults or only part of its intervals.
	Approximate = 0
	// Failed means no interval was measured.
	Failed = -1
)

// Row summarizes the run of one payload size.
type Row struct {
	OK    int
	Size  int
	Rate  float64
	Stdev float64
	// HumanRate is Rate expressed in the sweep RateUnit.
	HumanRate float64
}

// FailedRow is recorded for a size whose run produced no series at all.
func FailedRow(size int) Row {
	return Row{OK: Failed, Size: size}
}

// OKFlag reduces a run to its row flag. finished tells whether the client exited on
// its own and fault is the reconciliation outcome.
func OKFlag(finished bool, fault measurement.FaultState, series measurement.Series) int {
	present := series.PresentCount()
	switch {
	case present == 0:
		return Failed
	case finished && fault == measurement.OK && present == len(series):
		return Passed
	}
	return Approximate
}

// NewRow builds the row of a reconciled run. The human readable rate uses unit.
func NewRow(size int, finished bool, result measurement.Result, unit RateUnit) Row {
	row := Row{
		OK:    OKFlag(finished, result.Fault, result.Series),
		Size:  size,
		Rate:  result.Mean.OrZero(),
		Stdev: result.Stdev.OrZero(),
	}
	row.HumanRate = unit.Humanize(row.Rate)
	return row
}

// Series is the summary of one sweep in execution order.
type Series []Row

// Mean averages the rates of the rows that measured anything. Failed sizes carry a zero
// rate and would otherwise drag the sweep average down.
func (s Series) Mean() (float64, bool) {
	rates := stats.Float64Data{}
	for _, row := range s {
		if row.Rate != 0 {
			rates = append(rates, row.Rate)
		}
	}
	mean, err := rates.Mean()
	if err != nil {
		return 0, false
	}
	return mean, true
}

// Passed returns the row flags.
func (s Series) Passed() []int {
	flags := make([]int, len(s))
	for i, row := range s {
		flags[i] = row.OK
	}
	return flags
}

// AnyMeasured tells whether at least one size has a rate.
func (s Series) AnyMeasured() bool {
	_, ok := s.Mean()
	return ok
}

// Status classifies a whole sweep.
type Status int

const (
	// NoneOK means no size passed.
	NoneOK Status = iota
	// SomeOK means some sizes passed.
	SomeOK
	// AllOK means every size that was not a failure passed.
	AllOK
)

func (s Status) String() string {
	switch s {
	case AllOK:
		return "all_OK"
	case SomeOK:
		return "some_OK"
	}
	return "none_OK"
}

// Status classifies the sweep from the flags of the sizes that did not fail.
func (s Series) Status() Status {
	considered, passed := 0, 0
	for _, row := range s {
		if row.OK < 0 {
			continue
		}
		considered++
		if row.OK == Passed {
			passed++
		}
	}
	switch {
	case considered > 0 && passed == considered:
		return AllOK
	case passed > 0:
		return SomeOK
	}
	return NoneOK
}

// Max returns the highest rate of the sweep.
func (s Series) Max() float64 {
	var max float64
	for _, row := range s {
		if row.Rate > max {
			max = row.Rate
		}
	}
	return max
}
