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
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

// FaultState classifies how trustworthy the aggregate of a run is.
type FaultState int

const (
	// OK means every connection reported exactly the expected number of intervals.
	OK FaultState = iota
	// TooFew means at least one connection reported fewer intervals than expected.
	// The aggregate is shortened to the shortest connection.
	TooFew
	// TooMany means at least one connection reported more intervals than expected.
	// The earliest excess intervals were dropped.
	TooMany
	// NothingReceived means no usable row reached the server.
	NothingReceived
)

func (f FaultState) String() string {
	switch f {
	case OK:
		return "ok"
	case TooFew:
		return "too_few"
	case TooMany:
		return "too_many"
	case NothingReceived:
		return "nothing_received"
	}
	return fmt.Sprintf("fault(%d)", int(f))
}

// ErrNothingReceived is returned when a run produced no accepted samples.
var ErrNothingReceived = errors.New("nothing reached the server")

// StreamCountError is returned when the number of distinct connections differs from
// the requested stream count. The run is not retried.
type StreamCountError struct {
	Received int
	Expected int
}

func (e *StreamCountError) Error() string {
	if e.Received < e.Expected {
		return fmt.Sprintf("%d out of %d streams reached the server", e.Received, e.Expected)
	}
	return fmt.Sprintf("%d connections reached the server (%d expected)", e.Received, e.Expected)
}

// Result of reconciling one run.
type Result struct {
	Series Series
	// Mean and Stdev are taken over the summed rate column, missing rows skipped.
	Mean  Rate
	Stdev Rate
	Fault FaultState
	// Connections is the number of distinct connections observed.
	Connections int
	// Repetitions is the effective number of intervals per connection.
	Repetitions int
	// Blocks holds the retained samples of every connection, id ordered.
	Blocks [][]Sample
}

// Reconcile groups samples by connection, trims all connections to a common number of
// intervals and aggregates them per interval index.
func Reconcile(samples []Sample, streams, repetitions int) (Result, error) {
	if streams < 1 || repetitions < 1 {
		return Result{}, errors.Errorf("invalid reconciliation target: %d streams, %d repetitions", streams, repetitions)
	}
	if len(samples) == 0 {
		return Result{}, ErrNothingReceived
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ConnectionID != sorted[j].ConnectionID {
			return sorted[i].ConnectionID < sorted[j].ConnectionID
		}
		return sorted[i].Time < sorted[j].Time
	})

	blocks := partition(sorted)
	if len(blocks) != streams {
		return Result{}, &StreamCountError{Received: len(blocks), Expected: streams}
	}

	reached := len(blocks[0])
	for _, block := range blocks[1:] {
		if len(block) < reached {
			reached = len(block)
		}
	}

	fault := OK
	target := repetitions
	if reached < target {
		fault = TooFew
		target = reached
		for i := range blocks {
			blocks[i] = blocks[i][:target]
		}
	}

	for i, block := range blocks {
		if excess := len(block) - target; excess > 0 {
			blocks[i] = block[excess:]
			if fault == OK {
				fault = TooMany
			}
		}
	}

	series := aggregate(blocks, target)
	sums := series.Sums()
	return Result{
		Series:      series,
		Mean:        MaskedMean(sums),
		Stdev:       MaskedStdev(sums),
		Fault:       fault,
		Connections: len(blocks),
		Repetitions: target,
		Blocks:      blocks,
	}, nil
}

// partition splits id sorted samples at every change of connection id.
func partition(sorted []Sample) [][]Sample {
	blocks := [][]Sample{}
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].ConnectionID != sorted[start].ConnectionID {
			blocks = append(blocks, sorted[start:i:i])
			start = i
		}
	}
	return blocks
}

func aggregate(blocks [][]Sample, repetitions int) Series {
	connections := len(blocks)
	scale := math.Sqrt(float64(connections))
	series := make(Series, repetitions)

	times := make([]float64, connections)
	rates := make([]Rate, connections)
	for k := 0; k < repetitions; k++ {
		for c, block := range blocks {
			times[c] = block[k].Time
			rates[c] = block[k].Rate
		}

		var timeSum float64
		for _, t := range times {
			timeSum += t
		}

		stdev := MaskedStdev(rates)
		if v, ok := stdev.Value(); ok {
			stdev = Some(v * scale)
		}

		series[k] = Point{
			Time:  timeSum / float64(connections),
			Sum:   MaskedSum(rates),
			Stdev: stdev,
		}
	}
	return series
}
