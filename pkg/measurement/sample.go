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

// Sample is one interval report of one connection.
// ConnectionID <= 0 is reserved for tool level summary rows and never reaches the
// reconciler.
type Sample struct {
	// Time is the offset in seconds from the first accepted row of the run.
	Time         float64
	ConnectionID int
	Rate         Rate
}

// Point is one row of an aggregate bandwidth series.
type Point struct {
	Time  float64
	Sum   Rate
	Stdev Rate
}

// Series is the per repetition aggregate over all connections of a run.
type Series []Point

// Sums returns the summed rate column.
func (s Series) Sums() []Rate {
	sums := make([]Rate, len(s))
	for i, point := range s {
		sums[i] = point.Sum
	}
	return sums
}

// PresentCount returns the number of rows with a summed rate.
func (s Series) PresentCount() int {
	count := 0
	for _, point := range s {
		if point.Sum.Present() {
			count++
		}
	}
	return count
}

// CPUPoint is one sampling interval of host CPU utilization.
type CPUPoint struct {
	Time float64
	// Busy is the busy time fraction of the whole host, in [0, 1].
	Busy  float64
	Stdev float64
}

// CPUSeries is a CPU utilization time series.
type CPUSeries []CPUPoint
