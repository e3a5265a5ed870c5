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
	"math"

	"github.com/montanaflynn/stats"
)

// Rate is a bandwidth value in bits per second which may be missing.
// A missing rate means the connection reported an explicit error interval; it keeps
// its position in a series but takes no part in arithmetic.
type Rate struct {
	value   float64
	present bool
}

// Some returns a present Rate.
func Some(value float64) Rate {
	return Rate{value: value, present: true}
}

// Missing returns a Rate without value.
func Missing() Rate {
	return Rate{}
}

// Present reports whether the rate carries a value.
func (r Rate) Present() bool {
	return r.present
}

// Value returns the rate and whether it is present.
func (r Rate) Value() (float64, bool) {
	return r.value, r.present
}

// Float returns the rate or NaN when missing. Only for output formatting.
func (r Rate) Float() float64 {
	if !r.present {
		return math.NaN()
	}
	return r.value
}

// OrZero returns the rate or 0 when missing.
func (r Rate) OrZero() float64 {
	if !r.present {
		return 0
	}
	return r.value
}

// RateFromFloat converts a float to a Rate, NaN becomes missing.
func RateFromFloat(value float64) Rate {
	if math.IsNaN(value) {
		return Missing()
	}
	return Some(value)
}

func presentValues(rates []Rate) stats.Float64Data {
	values := make(stats.Float64Data, 0, len(rates))
	for _, rate := range rates {
		if v, ok := rate.Value(); ok {
			values = append(values, v)
		}
	}
	return values
}

// MaskedSum sums present rates. It is missing only when every rate is missing.
func MaskedSum(rates []Rate) Rate {
	values := presentValues(rates)
	if len(values) == 0 {
		return Missing()
	}
	sum, _ := stats.Sum(values)
	return Some(sum)
}

// MaskedMean averages present rates.
func MaskedMean(rates []Rate) Rate {
	values := presentValues(rates)
	if len(values) == 0 {
		return Missing()
	}
	mean, _ := stats.Mean(values)
	return Some(mean)
}

// MaskedStdev returns the population standard deviation of present rates.
func MaskedStdev(rates []Rate) Rate {
	values := presentValues(rates)
	if len(values) == 0 {
		return Missing()
	}
	stdev, _ := stats.StandardDeviationPopulation(values)
	return Some(stdev)
}
