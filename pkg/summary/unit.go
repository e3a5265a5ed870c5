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
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	rateStep = 1000.0
	sizeStep = 1024.0
)

var (
	rateUnits = []string{"b/s", "Kb/s", "Mb/s", "Gb/s", "Tb/s"}
	sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}
)

// RateUnit is a decimal scale of bits per second.
type RateUnit struct {
	Name   string
	Factor float64
}

// BitsPerSecond is the unit rates are measured in.
var BitsPerSecond = RateUnit{Name: "b/s", Factor: 1}

// RateUnitFor picks the largest unit in which rate is at least one.
func RateUnitFor(rate float64) RateUnit {
	factor := 1.0
	for i, name := range rateUnits {
		if rate < rateStep || i == len(rateUnits)-1 {
			return RateUnit{Name: name, Factor: factor}
		}
		rate /= rateStep
		factor *= rateStep
	}
	return BitsPerSecond
}

// ResolveUnit returns the unit fixed by an earlier measurement. Until then it fixes the
// unit from the first positive rate; nil means no unit is fixed yet.
func ResolveUnit(fixed *RateUnit, rate float64) *RateUnit {
	if fixed != nil {
		return fixed
	}
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	unit := RateUnitFor(rate)
	return &unit
}

// Humanize expresses rate in the unit, rounded to three decimals.
func (u RateUnit) Humanize(rate float64) float64 {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return rate
	}
	factor := u.Factor
	if factor == 0 {
		factor = 1
	}
	human, _ := decimal.NewFromFloat(rate).Div(decimal.NewFromFloat(factor)).Round(3).Float64()
	return human
}

// HumanSize renders a byte count with binary prefixes, e.g. "64KB" or "64 KB".
func HumanSize(size int, gap bool) string {
	value := float64(size)
	unit := sizeUnits[0]
	for _, next := range sizeUnits[1:] {
		if value < sizeStep {
			break
		}
		value /= sizeStep
		unit = next
	}
	separator := ""
	if gap {
		separator = " "
	}
	return fmt.Sprintf("%d%s%s", int(math.Round(value)), separator, unit)
}
