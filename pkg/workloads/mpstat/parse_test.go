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
	"math"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

const report12h = `Linux 6.1.0-13-amd64 (bench-host) 	10/17/2026 	_x86_64_	(2 CPU)

12:00:00 PM  CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
12:00:10 PM  all   25.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   75.00
12:00:10 PM    0   50.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   50.00
12:00:10 PM    1    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00  100.00

12:00:10 PM  CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
12:00:20 PM  all   50.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   50.00
12:00:20 PM    0  100.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00
12:00:20 PM    1    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00  100.00

12:00:20 PM  CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
12:00:30 PM  all  100.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00
12:00:30 PM    0  100.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00
12:00:30 PM    1  100.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00

Average:     CPU    %usr   %nice    %sys %iowait    %irq   %soft  %steal  %guest  %gnice   %idle
Average:     all   58.33    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   41.67
Average:       0   83.33    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   16.67
Average:       1   33.33    0.00    0.00    0.00    0.00    0.00    0.00    0.00    0.00   66.67
`

const report24h = `Linux 6.1.0-13-amd64 (bench-host) 	10/17/2026 	_x86_64_	(1 CPU)

23:59:50     CPU    %usr   %idle
23:59:55     all   20.00   80.00
23:59:55       0   20.00   80.00
00:00:00     all   40.00   60.00
00:00:00       0   40.00   60.00
`

func TestParse(t *testing.T) {
	Convey("When a 12 hour clock report of two cores is parsed", t, func() {
		result, err := Parse(strings.NewReader(report12h))
		So(err, ShouldBeNil)

		Convey("Every interval becomes one row spaced by the sampling interval", func() {
			So(result.Cores, ShouldEqual, 2)
			So(result.Series, ShouldHaveLength, 3)
			So(result.Series[0].Time, ShouldEqual, 0)
			So(result.Series[1].Time, ShouldEqual, 10)
			So(result.Series[2].Time, ShouldEqual, 20)
		})

		Convey("Busy fractions are normalized by the core count", func() {
			So(result.Series[0].Busy, ShouldAlmostEqual, 0.25)
			So(result.Series[1].Busy, ShouldAlmostEqual, 0.5)
			So(result.Series[2].Busy, ShouldAlmostEqual, 1.0)
			So(result.Series[0].Stdev, ShouldAlmostEqual, 0.125*math.Sqrt(2))
			So(result.Series[2].Stdev, ShouldAlmostEqual, 0)
		})

		Convey("Average rows are ignored and the busy column is summarized", func() {
			So(result.Mean, ShouldAlmostEqual, 1.75/3)
			So(result.Stdev, ShouldBeGreaterThan, 0)
		})
	})

	Convey("When a 24 hour clock report crosses midnight", t, func() {
		result, err := Parse(strings.NewReader(report24h))
		So(err, ShouldBeNil)
		So(result.Series, ShouldHaveLength, 2)
		So(result.Series[1].Time, ShouldEqual, 5)
		So(result.Series[1].Busy, ShouldAlmostEqual, 0.4)
	})

	Convey("When the report is empty", t, func() {
		_, err := Parse(strings.NewReader(""))
		So(err, ShouldEqual, ErrNoSamples)
	})

	Convey("When the idle column is not a number", t, func() {
		_, err := Parse(strings.NewReader("12:00:10 PM 0 50.00 lots\n"))
		So(err, ShouldNotBeNil)
	})

	Convey("Arguments sample all cores", t, func() {
		So(strings.Join(Args(10*time.Second, 30), " "), ShouldEqual, "-P ALL 10 30")
	})
}
