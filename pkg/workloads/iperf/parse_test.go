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

package iperf

import (
	"bytes"
	"io/ioutil"
	"os"
	"path"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const tcpReport = `------------------------------------------------------------
Server listening on TCP port 5001
TCP window size: 85.3 KByte (default)
------------------------------------------------------------
20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000
20261017120010,10.0.0.2,5001,10.0.0.1,40002,5,0.0-10.0,312500000,250000000
20261017120020,10.0.0.2,5001,10.0.0.1,40001,4,10.0-20.0,312500000,250000000
20261017120020,10.0.0.2,5001,10.0.0.1,40002,5,10.0-20.0,-1,250000000
20261017120030,10.0.0.2,5001,10.0.0.1,40001,4,20.0-30.0,312500000,250000000
20261017120030,10.0.0.2,5001,10.0.0.1,40002,5,20.0-30.0,312500000,250000000
20261017120031,10.0.0.2,5001,10.0.0.1,40002,5,0.0-30.1,937500000,249169435
20261017120031,10.0.0.2,5001,10.0.0.1,0,-1,0.0-30.1,1875000000,498338870
`

func TestParseTCP(t *testing.T) {
	Convey("When a TCP server report is parsed", t, func() {
		samples, err := Parse(strings.NewReader(tcpReport), TCP, 3)
		So(err, ShouldBeNil)

		Convey("Only per connection interval rows are kept", func() {
			So(samples, ShouldHaveLength, 6)
			for _, sample := range samples {
				So(sample.ConnectionID, ShouldBeIn, []int{4, 5})
			}
		})

		Convey("Time is measured from the first accepted row", func() {
			So(samples[0].Time, ShouldEqual, 0)
			So(samples[2].Time, ShouldEqual, 10)
			So(samples[5].Time, ShouldEqual, 20)
		})

		Convey("A negative transfer marks the rate as missing", func() {
			So(samples[0].Rate.OrZero(), ShouldEqual, 250000000)
			So(samples[3].Rate.Present(), ShouldBeFalse)
		})
	})
}

func TestParserLine(t *testing.T) {
	Convey("When UDP rows are parsed", t, func() {
		parser := NewParser(UDP, 3)

		Convey("The rate is corrected for lost datagrams", func() {
			sample, ok := parser.Line("20261017120010,10.0.0.2,5001,10.0.0.1,40001,3,0.0-10.0,125000000,100000000,0.012,10000,1000000,1.000,0")
			So(ok, ShouldBeTrue)
			So(sample.ConnectionID, ShouldEqual, 3)
			So(sample.Rate.OrZero(), ShouldEqual, 99000000)
		})

		Convey("Rows without datagrams are rejected", func() {
			_, ok := parser.Line("20261017120010,10.0.0.2,5001,10.0.0.1,40001,3,0.0-10.0,0,0,0.000,0,0,0.000,0")
			So(ok, ShouldBeFalse)
		})

		Convey("Summary rows spanning more than the run are rejected", func() {
			_, ok := parser.Line("20261017120040,10.0.0.2,5001,10.0.0.1,40001,3,0.0-30.5,125000000,100000000,0.012,10000,1000000,1.000,0")
			So(ok, ShouldBeFalse)
		})

		Convey("A TCP row is rejected by a UDP parser", func() {
			_, ok := parser.Line("20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("When malformed TCP rows are parsed", t, func() {
		parser := NewParser(TCP, 5)
		rejected := []string{
			"",
			"garbage",
			"\x00\xff0171012,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000",
			"2026101712001,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,0,0.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,x,0.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,10.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,20.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,-5.0-10.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-60.0,312500000,250000000",
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,fast",
		}

		Convey("Every one of them is rejected", func() {
			for _, line := range rejected {
				_, ok := parser.Line(line)
				So(ok, ShouldBeFalse)
			}
		})

		Convey("Rejected rows do not set the time origin", func() {
			for _, line := range rejected {
				parser.Line(line)
			}
			sample, ok := parser.Line("20261017120020,10.0.0.2,5001,10.0.0.1,40001,4,10.0-20.0,312500000,250000000")
			So(ok, ShouldBeTrue)
			So(sample.Time, ShouldEqual, 0)
		})

		Convey("A negative rate is missing", func() {
			sample, ok := parser.Line("20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,-8")
			So(ok, ShouldBeTrue)
			So(sample.Rate.Present(), ShouldBeFalse)
		})
	})
}

func TestParseFile(t *testing.T) {
	Convey("When the report file is empty", t, func() {
		dir, err := ioutil.TempDir("", "netmeter-iperf")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		file := path.Join(dir, "run_iperf.dat")
		So(ioutil.WriteFile(file, nil, 0644), ShouldBeNil)

		samples, err := File(file, TCP, 5)
		So(err, ShouldBeNil)
		So(samples, ShouldBeEmpty)
	})

	Convey("When the report file does not exist", t, func() {
		_, err := File("/nonexistent/run_iperf.dat", TCP, 5)
		So(err, ShouldNotBeNil)
	})

	Convey("When the report contains binary noise", t, func() {
		noise := bytes.Repeat([]byte{0xff, 0xfe, ',', '\n'}, 100)
		samples, err := Parse(bytes.NewReader(noise), UDP, 5)
		So(err, ShouldBeNil)
		So(samples, ShouldBeEmpty)
	})

	Convey("When an over-long line precedes a valid row", t, func() {
		report := strings.Repeat("x", 2*maxLineLength) + "\n" +
			"20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000\n"
		samples, err := Parse(strings.NewReader(report), TCP, 3)
		So(err, ShouldBeNil)
		So(samples, ShouldHaveLength, 1)
		So(samples[0].ConnectionID, ShouldEqual, 4)
	})

	Convey("When the last row has no line break", t, func() {
		report := "20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000"
		samples, err := Parse(strings.NewReader(report), TCP, 3)
		So(err, ShouldBeNil)
		So(samples, ShouldHaveLength, 1)
	})
}
