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

package sweep

import (
	"testing"
	"time"

	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	. "github.com/smartystreets/goconvey/convey"
)

func validConfig() Config {
	return Config{
		Protocol:  iperf.UDP,
		Streams:   1,
		Runtime:   30 * time.Second,
		Sizes:     []int{32, 65536},
		ExportDir: "out",
		Timestamp: "2026_10_17_12-00-00",
		Timing:    DefaultTiming(),
	}
}

func TestConfigValidate(t *testing.T) {
	Convey("When a sweep configuration is validated", t, func() {
		config := validConfig()

		Convey("A correct one passes and its UDP sizes are bent", func() {
			So(config.Validate(), ShouldBeNil)
			So(config.Sizes, ShouldResemble, []int{32, iperf.MaxUDPDatagram})
		})

		Convey("An unknown protocol is rejected", func() {
			config.Protocol = "SCTP"
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("Zero streams are rejected", func() {
			config.Streams = 0
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("A runtime shorter than one report interval is rejected", func() {
			config.Runtime = 5 * time.Second
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("An empty size list is rejected", func() {
			config.Sizes = nil
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("A UDP size above the largest buffer is rejected", func() {
			config.Sizes = []int{70000}
			So(config.Validate(), ShouldNotBeNil)
		})

		Convey("A missing export directory is rejected", func() {
			config.ExportDir = ""
			So(config.Validate(), ShouldNotBeNil)
		})
	})
}

func TestExpectedDuration(t *testing.T) {
	Convey("The expected duration counts both directions of every size", t, func() {
		config := validConfig()
		perSize := 30*time.Second + 10*time.Second + 2*time.Second + 10*time.Second + 10*time.Second
		So(config.ExpectedDuration(), ShouldEqual, 2*2*perSize+20*time.Second)
	})
}

func TestParseFlagValues(t *testing.T) {
	Convey("When flag values are parsed", t, func() {
		Convey("Positive integers are accepted", func() {
			sizes, err := ParseSizes([]string{"32", "64"})
			So(err, ShouldBeNil)
			So(sizes, ShouldResemble, []int{32, 64})
		})

		Convey("A stream count that is not a positive integer is rejected", func() {
			_, err := ParseStreams([]string{"1", "x"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "number of streams")

			_, err = ParseStreams([]string{"0"})
			So(err, ShouldNotBeNil)
		})

		Convey("Protocols are case insensitive", func() {
			protocols, err := ParseProtocols([]string{"tcp", "UDP"})
			So(err, ShouldBeNil)
			So(protocols, ShouldResemble, []iperf.Protocol{iperf.TCP, iperf.UDP})

			_, err = ParseProtocols([]string{"ICMP"})
			So(err, ShouldNotBeNil)
		})
	})
}
