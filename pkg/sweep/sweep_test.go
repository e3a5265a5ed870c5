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
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/executor/mocks"
	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/daynix/NetMeter/pkg/visualization"
	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/mock"
)

var mocksAnyDuration = mock.AnythingOfType("time.Duration")

const serverReport = `------------------------------------------------------------
Server listening on TCP port 5001
------------------------------------------------------------
20261017120010,10.0.0.2,5001,10.0.0.1,40001,4,0.0-10.0,312500000,250000000
20261017120020,10.0.0.2,5001,10.0.0.1,40001,4,10.0-20.0,312500000,250000000
20261017120021,10.0.0.2,5001,10.0.0.1,40001,4,0.0-21.0,656250000,250000000
`

const mpstatReport = `Linux 6.1.0-13-amd64 (bench-host) 	10/17/2026 	_x86_64_	(1 CPU)

12:00:00     CPU    %usr   %idle
12:00:10     all   20.00   80.00
12:00:10       0   20.00   80.00
12:00:20     all   40.00   60.00
12:00:20       0   40.00   60.00
`

func argvAt(i int, value string) interface{} {
	return mock.MatchedBy(func(command executor.Command) bool {
		return len(command.Argv) > i && command.Argv[i] == value
	})
}

func writeStdout(content string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		command := args.Get(0).(executor.Command)
		ioutil.WriteFile(command.StdoutPath, []byte(content), 0644)
	}
}

type sweepFixture struct {
	hosts   *mocks.Executor
	control *mocks.Executor

	server *mocks.TaskHandle
	client *mocks.TaskHandle
	mpstat *mocks.TaskHandle
	kill   *mocks.TaskHandle

	cl1 Endpoint
	cl2 Endpoint
}

func newSweepFixture(report string) *sweepFixture {
	f := &sweepFixture{
		hosts:   &mocks.Executor{},
		control: &mocks.Executor{},
		server:  &mocks.TaskHandle{},
		client:  &mocks.TaskHandle{},
		mpstat:  &mocks.TaskHandle{},
		kill:    &mocks.TaskHandle{},
	}
	f.cl1 = Endpoint{Name: "cl1", PrettyName: "Guest", TestIP: "10.0.0.1", IperfPath: "iperf",
		Method: executor.LocalMethod{}, Executor: f.hosts}
	f.cl2 = Endpoint{Name: "cl2", PrettyName: "Host", TestIP: "10.0.0.2", IperfPath: "iperf",
		Method: executor.LocalMethod{}, Executor: f.hosts}

	f.hosts.On("Execute", argvAt(1, "-s")).Run(writeStdout(report)).Return(f.server, nil)
	f.hosts.On("Execute", argvAt(1, "-c")).Return(f.client, nil)
	f.control.On("Execute", argvAt(0, "mpstat")).Run(writeStdout(mpstatReport)).Return(f.mpstat, nil)
	f.control.On("Execute", argvAt(0, "killall")).Return(f.kill, nil)

	f.server.On("Status").Return(executor.RUNNING)
	f.server.On("Stop").Return(nil)
	f.server.On("Clean").Return(nil)

	f.client.On("Status").Return(executor.TERMINATED)
	f.client.On("ExitCode").Return(0, nil)
	f.client.On("Clean").Return(nil)

	f.mpstat.On("Wait", mocksAnyDuration).Return(true)
	f.mpstat.On("Clean").Return(nil)

	f.kill.On("Wait", mocksAnyDuration).Return(true)
	f.kill.On("ExitCode").Return(1, nil)
	f.kill.On("Clean").Return(nil)
	f.kill.On("EraseOutput").Return(nil)
	return f
}

func testConfig(dir string) Config {
	return Config{
		Protocol:  iperf.TCP,
		Streams:   1,
		Runtime:   20 * time.Second,
		Sizes:     []int{32, 64},
		ExportDir: dir,
		Timestamp: "2026_10_17_12-00-00",
		Title:     "Test Results",
	}
}

func TestSweep(t *testing.T) {
	Convey("When a sweep runs against endpoints reporting one stream", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newSweepFixture(serverReport)
		sweep, err := New(testConfig(dir), f.cl1, f.cl2, f.control, nil, visualization.NewRunMetadata("run-1", time.Now()))
		So(err, ShouldBeNil)
		slept := time.Duration(0)
		sweep.sleep = func(d time.Duration) { slept += d }

		report, err := sweep.Run()
		So(err, ShouldBeNil)

		Convey("Both directions are measured", func() {
			So(report.Directions, ShouldHaveLength, 2)
			So(report.Directions[0].From, ShouldEqual, "cl1 (Guest)")
			So(report.Directions[0].To, ShouldEqual, "cl2 (Host)")
			So(report.Directions[1].From, ShouldEqual, "cl2 (Host)")

			for _, direction := range report.Directions {
				So(direction.Failed, ShouldBeFalse)
				So(direction.Unit.Name, ShouldEqual, "Mb/s")
				So(direction.Series, ShouldHaveLength, 2)
				for _, row := range direction.Series {
					So(row.OK, ShouldEqual, summary.Passed)
					So(row.Rate, ShouldEqual, 250000000)
					So(row.HumanRate, ShouldEqual, 250)
				}
				So(direction.CPU, ShouldHaveLength, 2)
				So(direction.CPU[0].Busy, ShouldAlmostEqual, 0.3)
			}
		})

		Convey("Servers are started on the server endpoint and clients target its test address", func() {
			f.hosts.AssertCalled(t, "Execute", argvAt(2, "10.0.0.2"))
			f.hosts.AssertCalled(t, "Execute", argvAt(2, "10.0.0.1"))
			f.server.AssertNumberOfCalls(t, "Stop", 4)
		})

		Convey("mpstat paces the run and zero pauses are skipped", func() {
			So(slept, ShouldEqual, 0)
			f.mpstat.AssertNumberOfCalls(t, "Wait", 4)
		})

		Convey("Summaries, processed series and the report are written", func() {
			l := newLayout(dir, "2026_10_17_12-00-00", iperf.TCP, 1)
			for _, path := range []string{
				l.iperfSummary(One2Two), l.iperfSummary(Two2One),
				l.mpstatSummary(One2Two), l.mpstatSummary(Two2One),
				l.run(One2Two, 32) + "_iperf_processed.dat",
				l.run(Two2One, 64) + "_mpstat_processed.dat",
				l.commandLog(), l.report(),
			} {
				_, err := os.Stat(path)
				So(err, ShouldBeNil)
			}

			series, unit, err := summary.ReadFile(l.iperfSummary(One2Two))
			So(err, ShouldBeNil)
			So(unit.Name, ShouldEqual, "Mb/s")
			So(series, ShouldHaveLength, 2)

			content, err := ioutil.ReadFile(l.report())
			So(err, ShouldBeNil)
			So(string(content), ShouldContainSubstring, "cl1 (Guest) --> cl2 (Host)")
			So(string(content), ShouldContainSubstring, "Mean bandwidth: 250.000 Mb/s (all_OK)")
		})

		Convey("Every command is logged", func() {
			l := newLayout(dir, "2026_10_17_12-00-00", iperf.TCP, 1)
			content, err := ioutil.ReadFile(l.commandLog())
			So(err, ShouldBeNil)
			So(strings.Count(string(content), "iperf -s"), ShouldEqual, 4)
			So(string(content), ShouldContainSubstring, "cl1: iperf -c 10.0.0.2 -t 21 -l 32 -P 1")
			So(string(content), ShouldContainSubstring, "local: mpstat -P ALL 10 2")
		})
	})

	Convey("When no server receives anything", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newSweepFixture("")
		sweep, err := New(testConfig(dir), f.cl1, f.cl2, f.control, nil, visualization.NewRunMetadata("run-2", time.Now()))
		So(err, ShouldBeNil)
		sweep.sleep = func(time.Duration) {}

		report, err := sweep.Run()
		So(err, ShouldBeNil)

		Convey("Both directions fail and no summary is written", func() {
			for _, direction := range report.Directions {
				So(direction.Failed, ShouldBeTrue)
				for _, row := range direction.Series {
					So(row.OK, ShouldEqual, summary.Failed)
				}
			}
			l := newLayout(dir, "2026_10_17_12-00-00", iperf.TCP, 1)
			_, err := os.Stat(l.iperfSummary(One2Two))
			So(os.IsNotExist(err), ShouldBeTrue)

			content, err := ioutil.ReadFile(l.report())
			So(err, ShouldBeNil)
			So(string(content), ShouldContainSubstring, "All tests failed.")
		})
	})

	Convey("When a client outlives its runtime", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newSweepFixture(serverReport)
		f.client.ExpectedCalls = nil
		f.client.On("Status").Return(executor.RUNNING)
		f.client.On("Stop").Return(nil)
		f.client.On("ExitCode").Return(137, nil)
		f.client.On("Clean").Return(nil)
		f.client.On("StdoutFile").Return(nil, errors.New("no output"))
		f.client.On("StderrFile").Return(nil, errors.New("no output"))
		f.client.On("Address").Return("127.0.0.1")

		config := testConfig(dir)
		config.Sizes = []int{32}
		sweep, err := New(config, f.cl1, f.cl2, f.control, nil, visualization.NewRunMetadata("run-3", time.Now()))
		So(err, ShouldBeNil)
		sweep.sleep = func(time.Duration) {}

		report, err := sweep.Run()
		So(err, ShouldBeNil)

		Convey("It is killed and its result is approximate", func() {
			f.client.AssertCalled(t, "Stop")
			So(report.Directions[0].Series[0].OK, ShouldEqual, summary.Approximate)
			So(report.Directions[0].Failed, ShouldBeFalse)
		})
	})
}

func TestStalledSampler(t *testing.T) {
	Convey("When mpstat outlives the client runtime", t, func() {
		dir, err := ioutil.TempDir("", "sweep")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newSweepFixture(serverReport)
		f.mpstat.ExpectedCalls = nil
		f.mpstat.On("Wait", mocksAnyDuration).Return(false)
		f.mpstat.On("Stop").Return(nil)
		f.mpstat.On("Clean").Return(nil)

		config := testConfig(dir)
		config.Sizes = []int{32}
		config.Timing.Grace = 5 * time.Second
		sweep, err := New(config, f.cl1, f.cl2, f.control, nil, visualization.NewRunMetadata("run-5", time.Now()))
		So(err, ShouldBeNil)
		sweep.sleep = func(time.Duration) {}

		report, err := sweep.Run()
		So(err, ShouldBeNil)

		Convey("It is waited for the runtime and one grace period, then stopped", func() {
			f.mpstat.AssertCalled(t, "Wait", 25*time.Second)
			f.mpstat.AssertNumberOfCalls(t, "Stop", 2)
		})

		Convey("The bandwidth of the run still counts", func() {
			So(report.Directions[0].Series[0].OK, ShouldEqual, summary.Passed)
		})
	})
}

func TestMultitest(t *testing.T) {
	Convey("When several protocols and stream counts are tested", t, func() {
		dir, err := ioutil.TempDir("", "multitest")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		f := newSweepFixture(serverReport)
		config := testConfig(dir)
		config.Sizes = []int{32}
		multitest := Multitest{
			Base:      config,
			Streams:   []int{1, 2},
			Protocols: []iperf.Protocol{iperf.TCP},
			Cl1:       f.cl1,
			Cl2:       f.cl2,
			Control:   f.control,
			Run:       visualization.NewRunMetadata("run-4", time.Now()),
			sleep:     func(time.Duration) {},
		}

		reports, err := multitest.Execute()
		So(err, ShouldBeNil)

		Convey("Every configuration gets its own report directory", func() {
			So(reports, ShouldHaveLength, 2)
			So(reports[0].Streams, ShouldEqual, 1)
			So(reports[1].Streams, ShouldEqual, 2)
			for _, streams := range []int{1, 2} {
				_, err := os.Stat(newLayout(dir, config.Timestamp, iperf.TCP, streams).report())
				So(err, ShouldBeNil)
			}
		})

		Convey("Two streams expected but one received fails every size", func() {
			for _, direction := range reports[1].Directions {
				So(direction.Failed, ShouldBeTrue)
			}
		})

		Convey("The expected duration covers all configurations", func() {
			So(multitest.ExpectedDuration(), ShouldEqual, 2*config.ExpectedDuration())
		})
	})

	Convey("An invalid base configuration stops the run", t, func() {
		multitest := Multitest{Base: Config{}, Streams: []int{1}, Protocols: []iperf.Protocol{iperf.TCP}}
		_, err := multitest.Execute()
		So(err, ShouldNotBeNil)
	})
}

func TestSummaryName(t *testing.T) {
	Convey("Summaries are recorded under protocol, streams and direction", t, func() {
		sweep := &Sweep{config: Config{Protocol: iperf.UDP, Streams: 4}}
		So(sweep.summaryName(direction{name: Two2One}), ShouldEqual, "UDP_4_st_two2one")
		So(filepath.Base(newLayout("out", "t", iperf.UDP, 4).iperfSummary(Two2One)), ShouldEqual, "UDP_4_st_t_two2one_iperf_summary.dat")
	})
}
