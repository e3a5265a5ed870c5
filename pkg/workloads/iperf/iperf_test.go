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
	"errors"
	"testing"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/executor/mocks"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIperfWithMockedExecutor(t *testing.T) {
	Convey("While using iperf launchers with a mocked executor", t, func() {
		mockedExecutor := new(mocks.Executor)
		mockedTaskHandle := new(mocks.TaskHandle)
		output := Output{Stdout: "/tmp/run_iperf.dat", Stderr: "/tmp/run_iperf.err"}

		Convey("Server command reports to the given files", func() {
			server := NewServer(mockedExecutor, "/usr/bin/iperf", UDP, Config{}, output)
			expected := executor.Command{
				Argv:       []string{"/usr/bin/iperf", "-s", "-i", "10", "-y", "C", "-u"},
				StdoutPath: output.Stdout,
				StderrPath: output.Stderr,
			}
			So(server.Command(), ShouldResemble, expected)
			So(server.Name(), ShouldEqual, "Iperf UDP server")

			Convey("Launch returns the task of the executor", func() {
				mockedExecutor.On("Execute", expected).Return(mockedTaskHandle, nil).Once()
				task, err := server.Launch()
				So(err, ShouldBeNil)
				So(task, ShouldEqual, mockedTaskHandle)
				mockedExecutor.AssertExpectations(t)
			})

			Convey("Launch returns executor errors", func() {
				mockedExecutor.On("Execute", expected).Return(nil, errors.New("test")).Once()
				task, err := server.Launch()
				So(err, ShouldNotBeNil)
				So(task, ShouldBeNil)
				mockedExecutor.AssertExpectations(t)
			})
		})

		Convey("Client command carries the test parameters", func() {
			client := NewClient(mockedExecutor, "iperf", TCP, Config{TCPWindow: "1M"},
				"10.0.0.2", 31*time.Second, 1024, 4, output)
			command := client.Command()
			So(command.Argv, ShouldResemble, []string{"iperf", "-c", "10.0.0.2", "-t", "31", "-l", "1024", "-P", "4", "-w", "1M"})
			So(command.StdoutPath, ShouldEqual, output.Stdout)
			So(client.Name(), ShouldEqual, "Iperf TCP client")
		})
	})
}
