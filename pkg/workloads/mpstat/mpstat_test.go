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
	"testing"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/executor/mocks"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSampler(t *testing.T) {
	Convey("Sampler samples all cores into the output file", t, func() {
		mockedExecutor := new(mocks.Executor)
		mockedTaskHandle := new(mocks.TaskHandle)
		expected := executor.Command{
			Argv:       []string{"mpstat", "-P", "ALL", "10", "30"},
			StdoutPath: "/tmp/run_mpstat.dat",
		}
		mockedExecutor.On("Execute", expected).Return(mockedTaskHandle, nil).Once()

		sampler := NewSampler(mockedExecutor, DefaultPath, 10*time.Second, 30, "/tmp/run_mpstat.dat")
		task, err := sampler.Launch()
		So(err, ShouldBeNil)
		So(task, ShouldEqual, mockedTaskHandle)
		So(sampler.Name(), ShouldEqual, "mpstat")
		mockedExecutor.AssertExpectations(t)
	})
}
