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

package executor

import (
	"fmt"
	"os"
	"time"

	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/utils/fs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrServiceStopped indicates that task supposed to run endlessly stopped unexpectedly.
var ErrServiceStopped = errors.New("task is not running")

// LogLinesCount is the number of lines printed from stderr & stdout in case of task failure.
var LogLinesCount = conf.NewIntFlag("output_lines_count", "Number of lines printed from stderr & stdout in case of task unsuccessful termination", 5)

func logOutput(th TaskHandle) {
	lines := LogLinesCount.Value()
	logTail := func(name string, open func() (*os.File, error)) {
		file, err := open()
		if err != nil {
			logrus.Errorf("Impossible to retrieve %s file: %q", name, err.Error())
			return
		}
		file.Close()

		tail, err := fs.ReadTail(file.Name(), lines)
		if err != nil {
			logrus.Errorf("Tailing %s file failed: %q", name, err.Error())
			return
		}
		logrus.Errorf("Last %d lines of %s: %s", lines, name, tail)
	}
	logTail("stdout", th.StdoutFile)
	logTail("stderr", th.StderrFile)
}

// ServiceHandle is a decorator and TaskHandle implementation that should be used with tasks that do not stop on their own.
type ServiceHandle struct {
	TaskHandle
}

// Stop implements TaskHandle interface.
func (s ServiceHandle) Stop() error {
	if s.TaskHandle.Status() != RUNNING {
		logrus.Errorf("Stop(): ServiceHandle terminated prematurely")
		logOutput(s.TaskHandle)
		return ErrServiceStopped
	}

	return s.TaskHandle.Stop()
}

// Wait implements TaskHandle interface.
func (s ServiceHandle) Wait(duration time.Duration) bool {
	if s.TaskHandle.Status() != RUNNING {
		logrus.Errorf("Wait(): ServiceHandle terminated prematurely")
		logOutput(s.TaskHandle)
	}

	return s.TaskHandle.Wait(duration)
}

// ServiceLauncher is a decorator and Launcher implementation that should be used for tasks that do not stop on their own.
type ServiceLauncher struct {
	Launcher
}

// Launch implements Launcher interface.
func (sl ServiceLauncher) Launch() (TaskHandle, error) {
	th, err := sl.Launcher.Launch()
	if err != nil {
		return nil, err
	}

	return ServiceHandle{th}, nil
}

// Name implements Launcher interface.
func (sl ServiceLauncher) Name() string {
	return fmt.Sprintf("Service: %q", sl.Launcher.Name())
}
