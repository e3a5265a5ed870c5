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
	"strings"
)

// Command is a process to start: its argument vector and where its output goes.
type Command struct {
	Argv []string
	// StdoutPath and StderrPath receive the process output. When empty, output goes to
	// files in a new temporary directory.
	StdoutPath string
	StderrPath string
}

// NewCommand returns a Command writing its output to temporary files.
func NewCommand(argv ...string) Command {
	return Command{Argv: argv}
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(c.Argv, " ")
}

// Executor is responsible for creating execution environment for given workload.
// It returns Task handle when workload started gracefully.
// Workload is executed asynchronously.
type Executor interface {
	// Execute executes command on underlying platform.
	Execute(command Command) (TaskHandle, error)
	// Name returns user-friendly name of executor.
	Name() string
}
