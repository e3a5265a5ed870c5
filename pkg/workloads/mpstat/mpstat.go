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

// Package mpstat runs the sysstat mpstat sampler and parses its per core reports.
package mpstat

import (
	"strconv"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
)

// DefaultPath is the mpstat binary looked up in PATH.
const DefaultPath = "mpstat"

// Args returns mpstat arguments sampling all cores count times, every interval.
func Args(interval time.Duration, count int) []string {
	return []string{"-P", "ALL", strconv.Itoa(int(interval / time.Second)), strconv.Itoa(count)}
}

// Sampler is a launcher for mpstat writing count reports to a file.
type Sampler struct {
	exec     executor.Executor
	path     string
	interval time.Duration
	count    int
	output   string
}

// NewSampler is a constructor for Sampler. The report is written to output.
func NewSampler(exec executor.Executor, path string, interval time.Duration, count int, output string) Sampler {
	return Sampler{
		exec:     exec,
		path:     path,
		interval: interval,
		count:    count,
		output:   output,
	}
}

// Launch starts the sampler. It exits on its own after count intervals.
func (s Sampler) Launch() (executor.TaskHandle, error) {
	return s.exec.Execute(executor.Command{
		Argv:       append([]string{s.path}, Args(s.interval, s.count)...),
		StdoutPath: s.output,
	})
}

// Name returns human readable name for job.
func (s Sampler) Name() string {
	return "mpstat"
}
