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
	"strconv"
	"time"

	"github.com/daynix/NetMeter/pkg/conf"
)

func defaultSizes() []string {
	sizes := []string{}
	for size := 32; size <= 65536; size *= 2 {
		sizes = append(sizes, strconv.Itoa(size))
	}
	return sizes
}

var (
	// ExportDirFlag is the directory every configuration gets its own result directory in.
	ExportDirFlag = conf.NewStringFlag("export_dir", "Directory the results are written to", "out")
	// SizesFlag lists the payload sizes of a sweep in bytes, in execution order.
	SizesFlag = conf.NewSliceFlag("sizes", "Payload sizes in bytes (iperf -l)", defaultSizes()...)
	// RunDurationFlag is the runtime of the client for every payload size.
	RunDurationFlag = conf.NewDurationFlag("run_duration", "Client runtime per payload size; one report every 10s", 300*time.Second)
	// StreamsFlag lists the numbers of parallel streams to test.
	StreamsFlag = conf.NewSliceFlag("streams", "Numbers of parallel streams (iperf -P)", "1", "4")
	// ProtocolsFlag lists the protocols to test.
	ProtocolsFlag = conf.NewSliceFlag("protocols", "Protocols to test: TCP, UDP", "TCP", "UDP")
	// TitleFlag is printed at the top of every report.
	TitleFlag = conf.NewStringFlag("title", "Title of the reports", "Test Results")
	// ShutdownFlag powers the remote endpoints off after all tests.
	ShutdownFlag = conf.NewBoolFlag("shutdown", "Shut the remote endpoints down after all tests", false)
)
