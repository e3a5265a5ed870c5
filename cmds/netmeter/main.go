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

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/experiment/logger"
	"github.com/daynix/NetMeter/pkg/metadata"
	"github.com/daynix/NetMeter/pkg/sweep"
	"github.com/daynix/NetMeter/pkg/utils/errutil"
	"github.com/daynix/NetMeter/pkg/utils/uuid"
	"github.com/daynix/NetMeter/pkg/visualization"
	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	"github.com/sirupsen/logrus"
)

const appName = "netmeter"

var dumpConfigFlag = conf.NewBoolFlag("config_dump", "Print the configuration as environment variables and exit", false)

func endpoint(name string) sweep.Endpoint {
	config, err := sweep.DefaultEndpointConfig(name)
	errutil.Check(err)
	endpoint, err := sweep.NewEndpoint(name, config, executor.SSHNative.Value())
	errutil.CheckWithContext(err, "Cannot connect to "+name)
	return endpoint
}

func main() {
	stopAll := executor.RegisterInterruptHandle()
	defer stopAll()

	conf.SetAppName(appName)
	conf.SetHelp(`NetMeter measures the network bandwidth between two endpoints with iperf.
Every payload size runs in both directions, for every protocol and number of streams,
while mpstat samples the CPU of this host. Summaries and a text report are written to the
export directory.`)
	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	if dumpConfigFlag.Value() {
		fmt.Println(conf.DumpConfig())
		os.Exit(0)
	}

	sizes, err := sweep.ParseSizes(sweep.SizesFlag.Value())
	errutil.Check(err)
	streams, err := sweep.ParseStreams(sweep.StreamsFlag.Value())
	errutil.Check(err)
	protocols, err := sweep.ParseProtocols(sweep.ProtocolsFlag.Value())
	errutil.Check(err)

	runStart := time.Now()
	runID := uuid.New()
	logFile, err := logger.Initialize(appName, runID, sweep.ExportDirFlag.Value())
	errutil.CheckWithContext(err, "Cannot initialize logging")
	defer logFile.Close()

	recorder, err := metadata.NewDefault(runID)
	errutil.CheckWithContext(err, "Cannot connect to the metadata database")
	if recorder != nil {
		errutil.CheckWithContext(metadata.RecordRuntimeEnv(recorder, runStart), "Cannot record the runtime environment")
	}

	cl1 := endpoint("cl1")
	cl2 := endpoint("cl2")
	control := executor.NewLocal()

	multitest := sweep.Multitest{
		Base: sweep.Config{
			Runtime:   sweep.RunDurationFlag.Value(),
			Sizes:     sizes,
			ExportDir: sweep.ExportDirFlag.Value(),
			Timestamp: runStart.Format(sweep.TimestampLayout),
			Title:     sweep.TitleFlag.Value(),
			Iperf:     iperf.DefaultConfig(),
			Timing:    sweep.DefaultTiming(),
		},
		Streams:   streams,
		Protocols: protocols,
		Cl1:       cl1,
		Cl2:       cl2,
		Control:   control,
		Recorder:  recorder,
		Run:       visualization.NewRunMetadata(runID, runStart),
	}
	reports, err := multitest.Execute()
	errutil.CheckWithContext(err, "Tests failed")
	logrus.Infof("All tests are done, %d report(s) written", len(reports))

	// Local endpoints are never shut down.
	if sweep.ShutdownFlag.Value() {
		errutil.Warn(cl1.Shutdown(control), "Shutdown of cl1 failed")
		errutil.Warn(cl2.Shutdown(control), "Shutdown of cl2 failed")
	}
}
