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
	"strings"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/metadata"
	"github.com/daynix/NetMeter/pkg/visualization"
	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	log "github.com/sirupsen/logrus"
)

// Multitest runs one sweep for every stream count and protocol, stream counts outermost.
type Multitest struct {
	// Base is copied into every sweep; its Protocol and Streams are overwritten.
	Base      Config
	Streams   []int
	Protocols []iperf.Protocol

	Cl1      Endpoint
	Cl2      Endpoint
	Control  executor.Executor
	Recorder metadata.Metadata
	Run      visualization.RunMetadata

	sleep func(time.Duration)
}

// ExpectedDuration estimates the time all sweeps take.
func (m Multitest) ExpectedDuration() time.Duration {
	return time.Duration(len(m.Streams)*len(m.Protocols)) * m.Base.ExpectedDuration()
}

func protocolNames(protocols []iperf.Protocol) string {
	names := make([]string, len(protocols))
	for i, protocol := range protocols {
		names[i] = string(protocol)
	}
	return strings.Join(names, ", ")
}

// Execute runs all sweeps one after another. A sweep that cannot start stops the whole
// run; the reports of the finished sweeps are returned with the error.
func (m Multitest) Execute() ([]visualization.Report, error) {
	if len(m.Streams) > 1 || len(m.Protocols) > 1 {
		log.Infof("Starting tests for protocols: %s", protocolNames(m.Protocols))
		log.Infof("Using %v stream(s)", m.Streams)
		log.Infof("Expected total run time: %s", m.ExpectedDuration())
	}

	reports := []visualization.Report{}
	for _, streams := range m.Streams {
		for _, protocol := range m.Protocols {
			config := m.Base
			config.Sizes = append([]int(nil), m.Base.Sizes...)
			config.Streams = streams
			config.Protocol = protocol

			sweep, err := New(config, m.Cl1, m.Cl2, m.Control, m.Recorder, m.Run)
			if err != nil {
				return reports, err
			}
			if m.sleep != nil {
				sweep.sleep = m.sleep
			}

			report, err := sweep.Run()
			if err != nil {
				return reports, err
			}
			reports = append(reports, report)
		}
	}
	return reports, nil
}
