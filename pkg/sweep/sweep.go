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

// Package sweep runs iperf between two endpoints over a range of payload sizes, in both
// directions, and folds the runs into summaries and a report.
package sweep

import (
	"fmt"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/metadata"
	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/daynix/NetMeter/pkg/utils/fs"
	"github.com/daynix/NetMeter/pkg/visualization"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Sweep measures one protocol and stream count configuration between two endpoints.
type Sweep struct {
	config Config
	cl1    Endpoint
	cl2    Endpoint
	// control runs stop commands and mpstat on this host.
	control  executor.Executor
	recorder metadata.Metadata
	run      visualization.RunMetadata

	layout   layout
	commands *CommandLog
	sleep    func(time.Duration)
}

// New validates config and prepares a sweep. recorder may be nil.
func New(config Config, cl1, cl2 Endpoint, control executor.Executor,
	recorder metadata.Metadata, run visualization.RunMetadata) (*Sweep, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	l := newLayout(config.ExportDir, config.Timestamp, config.Protocol, config.Streams)
	return &Sweep{
		config:   config,
		cl1:      cl1,
		cl2:      cl2,
		control:  control,
		recorder: recorder,
		run:      run,
		layout:   l,
		commands: NewCommandLog(l.commandLog()),
		sleep:    time.Sleep,
	}, nil
}

// direction of one half of a sweep.
type direction struct {
	name   string
	client Endpoint
	server Endpoint
}

// localPart tells whether the CPU of this host takes part in the test.
func (s *Sweep) localPart() bool {
	return s.cl1.Method.IsLocal() || s.cl2.Method.IsLocal()
}

// Run measures both directions and writes the report. Failed sizes never stop the
// sweep; only a result directory that cannot be created does.
func (s *Sweep) Run() (visualization.Report, error) {
	report := visualization.Report{
		Title:     s.config.Title,
		Run:       s.run,
		Protocol:  string(s.config.Protocol),
		Streams:   s.config.Streams,
		PrintUnit: s.config.Protocol.PrintUnit(),
		TCPWindow: s.config.Iperf.TCPWindow,
	}

	if err := fs.CreateDir(s.layout.rawDir()); err != nil {
		return report, errors.Wrapf(err, "the output directory %q can not be created", s.layout.rawDir())
	}
	log.Infof("The output directory is set to: %s", s.layout.topDir)
	log.Infof("Starting %s tests. Expected run time: %s", s.config.Protocol, s.config.ExpectedDuration())

	s.stopStale(s.cl1)
	s.stopStale(s.cl2)

	for _, d := range []direction{
		{name: One2Two, client: s.cl1, server: s.cl2},
		{name: Two2One, client: s.cl2, server: s.cl1},
	} {
		report.Directions = append(report.Directions, s.runDirection(d))
	}

	log.Info("Exporting report...")
	return report, report.Export(s.layout.report())
}

// summaryName identifies the summary of one direction in metadata.
func (s *Sweep) summaryName(d direction) string {
	return fmt.Sprintf("%s_%d_st_%s", s.config.Protocol, s.config.Streams, d.name)
}

func (s *Sweep) runDirection(d direction) visualization.Direction {
	var unit *summary.RateUnit
	series := summary.Series{}
	cpu := summary.CPUSeries{}

	for _, size := range s.config.Sizes {
		run, err := s.runSize(d, size)
		if run.cpu != nil {
			cpu = append(cpu, *run.cpu)
		}
		if err != nil {
			log.Errorf("ERROR: %s %s test: %s. Skipping test...", d.name, summary.HumanSize(size, false), err)
			series = append(series, summary.FailedRow(size))
			continue
		}

		// The unit is fixed by the first measured rate and kept for the whole direction.
		unit = summary.ResolveUnit(unit, run.result.Mean.OrZero())
		rowUnit := summary.BitsPerSecond
		if unit != nil {
			rowUnit = *unit
		}
		series = append(series, summary.NewRow(size, run.finished, run.result, rowUnit))
	}

	outcome := visualization.Direction{
		From:   d.client.Label(),
		To:     d.server.Label(),
		Series: series,
		CPU:    cpu,
		Unit:   summary.BitsPerSecond,
	}
	if unit != nil {
		outcome.Unit = *unit
	}

	if !series.AnyMeasured() {
		log.Errorf("All %s tests failed", d.name)
		outcome.Failed = true
		return outcome
	}

	log.Infof("Writing %s --> %s summary...", d.client.Name, d.server.Name)
	printUnit := s.config.Protocol.PrintUnit()
	if err := summary.Export(s.layout.iperfSummary(d.name), printUnit, outcome.Unit, series); err != nil {
		log.Errorf("Summary of %s was not saved: %v", d.name, err)
	}
	if s.localPart() && len(cpu) > 0 {
		if err := summary.ExportCPU(s.layout.mpstatSummary(d.name), printUnit, cpu); err != nil {
			log.Errorf("CPU summary of %s was not saved: %v", d.name, err)
		}
	}
	if s.recorder != nil {
		if err := metadata.RecordSummary(s.recorder, s.summaryName(d), series, outcome.Unit); err != nil {
			log.Errorf("Summary of %s was not recorded: %v", d.name, err)
		}
	}
	return outcome
}
