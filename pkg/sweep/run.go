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
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/daynix/NetMeter/pkg/utils/err_collection"
	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	"github.com/daynix/NetMeter/pkg/workloads/mpstat"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// localEndpoint names this host in the command log.
const localEndpoint = "local"

// sizeRun is the outcome of one payload size in one direction.
type sizeRun struct {
	result   measurement.Result
	finished bool
	// cpu is nil when the CPU of this host was not sampled.
	cpu *summary.CPURow
}

// files of one payload size run.
type runFiles struct {
	server       iperf.Output
	client       iperf.Output
	mpstat       string
	iperfSeries  string
	mpstatSeries string
}

func newRunFiles(prefix string) runFiles {
	return runFiles{
		server:       iperf.Output{Stdout: prefix + "_iperf.dat", Stderr: prefix + "_iperf.err"},
		client:       iperf.Output{Stdout: prefix + "_iperf_client.out", Stderr: prefix + "_iperf_client.err"},
		mpstat:       prefix + "_mpstat.dat",
		iperfSeries:  prefix + "_iperf_processed.dat",
		mpstatSeries: prefix + "_mpstat_processed.dat",
	}
}

func (s *Sweep) logCommand(connName string, argv []string) {
	if err := s.commands.Log(connName, argv); err != nil {
		log.Warn(err)
	}
}

// runSize runs a server on the server endpoint and a client against it, samples the
// local CPU meanwhile, and reconciles the server reports.
func (s *Sweep) runSize(d direction, size int) (sizeRun, error) {
	run := sizeRun{}
	repetitions, clientRuntime := iperf.Repetitions(s.config.Runtime)
	files := newRunFiles(s.layout.run(d.name, size))
	log.Infof("Running %s %s test (%s --> %s)...", s.config.Protocol, summary.HumanSize(size, false), d.client.Name, d.server.Name)

	server := iperf.NewServer(d.server.Executor, d.server.IperfPath, s.config.Protocol, s.config.Iperf, files.server)
	s.logCommand(d.server.Name, d.server.Method.BuildCommand(server.Command().Argv))
	serverTask, err := executor.ServiceLauncher{Launcher: server}.Launch()
	if err != nil {
		return run, errors.Wrapf(err, "cannot start %s on %s", server.Name(), d.server.Name)
	}
	s.sleep(s.config.Timing.ServerStartup)

	client := iperf.NewClient(d.client.Executor, d.client.IperfPath, s.config.Protocol, s.config.Iperf,
		d.server.TestIP, clientRuntime, size, s.config.Streams, files.client)
	s.logCommand(d.client.Name, d.client.Method.BuildCommand(client.Command().Argv))
	clientTask, err := client.Launch()
	if err != nil {
		s.stopServer(d.server, serverTask)
		return run, errors.Wrapf(err, "cannot start %s on %s", client.Name(), d.client.Name)
	}

	sampled := s.localPart() && s.sampleCPU(repetitions, files.mpstat)
	if !sampled {
		s.sleep(time.Duration(repetitions) * iperf.ReportInterval)
	}
	s.sleep(s.config.Timing.ClientSettle)

	run.finished = s.waitClient(d.client, client.Name(), clientTask)
	s.stopServer(d.server, serverTask)

	if sampled {
		run.cpu = s.processCPU(size, files)
	}

	samples, err := iperf.File(files.server.Stdout, s.config.Protocol, repetitions)
	if err != nil {
		return run, err
	}
	result, err := measurement.Reconcile(samples, s.config.Streams, repetitions)
	if err != nil {
		return run, err
	}
	switch result.Fault {
	case measurement.TooFew:
		log.Warnf("WARNING: Too few intervals (%d of %d expected) in %s %s test",
			result.Repetitions, repetitions, d.name, summary.HumanSize(size, false))
	case measurement.TooMany:
		log.Warnf("WARNING: Too many intervals in %s %s test, the earliest ones are dropped",
			d.name, summary.HumanSize(size, false))
	}
	run.result = result

	if err := measurement.ExportSeries(files.iperfSeries, result.Series); err != nil {
		log.Warn(err)
	}
	return run, nil
}

// sampleCPU runs mpstat on this host for the whole client runtime. A sampler still
// running one grace period after that is stopped. False is returned when mpstat could
// not run; the caller waits out the runtime then.
func (s *Sweep) sampleCPU(repetitions int, output string) bool {
	sampler := mpstat.NewSampler(s.control, mpstat.DefaultPath, iperf.ReportInterval, repetitions, output)
	s.logCommand(localEndpoint, append([]string{mpstat.DefaultPath}, mpstat.Args(iperf.ReportInterval, repetitions)...))
	task, err := sampler.Launch()
	if err != nil {
		log.Warnf("CPU usage is not measured: %v", err)
		return false
	}
	timeout := time.Duration(repetitions)*iperf.ReportInterval + s.config.Timing.Grace
	if !task.Wait(timeout) {
		log.Warnf("WARNING: %s did not finish in %v, stopping it", sampler.Name(), timeout)
		if err := task.Stop(); err != nil {
			log.Errorf("Cannot stop %s: %v", sampler.Name(), err)
		}
	}
	if err := task.Clean(); err != nil {
		log.Debugf("Cleaning %s failed: %v", sampler.Name(), err)
	}
	return true
}

func (s *Sweep) processCPU(size int, files runFiles) *summary.CPURow {
	result, err := mpstat.File(files.mpstat)
	if err != nil {
		log.Warnf("CPU usage of %s run is not available: %v", summary.HumanSize(size, false), err)
		return nil
	}
	if err := measurement.ExportCPUSeries(files.mpstatSeries, result.Series); err != nil {
		log.Warn(err)
	}
	return &summary.CPURow{Size: size, Busy: result.Mean, Stdev: result.Stdev}
}

// waitClient gives a client that is still running one grace period, then kills it.
// It reports whether the client exited successfully on its own.
func (s *Sweep) waitClient(endpoint Endpoint, name string, task executor.TaskHandle) bool {
	if task.Status() == executor.RUNNING {
		log.Warnf("WARNING: Client on %s is still running", endpoint.Name)
		if s.config.Timing.Grace > 0 {
			task.Wait(s.config.Timing.Grace)
		}
		if task.Status() == executor.RUNNING {
			log.Warnf("WARNING: Killing the client on %s", endpoint.Name)
			if err := task.Stop(); err != nil {
				log.Errorf("Cannot stop the client on %s: %v", endpoint.Name, err)
			}
		}
	}

	exitCode, err := task.ExitCode()
	if err != nil {
		log.Errorf("Exit code of the client on %s is unknown: %v", endpoint.Name, err)
	} else if exitCode != 0 {
		executor.LogUnsuccessfulExecution(name, endpoint.Name, task)
	}
	if cleanErr := task.Clean(); cleanErr != nil {
		log.Debugf("Cleaning the client on %s failed: %v", endpoint.Name, cleanErr)
	}

	s.sleep(s.config.Timing.Cooldown)
	return err == nil && exitCode == 0
}

// stopServer stops the server task and every other iperf left on the endpoint.
func (s *Sweep) stopServer(endpoint Endpoint, task executor.TaskHandle) {
	var errs errcollection.ErrorCollection
	errs.Add(task.Stop())
	errs.Add(task.Clean())
	if err := errs.GetErrIfAny(); err != nil {
		log.Warnf("Stopping the server on %s: %v", endpoint.Name, err)
	}
	s.stopStale(endpoint)
}

// stopStale kills iperf on the endpoint. A settle pause follows only when something
// was killed.
func (s *Sweep) stopStale(endpoint Endpoint) {
	argv := endpoint.Method.StopCommand(endpoint.IperfPath)
	s.logCommand(localEndpoint, argv)
	exitCode, err := runControl(s.control, argv)
	if err != nil {
		log.Warnf("Cannot stop iperf on %s: %v", endpoint.Name, err)
		return
	}
	if exitCode == 0 {
		log.Debugf("Stopped iperf on %s", endpoint.Name)
		s.sleep(s.config.Timing.StopSettle)
	}
}
