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
	"fmt"
	"path/filepath"

	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/executor"
	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// EndpointConfig is the configuration of one of the two tested hosts.
type EndpointConfig struct {
	AccessMethod string `help:"How commands reach the endpoint: local, or a path to an ssh or winexe binary" default:"local"`
	ConnIP       string `help:"Address commands reach the endpoint at" default:"127.0.0.1"`
	TestIP       string `help:"Address of the endpoint on the tested network" type:"ip" default:"127.0.0.1"`
	Iperf        string `help:"Path to the iperf binary on the endpoint" defaultFromField:"defaultIperf"`
	SSHPort      int    `help:"Port of the ssh server of the endpoint" default:"22"`
	Creds        string `help:"Credentials file of a remote endpoint (username=, key= lines for ssh)" default:"creds.dat"`
	PrettyName   string `help:"Name of the endpoint in reports" defaultFromField:"defaultPrettyName"`

	defaultIperf      string
	defaultPrettyName string
	flagPrefix        string
}

var (
	cl1Config = EndpointConfig{defaultIperf: iperf.DefaultPath, defaultPrettyName: "Client 1", flagPrefix: "cl1"}
	cl2Config = EndpointConfig{defaultIperf: iperf.DefaultPath, defaultPrettyName: "Client 2", flagPrefix: "cl2"}
)

func init() {
	conf.Process(&cl1Config)
	conf.Process(&cl2Config)
}

// DefaultEndpointConfig returns the configuration of the endpoint named cl1 or cl2 with
// values taken from flags.
func DefaultEndpointConfig(name string) (EndpointConfig, error) {
	var config *EndpointConfig
	switch name {
	case "cl1":
		config = &cl1Config
	case "cl2":
		config = &cl2Config
	default:
		return EndpointConfig{}, errors.Errorf("unknown endpoint %q", name)
	}
	if err := conf.Process(config); err != nil {
		return EndpointConfig{}, errors.Wrapf(err, "cannot read configuration of endpoint %q", name)
	}
	return *config, nil
}

// Endpoint is one of the two tested hosts.
type Endpoint struct {
	// Name is the short name used in logs and the command log.
	Name       string
	PrettyName string
	// TestIP is the address servers on this endpoint are reached at.
	TestIP    string
	IperfPath string
	Method    executor.Method
	// Executor runs servers and clients on the endpoint.
	Executor executor.Executor
}

// NewEndpoint builds an endpoint from its configuration. Credentials are read once,
// for remote endpoints only. native selects the built in ssh client.
func NewEndpoint(name string, config EndpointConfig, native bool) (Endpoint, error) {
	credentials := executor.Credentials{}
	if filepath.Base(config.AccessMethod) != "local" {
		var err error
		credentials, err = executor.LoadCredentials(config.Creds)
		if err != nil {
			return Endpoint{}, errors.Wrapf(err, "endpoint %s", name)
		}
	}

	method, err := executor.NewMethod(config.AccessMethod, config.ConnIP, config.SSHPort, credentials)
	if err != nil {
		return Endpoint{}, errors.Wrapf(err, "endpoint %s", name)
	}
	exec, err := executor.CreateExecutor(method, native)
	if err != nil {
		return Endpoint{}, errors.Wrapf(err, "endpoint %s", name)
	}

	logrus.Debugf("Endpoint %s (%s) is reached with %s", name, config.PrettyName, exec.Name())
	return Endpoint{
		Name:       name,
		PrettyName: config.PrettyName,
		TestIP:     config.TestIP,
		IperfPath:  config.Iperf,
		Method:     method,
		Executor:   exec,
	}, nil
}

// Label names the endpoint in reports.
func (e Endpoint) Label() string {
	if e.PrettyName == "" {
		return e.Name
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.PrettyName)
}

// runControl runs argv on this host and waits for it. The exit code is returned.
func runControl(control executor.Executor, argv []string) (int, error) {
	task, err := control.Execute(executor.NewCommand(argv...))
	if err != nil {
		return 0, err
	}
	task.Wait(0)
	exitCode, err := task.ExitCode()
	if cleanErr := task.Clean(); cleanErr != nil {
		logrus.Debugf("Cleaning %q failed: %v", argv[0], cleanErr)
	}
	if eraseErr := task.EraseOutput(); eraseErr != nil {
		logrus.Debugf("Erasing output of %q failed: %v", argv[0], eraseErr)
	}
	return exitCode, err
}

// Shutdown powers a remote endpoint off. Local endpoints are left running.
func (e Endpoint) Shutdown(control executor.Executor) error {
	argv := e.Method.ShutdownCommand()
	if argv == nil {
		logrus.Infof("%s is local and will not be shut down", e.Name)
		return nil
	}

	logrus.Infof("Shutting down %s...", e.Name)
	exitCode, err := runControl(control, argv)
	if err != nil {
		return errors.Wrapf(err, "cannot shut down %s", e.Name)
	}
	if exitCode != 0 {
		return errors.Errorf("shutting down %s exited with code %d", e.Name, exitCode)
	}
	return nil
}
