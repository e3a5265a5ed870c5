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

package iperf

import (
	"fmt"
	"time"

	"github.com/daynix/NetMeter/pkg/executor"
)

// DefaultPath is the iperf binary looked up in PATH.
const DefaultPath = "iperf"

// Output names the files a task writes its stdout and stderr to.
type Output struct {
	Stdout string
	Stderr string
}

// Server is a launcher for an iperf 2 server reporting every interval as CSV.
type Server struct {
	exec     executor.Executor
	path     string
	protocol Protocol
	conf     Config
	output   Output
}

// NewServer is a constructor for Server. The CSV reports are written to output.Stdout.
func NewServer(exec executor.Executor, path string, protocol Protocol, config Config, output Output) Server {
	return Server{
		exec:     exec,
		path:     path,
		protocol: protocol,
		conf:     config,
		output:   output,
	}
}

// Command returns the command the server is launched with.
func (s Server) Command() executor.Command {
	return executor.Command{
		Argv:       append([]string{s.path}, ServerArgs(s.protocol, s.conf)...),
		StdoutPath: s.output.Stdout,
		StderrPath: s.output.Stderr,
	}
}

// Launch starts the server. It keeps running until stopped.
func (s Server) Launch() (executor.TaskHandle, error) {
	return s.exec.Execute(s.Command())
}

// Name returns human readable name for job.
func (s Server) Name() string {
	return fmt.Sprintf("%s %s server", name, s.protocol)
}

// Client is a launcher for an iperf 2 client sending to a server for a fixed time.
type Client struct {
	exec          executor.Executor
	path          string
	protocol      Protocol
	conf          Config
	serverAddress string
	runtime       time.Duration
	size          int
	streams       int
	output        Output
}

// NewClient is a constructor for Client. runtime is the client duration, see Repetitions.
func NewClient(exec executor.Executor, path string, protocol Protocol, config Config,
	serverAddress string, runtime time.Duration, size, streams int, output Output) Client {
	return Client{
		exec:          exec,
		path:          path,
		protocol:      protocol,
		conf:          config,
		serverAddress: serverAddress,
		runtime:       runtime,
		size:          size,
		streams:       streams,
		output:        output,
	}
}

// Command returns the command the client is launched with.
func (c Client) Command() executor.Command {
	return executor.Command{
		Argv: append([]string{c.path},
			ClientArgs(c.protocol, c.conf, c.serverAddress, c.runtime, c.size, c.streams)...),
		StdoutPath: c.output.Stdout,
		StderrPath: c.output.Stderr,
	}
}

// Launch starts the client.
func (c Client) Launch() (executor.TaskHandle, error) {
	return c.exec.Execute(c.Command())
}

// Name returns human readable name for job.
func (c Client) Name() string {
	return fmt.Sprintf("%s %s client", name, c.protocol)
}
