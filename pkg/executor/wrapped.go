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

// Wrapped runs commands on an endpoint through a local remote access client, for
// example the ssh binary or winexe. The client process stands for the remote one.
type Wrapped struct {
	method Method
	local  Local
}

// NewWrapped returns a Wrapped executor reaching the endpoint of method.
func NewWrapped(method Method) Wrapped {
	return Wrapped{method: method, local: NewLocal()}
}

// Name returns user-friendly name of executor.
func (w Wrapped) Name() string {
	return "Wrapped " + w.method.String()
}

// Execute runs the command on the endpoint. Output of the remote command is written to
// the local output files.
func (w Wrapped) Execute(command Command) (TaskHandle, error) {
	wrapped := command
	wrapped.Argv = w.method.BuildCommand(command.Argv)
	handle, err := w.local.Execute(wrapped)
	if err != nil {
		return nil, err
	}
	return wrappedTaskHandle{TaskHandle: handle, host: w.method.Host()}, nil
}

type wrappedTaskHandle struct {
	TaskHandle
	host string
}

// Address returns address where task was located.
func (th wrappedTaskHandle) Address() string {
	return th.host
}
