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
	"github.com/daynix/NetMeter/pkg/conf"
)

// SSHNative selects the built in ssh client over the ssh binary for ssh endpoints.
var SSHNative = conf.NewBoolFlag("ssh_native", "Use the built in ssh client instead of the ssh binary for ssh endpoints", false)

// CreateExecutor is factory for executor depending on the endpoint method. Local endpoints
// get Local, ssh endpoints get Remote when native is set and Wrapped otherwise. Remote
// execution endpoints always get Wrapped.
func CreateExecutor(method Method, native bool) (Executor, error) {
	switch m := method.(type) {
	case LocalMethod:
		return NewLocal(), nil
	case SSHMethod:
		if !native {
			return NewWrapped(m), nil
		}
		sshConfig, err := NewSSHConfigFromMethod(m)
		if err != nil {
			return nil, err
		}
		return NewRemote(*sshConfig), nil
	}
	return NewWrapped(method), nil
}
