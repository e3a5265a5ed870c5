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
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Method is the way commands reach an endpoint.
type Method interface {
	// IsLocal tells whether commands run on this host.
	IsLocal() bool
	// Host returns the address the endpoint is reached at.
	Host() string
	// BuildCommand returns the argument vector that runs argv on the endpoint.
	BuildCommand(argv []string) []string
	// StopCommand returns the command killing every instance of binary on the endpoint.
	StopCommand(binary string) []string
	// ShutdownCommand returns the command powering the endpoint off, nil for local endpoints.
	ShutdownCommand() []string
	fmt.Stringer
}

// LocalMethod runs commands on this host.
type LocalMethod struct{}

// IsLocal implements Method interface.
func (LocalMethod) IsLocal() bool { return true }

// Host implements Method interface.
func (LocalMethod) Host() string { return "127.0.0.1" }

// BuildCommand implements Method interface.
func (LocalMethod) BuildCommand(argv []string) []string { return argv }

// StopCommand implements Method interface.
func (LocalMethod) StopCommand(binary string) []string {
	return []string{"killall", "-9", baseName(binary)}
}

// ShutdownCommand implements Method interface.
func (LocalMethod) ShutdownCommand() []string { return nil }

func (LocalMethod) String() string { return "local" }

// SSHMethod runs commands through an OpenSSH client with key authentication.
type SSHMethod struct {
	// Binary is the ssh client, "ssh" or a path to it.
	Binary string
	Address string
	Port    int
	User    string
	Key     string
}

// IsLocal implements Method interface.
func (m SSHMethod) IsLocal() bool { return false }

// Host implements Method interface.
func (m SSHMethod) Host() string { return m.Address }

func (m SSHMethod) auth(extra ...string) []string {
	auth := []string{
		m.Binary, "-i", m.Key, "-p", strconv.Itoa(m.Port), "-l", m.User,
		"-o", "UserKnownHostsFile=/dev/null", "-o", "StrictHostKeyChecking=no",
		"-o", "BatchMode=yes", "-o", "LogLevel=ERROR",
	}
	auth = append(auth, extra...)
	return append(auth, m.Address)
}

// BuildCommand implements Method interface. The remote command is passed as one argument.
func (m SSHMethod) BuildCommand(argv []string) []string {
	return append(m.auth(), strings.Join(argv, " "))
}

// StopCommand implements Method interface.
func (m SSHMethod) StopCommand(binary string) []string {
	return m.BuildCommand([]string{"killall", "-9", baseName(binary)})
}

// ShutdownCommand implements Method interface. sudo needs a terminal, so one is forced.
func (m SSHMethod) ShutdownCommand() []string {
	return append(m.auth("-t"), "sudo shutdown -h now")
}

func (m SSHMethod) String() string { return "ssh://" + m.User + "@" + m.Address }

// RemoteExecMethod runs commands on Windows endpoints with winexe.
type RemoteExecMethod struct {
	// Binary is the remote execution tool, "winexe" or a path to it.
	Binary string
	Address string
	// CredentialsPath is handed to the tool, which reads it on its own.
	CredentialsPath string
}

// IsLocal implements Method interface.
func (m RemoteExecMethod) IsLocal() bool { return false }

// Host implements Method interface.
func (m RemoteExecMethod) Host() string { return m.Address }

// BuildCommand implements Method interface. The remote command is passed as one argument.
func (m RemoteExecMethod) BuildCommand(argv []string) []string {
	return []string{m.Binary, "-A", m.CredentialsPath, "//" + m.Address, strings.Join(argv, " ")}
}

// StopCommand implements Method interface.
func (m RemoteExecMethod) StopCommand(binary string) []string {
	return m.BuildCommand([]string{"taskkill", "/im", baseName(binary), "/f"})
}

// ShutdownCommand implements Method interface.
func (m RemoteExecMethod) ShutdownCommand() []string {
	return m.BuildCommand([]string{"shutdown", "/t", "10", "/s", "/f"})
}

func (m RemoteExecMethod) String() string { return "winexe://" + m.Address }

// NewMethod builds the Method named by accessMethod: "local", or a path to an "ssh" or
// "winexe" binary. Remote methods need credentials; ssh needs a user and a key.
func NewMethod(accessMethod, address string, sshPort int, credentials Credentials) (Method, error) {
	switch baseName(accessMethod) {
	case "local":
		return LocalMethod{}, nil
	case "ssh":
		if credentials.Username == "" || credentials.Key == "" {
			return nil, errors.Errorf("username and key must be specified in credentials file %q", credentials.Path)
		}
		if _, err := os.Stat(credentials.Key); err != nil {
			return nil, errors.Wrapf(err, "ssh key %q not found", credentials.Key)
		}
		if sshPort == 0 {
			sshPort = DefaultSSHPort
		}
		return SSHMethod{
			Binary:  accessMethod,
			Address: address,
			Port:    sshPort,
			User:    credentials.Username,
			Key:     credentials.Key,
		}, nil
	case "winexe":
		if credentials.Path == "" {
			return nil, errors.New("winexe access needs a credentials file")
		}
		return RemoteExecMethod{Binary: accessMethod, Address: address, CredentialsPath: credentials.Path}, nil
	}
	return nil, errors.Errorf("connection method %q is not supported (local, ssh or winexe expected)", accessMethod)
}
