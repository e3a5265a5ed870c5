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
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
)

// Remote provisioning is responsible for providing the execution environment
// on remote machine via ssh.
type Remote struct {
	sshConfig SSHConfig
}

// NewRemote returns a Remote instance.
func NewRemote(sshConfig SSHConfig) Remote {
	return Remote{sshConfig: sshConfig}
}

// Name returns user-friendly name of executor.
func (remote Remote) Name() string {
	return "Remote"
}

// Execute runs the command given as input.
// Returned Task is able to stop & monitor the provisioned process.
// Output of the remote process is written to local files.
func (remote Remote) Execute(command Command) (TaskHandle, error) {
	stdoutFile, stderrFile, err := createExecutorOutputFiles(command, "remote")
	if err != nil {
		return nil, err
	}

	address := net.JoinHostPort(remote.sshConfig.Host, strconv.Itoa(remote.sshConfig.Port))
	connection, err := ssh.Dial("tcp", address, remote.sshConfig.ClientConfig)
	if err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		return nil, errors.Wrapf(err, "cannot connect to %q", address)
	}

	session, err := connection.NewSession()
	if err != nil {
		connection.Close()
		stdoutFile.Close()
		stderrFile.Close()
		return nil, errors.Wrapf(err, "cannot open ssh session on %q", address)
	}
	session.Stdout = stdoutFile
	session.Stderr = stderrFile

	stringCommand := strings.Join(command.Argv, " ")
	log.Debugf("Starting %q on %q", stringCommand, address)
	if err := session.Start(stringCommand); err != nil {
		session.Close()
		connection.Close()
		stdoutFile.Close()
		stderrFile.Close()
		return nil, errors.Wrapf(err, "cannot start %q on %q", stringCommand, address)
	}

	taskHandle := &remoteTaskHandle{
		command:          stringCommand,
		session:          session,
		connection:       connection,
		host:             remote.sshConfig.Host,
		stdoutFile:       stdoutFile,
		stderrFile:       stderrFile,
		hasProcessExited: make(chan struct{}),
	}

	go func() {
		err := session.Wait()
		taskHandle.exitCode = remoteExitCode(err)
		log.Debugf("Ended %q on %q with status code %d", stringCommand, address, taskHandle.exitCode)
		close(taskHandle.hasProcessExited)
	}()

	register(taskHandle)
	return checkIfProcessFailedToExecute(stringCommand, remote.Name(), taskHandle)
}

func remoteExitCode(err error) int {
	switch e := err.(type) {
	case nil:
		return 0
	case *ssh.ExitError:
		if e.Signal() != "" {
			return 128 + signalNumber(e.Signal())
		}
		return e.ExitStatus()
	}
	// Connection lost or exit status never sent.
	return -1
}

func signalNumber(signal string) int {
	switch ssh.Signal(signal) {
	case ssh.SIGKILL:
		return 9
	case ssh.SIGTERM:
		return 15
	case ssh.SIGINT:
		return 2
	}
	return 0
}

// remoteTaskHandle implements TaskHandle interface.
type remoteTaskHandle struct {
	command          string
	session          *ssh.Session
	connection       *ssh.Client
	host             string
	stdoutFile       *os.File
	stderrFile       *os.File
	hasProcessExited chan struct{}
	exitCode         int
}

func (taskHandle *remoteTaskHandle) isTerminated() bool {
	select {
	case <-taskHandle.hasProcessExited:
		return true
	default:
		return false
	}
}

// Stop terminates the remote task. Servers that do not deliver signals get the session
// closed, which hangs up the remote process.
func (taskHandle *remoteTaskHandle) Stop() error {
	if taskHandle.isTerminated() {
		return nil
	}

	if err := taskHandle.session.Signal(ssh.SIGKILL); err != nil {
		log.Debugf("cannot signal %q: %s", taskHandle.command, err.Error())
	}
	if !taskHandle.Wait(stopGracePeriod) {
		taskHandle.session.Close()
		taskHandle.connection.Close()
		if !taskHandle.Wait(stopGracePeriod) {
			return errors.Errorf("cannot stop %q on %q", taskHandle.command, taskHandle.host)
		}
	}
	return nil
}

// Status returns a state of the task.
func (taskHandle *remoteTaskHandle) Status() TaskState {
	if taskHandle.isTerminated() {
		return TERMINATED
	}
	return RUNNING
}

// ExitCode returns a exitCode. If task is not terminated it returns error.
func (taskHandle *remoteTaskHandle) ExitCode() (int, error) {
	if !taskHandle.isTerminated() {
		return -1, errors.Errorf("task %q is not terminated", taskHandle.command)
	}
	return taskHandle.exitCode, nil
}

// StdoutFile returns a file handle for file to the task's stdout file.
func (taskHandle *remoteTaskHandle) StdoutFile() (*os.File, error) {
	return os.Open(taskHandle.stdoutFile.Name())
}

// StderrFile returns a file handle for file to the task's stderr file.
func (taskHandle *remoteTaskHandle) StderrFile() (*os.File, error) {
	return os.Open(taskHandle.stderrFile.Name())
}

// Wait blocks until process is terminated or timeout appeared.
// Returns true when process terminates before timeout, otherwise false.
func (taskHandle *remoteTaskHandle) Wait(timeout time.Duration) bool {
	if timeout == 0 {
		<-taskHandle.hasProcessExited
		return true
	}

	select {
	case <-taskHandle.hasProcessExited:
		return true
	case <-time.After(timeout):
		return false
	}
}

// Clean closes the ssh connection and the task's stdout & stderr files.
func (taskHandle *remoteTaskHandle) Clean() error {
	taskHandle.session.Close()
	taskHandle.connection.Close()
	if err := taskHandle.stdoutFile.Close(); err != nil {
		return err
	}
	return taskHandle.stderrFile.Close()
}

// EraseOutput removes task's stdout & stderr files.
func (taskHandle *remoteTaskHandle) EraseOutput() error {
	return removeOutputFiles(taskHandle.stdoutFile, taskHandle.stderrFile)
}

// Address returns address where task was located.
func (taskHandle *remoteTaskHandle) Address() string {
	return taskHandle.host
}

func (taskHandle *remoteTaskHandle) String() string {
	return fmt.Sprintf("%q on %s", taskHandle.command, taskHandle.host)
}
