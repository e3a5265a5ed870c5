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
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// stopGracePeriod is how long a stopped process group may take to exit on SIGTERM
// before it is killed.
const stopGracePeriod = 5 * time.Second

// Local provisioning is responsible for providing the execution environment
// on local machine via exec.Command.
// It runs command as current user.
type Local struct{}

// NewLocal returns a Local instance.
func NewLocal() Local {
	return Local{}
}

// Name returns user-friendly name of executor.
func (l Local) Name() string {
	return "Local"
}

// Execute runs the command given as input.
// Returned Task is able to stop & monitor the provisioned process.
func (l Local) Execute(command Command) (TaskHandle, error) {
	stdoutFile, stderrFile, err := createExecutorOutputFiles(command, "local")
	if err != nil {
		return nil, err
	}

	log.Debug("Starting ", command.String())

	cmd := exec.Command(command.Argv[0], command.Argv[1:]...)
	// It is important to set additional Process Group ID for parent process and his children
	// to have ability to kill all the children processes.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Stdout = stdoutFile
	cmd.Stderr = stderrFile

	if err := cmd.Start(); err != nil {
		stdoutFile.Close()
		stderrFile.Close()
		return nil, errors.Wrapf(err, "cannot start %q", command.String())
	}

	log.Debugf("Started %q with pid %d", command.String(), cmd.Process.Pid)

	taskHandle := newLocalTaskHandle(command.String(), cmd, stdoutFile, stderrFile)

	// Wait for local task in goroutine.
	go func() {
		// NOTE: Wait() returns an error. We grab the process state in any case
		// (success or failure) below, so the error object matters less in the
		// status handling for now.
		cmd.Wait()
		taskHandle.exitCode = exitCodeOf(cmd.ProcessState)

		log.Debugf("Ended %q with output in file %q, err output in file %q and status code %d",
			command.String(), stdoutFile.Name(), stderrFile.Name(), taskHandle.exitCode)
		close(taskHandle.hasProcessExited)
	}()

	register(taskHandle)
	return checkIfProcessFailedToExecute(command.String(), l.Name(), taskHandle)
}

func exitCodeOf(state *os.ProcessState) int {
	status, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return state.ExitCode()
	}
	// If Process exited on his own, show the exitStatus.
	if status.Exited() {
		return status.ExitStatus()
	}
	// Otherwise use the shell convention for a signal termination.
	return 128 + int(status.Signal())
}

// localTaskHandle implements TaskHandle interface.
type localTaskHandle struct {
	command          string
	cmdHandler       *exec.Cmd
	stdoutFile       *os.File
	stderrFile       *os.File
	hasProcessExited chan struct{}
	// exitCode is valid once hasProcessExited is closed.
	exitCode int
}

func newLocalTaskHandle(command string, cmdHandler *exec.Cmd, stdoutFile, stderrFile *os.File) *localTaskHandle {
	return &localTaskHandle{
		command:          command,
		cmdHandler:       cmdHandler,
		stdoutFile:       stdoutFile,
		stderrFile:       stderrFile,
		hasProcessExited: make(chan struct{}),
	}
}

func (taskHandle *localTaskHandle) isTerminated() bool {
	select {
	case <-taskHandle.hasProcessExited:
		return true
	default:
		return false
	}
}

// Stop terminates the local task.
func (taskHandle *localTaskHandle) Stop() error {
	if taskHandle.isTerminated() {
		return nil
	}

	// We signal the entire process group.
	// The kill syscall interprets a negated PID N as the process group N belongs to.
	pgid := -taskHandle.cmdHandler.Process.Pid
	log.Debugf("Sending SIGTERM to process group of %q", taskHandle.command)
	if err := syscall.Kill(pgid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		return errors.Wrapf(err, "cannot terminate %q", taskHandle.command)
	}
	if taskHandle.Wait(stopGracePeriod) {
		return nil
	}

	log.Warnf("%q ignored SIGTERM, sending SIGKILL", taskHandle.command)
	if err := syscall.Kill(pgid, syscall.SIGKILL); err != nil && err != syscall.ESRCH {
		return errors.Wrapf(err, "cannot kill %q", taskHandle.command)
	}
	taskHandle.Wait(0)
	return nil
}

// Status returns a state of the task.
func (taskHandle *localTaskHandle) Status() TaskState {
	if taskHandle.isTerminated() {
		return TERMINATED
	}
	return RUNNING
}

// ExitCode returns a exitCode. If task is not terminated it returns error.
func (taskHandle *localTaskHandle) ExitCode() (int, error) {
	if !taskHandle.isTerminated() {
		return -1, errors.Errorf("task %q is not terminated", taskHandle.command)
	}
	return taskHandle.exitCode, nil
}

// StdoutFile returns a file handle for file to the task's stdout file.
func (taskHandle *localTaskHandle) StdoutFile() (*os.File, error) {
	return os.Open(taskHandle.stdoutFile.Name())
}

// StderrFile returns a file handle for file to the task's stderr file.
func (taskHandle *localTaskHandle) StderrFile() (*os.File, error) {
	return os.Open(taskHandle.stderrFile.Name())
}

// Wait blocks until process is terminated or timeout appeared.
// Returns true when process terminates before timeout, otherwise false.
func (taskHandle *localTaskHandle) Wait(timeout time.Duration) bool {
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

// Clean closes the task's stdout & stderr files.
func (taskHandle *localTaskHandle) Clean() error {
	if err := taskHandle.stdoutFile.Close(); err != nil {
		return err
	}
	return taskHandle.stderrFile.Close()
}

// EraseOutput removes task's stdout & stderr files.
func (taskHandle *localTaskHandle) EraseOutput() error {
	return removeOutputFiles(taskHandle.stdoutFile, taskHandle.stderrFile)
}

// Address returns address where task was located.
func (taskHandle *localTaskHandle) Address() string {
	return "127.0.0.1"
}
