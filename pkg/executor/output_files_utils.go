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
	"io/ioutil"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
)

// baseName returns the last element of a slash or backslash separated path, so that
// Windows binaries like C:\iperf\iperf.exe are named properly.
func baseName(binary string) string {
	if i := strings.LastIndexAny(binary, `/\`); i >= 0 {
		return binary[i+1:]
	}
	return binary
}

func getBinaryNameFromCommand(command Command) (string, error) {
	if len(command.Argv) == 0 || command.Argv[0] == "" {
		return "", errors.New("empty command")
	}
	return baseName(command.Argv[0]), nil
}

// createExecutorOutputFiles opens the output files of command. Paths requested by the
// command are truncated; missing ones are created in a fresh directory under the
// working directory, named after prefix and the binary.
func createExecutorOutputFiles(command Command, prefix string) (stdout, stderr *os.File, err error) {
	commandName, err := getBinaryNameFromCommand(command)
	if err != nil {
		return nil, nil, err
	}

	stdoutFileName, stderrFileName := command.StdoutPath, command.StderrPath
	if stdoutFileName == "" || stderrFileName == "" {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, nil, errors.Wrap(err, "failed to get working directory")
		}
		outputDir, err := ioutil.TempDir(pwd, prefix+"_"+commandName+"_")
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create output directory for %s", commandName)
		}
		if stdoutFileName == "" {
			stdoutFileName = path.Join(outputDir, "stdout")
		}
		if stderrFileName == "" {
			stderrFileName = path.Join(outputDir, "stderr")
		}
	}

	stdout, err = os.Create(stdoutFileName)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to create %q", stdoutFileName)
	}

	stderr, err = os.Create(stderrFileName)
	if err != nil {
		stdout.Close()
		os.Remove(stdoutFileName)
		return nil, nil, errors.Wrapf(err, "failed to create %q", stderrFileName)
	}

	return stdout, stderr, nil
}

// removeOutputFiles removes output files and their directory when it was created for them.
func removeOutputFiles(stdout, stderr *os.File) error {
	for _, file := range []*os.File{stdout, stderr} {
		if err := os.Remove(file.Name()); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	dir := path.Dir(stdout.Name())
	if path.Dir(stderr.Name()) == dir {
		// Only an empty directory is removed, so data directories survive.
		if entries, err := ioutil.ReadDir(dir); err == nil && len(entries) == 0 {
			return os.Remove(dir)
		}
	}
	return nil
}
