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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandLog appends every command a sweep runs to a file, one timestamped line each.
type CommandLog struct {
	path string
	now  func() time.Time
}

// NewCommandLog returns a CommandLog appending to path.
func NewCommandLog(path string) *CommandLog {
	return &CommandLog{path: path, now: time.Now}
}

// commandLine renders argv as it runs on the endpoint. Remote access clients get
// the remote command as their last argument; only that part is kept.
func commandLine(argv []string) string {
	if len(argv) == 0 {
		return ""
	}
	switch filepath.Base(argv[0]) {
	case "ssh", "winexe":
		return argv[len(argv)-1]
	}
	return strings.Join(argv, " ")
}

// Log records argv run on the endpoint named connName.
func (l *CommandLog) Log(connName string, argv []string) error {
	logrus.Debugf("%s: %s", connName, strings.Join(argv, " "))

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "cannot open command log %q", l.path)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "[ %s ] %s: %s\n", l.now().Format("15:04:05"), connName, commandLine(argv))
	return errors.Wrapf(err, "cannot write command log %q", l.path)
}
