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

package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/utils/fs"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Initialize creates the result directory and configures logrus to write to both
// stderr and <directory>/<appName>.log. The returned file is to be closed at exit.
func Initialize(appName, uuid, directory string) (*os.File, error) {
	if err := fs.CreateDir(directory); err != nil {
		return nil, err
	}
	logFile, err := os.OpenFile(path.Join(directory, appName+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create log file in %q", directory)
	}

	// Setup logging set to both output and logFile.
	logrus.SetLevel(conf.LogLevel())
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05.100"})
	logrus.SetOutput(io.MultiWriter(logFile, os.Stderr))
	logrus.Infof("Working directory %q", directory)

	// Logging and outputting run ID.
	logrus.Info("Starting ", appName, " with uid ", uuid)
	fmt.Println(uuid)
	return logFile, nil
}
