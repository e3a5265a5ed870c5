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

package main

import (
	"strings"
	"time"

	"github.com/daynix/NetMeter/pkg/compare"
	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/utils/errutil"
	"github.com/sirupsen/logrus"
)

var (
	oldDirsArg = conf.Arg("old", "Comma separated result directories of the old runs (glob patterns allowed)")
	newDirsArg = conf.Arg("new", "Comma separated result directories of the new runs, in the order of the old ones")
	outDirArg  = conf.Arg("output", "Directory the comparisons are written to")
)

func main() {
	conf.SetAppName("netmeter-compare")
	conf.SetHelp(`Compares the summaries of old and new NetMeter result directories, pair by pair,
and writes one text comparison per pair.`)
	errutil.Check(conf.ParseFlags())
	logrus.SetLevel(conf.LogLevel())

	oldDirs := compare.ExpandDirs(strings.Split(*oldDirsArg, ","))
	newDirs := compare.ExpandDirs(strings.Split(*newDirsArg, ","))
	written, err := compare.Run(oldDirs, newDirs, *outDirArg, time.Now())
	errutil.Check(err)
	for _, path := range written {
		logrus.Info(path)
	}
}
