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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommandLine(t *testing.T) {
	Convey("Remote commands are logged as they run on the endpoint", t, func() {
		So(commandLine([]string{"/usr/bin/ssh", "-p", "22", "host", "iperf -s -i 10"}), ShouldEqual, "iperf -s -i 10")
		So(commandLine([]string{"winexe", "-A", "creds", "//host", "iperf.exe -s"}), ShouldEqual, "iperf.exe -s")
		So(commandLine([]string{"iperf", "-c", "10.0.0.2"}), ShouldEqual, "iperf -c 10.0.0.2")
		So(commandLine(nil), ShouldEqual, "")
	})
}

func TestCommandLog(t *testing.T) {
	Convey("When commands are logged", t, func() {
		dir, err := ioutil.TempDir("", "commandlog")
		So(err, ShouldBeNil)
		defer os.RemoveAll(dir)

		commands := NewCommandLog(filepath.Join(dir, "commands.log"))
		commands.now = func() time.Time { return time.Date(2026, 10, 17, 12, 0, 5, 0, time.UTC) }

		So(commands.Log("cl1", []string{"iperf", "-s"}), ShouldBeNil)
		So(commands.Log("cl2", []string{"ssh", "host", "killall -9 iperf"}), ShouldBeNil)

		Convey("Every command is appended as one timestamped line", func() {
			content, err := ioutil.ReadFile(filepath.Join(dir, "commands.log"))
			So(err, ShouldBeNil)
			So(string(content), ShouldEqual,
				"[ 12:00:05 ] cl1: iperf -s\n[ 12:00:05 ] cl2: killall -9 iperf\n")
		})
	})

	Convey("Logging into a missing directory fails", t, func() {
		commands := NewCommandLog(filepath.Join(os.TempDir(), "no-such-dir-netmeter", "commands.log"))
		So(commands.Log("cl1", []string{"iperf"}), ShouldNotBeNil)
	})
}
