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

package fs

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestReadTail(t *testing.T) {
	Convey("When reading the tail of a file", t, func() {
		dir, err := ioutil.TempDir("", "netmeter-fs")
		So(err, ShouldBeNil)
		Reset(func() { os.RemoveAll(dir) })

		file := path.Join(dir, "iperf_client.err")
		So(ioutil.WriteFile(file, []byte("one\ntwo\nthree\nfour\n"), 0644), ShouldBeNil)

		Convey("Only the requested number of lines is returned", func() {
			tail, err := ReadTail(file, 2)
			So(err, ShouldBeNil)
			So(tail, ShouldEqual, "three\nfour\n")
		})

		Convey("Short files are returned whole", func() {
			tail, err := ReadTail(file, 10)
			So(err, ShouldBeNil)
			So(tail, ShouldEqual, "one\ntwo\nthree\nfour\n")
		})

		Convey("Empty files have an empty tail", func() {
			empty := path.Join(dir, "empty")
			So(ioutil.WriteFile(empty, nil, 0644), ShouldBeNil)
			tail, err := ReadTail(empty, 5)
			So(err, ShouldBeNil)
			So(tail, ShouldBeEmpty)
		})

		Convey("Missing files are an error", func() {
			_, err := ReadTail(path.Join(dir, "missing"), 5)
			So(err, ShouldNotBeNil)
		})

		Convey("Nested directories can be created twice", func() {
			nested := path.Join(dir, "a", "raw-data")
			So(CreateDir(nested), ShouldBeNil)
			So(CreateDir(nested), ShouldBeNil)
			info, err := os.Stat(nested)
			So(err, ShouldBeNil)
			So(info.IsDir(), ShouldBeTrue)
		})
	})
}
