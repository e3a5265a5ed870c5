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

package conf

import (
	"fmt"
	"os"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/alecthomas/kingpin.v2"
)

func TestNameFromFieldName(t *testing.T) {
	testData := map[string]string{
		"StringArg":      "string_arg",
		"string_arg":     "string_arg",
		"STRINGARG":      "stringarg",
		"STRING_ARG":     "string_arg",
		"StringARG":      "string_arg",
		"IperfTCPWindow": "iperf_tcp_window",
		"Cl1TestIP":      "cl1_test_ip",
		"StringArg1":     "string_arg1",
		"1Arg":           "1_arg",
	}

	for fieldName, expectedResult := range testData {
		Convey(fmt.Sprintf("I should get the name = %q from field name = %q", expectedResult, fieldName), t, func() {
			So(nameFromFieldName(fieldName), ShouldEqual, expectedResult)
		})
	}
}

type endpointTestConfig struct {
	Address     string `help:"test address" type:"ip" default:"127.0.0.1"`
	Binary      string `help:"test binary" defaultFromField:"defaultBinary"`
	Port        int    `help:"test port" default:"22"`
	Unexposed   string
	Unsupported float64

	defaultBinary string
	flagPrefix    string
}

func setEnvFromFieldName(fieldName, value string) error {
	flagID := nameFromFieldName(fieldName)
	flag := definedFlags[flagID]
	if flag == nil {
		return errors.Errorf("No flag is defined with id: %s", flagID)
	}

	return os.Setenv(flag.envName(), value)
}

// clearFlags drops every defined flag so that each test starts clean.
func clearFlags() {
	for _, flag := range definedFlags {
		flag.clear()
	}
	definedFlags = map[string]flagType{}
	isEnvParsed = false

	app = kingpin.New("test", "No help available")
}

func TestStructTagFlags(t *testing.T) {
	clearFlags()
	defer clearFlags()

	Convey("When a struct exposes fields by using struct tags", t, func() {
		config := &endpointTestConfig{defaultBinary: "iperf", flagPrefix: "cl1"}
		So(Process(config), ShouldBeNil)

		Convey("Fields get their defaults before parsing", func() {
			So(config.Address, ShouldEqual, "127.0.0.1")
			So(config.Binary, ShouldEqual, "iperf")
			So(config.Port, ShouldEqual, 22)
			So(config.Unexposed, ShouldEqual, "")
		})

		Convey("Flags are named after the prefix and the field", func() {
			So(definedFlags, ShouldContainKey, "cl1_address")
			So(definedFlags, ShouldContainKey, "cl1_port")
			So(definedFlags, ShouldNotContainKey, "cl1_unexposed")
			So(definedFlags, ShouldNotContainKey, "cl1_unsupported")
		})

		Convey("A second struct with the same prefix shares the flags", func() {
			other := &endpointTestConfig{defaultBinary: "iperf", flagPrefix: "cl1"}
			So(Process(other), ShouldBeNil)
			So(other.Port, ShouldEqual, 22)
		})

		Convey("After parsing the environment fields hold its values", func() {
			So(setEnvFromFieldName("cl1Address", "10.0.0.2"), ShouldBeNil)
			So(setEnvFromFieldName("cl1Port", "2222"), ShouldBeNil)
			So(setEnvFromFieldName("cl1Unexposed", "value"), ShouldNotBeNil)

			So(ParseEnv(), ShouldBeNil)
			So(Process(config), ShouldBeNil)

			So(config.Address, ShouldEqual, "10.0.0.2")
			So(config.Port, ShouldEqual, 2222)
			So(config.Binary, ShouldEqual, "iperf")
		})
	})
}

type wrongIntDefaultConfig struct {
	Port int `help:"test port" default:"not an Int"`
}

type wrongIPDefaultConfig struct {
	Address string `help:"test IP" type:"ip" default:"255.255.255.459"`
}

type unsupportedTypeConfig struct {
	Ratio float64 `help:"this flag should not be supported"`
}

type missingHelpConfig struct {
	Port int `default:"1"`
}

func TestIncorrectStructTags(t *testing.T) {
	clearFlags()
	defer clearFlags()

	Convey("When a struct cannot be exposed as flags", t, func() {
		Convey("A value instead of a pointer to struct is rejected", func() {
			So(Process(wrongIntDefaultConfig{}), ShouldNotBeNil)
		})

		Convey("An int default that does not parse is rejected", func() {
			err := Process(&wrongIntDefaultConfig{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "Wrong default value for Int type flag")
		})

		Convey("An IP default that does not parse is rejected", func() {
			err := Process(&wrongIPDefaultConfig{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEndWith, "is not an IP address")
		})

		Convey("A tagged field of an unsupported type is rejected", func() {
			err := Process(&unsupportedTypeConfig{})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "float64 type not supported for a flag")
		})

		Convey("Tags without help are rejected", func() {
			So(Process(&missingHelpConfig{}), ShouldNotBeNil)
		})
	})
}
