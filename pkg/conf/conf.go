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

// conf is a helper for NetMeter configuration for both command line interface
// and environment variables.
// It gives ability to register arguments which will be fetched from
// CLI input OR environment variable.
// By default it registers following options:
// <NETMETER_LOG> --log <Log level: debug, info, warn, error, fatal, panic> Default: info
//
// When `ParseEnv` is executed, only the environment arguments are parsed.
// `ParseEnv` can be run multiple times.
//
// When `ParseFlags` is executed, the arguments from both CLI and Env are parsed.
// In case of --help option - it prints help with every registered flag.

package conf

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

// envPrefix is prepended to upper cased flag names to get environment variable names.
const envPrefix = "NETMETER"

// EnvironmentPrefix is the prefix shared by all environment variables read by conf.
const EnvironmentPrefix = envPrefix + "_"

var (
	app = kingpin.New("netmeter", "Network performance measurement with iperf and mpstat")
	// Default flags and values.
	logLevelFlag = NewStringFlag(
		"log",
		"Log level: debug, info, warn, error, fatal, panic",
		"info",
	)
	isEnvParsed = false
)

// SetHelp sets the help message for the CLI.
func SetHelp(help string) {
	app.Help = help
}

// SetAppName sets application name for CLI output.
func SetAppName(name string) {
	app.Name = name
}

// LogLevel returns configured logLevel from input option or env variable.
// If it cannot parse the log level, it returns default value.
func LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(logLevelFlag.Value())
	if err == nil {
		return level
	}

	level, err = logrus.ParseLevel(logLevelFlag.defaultValue)
	if err == nil {
		return level
	}

	// Programmer error.
	panic(errors.Wrap(err, "parsing log level failed"))
}

// AppName returns specified app name.
func AppName() string {
	return app.Name
}

// ParseFlags parse both the command line flags of the process and
// environment variables.
func ParseFlags() error {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses given arguments and environment variables. Positional
// arguments registered with Arg are filled too.
func ParseArgs(args []string) error {
	_, err := app.Parse(args)
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse command line flags")
}

// ParseEnv parse the environment for arguments.
func ParseEnv() error {
	_, err := app.Parse([]string{})
	if err == nil {
		isEnvParsed = true
		return nil
	}

	return errors.Wrapf(err, "could not parse environment flags")
}

// Arg registers a required positional argument.
func Arg(name, help string) *string {
	return app.Arg(name, help).Required().String()
}

// getFlagsDefinition returns current, default, keys and description for every flag.
// Notes: order is important because it logically groups flags.
func getFlagsDefinition() (flags []struct{ Name, Value, Default, Help string }) {

	for _, flag := range app.Model().Flags {

		// Skip kingpin builtin flags that aren't compatible with environment based configuration.
		if strings.Contains(flag.Name, "-") || flag.Name == "help" {
			continue
		}

		// Returned values are basic types (string, int) or time.Duration and then serialized to string.
		var value interface{}

		if slv, ok := flag.Value.(*StringListValue); ok {
			value = slv.String()
		} else {
			// Values of other flags are hidden in non exported kingpin types.
			elem := reflect.ValueOf(flag.Value).Elem()

			switch elem.Kind() {

			case reflect.Int64, reflect.Int:
				// Duration flags are stored as named int64.
				value = time.Duration(elem.Int())

			case reflect.Struct:
				// Kingpin keeps a pointer to the value in field v.
				field := elem.FieldByName("v")
				if !field.IsValid() {
					value = flag.Value.String()
					break
				}
				valueInField := field.Elem()

				switch valueInField.Kind() {

				case reflect.String:
					value = valueInField.String()

				case reflect.Bool:
					value = valueInField.Bool()

				case reflect.Int64, reflect.Int:
					value = valueInField.Int()

				default:
					value = flag.Value.String()
				}

			default:
				value = flag.Value.String()
			}
		}

		flags = append(flags, struct{ Name, Value, Default, Help string }{
			Name:    flag.Name,
			Help:    flag.Help,
			Default: strings.Join(flag.Default, ","),
			Value:   fmt.Sprintf("%v", value),
		})
	}

	return flags
}

// DumpConfig dumps environment based configuration with current values of flags.
func DumpConfig() string {
	return DumpConfigMap(nil)
}

// DumpConfigMap dumps environment based configuration with current values overwritten by given flagMap.
// Includes "allexport" directives for bash, so the output can be sourced before the next run.
func DumpConfigMap(flagMap map[string]string) string {
	buffer := &bytes.Buffer{}

	buffer.WriteString("# Export are values.\n")
	buffer.WriteString("set -o allexport\n")

	for _, fd := range getFlagsDefinition() {

		fmt.Fprintf(buffer, "\n# %s\n", fd.Help)
		if fd.Default != "" {
			fmt.Fprintf(buffer, "# Default: %s\n", fd.Default)
		}

		value := fd.Value
		if mapValue, ok := flagMap[fd.Name]; ok {
			value = mapValue
		}

		fmt.Fprintf(buffer, "%s=%v\n", envNameOf(fd.Name), value)
	}

	buffer.WriteString("set +o allexport")
	return buffer.String()
}

// GetFlags returns flags as map with current values.
func GetFlags() map[string]string {
	flagsMap := map[string]string{}
	for _, flag := range getFlagsDefinition() {
		flagsMap[flag.Name] = flag.Value
	}
	return flagsMap
}
