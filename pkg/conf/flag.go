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
	"net"
	"os"
	"strings"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"
)

// flagType is an internal interface for all flags.
// Every flag should have method for creating `envName` from its name and `clear` method
// for clearing corresponding environment variable from env.
type flagType interface {
	envName() string
	clear()
}

// definedFlags is a package variable which stores all the defined flags. It helps to find
// duplicates when defining flag with the same name.
var definedFlags = map[string]flagType{}

// register stores the flag under its name. Values have to be parsed again afterwards.
func register(flagName string, flag flagType) {
	definedFlags[flagName] = flag
	isEnvParsed = false
}

// checkRedefinition panics when a flag is defined twice in incompatible ways.
func checkRedefinition(flagName string, sameType, sameDefault bool) {
	if !sameType {
		panic(fmt.Sprintf("flag %q was redefined but with different type. Unify the type.", flagName))
	}
	if !sameDefault {
		panic(fmt.Sprintf("flag %q was redefined but with different default value. Unify the default.", flagName))
	}
}

// cliAndEnvFlag represents option's definition from CLI and Environment variable.
// It stores generic data for each defined flag.
type cliAndEnvFlag struct {
	*kingpin.FlagClause
}

func newCliAndEnvFlag(flagName string, description string, defaultValues ...string) *cliAndEnvFlag {
	if definedFlags[flagName] != nil {
		panic(fmt.Sprintf("flag %q was already defined", flagName))
	}

	c := &cliAndEnvFlag{FlagClause: app.Flag(flagName, description)}
	c.OverrideDefaultFromEnvar(c.envName())

	for _, defaultValue := range defaultValues {
		if defaultValue == "" {
			continue
		}
		c.Default(defaultValue)
	}

	return c
}

// envNameOf returns the environment variable name of a flag,
// e.g. "iperf_tcp_window" is read from "NETMETER_IPERF_TCP_WINDOW".
func envNameOf(flagName string) string {
	return fmt.Sprintf("%s_%s", envPrefix, strings.ToUpper(flagName))
}

func (f *cliAndEnvFlag) envName() string {
	return envNameOf(f.Model().Name)
}

// clear unset the corresponded environment variable.
func (f *cliAndEnvFlag) clear() {
	os.Unsetenv(f.envName())
}

// StringFlag represents flag with string value.
type StringFlag struct {
	*cliAndEnvFlag
	defaultValue string
	value        *string
}

// NewStringFlag is a constructor of StringFlag struct.
func NewStringFlag(flagName string, description string, defaultValue string) *StringFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*StringFlag)
		checkRedefinition(flagName, ok, ok && flagDef.defaultValue == defaultValue)
		return flagDef
	}

	flagDef := &StringFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.String()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (s StringFlag) Value() string {
	if !isEnvParsed {
		return s.defaultValue
	}

	return *s.value
}

// IntFlag represents flag with int value.
type IntFlag struct {
	*cliAndEnvFlag
	defaultValue int
	value        *int
}

// NewIntFlag is a constructor of IntFlag struct.
func NewIntFlag(flagName string, description string, defaultValue int) *IntFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*IntFlag)
		checkRedefinition(flagName, ok, ok && flagDef.defaultValue == defaultValue)
		return flagDef
	}

	flagDef := &IntFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, fmt.Sprintf("%d", defaultValue)),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Int()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (i IntFlag) Value() int {
	if !isEnvParsed {
		return i.defaultValue
	}

	return *i.value
}

// SliceFlag represents flag with slice value.
type SliceFlag struct {
	*cliAndEnvFlag
	defaultValue []string
	value        *[]string
}

func sameElements(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NewSliceFlag is a constructor of SliceFlag struct.
func NewSliceFlag(flagName string, description string, elemsInDefaultSlice ...string) *SliceFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*SliceFlag)
		checkRedefinition(flagName, ok, ok && sameElements(flagDef.defaultValue, elemsInDefaultSlice))
		return flagDef
	}

	flagDef := &SliceFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, strings.Join(elemsInDefaultSlice, stringListDelimiter)),
		defaultValue:  elemsInDefaultSlice,
	}
	flagDef.value = StringList(flagDef)
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse. The default is returned
// when conf is not parsed or the flag was not given.
func (s SliceFlag) Value() []string {
	if !isEnvParsed || len(*s.value) == 0 {
		return append([]string{}, s.defaultValue...)
	}

	return *s.value
}

// BoolFlag represents flag with bool value.
type BoolFlag struct {
	*cliAndEnvFlag
	defaultValue bool
	value        *bool
}

// NewBoolFlag is a constructor of BoolFlag struct.
func NewBoolFlag(flagName string, description string, defaultValue bool) *BoolFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*BoolFlag)
		checkRedefinition(flagName, ok, ok && flagDef.defaultValue == defaultValue)
		return flagDef
	}

	flagDef := &BoolFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, fmt.Sprintf("%v", defaultValue)),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Bool()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (b BoolFlag) Value() bool {
	if !isEnvParsed {
		return b.defaultValue
	}

	return *b.value
}

// DurationFlag represents flag with duration value.
type DurationFlag struct {
	*cliAndEnvFlag
	defaultValue time.Duration
	value        *time.Duration
}

// NewDurationFlag is a constructor of DurationFlag struct.
func NewDurationFlag(flagName string, description string, defaultValue time.Duration) *DurationFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*DurationFlag)
		checkRedefinition(flagName, ok, ok && flagDef.defaultValue == defaultValue)
		return flagDef
	}

	flagDef := &DurationFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, defaultValue.String()),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.Duration()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (d DurationFlag) Value() time.Duration {
	if !isEnvParsed {
		return d.defaultValue
	}

	return *d.value
}

// IPFlag represents flag with IP value.
type IPFlag struct {
	*cliAndEnvFlag
	defaultValue string
	value        *net.IP
}

// NewIPFlag is a constructor of IPFlag struct.
func NewIPFlag(flagName string, description string, defaultValue string) *IPFlag {
	if duplicated := definedFlags[flagName]; duplicated != nil {
		flagDef, ok := duplicated.(*IPFlag)
		checkRedefinition(flagName, ok, ok && flagDef.defaultValue == defaultValue)
		return flagDef
	}

	ipDefault := ""
	if ip := net.ParseIP(defaultValue); ip != nil {
		ipDefault = ip.String()
	}

	flagDef := &IPFlag{
		cliAndEnvFlag: newCliAndEnvFlag(flagName, description, ipDefault),
		defaultValue:  defaultValue,
	}
	flagDef.value = flagDef.IP()
	register(flagName, flagDef)
	return flagDef
}

// Value returns value of defined flag after parse.
// NOTE: If conf is not parsed it returns default value (!)
func (i IPFlag) Value() string {
	if !isEnvParsed {
		return i.defaultValue
	}

	if *i.value == nil {
		return ""
	}
	return (*i.value).String()
}
