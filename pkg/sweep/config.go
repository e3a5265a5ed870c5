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
	"strconv"
	"time"

	"github.com/daynix/NetMeter/pkg/workloads/iperf"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// TimestampLayout names result directories and files.
const TimestampLayout = "2006_01_02_15-04-05"

var validate = validator.New()

// Timing holds the pauses between the steps of a run.
type Timing struct {
	// ServerStartup is given to a server before the client starts.
	ServerStartup time.Duration
	// ClientSettle is waited after the client runtime, before checking on the client.
	ClientSettle time.Duration
	// Grace is the one extension given to a client that did not exit in time.
	Grace time.Duration
	// Cooldown follows every client.
	Cooldown time.Duration
	// StopSettle follows killing a running server.
	StopSettle time.Duration
}

// DefaultTiming returns the pauses used against real endpoints.
func DefaultTiming() Timing {
	return Timing{
		ServerStartup: 10 * time.Second,
		ClientSettle:  2 * time.Second,
		Grace:         10 * time.Second,
		Cooldown:      10 * time.Second,
		StopSettle:    10 * time.Second,
	}
}

// perSize is the overhead of one payload size run besides the client runtime.
func (t Timing) perSize() time.Duration {
	return t.ServerStartup + t.ClientSettle + t.Cooldown + t.StopSettle
}

// Config of one sweep: one protocol and stream count, both directions.
type Config struct {
	Protocol iperf.Protocol `validate:"oneof=TCP UDP"`
	Streams  int            `validate:"min=1"`
	Runtime  time.Duration  `validate:"min=10s"`
	Sizes    []int          `validate:"min=1,dive,min=1"`

	ExportDir string `validate:"required"`
	// Timestamp of the whole run, formatted with TimestampLayout.
	Timestamp string `validate:"required"`
	Title     string

	Iperf  iperf.Config
	Timing Timing
}

// Validate checks the configuration and fits the sizes to the protocol.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid sweep configuration")
	}
	sizes, err := iperf.BendSizes(c.Protocol, c.Sizes)
	if err != nil {
		return err
	}
	c.Sizes = sizes
	return nil
}

// ExpectedDuration estimates the time both directions of the sweep take.
func (c Config) ExpectedDuration() time.Duration {
	return 2*time.Duration(len(c.Sizes))*(c.Runtime+c.Timing.perSize()) + 2*c.Timing.StopSettle
}

// ParseSizes converts size flag values to byte counts.
func ParseSizes(values []string) ([]int, error) {
	return parsePositive("payload size", values)
}

// ParseStreams converts stream count flag values.
func ParseStreams(values []string) ([]int, error) {
	return parsePositive("number of streams", values)
}

func parsePositive(what string, values []string) ([]int, error) {
	numbers := make([]int, 0, len(values))
	for _, value := range values {
		number, err := strconv.Atoi(value)
		if err != nil || number < 1 {
			return nil, errors.Errorf("can not test for %q: the %s must be a positive integer", value, what)
		}
		numbers = append(numbers, number)
	}
	return numbers, nil
}

// ParseProtocols converts protocol flag values.
func ParseProtocols(values []string) ([]iperf.Protocol, error) {
	protocols := make([]iperf.Protocol, 0, len(values))
	for _, value := range values {
		protocol, err := iperf.ParseProtocol(value)
		if err != nil {
			return nil, err
		}
		protocols = append(protocols, protocol)
	}
	return protocols, nil
}
