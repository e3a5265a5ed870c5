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

package iperf

import (
	"strconv"
	"time"

	"github.com/daynix/NetMeter/pkg/conf"
)

const (
	name = "Iperf"
	// ReportInterval is the interval of iperf reports; one report is one repetition.
	ReportInterval = 10 * time.Second
	// udpBandwidth lets UDP clients send as fast as the link allows.
	udpBandwidth = "1000000M"
)

// Config is a config for iperf 2 servers and clients.
// iperf 2.0.x, used options:
// -s             run in server mode
// -c <host>      run in client mode, connecting to <host>
// -i <sec>       seconds between periodic bandwidth reports
// -y C           report as comma separated values
// -u             use UDP rather than TCP
// -b <bw>        UDP bandwidth to send at
// -w <size>      TCP window size
// -t <sec>       time in seconds to transmit for
// -l <len>       length of buffer to read or write
// -P <n>         number of parallel client threads to run
type Config struct {
	TCPWindow string `help:"TCP window size passed to iperf with -w; empty keeps the system default"`

	flagPrefix string
}

var defaultConfig = Config{
	flagPrefix: name,
}

// DefaultConfig returns Config with values taken from flags.
func DefaultConfig() Config {
	conf.Process(&defaultConfig)
	return defaultConfig
}

// Repetitions returns the number of full report intervals in runtime and the client
// duration. A runtime that is a multiple of the report interval gets one more second,
// so the last interval report is written before the client exits.
func Repetitions(runtime time.Duration) (repetitions int, clientRuntime time.Duration) {
	seconds := int(runtime / time.Second)
	interval := int(ReportInterval / time.Second)
	repetitions = seconds / interval
	clientRuntime = time.Duration(seconds) * time.Second
	if seconds%interval == 0 {
		clientRuntime += time.Second
	}
	return repetitions, clientRuntime
}

func protocolOptions(protocol Protocol, config Config, client bool) []string {
	if protocol == UDP {
		if client {
			return []string{"-u", "-b", udpBandwidth}
		}
		return []string{"-u"}
	}
	if config.TCPWindow != "" {
		return []string{"-w", config.TCPWindow}
	}
	return nil
}

// ServerArgs returns iperf arguments of a server reporting every interval as CSV.
func ServerArgs(protocol Protocol, config Config) []string {
	args := []string{"-s", "-i", strconv.Itoa(int(ReportInterval / time.Second)), "-y", "C"}
	return append(args, protocolOptions(protocol, config, false)...)
}

// ClientArgs returns iperf arguments of a client sending size bytes buffers over
// streams parallel connections for clientRuntime.
func ClientArgs(protocol Protocol, config Config, serverAddress string, clientRuntime time.Duration, size, streams int) []string {
	args := []string{
		"-c", serverAddress,
		"-t", strconv.Itoa(int(clientRuntime / time.Second)),
		"-l", strconv.Itoa(size),
		"-P", strconv.Itoa(streams),
	}
	return append(args, protocolOptions(protocol, config, true)...)
}
