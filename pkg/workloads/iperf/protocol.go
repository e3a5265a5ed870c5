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
	"strings"

	"github.com/pkg/errors"
)

// Protocol is the transport iperf measures.
type Protocol string

const (
	// TCP streams.
	TCP Protocol = "TCP"
	// UDP datagrams.
	UDP Protocol = "UDP"

	tcpFields = 9
	udpExtra  = 5

	// MaxUDPDatagram is the largest UDP payload that fits in one IPv4 datagram.
	MaxUDPDatagram = 65507
	maxUDPBuffer   = 65536
)

// ParseProtocol turns a user supplied protocol name into a Protocol.
func ParseProtocol(name string) (Protocol, error) {
	switch Protocol(strings.ToUpper(strings.TrimSpace(name))) {
	case TCP:
		return TCP, nil
	case UDP:
		return UDP, nil
	}
	return "", errors.Errorf("protocol %q is not supported (TCP or UDP expected)", name)
}

// extraFields is the number of CSV fields a protocol adds after the rate.
func (p Protocol) extraFields() int {
	if p == UDP {
		return udpExtra
	}
	return 0
}

// PrintUnit names the payload unit in reports: buffers for TCP, datagrams for UDP.
func (p Protocol) PrintUnit() string {
	if p == UDP {
		return "Datagram"
	}
	return "Buffer"
}

// BendSize fits a payload size to the protocol limits. UDP sizes just above the
// largest datagram are lowered to it; larger ones are a configuration error.
func BendSize(protocol Protocol, size int) (int, error) {
	if size < 1 {
		return 0, errors.Errorf("payload size %d must be positive", size)
	}
	if protocol != UDP || size <= MaxUDPDatagram {
		return size, nil
	}
	if size <= maxUDPBuffer {
		return MaxUDPDatagram, nil
	}
	return 0, errors.Errorf("UDP datagram size %d exceeds %d bytes", size, maxUDPBuffer)
}

// BendSizes applies BendSize to every size of a sweep.
func BendSizes(protocol Protocol, sizes []int) ([]int, error) {
	bent := make([]int, len(sizes))
	for i, size := range sizes {
		var err error
		if bent[i], err = BendSize(protocol, size); err != nil {
			return nil, err
		}
	}
	return bent, nil
}
