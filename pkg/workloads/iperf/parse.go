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
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/pkg/errors"
)

// timestampLayout is the iperf CSV timestamp, YYYYMMDDHHMMSS.
const timestampLayout = "20060102150405"

const maxLineLength = 1024 * 1024

// Parser turns iperf CSV server reports into samples.
// All fields but the timestamp are read from the end of the row, since the beginning of
// a captured row may be garbled by the tool startup output.
// Parser keeps the time origin of the run, so one Parser serves exactly one run.
type Parser struct {
	protocol    Protocol
	repetitions int

	origin  time.Time
	started bool
}

// NewParser returns a Parser for a run of the given protocol and expected repetitions.
func NewParser(protocol Protocol, repetitions int) *Parser {
	return &Parser{protocol: protocol, repetitions: repetitions}
}

// Line parses one report row. Rows that are not per connection interval reports are
// rejected with false.
func (p *Parser) Line(line string) (measurement.Sample, bool) {
	extra := p.protocol.extraFields()
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != tcpFields+extra || !isDigits(fields[0]) {
		return measurement.Sample{}, false
	}
	timestamp, err := time.Parse(timestampLayout, fields[0])
	if err != nil {
		return measurement.Sample{}, false
	}
	// fromEnd(1) is the last field.
	fromEnd := func(i int) string { return fields[len(fields)-i] }

	var total, lost float64
	if extra > 0 {
		if total, err = strconv.ParseFloat(fromEnd(3), 64); err != nil || total <= 0 {
			return measurement.Sample{}, false
		}
		if lost, err = strconv.ParseFloat(fromEnd(4), 64); err != nil {
			return measurement.Sample{}, false
		}
	}

	if !p.validInterval(fromEnd(3 + extra)) {
		return measurement.Sample{}, false
	}

	id, err := strconv.Atoi(fromEnd(4 + extra))
	if err != nil || id <= 0 {
		return measurement.Sample{}, false
	}

	transferred, err := strconv.ParseFloat(fromEnd(2+extra), 64)
	if err != nil {
		return measurement.Sample{}, false
	}
	rate, err := strconv.ParseFloat(fromEnd(1+extra), 64)
	if err != nil {
		return measurement.Sample{}, false
	}
	if extra > 0 {
		rate = rate * (total - lost) / total
	}

	if !p.started {
		p.origin = timestamp
		p.started = true
	}

	sample := measurement.Sample{
		Time:         timestamp.Sub(p.origin).Seconds(),
		ConnectionID: id,
		Rate:         measurement.Some(rate),
	}
	if transferred < 0 || rate < 0 {
		sample.Rate = measurement.Missing()
	}
	return sample, true
}

// validInterval checks a "start-end" interval field. Summary rows span more than the
// whole run and zero or negative length intervals are malformed.
func (p *Parser) validInterval(field string) bool {
	separator := strings.LastIndex(field, "-")
	if separator <= 0 {
		return false
	}
	start, err := strconv.ParseFloat(field[:separator], 64)
	if err != nil {
		return false
	}
	end, err := strconv.ParseFloat(field[separator+1:], 64)
	if err != nil {
		return false
	}
	return start >= 0 && end > start && end <= float64(p.repetitions)*ReportInterval.Seconds()
}

func isDigits(field string) bool {
	if field == "" {
		return false
	}
	for _, c := range field {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Parse reads a whole server report. Unusable rows are skipped, so only read errors
// are returned. Rows longer than maxLineLength are noise and are dropped whole.
func Parse(r io.Reader, protocol Protocol, repetitions int) ([]measurement.Sample, error) {
	parser := NewParser(protocol, repetitions)
	samples := []measurement.Sample{}

	reader := bufio.NewReader(r)
	for {
		line, overlong, err := readLine(reader)
		if err == io.EOF {
			return samples, nil
		}
		if err != nil {
			return samples, errors.Wrap(err, "cannot read iperf report")
		}
		if overlong {
			continue
		}
		if sample, ok := parser.Line(line); ok {
			samples = append(samples, sample)
		}
	}
}

// readLine returns the next line without its terminator. The remainder of a line over
// maxLineLength is consumed and overlong is set.
func readLine(reader *bufio.Reader) (line string, overlong bool, err error) {
	var buffer []byte
	for {
		chunk, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF && (len(buffer) > 0 || overlong) {
				return string(buffer), overlong, nil
			}
			return "", false, err
		}
		if !overlong {
			if len(buffer)+len(chunk) > maxLineLength {
				overlong = true
				buffer = nil
			} else {
				buffer = append(buffer, chunk...)
			}
		}
		if !isPrefix {
			return string(buffer), overlong, nil
		}
	}
}

// File parses the server report stored at path.
func File(path string, protocol Protocol, repetitions int) ([]measurement.Sample, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open iperf report %q", path)
	}
	defer file.Close()
	return Parse(file, protocol, repetitions)
}
