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

package visualization

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"strings"

	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/pkg/errors"
)

// Direction is the outcome of one directional sweep.
type Direction struct {
	// From and To name the client and the server endpoints.
	From string
	To   string
	// Failed is set when no size measured anything. Nothing else is shown then.
	Failed bool
	Unit   summary.RateUnit
	Series summary.Series
	// CPU is empty when the CPU of neither endpoint was sampled.
	CPU summary.CPUSeries
}

// Report describes one protocol and stream count configuration.
type Report struct {
	Title     string
	Run       RunMetadata
	Protocol  string
	Streams   int
	PrintUnit string
	TCPWindow string

	Directions []Direction
}

func (r Report) heading() string {
	heading := fmt.Sprintf("%s, %d stream", r.Protocol, r.Streams)
	if r.Streams != 1 {
		heading += "s"
	}
	if r.TCPWindow != "" {
		heading += ", w=" + r.TCPWindow
	}
	return heading
}

func (d Direction) warnings() []string {
	warnings := []string{}
	for _, row := range d.Series {
		switch row.OK {
		case summary.Approximate:
			warnings = append(warnings, summary.HumanSize(row.Size, true)+": approximate result")
		case summary.Failed:
			warnings = append(warnings, summary.HumanSize(row.Size, true)+": test failed")
		}
	}
	return warnings
}

func writeDirection(w io.Writer, printUnit string, direction Direction) {
	fmt.Fprintf(w, "\n%s --> %s\n", direction.From, direction.To)
	if direction.Failed {
		fmt.Fprintln(w, "All tests failed.")
		return
	}

	DrawTable(w, SummaryTable(printUnit, direction.Unit, direction.Series))
	if mean, ok := direction.Series.Mean(); ok {
		fmt.Fprintf(w, "Mean bandwidth: %s %s (%s)\n",
			formatRate(direction.Unit.Humanize(mean)), direction.Unit.Name, direction.Series.Status())
	}
	PrintList(w, NewList(direction.warnings(), "WARNING: "))

	if len(direction.CPU) > 0 {
		fmt.Fprintln(w, "Local CPU usage:")
		DrawTable(w, CPUTable(printUnit, direction.CPU))
	}
}

// Write renders the report as text tables.
func (r Report) Write(w io.Writer) error {
	buffer := &bytes.Buffer{}
	if r.Title != "" {
		fmt.Fprintln(buffer, r.Title)
		fmt.Fprintln(buffer, strings.Repeat("=", len(r.Title)))
	}
	fmt.Fprintln(buffer, r.heading())
	fmt.Fprintln(buffer, r.Run.String())
	for _, direction := range r.Directions {
		writeDirection(buffer, r.PrintUnit, direction)
	}

	_, err := buffer.WriteTo(w)
	return errors.Wrap(err, "cannot write report")
}

// Export writes the report to path.
func (r Report) Export(path string) error {
	buffer := &bytes.Buffer{}
	if err := r.Write(buffer); err != nil {
		return err
	}
	return errors.Wrapf(ioutil.WriteFile(path, buffer.Bytes(), 0644), "cannot export report to %q", path)
}
