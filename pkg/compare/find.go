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

// Package compare sets the summaries of two NetMeter result directories side by side.
package compare

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RawDataDir is the subdirectory of a result directory holding the data files.
const RawDataDir = "raw-data"

// Directions of a result directory and the titles they are compared under.
var directions = []struct {
	name  string
	title string
}{
	{"one2two", "Client 1 to Client 2"},
	{"two2one", "Client 2 to Client 1"},
}

const (
	iperfSuffix  = "_iperf_summary.dat"
	mpstatSuffix = "_mpstat_summary.dat"
)

// Results are the summary files found in one result directory.
type Results struct {
	Dir      string
	Protocol string
	Streams  string
	// files maps a direction and summary suffix to the file path.
	files map[string]string
}

// Iperf returns the bandwidth summary of direction, "" when there is none.
func (r Results) Iperf(direction string) string {
	return r.files[direction+iperfSuffix]
}

// Mpstat returns the CPU summary of direction, "" when there is none.
func (r Results) Mpstat(direction string) string {
	return r.files[direction+mpstatSuffix]
}

// Find looks up the summaries in the raw data directory of dir. At most one summary
// of every kind is allowed, and all of them must come from the same protocol and stream
// count, which are read from the file names.
func Find(dir string) (Results, error) {
	rawDir := filepath.Join(dir, RawDataDir)
	entries, err := ioutil.ReadDir(rawDir)
	if err != nil {
		return Results{}, errors.Wrapf(err, "cannot list %q", rawDir)
	}

	results := Results{Dir: dir, files: map[string]string{}}
	protocols := map[string]bool{}
	streams := map[string]bool{}
	for _, direction := range directions {
		for _, suffix := range []string{iperfSuffix, mpstatSuffix} {
			kind := direction.name + suffix
			found := []string{}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), kind) {
					found = append(found, entry.Name())
				}
			}
			switch len(found) {
			case 0:
				continue
			case 1:
			default:
				return Results{}, errors.Errorf("expecting only one %s file in %q, found: %s",
					kind, rawDir, strings.Join(found, ", "))
			}

			params := strings.Split(found[0], "_")
			if len(params) < 2 {
				return Results{}, errors.Errorf("cannot read the protocol and streams of %q", found[0])
			}
			protocols[params[0]] = true
			streams[params[1]] = true
			results.files[kind] = filepath.Join(rawDir, found[0])
		}
	}

	if len(protocols) > 1 {
		return Results{}, errors.Errorf("found tests using different protocols in %q", dir)
	}
	if len(streams) > 1 {
		return Results{}, errors.Errorf("found tests using different stream numbers in %q", dir)
	}
	for protocol := range protocols {
		results.Protocol = protocol
	}
	for count := range streams {
		results.Streams = count
	}
	return results, nil
}

// DataUnit names the payload unit of a comparison of two protocols.
func DataUnit(oldProtocol, newProtocol string) string {
	switch {
	case oldProtocol == "TCP" && newProtocol == "TCP":
		return "Buffer"
	case oldProtocol == "UDP" && newProtocol == "UDP":
		return "Datagram"
	}
	return "Buffer/Datagram"
}
