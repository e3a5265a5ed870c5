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

package metadata

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/daynix/NetMeter/pkg/conf"
	"github.com/daynix/NetMeter/pkg/measurement"
	"github.com/daynix/NetMeter/pkg/summary"
	"github.com/pkg/errors"
)

// RecordRuntimeEnv stores the run configuration, the NETMETER_ environment and the
// host the run was started on.
func RecordRuntimeEnv(metadata Metadata, runStart time.Time) error {
	// Store configuration.
	err := recordFlags(metadata)
	if err != nil {
		return err
	}

	err = recordEnv(metadata, conf.EnvironmentPrefix)
	if err != nil {
		return err
	}

	hostname, err := os.Hostname()
	if err != nil {
		return errors.Wrap(err, "cannot retrieve hostname")
	}
	// Store hostname and start time.
	return metadata.RecordMap(map[string]string{"time": runStart.Format(time.RFC822Z), "host": hostname}, TypeEmpty)
}

// SummaryKind is the metadata kind the summary of the named sweep is recorded under.
func SummaryKind(name string) string {
	return fmt.Sprintf("%s_%s", TypeSummary, name)
}

// RecordSummary stores the summary series of one directional sweep. Every size becomes
// one "size_<bytes>" entry holding the row flag, the rate and its deviation.
func RecordSummary(metadata Metadata, name string, series summary.Series, unit summary.RateUnit) error {
	summaryMetadata := map[string]string{
		"name":   name,
		"status": series.Status().String(),
		"unit":   unit.Name,
	}
	if mean, ok := series.Mean(); ok {
		summaryMetadata["mean"] = measurement.FormatFloat(mean)
	}
	for _, row := range series {
		summaryMetadata["size_"+strconv.Itoa(row.Size)] = fmt.Sprintf("%d %s %s",
			row.OK, measurement.FormatFloat(row.Rate), measurement.FormatFloat(row.Stdev))
	}

	return errors.Wrapf(metadata.RecordMap(summaryMetadata, SummaryKind(name)), "cannot record summary %q", name)
}

// recordFlags saves whole flags based configuration in the metadata information.
func recordFlags(metadata Metadata) error {
	flags := conf.GetFlags()
	return metadata.RecordMap(flags, TypeFlags)
}

// recordEnv adds all OS Environment variables that starts with prefix 'prefix'
// in the metadata information
func recordEnv(metadata Metadata, prefix string) error {
	envMetadata := map[string]string{}
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, prefix) {
			fields := strings.SplitN(env, "=", 2)
			envMetadata[fields[0]] = fields[1]
		}
	}
	return metadata.RecordMap(envMetadata, TypeEnviron)
}
