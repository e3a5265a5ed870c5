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
	"github.com/pkg/errors"
)

// Predefined types of metadata.
// This selector allows to group metadata by their common characteristics.
// TypeFlags holds the flags NetMeter was started with, TypeEnviron the NETMETER_
// environment variables and TypeSummary the summary of one directional sweep.
const (
	TypeEmpty   = ""
	TypeFlags   = "flags"
	TypeEnviron = "environ"
	TypeSummary = "summary"
)

// Metadata interface defines methods which must be supported by DB backend
type Metadata interface {
	// Record stores a key and value and associates with the run id.
	Record(key string, value string, kind string) error
	// RecordMap stores a key and value map and associates with the run id.
	RecordMap(metadata map[string]string, kind string) error
	// GetByKind retrieves single metadata type from the database.
	// Returns error if no kind or too many groups found.
	GetByKind(kind string) (map[string]string, error)
	// Clear deletes all metadata entries associated with the current run id.
	Clear() error
}

// NewDefault initialize metadata object which is configured via flags. It returns nil
// Metadata when recording is disabled.
func NewDefault(runID string) (Metadata, error) {
	switch DatabaseFlag.Value() {
	case Disabled:
		return nil, nil
	case "cassandra":
		return NewCassandra(runID, DefaultCassandraConfig())
	case "influxdb":
		return NewInfluxDB(runID, DefaultInfluxDBConfig())
	}

	return nil, errors.Errorf("unsupported database for metadata: %q", DatabaseFlag.Value())
}
