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
	"time"
)

// RunMetadata identifies the run a report was produced by.
type RunMetadata struct {
	runID   string
	started time.Time
}

// NewRunMetadata is the RunMetadata constructor.
func NewRunMetadata(ID string, started time.Time) RunMetadata {
	return RunMetadata{
		runID:   ID,
		started: started,
	}
}

// String returns a printable string with the run id and its start time.
func (metadata RunMetadata) String() string {
	if metadata.runID == "" {
		return "Started: " + metadata.started.Format(time.RFC1123)
	}
	return "Run id: " + metadata.runID + ", started: " + metadata.started.Format(time.RFC1123)
}
