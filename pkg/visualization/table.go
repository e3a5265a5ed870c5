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
	"io"

	"github.com/olekukonko/tablewriter"
)

// DrawTable draws a struct with headers and data rows.
func DrawTable(w io.Writer, table *Table) {
	output := tablewriter.NewWriter(w)
	output.SetHeader(table.headers)
	output.SetAutoFormatHeaders(false)
	output.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, v := range table.data {
		output.Append(v)
	}
	output.Render()
}
