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
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/daynix/NetMeter/pkg/summary"
)

// PrintList prints elements from list.
func PrintList(w io.Writer, list *List) {
	for _, value := range list.elements {
		fmt.Fprintln(w, list.label+value)
	}
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', 3, 64)
}

func rowStatus(ok int) string {
	switch ok {
	case summary.Passed:
		return "OK"
	case summary.Approximate:
		return "approx."
	}
	return "failed"
}

// SummaryTable lays out one row per payload size with its rate and deviation in unit.
// Failed sizes are shown as placeholders.
func SummaryTable(printUnit string, unit summary.RateUnit, series summary.Series) *Table {
	headers := []string{
		printUnit + " size",
		"Status",
		"BW (" + unit.Name + ")",
		"Stdev (" + unit.Name + ")",
	}
	data := [][]string{}
	for _, row := range series {
		size := summary.HumanSize(row.Size, true)
		if row.OK == summary.Failed && row.Rate == 0 {
			data = append(data, []string{size, rowStatus(row.OK), "-", "-"})
			continue
		}
		data = append(data, []string{
			size,
			rowStatus(row.OK),
			formatRate(unit.Humanize(row.Rate)),
			formatRate(unit.Humanize(row.Stdev)),
		})
	}
	return NewTable(headers, data)
}

// CPUTable lays out the busy fraction of the local host per payload size.
func CPUTable(printUnit string, series summary.CPUSeries) *Table {
	headers := []string{printUnit + " size", "CPU busy", "Stdev"}
	data := [][]string{}
	for _, row := range series {
		data = append(data, []string{
			summary.HumanSize(row.Size, true),
			strconv.FormatFloat(row.Busy, 'f', 3, 64),
			strconv.FormatFloat(row.Stdev, 'f', 3, 64),
		})
	}
	return NewTable(headers, data)
}

func rowsBySize(series summary.Series) map[int]summary.Row {
	rows := map[int]summary.Row{}
	for _, row := range series {
		rows[row.Size] = row
	}
	return rows
}

func cpuBySize(series summary.CPUSeries) map[int]summary.CPURow {
	rows := map[int]summary.CPURow{}
	for _, row := range series {
		rows[row.Size] = row
	}
	return rows
}

// sizesOf lists the sizes of both series in ascending order, each once.
func sizesOf(older, newer summary.Series) []int {
	seen := map[int]bool{}
	sizes := []int{}
	for _, series := range []summary.Series{older, newer} {
		for _, row := range series {
			if !seen[row.Size] {
				seen[row.Size] = true
				sizes = append(sizes, row.Size)
			}
		}
	}
	sort.Ints(sizes)
	return sizes
}

func compareCell(row summary.Row, found bool, unit summary.RateUnit) string {
	if !found || row.OK == summary.Failed {
		return "-"
	}
	cell := formatRate(unit.Humanize(row.Rate))
	if row.OK == summary.Approximate {
		cell += " ~"
	}
	return cell
}

func cpuCell(row summary.CPURow, found bool) string {
	if !found {
		return "-"
	}
	return strconv.FormatFloat(row.Busy, 'f', 3, 64)
}

// CompareTable lays out old and new rates side by side per payload size, with the
// relative change and the local CPU usage when it was sampled. Approximate rates are
// marked with "~".
func CompareTable(printUnit string, unit summary.RateUnit, older, newer summary.Series, oldCPU, newCPU summary.CPUSeries) *Table {
	headers := []string{
		printUnit + " size",
		"Old BW (" + unit.Name + ")",
		"New BW (" + unit.Name + ")",
		"Change",
	}
	withCPU := len(oldCPU) > 0 || len(newCPU) > 0
	if withCPU {
		headers = append(headers, "Old CPU", "New CPU")
	}

	oldRows, newRows := rowsBySize(older), rowsBySize(newer)
	oldCPURows, newCPURows := cpuBySize(oldCPU), cpuBySize(newCPU)
	data := [][]string{}
	for _, size := range sizesOf(older, newer) {
		oldRow, oldFound := oldRows[size]
		newRow, newFound := newRows[size]
		change := "-"
		if oldFound && newFound && oldRow.OK != summary.Failed && newRow.OK != summary.Failed && oldRow.Rate > 0 {
			change = fmt.Sprintf("%+.1f%%", (newRow.Rate-oldRow.Rate)/oldRow.Rate*100)
		}

		line := []string{
			summary.HumanSize(size, true),
			compareCell(oldRow, oldFound, unit),
			compareCell(newRow, newFound, unit),
			change,
		}
		if withCPU {
			oldCPURow, oldCPUFound := oldCPURows[size]
			newCPURow, newCPUFound := newCPURows[size]
			line = append(line, cpuCell(oldCPURow, oldCPUFound), cpuCell(newCPURow, newCPUFound))
		}
		data = append(data, line)
	}
	return NewTable(headers, data)
}
