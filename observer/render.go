package observer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteHistory renders the update history as a table.
func (r *Registry) WriteHistory(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetTitle("Update history")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"#", "time", "cell", "old", "new"})
	for i, rec := range r.History() {
		tbl.AppendRow(table.Row{
			i + 1,
			rec.Timestamp.Format("15:04:05.000"),
			rec.Cell,
			fmt.Sprint(rec.Old),
			fmt.Sprint(rec.New),
		})
	}
	tbl.Render()
}

// WriteGraph renders the dependency graph as a table, one row per cell.
func (r *Registry) WriteGraph(w io.Writer) {
	graph := r.DependencyGraph()
	cells := make([]string, 0, len(graph))
	for cell := range graph {
		cells = append(cells, cell)
	}
	sort.Strings(cells)

	tbl := table.NewWriter()
	tbl.SetTitle("Dependency graph")
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"cell", "depends on"})
	for _, cell := range cells {
		tbl.AppendRow(table.Row{cell, strings.Join(graph[cell], ", ")})
	}
	tbl.Render()
}
