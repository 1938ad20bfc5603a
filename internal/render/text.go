// Package render produces the human-readable outputs of a replay run: a
// plain-text schema report, Mermaid ER-diagram markup, and an optional
// remote-rendered diagram image. All text output is deterministic — tables,
// columns, indexes, and constraints are sorted so two runs over the same
// input produce byte-identical reports.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// Text renders the final schema as a plain-text report.
func Text(m *schema.Model) string {
	out := []string{"--- Generated Final Schema ---"}

	if len(m.Tables) == 0 {
		out = append(out, "", "No tables found in the final schema.")
	}

	for _, name := range m.TableNames() {
		out = append(out, textTable(name, m.Tables[name])...)
	}

	for _, file := range m.NotProcessedFiles() {
		for _, sql := range m.NotProcessed[file] {
			out = append(out, "", fmt.Sprintf("-- Not processed (%s): %s", file, sql))
		}
	}

	out = append(out, "", "--- End of Schema ---")

	return strings.Join(out, "\n")
}

func textTable(name string, t *schema.Table) []string {
	out := []string{"", "-- Table: " + name}

	if len(t.Columns) == 0 {
		out = append(out, "  (No columns defined)")
	} else {
		out = append(out, "  Columns:")

		for _, colName := range t.ColumnNames() {
			col := t.Columns[colName]

			constraints := ""
			if len(col.Constraints) > 0 {
				constraints = " (" + strings.Join(col.Constraints, ", ") + ")"
			}

			out = append(out, fmt.Sprintf("    - %s: %s%s", colName, col.Type, constraints))
		}
	}

	if len(t.Indexes) > 0 {
		out = append(out, "  Indexes:")

		for _, idxName := range t.IndexNames() {
			idx := t.Indexes[idxName]

			unique := ""
			if idx.Unique {
				unique = "UNIQUE "
			}

			out = append(out, fmt.Sprintf("    - %s: %sINDEX (%s)",
				idxName, unique, strings.Join(idx.Columns, ", ")))
		}
	}

	if len(t.Constraints) > 0 {
		out = append(out, "  Table Constraints:")

		sorted := make([]string, len(t.Constraints))
		copy(sorted, t.Constraints)
		sort.Strings(sorted)

		for _, c := range sorted {
			out = append(out, "    - "+c)
		}
	}

	return out
}
