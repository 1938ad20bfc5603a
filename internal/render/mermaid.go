package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/relation"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// Cardinality tokens: the parent side is always exactly one; the child side
// is one-or-more when the first foreign-key column is NOT NULL, zero-or-more
// otherwise.
const (
	cardinalityOneOrMore  = "||--|{"
	cardinalityZeroOrMore = "||--o{"
)

// Mermaid renders the final schema as a Mermaid ER diagram: one entity block
// per table, one annotated field line per column, then a deduplicated sorted
// list of relationship lines.
func Mermaid(m *schema.Model, rep *diag.Reporter) string {
	res := relation.Resolve(m, rep)

	out := []string{"erDiagram"}

	for _, name := range m.TableNames() {
		out = append(out, mermaidEntity(name, m.Tables[name], res)...)
	}

	if lines := relationshipLines(res); len(lines) > 0 {
		out = append(out, "    %% -- Relationships --")
		out = append(out, lines...)
	}

	return strings.Join(out, "\n")
}

func mermaidEntity(name string, t *schema.Table, res *relation.Result) []string {
	out := []string{fmt.Sprintf("    %s {", name)}

	if len(t.Columns) == 0 {
		out = append(out, "        %% (no columns defined)")
	}

	for _, colName := range t.ColumnNames() {
		col := t.Columns[colName]
		// Mermaid field types cannot contain spaces.
		colType := strings.ReplaceAll(col.Type, " ", "_")

		line := fmt.Sprintf("        %s %s", colType, colName)
		if markers := fieldMarkers(col, res.IsFK(name, colName)); markers != "" {
			line += fmt.Sprintf(" %q", markers)
		}

		out = append(out, line)
	}

	return append(out, "    }", "")
}

// fieldMarkers returns the comma-joined column markers in fixed priority
// order: PK, FK, UK, NN.
func fieldMarkers(col *schema.Column, isFK bool) string {
	var markers []string

	if col.HasConstraint("PRIMARY KEY") {
		markers = append(markers, "PK")
	}

	if isFK {
		markers = append(markers, "FK")
	}

	if col.HasConstraint("UNIQUE") {
		markers = append(markers, "UK")
	}

	if col.HasConstraint("NOT NULL") {
		markers = append(markers, "NN")
	}

	return strings.Join(markers, ",")
}

// relationshipLines formats, deduplicates, and sorts the resolved edges.
func relationshipLines(res *relation.Result) []string {
	seen := make(map[string]bool)

	var lines []string

	for _, e := range res.Edges {
		cardinality := cardinalityZeroOrMore
		if e.MandatoryChild {
			cardinality = cardinalityOneOrMore
		}

		line := fmt.Sprintf("    %s %s %s : \"FK: %s\"", e.Parent, cardinality, e.Child, e.FirstColumn)
		if seen[line] {
			continue
		}

		seen[line] = true

		lines = append(lines, line)
	}

	sort.Strings(lines)

	return lines
}
