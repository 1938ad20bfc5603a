// Package relation infers foreign-key relationships from a finalized schema
// model for diagram rendering.
package relation

import (
	"regexp"
	"strings"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// fkPattern recognizes table-level foreign key clauses:
//
//	FOREIGN KEY (col[, col...]) REFERENCES table[(col...)] [ON DELETE/UPDATE ...]
//
// Keyword matching is case-insensitive; trailing ON DELETE/UPDATE clauses are
// ignored by capture.
var fkPattern = regexp.MustCompile( //nolint:gochecknoglobals // compiled once
	`(?i)FOREIGN\s+KEY\s*\(([^)]*)\)\s*REFERENCES\s+([\w."` + "`" + `]+)`,
)

// ForeignKey is one parsed foreign-key clause: the child columns and the
// referenced (parent) table.
type ForeignKey struct {
	Columns    []string
	Referenced string
}

// ParseForeignKey extracts a foreign key from a raw constraint string.
// Returns ok=false when the constraint is not a foreign-key clause.
func ParseForeignKey(constraint string) (ForeignKey, bool) {
	m := fkPattern.FindStringSubmatch(constraint)
	if m == nil {
		return ForeignKey{}, false
	}

	var cols []string

	for _, col := range strings.Split(m[1], ",") {
		if trimmed := trimIdent(col); trimmed != "" {
			cols = append(cols, trimmed)
		}
	}

	if len(cols) == 0 {
		return ForeignKey{}, false
	}

	return ForeignKey{Columns: cols, Referenced: trimIdent(m[2])}, true
}

func trimIdent(s string) string {
	return strings.Trim(strings.TrimSpace(s), "`\"")
}

// Edge is a relationship between a referenced (parent) table and a
// referencing (child) table.
type Edge struct {
	Parent      string
	Child       string
	FirstColumn string // first child column, used as the edge label
	// MandatoryChild is true when the first child column is NOT NULL, giving
	// exactly-one-to-one-or-more cardinality; otherwise the child side is
	// zero-or-more. True zero-or-one detection would need a uniqueness check
	// that is deliberately not performed.
	MandatoryChild bool
}

// Result holds resolved relationships and the set of foreign-key child
// columns per table, for FK markers in rendering.
type Result struct {
	Edges     []Edge
	FKColumns map[string]map[string]bool
}

// IsFK reports whether a table's column appears as a foreign-key child
// column.
func (r *Result) IsFK(table, column string) bool {
	return r.FKColumns[table][column]
}

// Resolve scans every table's constraint list for foreign-key clauses.
// References to tables absent from the final schema are skipped with a
// diagnostic (dangling reference, not an error).
func Resolve(m *schema.Model, rep *diag.Reporter) *Result {
	res := &Result{FKColumns: make(map[string]map[string]bool)}

	for _, tableName := range m.TableNames() {
		table := m.Tables[tableName]

		for _, constraint := range table.Constraints {
			fk, ok := ParseForeignKey(constraint)
			if !ok {
				continue
			}

			markFKColumns(res, tableName, fk.Columns)

			if _, exists := m.Tables[fk.Referenced]; !exists {
				rep.Warnf("skipping relationship for constraint %q: referenced table %q not in final schema",
					constraint, fk.Referenced)

				continue
			}

			res.Edges = append(res.Edges, Edge{
				Parent:         fk.Referenced,
				Child:          tableName,
				FirstColumn:    fk.Columns[0],
				MandatoryChild: firstColumnNotNull(table, fk.Columns[0]),
			})
		}
	}

	return res
}

// markFKColumns marks child columns as FK regardless of whether the
// referenced table exists; the marker reflects the declared constraint.
func markFKColumns(res *Result, table string, cols []string) {
	if res.FKColumns[table] == nil {
		res.FKColumns[table] = make(map[string]bool)
	}

	for _, col := range cols {
		res.FKColumns[table][col] = true
	}
}

func firstColumnNotNull(table *schema.Table, col string) bool {
	c, ok := table.Columns[col]
	if !ok {
		return false
	}

	return c.HasConstraint("NOT NULL")
}
