// Package schema holds the in-memory database model accumulated by replaying
// migrations, the operations that mutate it, and the mutation policies.
package schema

import (
	"sort"
	"strings"
)

// Model is the accumulating database state. It is created empty, mutated by
// sequentially applying operations in migration-version order, and read-only
// once the last migration has been applied.
type Model struct {
	// Tables maps table name (exact string, case-sensitive as given by the
	// parser) to its definition.
	Tables map[string]*Table
	// NotProcessed records statements the classifier could not map to a known
	// operation, keyed by source filename in encounter order. Purely
	// observational; never feeds back into table state.
	NotProcessed map[string][]string
}

// NewModel returns an empty schema model.
func NewModel() *Model {
	return &Model{
		Tables:       make(map[string]*Table),
		NotProcessed: make(map[string][]string),
	}
}

// TableNames returns all table names in sorted order.
func (m *Model) TableNames() []string {
	names := make([]string, 0, len(m.Tables))
	for name := range m.Tables {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// RecordNotProcessed appends an unsupported statement's text under its source
// filename.
func (m *Model) RecordNotProcessed(sourceFile, sql string) {
	m.NotProcessed[sourceFile] = append(m.NotProcessed[sourceFile], sql)
}

// NotProcessedFiles returns the source filenames with unsupported statements,
// sorted.
func (m *Model) NotProcessedFiles() []string {
	files := make([]string, 0, len(m.NotProcessed))
	for f := range m.NotProcessed {
		files = append(files, f)
	}

	sort.Strings(files)

	return files
}

// Table is a single table's definition: columns, indexes, and table-level
// constraints. The constraint list allows duplicates; relationship rendering
// deduplicates.
type Table struct {
	Columns     map[string]*Column
	Indexes     map[string]*Index
	Constraints []string
}

// NewTable returns an empty table definition.
func NewTable() *Table {
	return &Table{
		Columns: make(map[string]*Column),
		Indexes: make(map[string]*Index),
	}
}

// ColumnNames returns the table's column names in sorted order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for name := range t.Columns {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// IndexNames returns the table's index names in sorted order.
func (t *Table) IndexNames() []string {
	names := make([]string, 0, len(t.Indexes))
	for name := range t.Indexes {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Column is a column definition. Constraint entries are normalized to upper
// case before storage so marker detection ("PRIMARY KEY", "NOT NULL",
// "UNIQUE" substrings) is reliable downstream.
type Column struct {
	Type        string
	Constraints []string
}

// HasConstraint reports whether any constraint entry contains the given
// upper-case token.
func (c *Column) HasConstraint(token string) bool {
	for _, entry := range c.Constraints {
		if strings.Contains(entry, token) {
			return true
		}
	}

	return false
}

// Index is a secondary index definition.
type Index struct {
	Columns []string
	Unique  bool
}
