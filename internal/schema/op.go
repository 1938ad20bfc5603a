package schema

// Operation is one classified schema mutation, produced by the statement
// classifier and consumed by Apply. The variant set is closed: every
// statement classifies to exactly one variant per DDL action, with
// Unsupported as the catch-all.
type Operation interface {
	op()
}

// CreateTable inserts a complete table definition. If the table already
// exists the definition is overwritten entirely (last definition wins, as in
// real migration practice where a later script corrects an earlier create).
type CreateTable struct {
	Name  string
	Table *Table
}

// DropTable removes a table if present.
type DropTable struct {
	Name string
}

// AddColumn inserts a column; a name collision overwrites the existing
// definition as a corrective redefinition.
type AddColumn struct {
	Table  string
	Name   string
	Column *Column
}

// DropColumn removes a column if present.
type DropColumn struct {
	Table string
	Name  string
}

// AlterColumn changes an existing column. Exactly one payload is set:
// Replacement swaps the whole definition, NewType swaps only the type and
// retains constraints, and a non-nil Constraints slice replaces the
// constraint list wholesale (an empty non-nil slice clears it). The
// replace-all constraint semantics are a documented approximation with no
// selective ADD/DROP distinction.
type AlterColumn struct {
	Table       string
	Name        string
	Replacement *Column
	NewType     string
	Constraints []string
}

// AddConstraint appends a table-level constraint's raw text. Duplicates are
// permitted here; relationship rendering deduplicates.
type AddConstraint struct {
	Table      string
	Constraint string
}

// CreateIndex adds an index to a table.
type CreateIndex struct {
	Table string
	Name  string
	Index *Index
}

// DropIndex removes an index. Table may be empty when the statement does not
// name one; Apply then locates the index by scanning tables in name order.
type DropIndex struct {
	Table string
	Name  string
}

// Unsupported records a statement or action the classifier could not map to
// a schema mutation. It never mutates table state.
type Unsupported struct {
	SourceFile string
	SQL        string
	Reason     string
}

func (*CreateTable) op()   {}
func (*DropTable) op()     {}
func (*AddColumn) op()     {}
func (*DropColumn) op()    {}
func (*AlterColumn) op()   {}
func (*AddConstraint) op() {}
func (*CreateIndex) op()   {}
func (*DropIndex) op()     {}
func (*Unsupported) op()   {}
