package schema

import "github.com/nacharyadev/db-schema-visualizer/internal/diag"

// Apply folds one operation into the model. It is total for well-formed
// operations: every missing-reference condition degrades to a diagnostic and
// leaves the model untouched, so one bad statement never halts the replay.
func Apply(m *Model, op Operation, rep *diag.Reporter) {
	switch o := op.(type) {
	case *CreateTable:
		applyCreateTable(m, o, rep)
	case *DropTable:
		applyDropTable(m, o, rep)
	case *AddColumn:
		applyAddColumn(m, o, rep)
	case *DropColumn:
		applyDropColumn(m, o, rep)
	case *AlterColumn:
		applyAlterColumn(m, o, rep)
	case *AddConstraint:
		applyAddConstraint(m, o, rep)
	case *CreateIndex:
		applyCreateIndex(m, o, rep)
	case *DropIndex:
		applyDropIndex(m, o, rep)
	case *Unsupported:
		m.RecordNotProcessed(o.SourceFile, o.SQL)
		rep.Infof("not processed (%s): %s", o.Reason, o.SQL)
	}
}

func applyCreateTable(m *Model, o *CreateTable, rep *diag.Reporter) {
	if _, exists := m.Tables[o.Name]; exists {
		rep.Warnf("table %s already exists; re-creating with the later definition", o.Name)
	}

	m.Tables[o.Name] = o.Table
}

func applyDropTable(m *Model, o *DropTable, rep *diag.Reporter) {
	if _, exists := m.Tables[o.Name]; !exists {
		rep.Warnf("dropping non-existent table %s", o.Name)

		return
	}

	delete(m.Tables, o.Name)
}

func applyAddColumn(m *Model, o *AddColumn, rep *diag.Reporter) {
	t, exists := m.Tables[o.Table]
	if !exists {
		rep.Warnf("adding column %s to non-existent table %s", o.Name, o.Table)

		return
	}

	if _, exists := t.Columns[o.Name]; exists {
		rep.Warnf("column %s.%s already exists; overwriting definition", o.Table, o.Name)
	}

	t.Columns[o.Name] = o.Column
}

func applyDropColumn(m *Model, o *DropColumn, rep *diag.Reporter) {
	t, exists := m.Tables[o.Table]
	if !exists {
		rep.Warnf("dropping column %s from non-existent table %s", o.Name, o.Table)

		return
	}

	if _, exists := t.Columns[o.Name]; !exists {
		rep.Warnf("dropping non-existent column %s.%s", o.Table, o.Name)

		return
	}

	delete(t.Columns, o.Name)
}

func applyAlterColumn(m *Model, o *AlterColumn, rep *diag.Reporter) {
	t, exists := m.Tables[o.Table]
	if !exists {
		rep.Warnf("altering column %s on non-existent table %s", o.Name, o.Table)

		return
	}

	col, exists := t.Columns[o.Name]
	if !exists {
		rep.Warnf("altering non-existent column %s.%s", o.Table, o.Name)

		return
	}

	switch {
	case o.Replacement != nil:
		t.Columns[o.Name] = o.Replacement
	case o.NewType != "":
		col.Type = o.NewType
	case o.Constraints != nil:
		// Replace-all: no selective ADD/DROP of individual constraints.
		col.Constraints = o.Constraints
	default:
		rep.Warnf("alter of column %s.%s carried no change", o.Table, o.Name)
	}
}

func applyAddConstraint(m *Model, o *AddConstraint, rep *diag.Reporter) {
	t, exists := m.Tables[o.Table]
	if !exists {
		rep.Warnf("adding constraint to non-existent table %s", o.Table)

		return
	}

	t.Constraints = append(t.Constraints, o.Constraint)
}

func applyCreateIndex(m *Model, o *CreateIndex, rep *diag.Reporter) {
	t, exists := m.Tables[o.Table]
	if !exists {
		rep.Warnf("creating index %s on non-existent table %s", o.Name, o.Table)

		return
	}

	t.Indexes[o.Name] = o.Index
}

func applyDropIndex(m *Model, o *DropIndex, rep *diag.Reporter) {
	if o.Table != "" {
		t, exists := m.Tables[o.Table]
		if !exists {
			rep.Warnf("dropping index %s from non-existent table %s", o.Name, o.Table)

			return
		}

		if _, exists := t.Indexes[o.Name]; !exists {
			rep.Warnf("dropping non-existent index %s on table %s", o.Name, o.Table)

			return
		}

		delete(t.Indexes, o.Name)

		return
	}

	// No table named in the statement; scan tables in name order so the
	// lookup is deterministic across runs.
	for _, name := range m.TableNames() {
		t := m.Tables[name]
		if _, exists := t.Indexes[o.Name]; exists {
			delete(t.Indexes, o.Name)

			return
		}
	}

	rep.Warnf("could not find index %s to drop", o.Name)
}
