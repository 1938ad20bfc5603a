package schema_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

func discard(t *testing.T) *diag.Reporter {
	t.Helper()

	return diag.New(io.Discard, false)
}

func usersTable() *schema.Table {
	t := schema.NewTable()
	t.Columns["id"] = &schema.Column{Type: "INT", Constraints: []string{"PRIMARY KEY", "NOT NULL"}}

	return t
}

func TestApply_createTable(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))

	require.Contains(t, m.Tables, "users")
	assert.Contains(t, m.Tables["users"].Columns, "id")
}

func TestApply_createTable_lastDefinitionWins(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, rep)

	redefined := schema.NewTable()
	redefined.Columns["uuid"] = &schema.Column{Type: "UUID"}
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: redefined}, rep)

	require.Contains(t, m.Tables, "users")
	assert.NotContains(t, m.Tables["users"].Columns, "id", "earlier definition replaced entirely")
	assert.Contains(t, m.Tables["users"].Columns, "uuid")
	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "already exists")
}

func TestApply_createTable_idempotentReplay(t *testing.T) {
	t.Parallel()

	once := schema.NewModel()
	schema.Apply(once, &schema.CreateTable{Name: "t", Table: usersTable()}, discard(t))

	twice := schema.NewModel()
	schema.Apply(twice, &schema.CreateTable{Name: "t", Table: usersTable()}, discard(t))
	schema.Apply(twice, &schema.CreateTable{Name: "t", Table: usersTable()}, discard(t))

	assert.Equal(t, once.Tables["t"], twice.Tables["t"],
		"replaying the same CREATE twice overwrites rather than duplicates")
}

func TestApply_dropTable_absentIsDiagnosticOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.DropTable{Name: "ghost"}, rep)

	assert.Empty(t, m.Tables, "schema unchanged")
	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "non-existent table ghost")
}

func TestApply_dropTable_removesExisting(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
	schema.Apply(m, &schema.DropTable{Name: "users"}, discard(t))

	assert.Empty(t, m.Tables)
}

func TestApply_addColumn(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
	schema.Apply(m, &schema.AddColumn{
		Table:  "users",
		Name:   "email",
		Column: &schema.Column{Type: "TEXT", Constraints: []string{"NOT NULL"}},
	}, discard(t))

	assert.Contains(t, m.Tables["users"].Columns, "email")
}

func TestApply_addColumn_collisionOverwrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, rep)
	schema.Apply(m, &schema.AddColumn{
		Table:  "users",
		Name:   "id",
		Column: &schema.Column{Type: "BIGINT"},
	}, rep)

	assert.Equal(t, "BIGINT", m.Tables["users"].Columns["id"].Type)
	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "overwriting")
}

func TestApply_dropColumn_missingTargets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.DropColumn{Table: "nope", Name: "id"}, rep)

	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, rep)
	schema.Apply(m, &schema.DropColumn{Table: "users", Name: "ghost"}, rep)

	assert.Equal(t, 2, rep.Warnings())
	assert.Contains(t, m.Tables["users"].Columns, "id", "schema unaffected beyond the no-op")
}

func TestApply_alterColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       *schema.AlterColumn
		expected schema.Column
	}{
		{
			name: "full replacement swaps the definition",
			op: &schema.AlterColumn{
				Table: "users", Name: "id",
				Replacement: &schema.Column{Type: "UUID", Constraints: []string{"PRIMARY KEY"}},
			},
			expected: schema.Column{Type: "UUID", Constraints: []string{"PRIMARY KEY"}},
		},
		{
			name: "new type retains constraints",
			op: &schema.AlterColumn{
				Table: "users", Name: "id",
				NewType: "BIGINT",
			},
			expected: schema.Column{Type: "BIGINT", Constraints: []string{"PRIMARY KEY", "NOT NULL"}},
		},
		{
			name: "constraint tokens replace the whole list",
			op: &schema.AlterColumn{
				Table: "users", Name: "id",
				Constraints: []string{"NOT NULL"},
			},
			expected: schema.Column{Type: "INT", Constraints: []string{"NOT NULL"}},
		},
		{
			name: "empty constraint list clears constraints",
			op: &schema.AlterColumn{
				Table: "users", Name: "id",
				Constraints: []string{},
			},
			expected: schema.Column{Type: "INT", Constraints: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := schema.NewModel()
			schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
			schema.Apply(m, tt.op, discard(t))

			got := m.Tables["users"].Columns["id"]
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, *got)
		})
	}
}

func TestApply_alterColumn_missingColumnIsDiagnosticOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, rep)
	schema.Apply(m, &schema.AlterColumn{Table: "users", Name: "ghost", NewType: "TEXT"}, rep)

	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "non-existent column users.ghost")
}

func TestApply_addConstraint_duplicatesPermitted(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "posts", Table: schema.NewTable()}, discard(t))

	fk := "FOREIGN KEY (author_id) REFERENCES users (id)"
	schema.Apply(m, &schema.AddConstraint{Table: "posts", Constraint: fk}, discard(t))
	schema.Apply(m, &schema.AddConstraint{Table: "posts", Constraint: fk}, discard(t))

	assert.Equal(t, []string{fk, fk}, m.Tables["posts"].Constraints)
}

func TestApply_createIndex(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
	schema.Apply(m, &schema.CreateIndex{
		Table: "users",
		Name:  "idx_users_id",
		Index: &schema.Index{Columns: []string{"id"}, Unique: true},
	}, discard(t))

	require.Contains(t, m.Tables["users"].Indexes, "idx_users_id")
	assert.True(t, m.Tables["users"].Indexes["idx_users_id"].Unique)
}

func TestApply_dropIndex_scansTablesWhenUnqualified(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
	schema.Apply(m, &schema.CreateIndex{
		Table: "users",
		Name:  "idx_email",
		Index: &schema.Index{Columns: []string{"email"}},
	}, discard(t))

	schema.Apply(m, &schema.DropIndex{Name: "idx_email"}, discard(t))

	assert.NotContains(t, m.Tables["users"].Indexes, "idx_email")
}

func TestApply_dropIndex_missingIsDiagnosticOnly(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rep := diag.New(&buf, false)

	m := schema.NewModel()
	schema.Apply(m, &schema.DropIndex{Name: "idx_ghost"}, rep)

	assert.Equal(t, 1, rep.Warnings())
	assert.Contains(t, buf.String(), "idx_ghost")
}

func TestApply_unsupportedRecordedWithoutStateChange(t *testing.T) {
	t.Parallel()

	m := schema.NewModel()
	schema.Apply(m, &schema.CreateTable{Name: "users", Table: usersTable()}, discard(t))
	schema.Apply(m, &schema.Unsupported{
		SourceFile: "V2__weird.sql",
		SQL:        "ALTER TABLE users SET (fillfactor = 70);",
		Reason:     "unsupported ALTER TABLE action",
	}, discard(t))

	assert.Equal(t,
		[]string{"ALTER TABLE users SET (fillfactor = 70);"},
		m.NotProcessed["V2__weird.sql"])
	assert.Contains(t, m.Tables["users"].Columns, "id", "table state untouched")
}
