// Package classifier maps parsed SQL statements to schema operations. Every
// statement classifies to exactly one operation per DDL action; anything the
// classifier cannot understand degrades to an Unsupported operation carrying
// the original SQL text, so a single odd statement never stops a replay.
package classifier

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/nacharyadev/db-schema-visualizer/internal/dialect"
	"github.com/nacharyadev/db-schema-visualizer/internal/parser"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// ClassifyAll classifies every statement in a parsed file, in order.
func ClassifyAll(res *parser.Result, d dialect.Dialect, sourceFile string) []schema.Operation {
	var ops []schema.Operation

	for i := range res.Stmts {
		text := parser.StmtSQL(res.Stmts, i, res.SQL)
		ops = append(ops, classifyStmt(res.Stmts[i], text, d, sourceFile)...)
	}

	return ops
}

// classifyStmt classifies a single statement. An internal extraction failure
// degrades to Unsupported for this statement only; the rest of the file keeps
// processing.
func classifyStmt(stmt *pg_query.RawStmt, text string, d dialect.Dialect, sourceFile string) (ops []schema.Operation) {
	defer func() {
		if r := recover(); r != nil {
			ops = []schema.Operation{unsupported(sourceFile, text,
				fmt.Sprintf("statement extraction failed: %v", r))}
		}
	}()

	if stmt == nil || stmt.Stmt == nil {
		return []schema.Operation{unsupported(sourceFile, text, "empty statement")}
	}

	switch node := stmt.Stmt.Node.(type) {
	case *pg_query.Node_CreateStmt:
		return classifyCreateTable(node.CreateStmt, text, d, sourceFile)
	case *pg_query.Node_AlterTableStmt:
		return classifyAlterTable(node.AlterTableStmt, text, d, sourceFile)
	case *pg_query.Node_DropStmt:
		return classifyDrop(node.DropStmt, text, sourceFile)
	case *pg_query.Node_IndexStmt:
		return []schema.Operation{classifyCreateIndex(node.IndexStmt, text, sourceFile)}
	case *pg_query.Node_RenameStmt:
		// Renames are deliberately not resolved: guessing a rename target
		// from the statement alone is ambiguous, so the action is recorded
		// instead of applied.
		return []schema.Operation{unsupported(sourceFile, text, "rename is not resolved into the schema")}
	default:
		return []schema.Operation{unsupported(sourceFile, text, "unrecognized statement")}
	}
}

func classifyCreateTable(cs *pg_query.CreateStmt, text string, d dialect.Dialect, sourceFile string) []schema.Operation {
	name := tableName(cs.Relation)
	if name == "" {
		return []schema.Operation{unsupported(sourceFile, text, "CREATE TABLE without a table name")}
	}

	t := schema.NewTable()

	for _, elt := range cs.TableElts {
		switch e := elt.Node.(type) {
		case *pg_query.Node_ColumnDef:
			colName, col := columnFromDef(e.ColumnDef, d)
			if colName != "" {
				t.Columns[colName] = col
			}
		case *pg_query.Node_Constraint:
			if s := tableConstraint(e.Constraint, d); s != "" {
				t.Constraints = append(t.Constraints, s)
			}
		}
	}

	return []schema.Operation{&schema.CreateTable{Name: name, Table: t}}
}

func classifyAlterTable(alt *pg_query.AlterTableStmt, text string, d dialect.Dialect, sourceFile string) []schema.Operation {
	table := tableName(alt.Relation)
	if table == "" {
		return []schema.Operation{unsupported(sourceFile, text, "ALTER TABLE without a table name")}
	}

	// Each action within the statement classifies independently.
	ops := make([]schema.Operation, 0, len(alt.Cmds))

	for _, cmdNode := range alt.Cmds {
		cmd, ok := cmdNode.Node.(*pg_query.Node_AlterTableCmd)
		if !ok {
			ops = append(ops, unsupported(sourceFile, text, "unrecognized ALTER TABLE action"))

			continue
		}

		ops = append(ops, classifyAlterAction(cmd.AlterTableCmd, table, text, d, sourceFile))
	}

	if len(ops) == 0 {
		return []schema.Operation{unsupported(sourceFile, text, "ALTER TABLE without actions")}
	}

	return ops
}

func classifyAlterAction(cmd *pg_query.AlterTableCmd, table, text string, d dialect.Dialect, sourceFile string) schema.Operation {
	switch cmd.Subtype {
	case pg_query.AlterTableType_AT_AddColumn:
		def := columnDefNode(cmd.Def)
		if def == nil {
			return unsupported(sourceFile, text, "ADD COLUMN without a column definition")
		}

		name, col := columnFromDef(def, d)

		return &schema.AddColumn{Table: table, Name: name, Column: col}

	case pg_query.AlterTableType_AT_DropColumn:
		return &schema.DropColumn{Table: table, Name: cmd.Name}

	case pg_query.AlterTableType_AT_AlterColumnType:
		return classifyColumnTypeChange(cmd, table, text, d, sourceFile)

	case pg_query.AlterTableType_AT_SetNotNull:
		return &schema.AlterColumn{Table: table, Name: cmd.Name, Constraints: []string{"NOT NULL"}}

	case pg_query.AlterTableType_AT_DropNotNull:
		return &schema.AlterColumn{Table: table, Name: cmd.Name, Constraints: []string{}}

	case pg_query.AlterTableType_AT_ColumnDefault:
		if cmd.Def == nil {
			// DROP DEFAULT: replace-all with nothing.
			return &schema.AlterColumn{Table: table, Name: cmd.Name, Constraints: []string{}}
		}

		return &schema.AlterColumn{
			Table: table, Name: cmd.Name,
			Constraints: []string{strings.ToUpper("DEFAULT " + constExpr(cmd.Def, d))},
		}

	case pg_query.AlterTableType_AT_AddConstraint:
		if con, ok := cmd.Def.GetNode().(*pg_query.Node_Constraint); ok {
			if s := tableConstraint(con.Constraint, d); s != "" {
				return &schema.AddConstraint{Table: table, Constraint: s}
			}
		}

		return unsupported(sourceFile, text, "unsupported constraint form in ADD CONSTRAINT")

	default:
		return unsupported(sourceFile, text,
			fmt.Sprintf("unsupported ALTER TABLE action %s", cmd.Subtype))
	}
}

// classifyColumnTypeChange handles ALTER COLUMN ... TYPE. When the action
// carries a full column definition under the same name it becomes a whole
// replacement; a definition under a different name is an unresolved rename
// and is recorded, not guessed at.
func classifyColumnTypeChange(cmd *pg_query.AlterTableCmd, table, text string, d dialect.Dialect, sourceFile string) schema.Operation {
	def := columnDefNode(cmd.Def)
	if def == nil {
		return unsupported(sourceFile, text, "ALTER COLUMN TYPE without a type")
	}

	if def.Colname != "" && def.Colname != cmd.Name {
		return unsupported(sourceFile, text,
			fmt.Sprintf("possible rename from %q to %q is not resolved", cmd.Name, def.Colname))
	}

	if def.Colname == cmd.Name && len(def.Constraints) > 0 {
		_, col := columnFromDef(def, d)

		return &schema.AlterColumn{Table: table, Name: cmd.Name, Replacement: col}
	}

	return &schema.AlterColumn{Table: table, Name: cmd.Name, NewType: formatType(def.TypeName, d)}
}

func classifyDrop(drop *pg_query.DropStmt, text string, sourceFile string) []schema.Operation {
	switch drop.RemoveType {
	case pg_query.ObjectType_OBJECT_TABLE:
		var ops []schema.Operation
		for _, name := range dropObjectNames(drop) {
			ops = append(ops, &schema.DropTable{Name: name})
		}

		if ops == nil {
			return []schema.Operation{unsupported(sourceFile, text, "DROP TABLE without a table name")}
		}

		return ops

	case pg_query.ObjectType_OBJECT_INDEX:
		var ops []schema.Operation
		for _, name := range dropObjectNames(drop) {
			// The statement names no table; the mutator locates the index
			// by scanning tables.
			ops = append(ops, &schema.DropIndex{Name: lastComponent(name)})
		}

		if ops == nil {
			return []schema.Operation{unsupported(sourceFile, text, "DROP INDEX without an index name")}
		}

		return ops

	default:
		return []schema.Operation{unsupported(sourceFile, text,
			fmt.Sprintf("unsupported DROP of %s", drop.RemoveType))}
	}
}

func classifyCreateIndex(idx *pg_query.IndexStmt, text string, sourceFile string) schema.Operation {
	table := tableName(idx.Relation)
	if table == "" || idx.Idxname == "" {
		return unsupported(sourceFile, text, "CREATE INDEX without a table or index name")
	}

	var cols []string

	for _, param := range idx.IndexParams {
		elem, ok := param.Node.(*pg_query.Node_IndexElem)
		if !ok {
			continue
		}

		if elem.IndexElem.Name != "" {
			cols = append(cols, elem.IndexElem.Name)
		} else {
			cols = append(cols, "(expression)")
		}
	}

	// Uniqueness comes from the parsed flag, with the literal token as a
	// fallback for dialect oddities.
	unique := idx.Unique || strings.Contains(strings.ToLower(text), "unique")

	return &schema.CreateIndex{
		Table: table,
		Name:  idx.Idxname,
		Index: &schema.Index{Columns: cols, Unique: unique},
	}
}

func unsupported(sourceFile, sql, reason string) *schema.Unsupported {
	return &schema.Unsupported{SourceFile: sourceFile, SQL: sql, Reason: reason}
}

// tableName extracts a qualified table name from a RangeVar.
func tableName(rv *pg_query.RangeVar) string {
	if rv == nil {
		return ""
	}

	if rv.Schemaname != "" {
		return rv.Schemaname + "." + rv.Relname
	}

	return rv.Relname
}

func columnDefNode(n *pg_query.Node) *pg_query.ColumnDef {
	if n == nil {
		return nil
	}

	if def, ok := n.Node.(*pg_query.Node_ColumnDef); ok {
		return def.ColumnDef
	}

	return nil
}

// dropObjectNames extracts dotted object names from a DROP statement.
func dropObjectNames(drop *pg_query.DropStmt) []string {
	var names []string

	for _, obj := range drop.Objects {
		listNode, ok := obj.Node.(*pg_query.Node_List)
		if !ok {
			continue
		}

		var parts []string

		for _, item := range listNode.List.Items {
			if s, ok := item.Node.(*pg_query.Node_String_); ok {
				parts = append(parts, s.String_.Sval)
			}
		}

		if len(parts) > 0 {
			names = append(names, strings.Join(parts, "."))
		}
	}

	return names
}

func lastComponent(dotted string) string {
	if i := strings.LastIndex(dotted, "."); i >= 0 {
		return dotted[i+1:]
	}

	return dotted
}
