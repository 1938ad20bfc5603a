package classifier

import (
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/nacharyadev/db-schema-visualizer/internal/dialect"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// columnFromDef extracts a column name and model from a parsed column
// definition. Constraint strings are upper-cased before storage so marker
// detection downstream can rely on plain substring checks.
func columnFromDef(def *pg_query.ColumnDef, d dialect.Dialect) (string, *schema.Column) {
	col := &schema.Column{Type: formatType(def.TypeName, d)}

	for _, c := range def.Constraints {
		cn, ok := c.Node.(*pg_query.Node_Constraint)
		if !ok {
			continue
		}

		if s := columnConstraint(cn.Constraint, d); s != "" {
			col.Constraints = append(col.Constraints, strings.ToUpper(s))
		}
	}

	return def.Colname, col
}

// typeNames maps internal PostgreSQL type names to the spelling a reader
// would write. Anything absent renders as the upper-cased parser name.
var typeNames = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"int2":        "SMALLINT",
	"int4":        "INT",
	"int8":        "BIGINT",
	"float4":      "REAL",
	"float8":      "DOUBLE PRECISION",
	"bool":        "BOOLEAN",
	"bpchar":      "CHAR",
	"varchar":     "VARCHAR",
	"numeric":     "NUMERIC",
	"timestamptz": "TIMESTAMPTZ",
	"timetz":      "TIMETZ",
}

// formatType renders a parsed type as a normalized type string in the active
// dialect, including length/precision modifiers and array bounds.
func formatType(tn *pg_query.TypeName, _ dialect.Dialect) string {
	if tn == nil {
		return "UNKNOWN"
	}

	var base string

	for _, n := range tn.Names {
		s, ok := n.Node.(*pg_query.Node_String_)
		if !ok || s.String_.Sval == "pg_catalog" {
			continue
		}

		base = s.String_.Sval
	}

	if base == "" {
		return "UNKNOWN"
	}

	if mapped, ok := typeNames[base]; ok {
		base = mapped
	} else {
		base = strings.ToUpper(base)
	}

	if mods := typeModifiers(tn.Typmods); mods != "" {
		base += mods
	}

	for range tn.ArrayBounds {
		base += "[]"
	}

	return base
}

// typeModifiers renders "(n)" or "(n,m)" from integer type modifiers.
func typeModifiers(mods []*pg_query.Node) string {
	var parts []string

	for _, mod := range mods {
		ac, ok := mod.Node.(*pg_query.Node_AConst)
		if !ok {
			continue
		}

		if ival, ok := ac.AConst.Val.(*pg_query.A_Const_Ival); ok {
			parts = append(parts, strconv.Itoa(int(ival.Ival.Ival)))
		}
	}

	if len(parts) == 0 {
		return ""
	}

	return "(" + strings.Join(parts, ",") + ")"
}

// columnConstraint renders a column-level constraint. Unrecognized constraint
// kinds render as "" and are dropped from the model.
func columnConstraint(c *pg_query.Constraint, d dialect.Dialect) string {
	switch c.Contype {
	case pg_query.ConstrType_CONSTR_NOTNULL:
		return "NOT NULL"
	case pg_query.ConstrType_CONSTR_NULL:
		return "NULL"
	case pg_query.ConstrType_CONSTR_PRIMARY:
		return "PRIMARY KEY"
	case pg_query.ConstrType_CONSTR_UNIQUE:
		return "UNIQUE"
	case pg_query.ConstrType_CONSTR_DEFAULT:
		return "DEFAULT " + constExpr(c.RawExpr, d)
	case pg_query.ConstrType_CONSTR_CHECK:
		return "CHECK"
	case pg_query.ConstrType_CONSTR_FOREIGN:
		// Column-level REFERENCES stays a column constraint; only the
		// FOREIGN KEY (...) table form produces relationship edges.
		return "REFERENCES " + referenceTarget(c)
	case pg_query.ConstrType_CONSTR_IDENTITY:
		return "GENERATED AS IDENTITY"
	default:
		return ""
	}
}

// tableConstraint renders a table-level constraint with upper-case keywords
// and identifier case preserved, so the relationship resolver can match
// referenced table names exactly.
func tableConstraint(c *pg_query.Constraint, _ dialect.Dialect) string {
	switch c.Contype {
	case pg_query.ConstrType_CONSTR_PRIMARY:
		return "PRIMARY KEY (" + strings.Join(identNames(c.Keys), ", ") + ")"
	case pg_query.ConstrType_CONSTR_UNIQUE:
		return "UNIQUE (" + strings.Join(identNames(c.Keys), ", ") + ")"
	case pg_query.ConstrType_CONSTR_FOREIGN:
		return "FOREIGN KEY (" + strings.Join(identNames(c.FkAttrs), ", ") + ") REFERENCES " + referenceTarget(c)
	case pg_query.ConstrType_CONSTR_CHECK:
		return "CHECK"
	default:
		return ""
	}
}

// referenceTarget renders the referenced side of a foreign key:
// "users" or "users (id)".
func referenceTarget(c *pg_query.Constraint) string {
	target := tableName(c.Pktable)

	if attrs := identNames(c.PkAttrs); len(attrs) > 0 {
		target += " (" + strings.Join(attrs, ", ") + ")"
	}

	return target
}

// identNames extracts string identifiers from a node list.
func identNames(nodes []*pg_query.Node) []string {
	var names []string

	for _, n := range nodes {
		if s, ok := n.Node.(*pg_query.Node_String_); ok {
			names = append(names, s.String_.Sval)
		}
	}

	return names
}

// constExpr renders a constant-ish expression for DEFAULT clauses. Constants
// and simple casts render faithfully; anything else collapses to a
// placeholder rather than attempting full expression deparsing.
func constExpr(n *pg_query.Node, d dialect.Dialect) string {
	if n == nil {
		return "NULL"
	}

	switch e := n.Node.(type) {
	case *pg_query.Node_AConst:
		return constValue(e.AConst)
	case *pg_query.Node_TypeCast:
		if e.TypeCast.Arg == nil {
			return "EXPRESSION"
		}

		return constExpr(e.TypeCast.Arg, d) + "::" + formatType(e.TypeCast.TypeName, d)
	case *pg_query.Node_FuncCall:
		names := identNames(e.FuncCall.Funcname)
		if len(names) == 0 {
			return "EXPRESSION"
		}

		return strings.ToUpper(names[len(names)-1]) + "()"
	default:
		return "EXPRESSION"
	}
}

func constValue(ac *pg_query.A_Const) string {
	if ac.Isnull {
		return "NULL"
	}

	switch v := ac.Val.(type) {
	case *pg_query.A_Const_Ival:
		return strconv.Itoa(int(v.Ival.Ival))
	case *pg_query.A_Const_Fval:
		return v.Fval.Fval
	case *pg_query.A_Const_Sval:
		return "'" + v.Sval.Sval + "'"
	case *pg_query.A_Const_Boolval:
		if v.Boolval.Boolval {
			return "TRUE"
		}

		return "FALSE"
	default:
		return "EXPRESSION"
	}
}
