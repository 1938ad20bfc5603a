// Package dialect identifies the SQL grammar variant used for parsing and for
// rendering normalized type and constraint text. The dialect is an explicit
// value threaded through the classifier and renderers rather than process-wide
// state, so repeated runs with different dialects can share a process.
package dialect

// Dialect names a SQL grammar variant.
type Dialect string

// Postgres is the PostgreSQL grammar, parsed by the real PostgreSQL parser.
const Postgres Dialect = "postgres"

// Default is the dialect used when none is configured or the configured name
// is unrecognized.
const Default = Postgres

// String returns the dialect name.
func (d Dialect) String() string { return string(d) }

// Normalize maps a user-supplied dialect name to a supported Dialect.
// Unrecognized names fall back to Default; the second return value reports
// whether the name was recognized so the caller can warn.
func Normalize(name string) (Dialect, bool) {
	switch name {
	case "", "postgres", "postgresql":
		return Postgres, true
	default:
		return Default, false
	}
}

// Supported lists the dialect names accepted by Normalize.
func Supported() []string {
	return []string{"postgres"}
}
