// Package replay folds an ordered sequence of migration files into a final
// schema model. Replay is strictly sequential: later operations depend on the
// cumulative state left by earlier ones, so files are processed one at a time
// in version order.
package replay

import (
	"io"

	"github.com/nacharyadev/db-schema-visualizer/internal/classifier"
	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
	"github.com/nacharyadev/db-schema-visualizer/internal/dialect"
	"github.com/nacharyadev/db-schema-visualizer/internal/migration"
	"github.com/nacharyadev/db-schema-visualizer/internal/parser"
	"github.com/nacharyadev/db-schema-visualizer/internal/schema"
)

// Option configures the Engine.
type Option func(*Engine)

// Engine replays migrations against an initially empty schema model.
type Engine struct {
	dialect dialect.Dialect
	parseFn func(string, dialect.Dialect) (*parser.Result, error)
	rep     *diag.Reporter
}

// New creates an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		dialect: dialect.Default,
		parseFn: parser.Parse,
		rep:     diag.New(io.Discard, false),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// WithDialect sets the SQL dialect threaded through parsing and
// classification.
func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) { e.dialect = d }
}

// WithParser overrides the SQL parser function (useful for testing).
func WithParser(fn func(string, dialect.Dialect) (*parser.Result, error)) Option {
	return func(e *Engine) { e.parseFn = fn }
}

// WithReporter sets the diagnostics destination.
func WithReporter(rep *diag.Reporter) Option {
	return func(e *Engine) { e.rep = rep }
}

// Replay folds the given migrations, already in version order, into a schema
// model. A file that fails to parse is skipped with a diagnostic; a statement
// that cannot be classified degrades to a not-processed record. Neither stops
// the run.
func (e *Engine) Replay(migrations []migration.Migration) *schema.Model {
	m := schema.NewModel()

	for i := range migrations {
		mg := &migrations[i]
		e.rep.Infof("processing %s", mg.Name)

		res, err := e.parseFn(mg.SQL, e.dialect)
		if err != nil {
			e.rep.Warnf("skipping %s: %v", mg.Name, err)

			continue
		}

		for _, op := range classifier.ClassifyAll(res, e.dialect, mg.Name) {
			schema.Apply(m, op, e.rep)
		}
	}

	return m
}

// RunDir discovers, orders, and replays every versioned migration under dir.
func (e *Engine) RunDir(dir string) (*schema.Model, error) {
	migrations, err := migration.LoadFromDir(dir, e.rep)
	if err != nil {
		return nil, err
	}

	return e.Replay(migration.Sort(migrations, e.rep)), nil
}
