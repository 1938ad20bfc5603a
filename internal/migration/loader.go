package migration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
)

// LoadFromDir recursively scans a directory tree for *.sql files and returns
// the versioned migrations found, unsorted. Non-versioned files, files with
// unparseable versions, and files that cannot be read are skipped with a
// diagnostic; only a missing or unreadable root directory is an error.
func LoadFromDir(dir string, rep *diag.Reporter) ([]Migration, error) {
	var migrations []Migration

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}

			rep.Warnf("skipping %s: %v", path, err)

			return nil
		}

		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".sql") {
			return nil
		}

		if m, ok := loadFile(path, d.Name(), rep); ok {
			migrations = append(migrations, m)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning migrations directory %s: %w", dir, err)
	}

	return migrations, nil
}

// loadFile extracts a version from the filename and reads the file contents.
// Returns ok=false for any file that should not participate in replay.
func loadFile(path, name string, rep *diag.Reporter) (Migration, bool) {
	version, err := Parse(name)
	if err != nil {
		var formatErr *FormatError
		if errors.As(err, &formatErr) {
			rep.Warnf("could not parse version from %q, skipping", name)
		} else {
			rep.Infof("skipping non-versioned file: %s", name)
		}

		return Migration{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		rep.Warnf("could not read %s, skipping: %v", path, err)

		return Migration{}, false
	}

	sql := string(data)

	return Migration{
		Path:     path,
		Name:     name,
		Version:  version,
		SQL:      sql,
		Checksum: ComputeChecksum(sql),
	}, true
}
