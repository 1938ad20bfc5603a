// Package migration discovers versioned SQL migration files and orders them
// for replay.
package migration

import (
	"crypto/sha256"
	"encoding/hex"
)

// Migration is a single versioned SQL script loaded from disk.
type Migration struct {
	Path     string  // full path to the .sql file
	Name     string  // base filename, e.g. "V1.2__add_users.sql"
	Version  Version // replay order key extracted from the filename
	SQL      string  // file contents
	Checksum string  // SHA-256 hex digest of SQL
}

// ComputeChecksum returns the SHA-256 hex digest of the given SQL string.
// Checksums distinguish identical from divergent content when two files
// carry the same version key.
func ComputeChecksum(sql string) string {
	h := sha256.Sum256([]byte(sql))

	return hex.EncodeToString(h[:])
}
