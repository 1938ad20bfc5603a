package migration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNotVersioned indicates a filename that does not follow the versioned
// migration convention. Repeatable (R__) and undo (U__) scripts are reported
// as not versioned regardless of any digits in their names, since they do not
// contribute to the final schema state.
var ErrNotVersioned = errors.New("not a versioned migration")

// FormatError indicates a filename that looks versioned but whose version
// components are not all parseable as integers. The caller skips the file and
// continues the run.
type FormatError struct {
	Filename string
	Raw      string // the version portion of the filename
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version %q in migration file %s", e.Raw, e.Filename)
}

// Version is the ordered tuple of integers extracted from a migration
// filename. It defines replay order.
type Version []int

// versionPattern matches versioned migration files:
//
//	V<major>[._<minor>][._<patch>...]__<description>.sql
//
// The leading V is case-insensitive. Components are separated by '.' or '_';
// the version ends at the first '__'.
var versionPattern = regexp.MustCompile(`^[Vv]([0-9A-Za-z._]+?)__.+\.[Ss][Qq][Ll]$`)

// Parse extracts a Version from a migration filename.
// It returns ErrNotVersioned for filenames outside the convention and a
// *FormatError when the version portion contains non-integer components.
func Parse(filename string) (Version, error) {
	matches := versionPattern.FindStringSubmatch(filename)
	if matches == nil {
		return nil, ErrNotVersioned
	}

	raw := matches[1]
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '.' || r == '_'
	})

	if len(parts) == 0 {
		return nil, &FormatError{Filename: filename, Raw: raw}
	}

	v := make(Version, len(parts))

	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, &FormatError{Filename: filename, Raw: raw}
		}

		v[i] = n
	}

	return v, nil
}

// Compare orders versions by lexicographic tuple comparison on integers.
// A shorter version sorts before any longer version sharing its prefix,
// so (1,2) < (1,2,0). Returns -1, 0, or 1.
func (v Version) Compare(other Version) int {
	for i := 0; i < len(v) && i < len(other); i++ {
		switch {
		case v[i] < other[i]:
			return -1
		case v[i] > other[i]:
			return 1
		}
	}

	switch {
	case len(v) < len(other):
		return -1
	case len(v) > len(other):
		return 1
	default:
		return 0
	}
}

// String renders the version with dot separators, e.g. "1.2.3".
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, ".")
}
