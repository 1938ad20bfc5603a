package migration

import (
	"sort"

	"github.com/nacharyadev/db-schema-visualizer/internal/diag"
)

// Sort returns a new slice of migrations in ascending version order using
// natural tuple comparison ("1.9" before "1.10"). Identical version keys are
// ordered by filename and reported as a diagnostic; replay proceeds
// deterministically using that tiebreak.
func Sort(migrations []Migration, rep *diag.Reporter) []Migration {
	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)

	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Version.Compare(sorted[j].Version); c != 0 {
			return c < 0
		}

		return sorted[i].Name < sorted[j].Name
	})

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Version.Compare(cur.Version) != 0 {
			continue
		}

		detail := "contents differ"
		if prev.Checksum == cur.Checksum {
			detail = "contents identical"
		}

		rep.Warnf("duplicate version %s in %s and %s (%s); replaying in filename order",
			cur.Version, prev.Name, cur.Name, detail)
	}

	return sorted
}
