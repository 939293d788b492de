package docvault

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// unifiedDiff renders a line diff between two version snapshots
func unifiedDiff(from, to string, fromVersion, toVersion int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fmt.Sprintf("version %d", fromVersion),
		ToFile:   fmt.Sprintf("version %d", toVersion),
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
