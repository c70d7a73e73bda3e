// Package artifact resolves files written by external tools whose output
// names the caller can only predict, not control.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
)

// Locate returns expected if it exists on disk. Otherwise it scans dir for
// files whose name starts with prefix and ends with suffix and returns the
// first match in lexical order. If neither resolves, the output is missing
// and that is a hard failure for the caller.
func Locate(dir, expected, prefix, suffix string) (string, error) {
	if _, err := os.Stat(expected); err == nil {
		return expected, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, suffix) {
			candidates = append(candidates, name)
		}
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no file matching %s*%s in %s", apperrors.ErrMissingOutput, prefix, suffix, dir)
	}

	sort.Strings(candidates)
	return filepath.Join(dir, candidates[0]), nil
}
