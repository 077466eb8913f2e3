package curl

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ReadSources expands the glob patterns (doublestar syntax, e.g. "requests/**/*.curl")
// and returns the contents of every matched file separated by a blank line, ready to be
// passed to ParseInputs as free text. Files matched by several patterns are read once.
func ReadSources(patterns ...string) (string, error) {
	seen := make(map[string]bool)

	var chunks []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			return "", fmt.Errorf("no files match %q", pattern)
		}

		sort.Strings(matches)

		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true

			info, err := os.Stat(path)
			if err != nil {
				return "", fmt.Errorf("failed to stat %s: %w", path, err)
			}
			if info.IsDir() {
				continue
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("failed to read %s: %w", path, err)
			}

			chunks = append(chunks, strings.TrimSpace(string(data)))
		}
	}

	return strings.Join(chunks, "\n\n"), nil
}
