// Package ignore maintains the repository's ignore-list file.
package ignore

import (
	"fmt"
	"os"
	"strings"

	"github.com/stettberger/git-external/internal/fsops"
)

// EnsureEntry appends one line per external path to the ignore-list file,
// idempotently: an entry that is already present is left alone.
func EnsureEntry(fs fsops.FS, file, externalPath string) error {
	entry := "/" + strings.TrimPrefix(externalPath, "/")

	data, err := fs.ReadFile(file)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read ignore file: %w", err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == entry {
			return nil
		}
	}

	var b strings.Builder
	b.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(entry)
	b.WriteByte('\n')

	return fs.AtomicWrite(file, []byte(b.String()), 0644)
}
