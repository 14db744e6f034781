package source

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/stettberger/git-external/internal/external"
)

// ParseSVNExternals parses externals embedded in version-control metadata,
// as printed by `git svn show-externals`:
//
//	# /vendor
//	libfoo svn://host/libfoo/trunk
//
// Comment lines carry the directory prefix for the data lines that follow.
// Each data line holds two tokens; whichever token contains a scheme marker
// ("://") is the url, the other is the path under the current prefix.
func ParseSVNExternals(r io.Reader) ([]*external.Definition, error) {
	var defs []*external.Definition
	prefix := ""

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			prefix = strings.Trim(strings.TrimSpace(strings.TrimPrefix(line, "#")), "/")
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected two tokens, got %q",
				external.ErrConfig, lineno, line)
		}

		var url, dir string
		switch {
		case strings.Contains(fields[0], "://") && !strings.Contains(fields[1], "://"):
			url, dir = fields[0], fields[1]
		case strings.Contains(fields[1], "://") && !strings.Contains(fields[0], "://"):
			url, dir = fields[1], fields[0]
		default:
			return nil, fmt.Errorf("%w: line %d: exactly one token must carry a scheme marker, got %q",
				external.ErrConfig, lineno, line)
		}

		p := path.Join(prefix, strings.Trim(dir, "/"))
		def := external.New(p, p)
		def.URL = url
		def.VCS = external.SVN
		defs = append(defs, def)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read externals metadata: %w", err)
	}
	return defs, nil
}
