// Package ignore loads the optional .snapshotignore overlay that suppresses
// content inlining for paths the repository owner never wants captured.
// Matched files still appear in the snapshot listing; only their content is
// withheld.
package ignore

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"go.uber.org/zap"
)

// FileName is the overlay file looked up at the repository root.
const FileName = ".snapshotignore"

// Matcher reports whether a repository-relative path is covered by an
// overlay pattern. The zero-value pointer is usable and matches nothing.
type Matcher struct {
	matcher gitignore.Matcher
}

// Load reads the overlay file from the repository root. A missing file is
// not an error; it yields a matcher that matches nothing.
func Load(root string, logger *zap.Logger) (*Matcher, error) {
	path := filepath.Join(root, FileName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no overlay ignore file found", zap.String("path", path))
			return &Matcher{}, nil
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	logger.Debug("loaded overlay ignore patterns",
		zap.String("path", path),
		zap.Int("count", len(patterns)))

	if len(patterns) == 0 {
		return &Matcher{}, nil
	}
	return &Matcher{matcher: gitignore.NewMatcher(patterns)}, nil
}

// Matches reports whether the slash-separated relative path is covered by an
// overlay pattern. Patterns use gitignore syntax, so directory rules such as
// "fixtures/" cover everything beneath them.
func (m *Matcher) Matches(relPath string) bool {
	if m == nil || m.matcher == nil {
		return false
	}
	return m.matcher.Match(strings.Split(relPath, "/"), false)
}
