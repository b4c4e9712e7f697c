package snapshot

import (
	"path"
	"strings"
)

// Classifier answers path-policy questions against the fixed Config tables.
// All methods are pure string checks; unmatched input yields false.
type Classifier struct {
	excludedDirs   map[string]struct{}
	binaryExts     map[string]struct{}
	textExts       map[string]struct{}
	secretPatterns []string
}

// NewClassifier lowercases the Config tables once so per-file checks are
// plain map lookups.
func NewClassifier(cfg Config) *Classifier {
	c := &Classifier{
		excludedDirs:   make(map[string]struct{}, len(cfg.ExcludedDirs)),
		binaryExts:     make(map[string]struct{}, len(cfg.BinaryExtensions)),
		textExts:       make(map[string]struct{}, len(cfg.TextExtensions)),
		secretPatterns: make([]string, 0, len(cfg.SecretPatterns)),
	}
	for _, name := range cfg.ExcludedDirs {
		c.excludedDirs[strings.ToLower(name)] = struct{}{}
	}
	for _, ext := range cfg.BinaryExtensions {
		c.binaryExts[strings.ToLower(ext)] = struct{}{}
	}
	for _, ext := range cfg.TextExtensions {
		c.textExts[strings.ToLower(ext)] = struct{}{}
	}
	for _, pattern := range cfg.SecretPatterns {
		c.secretPatterns = append(c.secretPatterns, strings.ToLower(pattern))
	}
	return c
}

// IsExcludedDir reports whether any segment of the slash-separated path
// equals an excluded directory name, case-insensitively. A name occurring
// only inside a longer segment does not match.
func (c *Classifier) IsExcludedDir(relPath string) bool {
	for _, segment := range strings.Split(relPath, "/") {
		if segment == "" {
			continue
		}
		if _, ok := c.excludedDirs[strings.ToLower(segment)]; ok {
			return true
		}
	}
	return false
}

// MatchesSecretPattern reports whether the relative path contains any
// configured secret substring, case-insensitively. Content is never
// consulted; a name that looks like credential material is enough.
func (c *Classifier) MatchesSecretPattern(relPath string) bool {
	lower := strings.ToLower(relPath)
	for _, pattern := range c.secretPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// IsBinaryExtension reports whether ext belongs to the known-binary set.
func (c *Classifier) IsBinaryExtension(ext string) bool {
	_, ok := c.binaryExts[ext]
	return ok
}

// IsAllowlistedTextExtension reports whether ext is safe to inline for
// untracked files.
func (c *Classifier) IsAllowlistedTextExtension(ext string) bool {
	_, ok := c.textExts[ext]
	return ok
}

// fileExt returns the lowercased extension of the final path segment. A
// dotfile with no further dot (".gitignore", ".env") has no extension, so
// the extension tables never see it.
func fileExt(relPath string) string {
	base := path.Base(relPath)
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(ext)
}
