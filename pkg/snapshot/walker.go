package snapshot

import (
	"os"
	"path"
	"path/filepath"
	"sort"

	"reposnap/pkg/ignore"

	"go.uber.org/zap"
)

// FileEntry describes one enumerated candidate file.
type FileEntry struct {
	RelPath string // repo-relative, slash-separated
	AbsPath string
	Tracked bool
	Size    int64
	Ext     string
}

// Entry pairs a FileEntry with its recorded outcome. Every file the walker
// lists carries exactly one outcome; HasSize is false only when the file
// could not be stat'ed.
type Entry struct {
	FileEntry
	HasSize bool
	Outcome Outcome
}

// Walker resolves an outcome for every tracked and untracked path. It does
// not enumerate the repository itself; callers hand it the path lists from
// version control.
type Walker struct {
	root       string
	cfg        Config
	classifier *Classifier
	inliner    *Inliner
	overlay    *ignore.Matcher
	logger     *zap.Logger
}

// NewWalker builds a walker rooted at the repository root. overlay may be
// nil when no .snapshotignore exists.
func NewWalker(root string, cfg Config, classifier *Classifier, inliner *Inliner, overlay *ignore.Matcher, logger *zap.Logger) *Walker {
	return &Walker{
		root:       root,
		cfg:        cfg,
		classifier: classifier,
		inliner:    inliner,
		overlay:    overlay,
		logger:     logger,
	}
}

// Tracked resolves outcomes for tracked paths in lexicographic order. Paths
// under an excluded directory are omitted from the result entirely; every
// other path yields exactly one entry.
func (w *Walker) Tracked(paths []string) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, rel := range sortedClean(paths) {
		if w.classifier.IsExcludedDir(rel) {
			w.logger.Debug("omitting tracked path under excluded directory", zap.String("path", rel))
			continue
		}

		entry := Entry{FileEntry: FileEntry{
			RelPath: rel,
			AbsPath: filepath.Join(w.root, filepath.FromSlash(rel)),
			Tracked: true,
			Ext:     fileExt(rel),
		}}

		info, err := os.Stat(entry.AbsPath)
		switch {
		case os.IsNotExist(err):
			entry.Outcome = Outcome{Kind: OutcomeMissingOnDisk}
		case err != nil:
			entry.Outcome = Outcome{Kind: OutcomeReadError, Detail: err.Error()}
		default:
			entry.Size = info.Size()
			entry.HasSize = true
			entry.Outcome = w.resolveTracked(entry)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (w *Walker) resolveTracked(entry Entry) Outcome {
	if w.classifier.MatchesSecretPattern(entry.RelPath) {
		return Outcome{Kind: OutcomeSecretPattern}
	}
	if w.overlay.Matches(entry.RelPath) {
		return Outcome{Kind: OutcomeIgnoreRule}
	}
	return w.inliner.Inline(entry.AbsPath, entry.Ext, entry.Size, w.cfg.MaxInlineTrackedBytes)
}

// Untracked resolves outcomes for untracked paths in lexicographic order.
// Untracked files additionally pass through the text-extension allowlist;
// files without an extension skip the allowlist and rely on content
// sniffing alone.
func (w *Walker) Untracked(paths []string) []Entry {
	entries := make([]Entry, 0, len(paths))
	for _, rel := range sortedClean(paths) {
		if w.classifier.IsExcludedDir(rel) {
			w.logger.Debug("omitting untracked path under excluded directory", zap.String("path", rel))
			continue
		}

		entry := Entry{FileEntry: FileEntry{
			RelPath: rel,
			AbsPath: filepath.Join(w.root, filepath.FromSlash(rel)),
			Ext:     fileExt(rel),
		}}

		info, err := os.Stat(entry.AbsPath)
		switch {
		case os.IsNotExist(err):
			// Listed by status but gone before we got here.
			entry.Outcome = Outcome{Kind: OutcomeMissingOnDisk}
		case err != nil:
			entry.Outcome = Outcome{Kind: OutcomeReadError, Detail: err.Error()}
		default:
			entry.Size = info.Size()
			entry.HasSize = true
			entry.Outcome = w.resolveUntracked(entry)
		}
		entries = append(entries, entry)
	}
	return entries
}

func (w *Walker) resolveUntracked(entry Entry) Outcome {
	if w.classifier.MatchesSecretPattern(entry.RelPath) {
		return Outcome{Kind: OutcomeSecretPattern}
	}
	if w.overlay.Matches(entry.RelPath) {
		return Outcome{Kind: OutcomeIgnoreRule}
	}
	if entry.Ext != "" && !w.classifier.IsAllowlistedTextExtension(entry.Ext) {
		return Outcome{Kind: OutcomeUnlistedExtension, Detail: entry.Ext}
	}
	return w.inliner.Inline(entry.AbsPath, entry.Ext, entry.Size, w.cfg.MaxInlineUntrackedBytes)
}

func sortedClean(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, path.Clean(filepath.ToSlash(p)))
	}
	sort.Strings(out)
	return out
}
