// Package snapshot generates a single-file text snapshot of a repository:
// version-control metadata, a focused directory tree, and the size-capped,
// policy-filtered contents of tracked and untracked files.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reposnap/pkg/gitinfo"
	"reposnap/pkg/ignore"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"
)

// Arguments holds the command-line options for one snapshot run.
type Arguments struct {
	// Root is the directory the repository is discovered from; empty means
	// the current working directory.
	Root string

	// Output overrides the artifact path; empty uses cfg.Output under the
	// repository root.
	Output string

	// Clipboard also copies the document to the system clipboard.
	Clipboard bool

	// CountTokens appends a model token count to the summary section.
	CountTokens bool
}

type sectionStats struct {
	listed  int
	inlined int
	bytes   int64
}

// Execute runs one complete snapshot: queries version control, classifies
// and inlines every candidate file, assembles the document in memory and
// writes it once. Degradable conditions (no repository, unreadable files)
// are recorded in the document; only root and output resolution failures
// return an error.
func Execute(args Arguments, cfg Config, logger *zap.Logger) error {
	started := time.Now()

	base := args.Root
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve working directory: %w", err)
		}
		base = wd
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return fmt.Errorf("failed to resolve root %q: %w", args.Root, err)
	}
	info, err := os.Stat(base)
	if err != nil {
		return fmt.Errorf("failed to stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root %s is not a directory", base)
	}

	client, gitErr := gitinfo.Open(base)
	root := base
	if gitErr == nil {
		root = client.Root()
	} else {
		logger.Warn("version control unavailable, snapshotting filesystem only", zap.Error(gitErr))
	}
	logger.Info("starting snapshot",
		zap.String("root", root),
		zap.Bool("gitAvailable", gitErr == nil))

	overlay, err := ignore.Load(root, logger)
	if err != nil {
		logger.Warn("overlay ignore file unreadable, continuing without it", zap.Error(err))
		overlay = nil
	}

	outPath := filepath.Join(root, filepath.FromSlash(cfg.Output))
	if args.Output != "" {
		outPath, err = filepath.Abs(args.Output)
		if err != nil {
			return fmt.Errorf("failed to resolve output path %q: %w", args.Output, err)
		}
	}
	// The artifact from a previous run is part of the working tree; dropping
	// it from the listing keeps consecutive snapshots comparable.
	selfRel := ""
	if rel, relErr := filepath.Rel(root, outPath); relErr == nil && !strings.HasPrefix(rel, "..") {
		selfRel = filepath.ToSlash(rel)
	}

	classifier := NewClassifier(cfg)
	walker := NewWalker(root, cfg, classifier, NewInliner(classifier), overlay, logger)

	var report Report

	report.Heading("REPO")
	report.Linef("root: %s", root)
	report.Linef("generated: %s", time.Now().UTC().Format(time.RFC3339))
	report.Blank()

	writeGitSection(&report, client, gitErr, cfg.RecentCommits, selfRel)

	report.Heading("TREE")
	if tree := RenderTree(root, cfg.TreePaths, classifier, outPath, logger); tree != "" {
		report.Raw(tree)
	} else {
		report.Line("(no paths of interest found)")
	}
	report.Blank()

	const unavailableNote = "[unavailable: version control could not be queried]"
	var tracked, untracked sectionStats
	if gitErr != nil {
		tracked = writeUnavailableSection(&report, "TRACKED FILES", unavailableNote)
		untracked = writeUnavailableSection(&report, "UNTRACKED FILES", unavailableNote)
	} else {
		tracked = writeFileSection(&report, "TRACKED FILES", client.TrackedFiles, walker.Tracked, selfRel, logger)
		untracked = writeFileSection(&report, "UNTRACKED FILES", client.UntrackedFiles, walker.Untracked, selfRel, logger)
	}

	report.Heading("SUMMARY")
	report.Linef("tracked: %d listed, %d inlined, %d skipped",
		tracked.listed, tracked.inlined, tracked.listed-tracked.inlined)
	report.Linef("untracked: %d listed, %d inlined, %d skipped",
		untracked.listed, untracked.inlined, untracked.listed-untracked.inlined)
	report.Linef("bytes inlined: %d", tracked.bytes+untracked.bytes)
	if args.CountTokens {
		writeTokenCount(&report, logger)
	}

	document := report.String()
	if err := WriteAtomic(outPath, []byte(document), logger); err != nil {
		return err
	}

	if args.Clipboard {
		if err := clipboard.WriteAll(document); err != nil {
			logger.Warn("failed to copy snapshot to clipboard", zap.Error(err))
		} else {
			logger.Info("snapshot copied to clipboard")
		}
	}

	logger.Info("snapshot written",
		zap.String("artifact", outPath),
		zap.Int("bytes", len(document)),
		zap.Int("trackedListed", tracked.listed),
		zap.Int("untrackedListed", untracked.listed),
		zap.Duration("elapsed", time.Since(started)))
	fmt.Printf("Snapshot written to %s\n", outPath)
	return nil
}

func writeGitSection(report *Report, client *gitinfo.Client, gitErr error, recentCommits int, selfRel string) {
	report.Heading("GIT")
	if gitErr != nil {
		report.Linef("[git unavailable: %v]", gitErr)
		report.Blank()
		return
	}

	report.Linef("commit: %s", fieldText(client.HeadCommit()))
	report.Linef("branch: %s", fieldText(client.Branch()))
	report.Blank()

	report.Line("status:")
	statusLines, err := client.StatusLines()
	if err == nil && selfRel != "" {
		// Status lines are "XY path"; the artifact itself is not news.
		kept := statusLines[:0]
		for _, line := range statusLines {
			if len(line) > 3 && line[3:] == selfRel {
				continue
			}
			kept = append(kept, line)
		}
		statusLines = kept
	}
	switch {
	case err != nil:
		report.Linef("[unavailable: %v]", err)
	case len(statusLines) == 0:
		report.Line("(clean)")
	default:
		for _, line := range statusLines {
			report.Line(line)
		}
	}
	report.Blank()

	if recentCommits > 0 {
		report.Line("recent commits:")
		history, err := client.RecentCommits(recentCommits)
		switch {
		case err != nil:
			report.Linef("[unavailable: %v]", err)
		case len(history) == 0:
			report.Line("(none)")
		default:
			for _, line := range history {
				report.Line(line)
			}
		}
		report.Blank()
	}
}

func fieldText(f gitinfo.Field) string {
	if !f.OK() {
		return fmt.Sprintf("[unavailable: %v]", f.Err)
	}
	return f.Value
}

func writeUnavailableSection(report *Report, name, note string) sectionStats {
	report.Heading(name)
	report.Line(note)
	report.Blank()
	return sectionStats{}
}

func writeFileSection(report *Report, name string, enumerate func() ([]string, error), resolve func([]string) []Entry, selfRel string, logger *zap.Logger) sectionStats {
	paths, err := enumerate()
	if err != nil {
		logger.Warn("file enumeration failed", zap.String("section", name), zap.Error(err))
		return writeUnavailableSection(report, name, fmt.Sprintf("[unavailable: %v]", err))
	}

	entries := resolve(dropPath(paths, selfRel))
	report.Heading(name)
	if len(entries) == 0 {
		report.Line("(none)")
		report.Blank()
		return sectionStats{}
	}

	var stats sectionStats
	for _, entry := range entries {
		report.FileBlock(entry)
		stats.listed++
		if entry.Outcome.Kind == OutcomeInlined {
			stats.inlined++
			stats.bytes += int64(len(entry.Outcome.Text))
		}
	}
	return stats
}

func dropPath(paths []string, rel string) []string {
	if rel == "" {
		return paths
	}
	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == rel {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func writeTokenCount(report *Report, logger *zap.Logger) {
	counter, err := NewTokenCounter()
	if err != nil {
		logger.Warn("token counting unavailable", zap.Error(err))
		report.Line("tokens: [unavailable]")
		return
	}
	report.Linef("tokens (%s): %d", tokenEncoding, counter.Count(report.String()))
}
