package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reposnap/pkg/ignore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeTestFile(t *testing.T, root, rel, content string) {
	t.Helper()
	writeTestBytes(t, root, rel, []byte(content))
}

func writeTestBytes(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, data, 0o644))
}

func testWalker(root string, cfg Config, overlay *ignore.Matcher) *Walker {
	classifier := NewClassifier(cfg)
	return NewWalker(root, cfg, classifier, NewInliner(classifier), overlay, zap.NewNop())
}

func TestTracked_ExcludedDirectoryOmittedEntirely(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "readme.md", "hello\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Tracked([]string{"assets/logo.png", "readme.md"})
	require.Len(t, entries, 1)
	assert.Equal(t, "readme.md", entries[0].RelPath)
}

func TestTracked_MissingOnDiskMarker(t *testing.T) {
	root := t.TempDir()
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Tracked([]string{"gone.txt"})
	require.Len(t, entries, 1)
	assert.False(t, entries[0].HasSize)
	assert.Equal(t, OutcomeMissingOnDisk, entries[0].Outcome.Kind)
	assert.Equal(t, "[missing on disk]", entries[0].Outcome.Reason())
}

func TestTracked_SecretPatternListedWithoutContent(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "secrets/token.txt", "hunter2\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Tracked([]string{"secrets/token.txt"})
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.True(t, entry.HasSize)
	assert.Equal(t, int64(8), entry.Size)
	assert.Equal(t, OutcomeSecretPattern, entry.Outcome.Kind)
	assert.Empty(t, entry.Outcome.Text)
}

func TestTracked_LexicographicOrderAndInlining(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "b.txt", "bee\n")
	writeTestFile(t, root, "a/c.txt", "cee\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Tracked([]string{"b.txt", "a/c.txt"})
	require.Len(t, entries, 2)
	assert.Equal(t, "a/c.txt", entries[0].RelPath)
	assert.Equal(t, "b.txt", entries[1].RelPath)
	for _, entry := range entries {
		assert.True(t, entry.Tracked)
		assert.Equal(t, OutcomeInlined, entry.Outcome.Kind)
	}
	assert.Equal(t, "cee\n", entries[0].Outcome.Text)
}

func TestTracked_AllowlistDoesNotApply(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "data.xyz", "plain text in an unknown extension\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Tracked([]string{"data.xyz"})
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeInlined, entries[0].Outcome.Kind)
}

func TestUntracked_UnlistedExtensionListedWithReason(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "data.xyz", "plain text in an unknown extension\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Untracked([]string{"data.xyz"})
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.False(t, entry.Tracked)
	assert.True(t, entry.HasSize)
	assert.Equal(t, OutcomeUnlistedExtension, entry.Outcome.Kind)
	assert.Equal(t, "[skipped: extension not allowlisted (.xyz)]", entry.Outcome.Reason())
}

func TestUntracked_NoExtensionBypassesAllowlist(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "Makefile", "all:\n\techo hi\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Untracked([]string{"Makefile"})
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeInlined, entries[0].Outcome.Kind)
}

func TestUntracked_UsesTighterCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInlineTrackedBytes = 100
	cfg.MaxInlineUntrackedBytes = 10

	root := t.TempDir()
	writeTestFile(t, root, "notes.md", strings.Repeat("n", 50))
	w := testWalker(root, cfg, nil)

	tracked := w.Tracked([]string{"notes.md"})
	require.Len(t, tracked, 1)
	assert.Equal(t, OutcomeInlined, tracked[0].Outcome.Kind)

	untracked := w.Untracked([]string{"notes.md"})
	require.Len(t, untracked, 1)
	assert.Equal(t, OutcomeTooLarge, untracked[0].Outcome.Kind)
}

func TestWalker_CapBoundaryPerSection(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxInlineTrackedBytes = 20
	cfg.MaxInlineUntrackedBytes = 20

	root := t.TempDir()
	writeTestFile(t, root, "at.md", strings.Repeat("a", 20))
	writeTestFile(t, root, "over.md", strings.Repeat("a", 21))
	w := testWalker(root, cfg, nil)

	tracked := w.Tracked([]string{"at.md", "over.md"})
	require.Len(t, tracked, 2)
	assert.Equal(t, OutcomeInlined, tracked[0].Outcome.Kind)
	assert.Equal(t, OutcomeTooLarge, tracked[1].Outcome.Kind)

	untracked := w.Untracked([]string{"at.md", "over.md"})
	require.Len(t, untracked, 2)
	assert.Equal(t, OutcomeInlined, untracked[0].Outcome.Kind)
	assert.Equal(t, OutcomeTooLarge, untracked[1].Outcome.Kind)
}

func TestWalker_OverlaySuppressesInliningButKeepsListing(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, ignore.FileName, "fixtures/\n")
	writeTestFile(t, root, "fixtures/dump.json", "{}\n")

	overlay, err := ignore.Load(root, zap.NewNop())
	require.NoError(t, err)
	w := testWalker(root, DefaultConfig(), overlay)

	for _, entries := range [][]Entry{
		w.Tracked([]string{"fixtures/dump.json"}),
		w.Untracked([]string{"fixtures/dump.json"}),
	} {
		require.Len(t, entries, 1)
		assert.Equal(t, OutcomeIgnoreRule, entries[0].Outcome.Kind)
		assert.Equal(t, "[skipped: matched .snapshotignore]", entries[0].Outcome.Reason())
		assert.True(t, entries[0].HasSize)
	}
}

func TestWalker_SecretCheckedBeforeExtension(t *testing.T) {
	root := t.TempDir()
	writeTestFile(t, root, "config/.env", "TOKEN=abc\n")
	w := testWalker(root, DefaultConfig(), nil)

	entries := w.Untracked([]string{"config/.env"})
	require.Len(t, entries, 1)
	assert.Equal(t, OutcomeSecretPattern, entries[0].Outcome.Kind)
}
