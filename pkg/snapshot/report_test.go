package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileBlock_InlinedContent(t *testing.T) {
	var r Report
	r.FileBlock(Entry{
		FileEntry: FileEntry{RelPath: "docs/a.md", Size: 6},
		HasSize:   true,
		Outcome:   Outcome{Kind: OutcomeInlined, Text: "hello\n"},
	})

	want := "----- FILE: docs/a.md -----\n" +
		"size: 6 bytes\n" +
		"hello\n" +
		"----- END FILE: docs/a.md -----\n\n"
	assert.Equal(t, want, r.String())
}

func TestFileBlock_TerminatesContentWithoutTrailingNewline(t *testing.T) {
	var r Report
	r.FileBlock(Entry{
		FileEntry: FileEntry{RelPath: "x.txt", Size: 1},
		HasSize:   true,
		Outcome:   Outcome{Kind: OutcomeInlined, Text: "x"},
	})

	want := "----- FILE: x.txt -----\n" +
		"size: 1 bytes\n" +
		"x\n" +
		"----- END FILE: x.txt -----\n\n"
	assert.Equal(t, want, r.String())
}

func TestFileBlock_SkipReasonWithoutSize(t *testing.T) {
	var r Report
	r.FileBlock(Entry{
		FileEntry: FileEntry{RelPath: "gone.txt"},
		Outcome:   Outcome{Kind: OutcomeMissingOnDisk},
	})

	want := "----- FILE: gone.txt -----\n" +
		"[missing on disk]\n" +
		"----- END FILE: gone.txt -----\n\n"
	assert.Equal(t, want, r.String())
}

func TestWriteAtomic_CreatesDirsAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tools", "maintenance", "repo_snapshot.txt")

	require.NoError(t, WriteAtomic(target, []byte("first\n"), zap.NewNop()))
	require.NoError(t, WriteAtomic(target, []byte("second\n"), zap.NewNop()))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	// No temporary files left behind.
	siblings, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, siblings, 1)
	assert.Equal(t, "repo_snapshot.txt", siblings[0].Name())
}
