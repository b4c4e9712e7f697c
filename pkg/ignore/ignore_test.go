package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeOverlay(t *testing.T, root, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(content), 0o644))
}

func TestLoad_MissingFile_MatchesNothing(t *testing.T) {
	m, err := Load(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	assert.False(t, m.Matches("anything.txt"))
}

func TestLoad_SkipsCommentsAndBlankLines(t *testing.T) {
	root := t.TempDir()
	writeOverlay(t, root, "# generated artifacts\n\n*.gen.go\n")

	m, err := Load(root, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, m.Matches("api/types.gen.go"))
	assert.False(t, m.Matches("api/types.go"))
	assert.False(t, m.Matches("generated artifacts"))
}

func TestMatches_DirectoryPatternCoversContents(t *testing.T) {
	root := t.TempDir()
	writeOverlay(t, root, "fixtures/\ndocs/internal.md\n")

	m, err := Load(root, zap.NewNop())
	require.NoError(t, err)

	assert.True(t, m.Matches("fixtures/big_dump.json"))
	assert.True(t, m.Matches("docs/internal.md"))
	assert.False(t, m.Matches("docs/public.md"))
	assert.False(t, m.Matches("src/fixtures.go"))
}

func TestMatches_NilMatcherIsSafe(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Matches("a/b.txt"))
}
