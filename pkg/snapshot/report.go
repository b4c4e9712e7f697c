package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Report accumulates the snapshot document in memory. It has a single writer
// and is flushed exactly once, so an interrupted run leaves no artifact
// behind rather than a truncated one.
type Report struct {
	buf strings.Builder
}

// Heading writes a section banner.
func (r *Report) Heading(name string) {
	fmt.Fprintf(&r.buf, "===== %s =====\n", name)
}

// Line writes s followed by a newline.
func (r *Report) Line(s string) {
	r.buf.WriteString(s)
	r.buf.WriteByte('\n')
}

// Linef writes a formatted line.
func (r *Report) Linef(format string, args ...interface{}) {
	fmt.Fprintf(&r.buf, format+"\n", args...)
}

// Blank writes an empty line.
func (r *Report) Blank() {
	r.buf.WriteByte('\n')
}

// Raw writes s verbatim.
func (r *Report) Raw(s string) {
	r.buf.WriteString(s)
}

// FileBlock renders one delimited per-file block: the FILE marker, the size
// line when known, the inlined text or the one-line reason, then the END
// marker and a separating blank line.
func (r *Report) FileBlock(entry Entry) {
	r.Linef("----- FILE: %s -----", entry.RelPath)
	if entry.HasSize {
		r.Linef("size: %d bytes", entry.Size)
	}
	if entry.Outcome.Kind == OutcomeInlined {
		r.Raw(entry.Outcome.Text)
		if text := entry.Outcome.Text; text != "" && !strings.HasSuffix(text, "\n") {
			r.Blank()
		}
	} else {
		r.Line(entry.Outcome.Reason())
	}
	r.Linef("----- END FILE: %s -----", entry.RelPath)
	r.Blank()
}

// String returns the assembled document.
func (r *Report) String() string {
	return r.buf.String()
}

// WriteAtomic persists data as a full overwrite of path. The document goes
// to a temporary file in the destination directory first and is renamed into
// place, so a partially-written artifact can never be observed.
func WriteAtomic(path string, data []byte, logger *zap.Logger) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".repo_snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op once the rename succeeded
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot to %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move snapshot into place at %s: %w", path, err)
	}

	logger.Debug("wrote snapshot artifact",
		zap.String("path", path),
		zap.Int("bytes", len(data)))
	return nil
}
