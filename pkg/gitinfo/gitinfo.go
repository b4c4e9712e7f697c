// Package gitinfo answers read-only questions about a git working tree.
//
// All queries are best-effort: callers receive either a value or the error
// that made the value unavailable, and render the outcome accordingly. The
// package is built on go-git, so no git binary is required at runtime.
package gitinfo

import (
	"fmt"
	"sort"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Field holds the result of a single best-effort repository query.
type Field struct {
	Value string
	Err   error
}

// OK reports whether the query produced a usable value.
func (f Field) OK() bool {
	return f.Err == nil
}

// Client wraps an opened repository and its resolved working-tree root.
type Client struct {
	repo *git.Repository
	root string
}

// Open discovers the repository containing dir, searching parent directories
// the way git itself does. It fails when dir is not inside a working tree or
// when the repository is bare.
func Open(dir string) (*Client, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve worktree: %w", err)
	}

	return &Client{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the absolute path of the working-tree root.
func (c *Client) Root() string {
	return c.root
}

// HeadCommit returns the full hash of the current HEAD commit.
func (c *Client) HeadCommit() Field {
	ref, err := c.repo.Head()
	if err != nil {
		return Field{Err: err}
	}
	return Field{Value: ref.Hash().String()}
}

// Branch returns the short name of the checked-out branch. A detached HEAD is
// reported with its abbreviated commit hash; an unborn branch still resolves
// to its symbolic name.
func (c *Client) Branch() Field {
	ref, err := c.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return Field{Err: err}
	}
	if ref.Type() == plumbing.SymbolicReference {
		return Field{Value: ref.Target().Short()}
	}
	return Field{Value: fmt.Sprintf("(detached at %s)", shortHash(ref.Hash()))}
}

// StatusLines returns the working-tree status in porcelain-like "XY path"
// form, sorted by path for stable output.
func (c *Client) StatusLines() ([]string, error) {
	wt, err := c.repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(status))
	for p, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	lines := make([]string, 0, len(paths))
	for _, p := range paths {
		fs := status[p]
		lines = append(lines, fmt.Sprintf("%c%c %s", byte(fs.Staging), byte(fs.Worktree), p))
	}
	return lines, nil
}

// RecentCommits returns up to limit formatted log entries, newest first:
// abbreviated hash, author date, subject line.
func (c *Client) RecentCommits(limit int) ([]string, error) {
	ref, err := c.repo.Head()
	if err != nil {
		return nil, err
	}
	iter, err := c.repo.Log(&git.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var lines []string
	err = iter.ForEach(func(commit *object.Commit) error {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			shortHash(commit.Hash),
			commit.Author.When.UTC().Format("2006-01-02"),
			subjectLine(commit.Message)))
		if len(lines) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// TrackedFiles returns the slash-separated relative paths recorded in the
// index, sorted lexicographically. Submodule entries are omitted since they
// have no file content to snapshot.
func (c *Client) TrackedFiles() ([]string, error) {
	idx, err := c.repo.Storer.Index()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(idx.Entries))
	for _, entry := range idx.Entries {
		if entry.Mode == filemode.Submodule {
			continue
		}
		paths = append(paths, entry.Name)
	}
	sort.Strings(paths)
	return paths, nil
}

// UntrackedFiles returns paths present on disk but absent from the index and
// not covered by ignore rules, sorted lexicographically.
func (c *Client) UntrackedFiles() ([]string, error) {
	wt, err := c.repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}

	var paths []string
	for p, fs := range status {
		if fs.Worktree == git.Untracked {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}

func subjectLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}
