package snapshot

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

type treeNode struct {
	name     string
	isDir    bool
	children []*treeNode
}

// RenderTree draws a connector-style listing of the configured top-level
// paths. Paths that do not exist are left out, excluded directories are
// pruned wherever they appear, and directories with nothing left to show
// are dropped. skipAbs names the snapshot artifact, which never lists
// itself. Returns "" when nothing is visible.
func RenderTree(root string, topPaths []string, classifier *Classifier, skipAbs string, logger *zap.Logger) string {
	var builder strings.Builder
	for _, top := range topPaths {
		abs := filepath.Join(root, filepath.FromSlash(top))
		info, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if abs == skipAbs {
				continue
			}
			builder.WriteString(top + "\n")
			continue
		}
		nodes := buildTreeNodes(abs, classifier, skipAbs, logger)
		if len(nodes) == 0 {
			continue
		}
		builder.WriteString(top + "/\n")
		writeTreeNodes(&builder, nodes, "")
	}
	return builder.String()
}

func buildTreeNodes(dir string, classifier *Classifier, skipAbs string, logger *zap.Logger) []*treeNode {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		logger.Warn("failed to read directory for tree", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	var nodes []*treeNode
	for _, entry := range dirEntries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if classifier.IsExcludedDir(entry.Name()) {
				continue
			}
			children := buildTreeNodes(full, classifier, skipAbs, logger)
			if len(children) == 0 {
				continue
			}
			nodes = append(nodes, &treeNode{name: entry.Name(), isDir: true, children: children})
		} else {
			if full == skipAbs {
				continue
			}
			nodes = append(nodes, &treeNode{name: entry.Name()})
		}
	}

	// Directories first, then case-insensitive by name.
	sort.SliceStable(nodes, func(i, j int) bool {
		if nodes[i].isDir != nodes[j].isDir {
			return nodes[i].isDir
		}
		return strings.ToLower(nodes[i].name) < strings.ToLower(nodes[j].name)
	})
	return nodes
}

func writeTreeNodes(builder *strings.Builder, nodes []*treeNode, prefix string) {
	for i, node := range nodes {
		connector, childPrefix := "├── ", "│   "
		if i == len(nodes)-1 {
			connector, childPrefix = "└── ", "    "
		}
		if node.isDir {
			builder.WriteString(prefix + connector + node.name + "/\n")
			writeTreeNodes(builder, node.children, prefix+childPrefix)
		} else {
			builder.WriteString(prefix + connector + node.name + "\n")
		}
	}
}
