package gitstore

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"

	"github.com/rios0rios0/supermanifest/internal/domain/entities"
)

const dirMode = filemode.Dir

// treeNode is a directory being assembled; leaf is set for files, gitlinks
// and symlinks.
type treeNode struct {
	children map[string]*treeNode
	leaf     *entities.TreeEntry
}

func newTreeNode() *treeNode {
	return &treeNode{children: make(map[string]*treeNode)}
}

// buildTreeNodes arranges flat slash-separated entries into nested nodes.
func buildTreeNodes(entries []entities.TreeEntry) (*treeNode, error) {
	root := newTreeNode()
	for i := range entries {
		entry := entries[i]
		clean := strings.Trim(path.Clean("/"+entry.Path), "/")
		if clean == "" {
			return nil, fmt.Errorf("invalid tree path %q", entry.Path)
		}
		if entry.Mode == dirMode {
			return nil, fmt.Errorf("tree path %q cannot be a directory entry", entry.Path)
		}

		segments := strings.Split(clean, "/")
		node := root
		for _, segment := range segments[:len(segments)-1] {
			child, ok := node.children[segment]
			if !ok {
				child = newTreeNode()
				node.children[segment] = child
			}
			if child.leaf != nil {
				return nil, fmt.Errorf("tree path %q is nested below %q", entry.Path, child.leaf.Path)
			}
			node = child
		}

		last := segments[len(segments)-1]
		if _, taken := node.children[last]; taken {
			return nil, fmt.Errorf("duplicate tree path %q", entry.Path)
		}
		node.children[last] = &treeNode{leaf: &entry}
	}
	return root, nil
}

// sortedNames orders children the way git sorts tree entries: directories
// compare as if their name ended with a slash.
func (n *treeNode) sortedNames() []string {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return n.sortKey(names[i]) < n.sortKey(names[j])
	})
	return names
}

func (n *treeNode) sortKey(name string) string {
	if n.children[name].leaf == nil {
		return name + "/"
	}
	return name
}
