package output

import (
	"path"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn is where file descriptions start.
	descriptionColumn = 34
)

// TreeNode represents a node in the file tree.
type TreeNode struct {
	Name        string
	Description string
	IsDir       bool
	Children    []*TreeNode
}

// RenderFileTree renders entries (relative path -> description) as a tree
// rooted at rootName, with descriptions aligned in a column. A path ending
// in "/" is an explicit, possibly empty, directory.
func RenderFileTree(rootName string, entries map[string]string) string {
	if len(entries) == 0 {
		return ""
	}

	root := &TreeNode{Name: rootName, IsDir: true}
	for p, desc := range entries {
		root.insert(p, desc)
	}
	root.sort()

	var sb strings.Builder
	sb.WriteString(StyleSummary.Render(strings.TrimSuffix(rootName, "/") + "/"))
	sb.WriteString("\n")
	root.renderChildren(&sb, "")
	return sb.String()
}

func (n *TreeNode) insert(p, desc string) {
	isDir := strings.HasSuffix(p, "/")
	clean := path.Clean(strings.ReplaceAll(p, "\\", "/"))
	if clean == "." || clean == "/" {
		return
	}

	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	cur := n
	for i, part := range parts {
		last := i == len(parts)-1
		child := cur.child(part)
		if child == nil {
			child = &TreeNode{Name: part, IsDir: !last || isDir}
			cur.Children = append(cur.Children, child)
		}
		if last {
			child.Description = desc
		}
		cur = child
	}
}

func (n *TreeNode) child(name string) *TreeNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sort orders children recursively, directories first, then by name.
func (n *TreeNode) sort() {
	sort.Slice(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		c.sort()
	}
}

func (n *TreeNode) renderChildren(sb *strings.Builder, prefix string) {
	for i, c := range n.Children {
		last := i == len(n.Children)-1

		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		name := c.Name
		if c.IsDir {
			name += "/"
		}
		line := prefix + connector + name
		if c.Description != "" {
			pad := descriptionColumn - len([]rune(line))
			if pad < 2 {
				pad = 2
			}
			line += strings.Repeat(" ", pad) + StyleMuted.Render(c.Description)
		}
		sb.WriteString(line)
		sb.WriteString("\n")

		c.renderChildren(sb, prefix+next)
	}
}
