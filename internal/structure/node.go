// Package structure builds and renders the annotated folder tree embedded in generated READMEs.
package structure

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/temirov/autoreadme/internal/types"
)

// Node is either a file or a directory with named children.
type Node struct {
	Name     string
	Type     string
	Children map[string]*Node
}

// NewDirectoryNode returns an empty directory node.
func NewDirectoryNode(name string) *Node {
	return &Node{Name: name, Type: types.NodeTypeDirectory, Children: map[string]*Node{}}
}

// NewFileNode returns a file node.
func NewFileNode(name string) *Node {
	return &Node{Name: name, Type: types.NodeTypeFile}
}

// IsDirectory reports whether the node can hold children.
func (node *Node) IsDirectory() bool {
	return node != nil && node.Type == types.NodeTypeDirectory
}

// promote turns a file node into an empty directory node.
func (node *Node) promote() {
	node.Type = types.NodeTypeDirectory
	if node.Children == nil {
		node.Children = map[string]*Node{}
	}
}

// SortedChildren returns the children with directories first, then by name in
// alphabetical order where lower case precedes upper case for the same letter.
func (node *Node) SortedChildren() []*Node {
	if node == nil || len(node.Children) == 0 {
		return nil
	}
	children := make([]*Node, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, child)
	}
	nameCollator := collate.New(language.Und)
	sort.Slice(children, func(left, right int) bool {
		leftIsDirectory := children[left].IsDirectory()
		rightIsDirectory := children[right].IsDirectory()
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		if comparison := nameCollator.CompareString(children[left].Name, children[right].Name); comparison != 0 {
			return comparison < 0
		}
		return children[left].Name < children[right].Name
	})
	return children
}

// Count returns the number of nodes below node, excluding node itself.
func (node *Node) Count() int {
	if node == nil {
		return 0
	}
	total := 0
	for _, child := range node.Children {
		total += 1 + child.Count()
	}
	return total
}
