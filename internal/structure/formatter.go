package structure

import (
	"strings"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	directorySuffix     = "/"
	annotationSeparator = " "
	lineSeparator       = "\n"
)

// Format renders the tree below rootNode. The root itself emits no line, so an
// empty tree renders as an empty string.
func Format(rootNode *Node) string {
	var lines []string
	appendNodeLines(&lines, rootNode, "")
	return strings.Join(lines, lineSeparator)
}

func appendNodeLines(lines *[]string, node *Node, prefix string) {
	children := node.SortedChildren()
	for childIndex, child := range children {
		connector := treeBranchConnector
		nextPrefix := prefix + treeBranchPadding
		if childIndex == len(children)-1 {
			connector = treeLastConnector
			nextPrefix = prefix + treeLastPadding
		}
		*lines = append(*lines, prefix+connector+entryLabel(child))
		if child.IsDirectory() {
			appendNodeLines(lines, child, nextPrefix)
		}
	}
}

func entryLabel(node *Node) string {
	label := node.Name
	if node.IsDirectory() {
		label += directorySuffix
	}
	if annotation := Annotation(node.Name, node.IsDirectory()); annotation != "" {
		label += annotationSeparator + annotation
	}
	return label
}
