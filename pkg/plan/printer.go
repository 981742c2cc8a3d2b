package plan

import "strings"

// Format renders a plan as an indented tree, one node per line, children one
// level below their parent.
func Format(node Node) string {
	var sb strings.Builder
	writeNode(&sb, node, 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, node Node, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(node.String())
	sb.WriteByte('\n')
	for _, child := range node.Children() {
		writeNode(sb, child, depth+1)
	}
}
