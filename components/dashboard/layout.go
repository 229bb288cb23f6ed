package dashboard

// NodeKind is the role of a layout node.
type NodeKind string

const (
	NodeRow       NodeKind = "row"
	NodeColumn    NodeKind = "column"
	NodeHeading   NodeKind = "heading"
	NodeControl   NodeKind = "control"
	NodeChart     NodeKind = "chart"
	NodeIndicator NodeKind = "indicator"
	NodeTable     NodeKind = "table"
)

// LayoutNode is one element of the static panel tree. Leaf nodes carry the id
// of a control or an output region.
type LayoutNode struct {
	Kind     NodeKind     `json:"kind"`
	ID       string       `json:"id,omitempty"`
	Title    string       `json:"title,omitempty"`
	Class    string       `json:"class,omitempty"`
	Children []LayoutNode `json:"children,omitempty"`
}

// Walk visits n and its descendants depth first.
func (n LayoutNode) Walk(fn func(LayoutNode)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Regions returns the output region ids in document order.
func (n LayoutNode) Regions() []string {
	var out []string
	n.Walk(func(node LayoutNode) {
		switch node.Kind {
		case NodeChart, NodeIndicator, NodeTable:
			out = append(out, node.ID)
		}
	})
	return out
}

// ControlIDs returns the control ids in document order.
func (n LayoutNode) ControlIDs() []string {
	var out []string
	n.Walk(func(node LayoutNode) {
		if node.Kind == NodeControl {
			out = append(out, node.ID)
		}
	})
	return out
}

func row(children ...LayoutNode) LayoutNode {
	return LayoutNode{Kind: NodeRow, Class: "row", Children: children}
}

func column(class string, children ...LayoutNode) LayoutNode {
	return LayoutNode{Kind: NodeColumn, Class: class, Children: children}
}

func heading(title string) LayoutNode {
	return LayoutNode{Kind: NodeHeading, Title: title}
}

func chartNode(id, title string) LayoutNode {
	return LayoutNode{Kind: NodeChart, ID: id, Title: title}
}

func indicatorNode(id, title string) LayoutNode {
	return LayoutNode{Kind: NodeIndicator, ID: id, Title: title}
}

func tableNode(id, title string) LayoutNode {
	return LayoutNode{Kind: NodeTable, ID: id, Title: title}
}

func controlNode(id string) LayoutNode {
	return LayoutNode{Kind: NodeControl, ID: id}
}
