package tree

/*
Node is a node of a decision tree. It is either a *Leaf or an *Internal node;
no other type implements it.
*/
type Node interface {
	node()
}

// Leaf is a terminal node carrying a fixed prediction.
type Leaf struct {
	// The label predicted for every row reaching the leaf.
	Label string
}

// Internal is a node that sends rows down to one of its children according
// to the value they hold for an attribute.
type Internal struct {
	// The index of the attribute on which rows are split.
	Attribute int
	// The subtree for each value of the attribute observed during training.
	Children map[string]Node
	// The most frequent label among the training rows that reached this
	// node, predicted for rows holding a value with no child.
	Fallback string
}

func (*Leaf) node()     {}
func (*Internal) node() {}
