package tree

import (
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
)

const (
	// None is the value of the incoming attribute and value of the root,
	// the split attribute of leaves and the majority class of internal nodes.
	None = -1
	// NoParent is the parent ID of the root node
	NoParent = -1
	// DefaultClass is the class predicted for instances that reach a node
	// without a child for their value of the node's split attribute.
	DefaultClass = 0
)

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node, unique in its tree and
	// increasing in depth-first pre-order from 0 at the root
	ID int
	// The ID for the parent of the node in the tree, NoParent for the root
	ParentID int
	// The depth of the node, 0 for the root
	Level int
	// The attribute and code on the edge from the parent
	// that selects this node, None on the root
	IncomingAttribute int
	IncomingValue     int
	// The attribute whose value selects the child to descend to.
	// None on leaves.
	SplitAttribute int
	// The class predicted by a leaf. None on internal nodes.
	MajorityClass int
	// The nodes directly under this node, ordered by incoming value
	Children []*Node
	// The training instances routed to the node. Trees loaded from
	// storage do not keep them.
	Data dataset.Dataset
	// The count of training instances for each class code
	ClassCounts []int
	// The attributes already split on from the root to this node
	Used domain.UsedSet
}

// IsLeaf returns whether the node has no children
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Count returns the number of training instances that reached the node
func (n *Node) Count() int {
	total := 0
	for _, c := range n.ClassCounts {
		total += c
	}
	return total
}

// Entropy returns the entropy of the class distribution of the node's training instances
func (n *Node) Entropy() float64 {
	return dataset.Entropy(n.ClassCounts)
}

/*
AttributeDomains takes a schema and returns copies of its attribute
domains with the ones already split on along the node's branch marked as
used.
*/
func (n *Node) AttributeDomains(s *domain.Schema) []*domain.AttributeDomain {
	return n.Used.MarkDomains(s.Attributes)
}

/*
Collapse turns the node into a leaf: it drops its children and predicts
the majority class of its own training instances, computed from its class
counts with the same rule as leaves get when growing, so ties go to the
highest class code. Reduced-error pruners that keep the first of tied
classes on collapse, ties going to the lowest class code, may label such
leaves differently.
*/
func (n *Node) Collapse() {
	n.Children = nil
	n.SplitAttribute = None
	n.MajorityClass = dataset.Majority(n.ClassCounts)
}

/*
Clone returns a deep copy of the subtree under the node. Training
instances are shared, as they are never modified.
*/
func (n *Node) Clone() *Node {
	c := *n
	c.ClassCounts = append([]int(nil), n.ClassCounts...)
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return &c
}
