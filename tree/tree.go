/*
Package tree provides the decision trees grown by arbor: their nodes,
classification of instances and the queries pruning relies on.
*/
package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
)

// Error is the type for the constant errors of the package
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrNodeNotFound is returned when looking up an ID that is not in a tree
const ErrNodeNotFound = Error("node not found in tree")

// Tree represents a decision tree: the schema of the instances it
// classifies and its root node.
type Tree struct {
	Schema *domain.Schema
	Root   *Node
}

// New takes a schema and a root node and returns the tree they make up.
func New(s *domain.Schema, root *Node) *Tree {
	return &Tree{s, root}
}

/*
Classify takes an instance and returns the class code the tree predicts for
it. Starting at the root, it descends to the child whose incoming value is
the instance's value for the node's split attribute, and returns the
majority class of the leaf it reaches.

If a node has no child for the instance's value (a category never seen
when the tree was grown) DefaultClass is returned. The instance must fit
the tree's schema: use Predict for unchecked input.
*/
func (t *Tree) Classify(inst domain.Instance) int {
	return classify(t.Root, inst)
}

func classify(n *Node, inst domain.Instance) int {
	if n.IsLeaf() {
		return n.MajorityClass
	}
	v := inst[n.SplitAttribute]
	for _, child := range n.Children {
		if child.IncomingValue == v {
			return classify(child, inst)
		}
	}
	return DefaultClass
}

/*
Predict takes an instance and returns the name of the class the tree
predicts for it, or an error if the instance does not fit the tree's
schema.
*/
func (t *Tree) Predict(inst domain.Instance) (string, error) {
	if err := t.Schema.Check(inst); err != nil {
		return "", err
	}
	return t.Schema.Class.CategoryAt(t.Classify(inst))
}

/*
Test takes a dataset and returns the fraction of its instances whose class
is the one predicted by the tree, or 0 for an empty dataset. Instances
that do not fit the tree's schema count as misclassified.
*/
func (t *Tree) Test(d dataset.Dataset) float64 {
	if len(d) == 0 {
		return 0.0
	}
	ci := t.Schema.ClassIndex()
	correct := 0
	for _, inst := range d {
		if t.Schema.Check(inst) != nil {
			continue
		}
		if t.Classify(inst) == inst[ci] {
			correct++
		}
	}
	return float64(correct) / float64(len(d))
}

// Traverse takes a bottomup boolean and an error-returning function that
// takes a node, and goes through the tree calling the function with every
// node. The function is called with a parent node before its children if
// bottomup is false, and after them if bottomup is true. If the call to the
// function returns an error, the traversing is aborted and the error is
// returned.
func (t *Tree) Traverse(bottomup bool, f func(*Node) error) error {
	return traverse(t.Root, bottomup, f)
}

func traverse(n *Node, bottomup bool, f func(*Node) error) error {
	if !bottomup {
		if err := f(n); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := traverse(child, bottomup, f); err != nil {
			return err
		}
	}
	if bottomup {
		return f(n)
	}
	return nil
}

// Find returns the node with the given ID or ErrNodeNotFound
func (t *Tree) Find(id int) (*Node, error) {
	var found *Node
	t.Traverse(false, func(n *Node) error {
		if n.ID == id {
			found = n
			return ErrNodeNotFound
		}
		return nil
	})
	if found == nil {
		return nil, ErrNodeNotFound
	}
	return found, nil
}

// MaxLevel returns the level of the deepest node of the tree
func (t *Tree) MaxLevel() int {
	max := 0
	t.Traverse(false, func(n *Node) error {
		if n.Level > max {
			max = n.Level
		}
		return nil
	})
	return max
}

/*
InternalNodeIDsAt takes a level and returns the IDs of the nodes at that
level that have children, in depth-first pre-order.
*/
func (t *Tree) InternalNodeIDsAt(level int) []int {
	var ids []int
	t.Traverse(false, func(n *Node) error {
		if n.Level == level && !n.IsLeaf() {
			ids = append(ids, n.ID)
		}
		return nil
	})
	return ids
}

// Size returns the number of nodes and the number of leaves in the tree
func (t *Tree) Size() (nodes, leaves int) {
	t.Traverse(false, func(n *Node) error {
		nodes++
		if n.IsLeaf() {
			leaves++
		}
		return nil
	})
	return
}

/*
Clone returns an independent copy of the tree: nodes can be modified on
either without affecting the other. The schema and training instances are
shared.
*/
func (t *Tree) Clone() *Tree {
	return &Tree{t.Schema, t.Root.Clone()}
}

func (t *Tree) String() string {
	return t.subtreeString(t.Root)
}

func (t *Tree) subtreeString(n *Node) string {
	result := fmt.Sprintf("[%d]\n", n.ID)
	if n.IncomingAttribute != None {
		a := t.Schema.Attributes[n.IncomingAttribute]
		v, _ := a.CategoryAt(n.IncomingValue)
		result = fmt.Sprintf("%s{ %s is %s }\n", result, a.Name(), v)
	}
	if n.IsLeaf() {
		c, _ := t.Schema.Class.CategoryAt(n.MajorityClass)
		result = fmt.Sprintf("%s{ %s: %s (%d) }\n", result, t.Schema.Class.Name(), c, n.Count())
	}
	if len(n.Children) > 0 {
		result = fmt.Sprintf("%s|\n", result)
	} else {
		result = fmt.Sprintf("%s \n", result)
	}
	for i, child := range n.Children {
		for j, line := range strings.Split(t.subtreeString(child), "\n") {
			if len(line) > 0 {
				if j == 0 {
					result = fmt.Sprintf("%s|__%s\n", result, line)
				} else {
					if i == len(n.Children)-1 {
						result = fmt.Sprintf("%s   %s\n", result, line)
					} else {
						result = fmt.Sprintf("%s|  %s\n", result, line)
					}
				}
			}
		}
	}
	return result
}
