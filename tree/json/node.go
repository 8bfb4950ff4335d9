/*
Package json serializes trees as JSON documents.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
)

type node struct {
	ID                int   `json:"id"`
	ParentID          int   `json:"pId"`
	Level             int   `json:"lvl"`
	IncomingAttribute int   `json:"ia"`
	IncomingValue     int   `json:"iv"`
	SplitAttribute    int   `json:"split"`
	MajorityClass     int   `json:"class"`
	ClassCounts       []int `json:"cc"`
}

/*
EncodeNode takes a node and returns its JSON encoding, without its
children or training instances.
*/
func EncodeNode(n *tree.Node) ([]byte, error) {
	return json.Marshal(&node{
		ID:                n.ID,
		ParentID:          n.ParentID,
		Level:             n.Level,
		IncomingAttribute: n.IncomingAttribute,
		IncomingValue:     n.IncomingValue,
		SplitAttribute:    n.SplitAttribute,
		MajorityClass:     n.MajorityClass,
		ClassCounts:       n.ClassCounts,
	})
}

/*
DecodeNode takes a slice of bytes with a node encoded by EncodeNode and
returns the node, unlinked from any tree.
*/
func DecodeNode(data []byte) (*tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	return &tree.Node{
		ID:                jn.ID,
		ParentID:          jn.ParentID,
		Level:             jn.Level,
		IncomingAttribute: jn.IncomingAttribute,
		IncomingValue:     jn.IncomingValue,
		SplitAttribute:    jn.SplitAttribute,
		MajorityClass:     jn.MajorityClass,
		ClassCounts:       jn.ClassCounts,
	}, nil
}

/*
Assemble takes a schema and the nodes of a tree in depth-first pre-order,
as produced by Tree.Traverse, and links them into a tree. The used
attribute set of each node is rebuilt from the splits along its branch.

An error is returned if the nodes do not make up a tree that fits the
schema.
*/
func Assemble(s *domain.Schema, nodes []*tree.Node) (*tree.Tree, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no nodes to assemble a tree from")
	}
	root := nodes[0]
	if root.ParentID != tree.NoParent || root.Level != 0 || root.IncomingAttribute != tree.None {
		return nil, fmt.Errorf("node %d is not a root node", root.ID)
	}
	byID := map[int]*tree.Node{root.ID: root}
	for _, n := range nodes[1:] {
		if _, ok := byID[n.ID]; ok {
			return nil, fmt.Errorf("duplicate node id %d", n.ID)
		}
		parent, ok := byID[n.ParentID]
		if !ok {
			return nil, fmt.Errorf("node %d: parent %d not found before it", n.ID, n.ParentID)
		}
		if n.Level != parent.Level+1 {
			return nil, fmt.Errorf("node %d: level %d under a parent at level %d", n.ID, n.Level, parent.Level)
		}
		if n.IncomingAttribute != parent.SplitAttribute || parent.SplitAttribute == tree.None {
			return nil, fmt.Errorf("node %d: incoming attribute %d does not match parent split attribute %d", n.ID, n.IncomingAttribute, parent.SplitAttribute)
		}
		if n.IncomingAttribute < 0 || n.IncomingAttribute >= len(s.Attributes) {
			return nil, fmt.Errorf("node %d: incoming attribute %d out of range", n.ID, n.IncomingAttribute)
		}
		if !s.Attributes[n.IncomingAttribute].Valid(n.IncomingValue) {
			return nil, fmt.Errorf("node %d: incoming value %d out of range for %s", n.ID, n.IncomingValue, s.Attributes[n.IncomingAttribute].Name())
		}
		n.Used = parent.Used.With(parent.SplitAttribute)
		parent.Children = append(parent.Children, n)
		byID[n.ID] = n
	}
	for _, n := range nodes {
		if err := checkNode(s, n); err != nil {
			return nil, err
		}
	}
	return tree.New(s, root), nil
}

func checkNode(s *domain.Schema, n *tree.Node) error {
	if len(n.ClassCounts) != s.ClassCount() {
		return fmt.Errorf("node %d: %d class counts for %d classes", n.ID, len(n.ClassCounts), s.ClassCount())
	}
	if n.IsLeaf() {
		if n.SplitAttribute != tree.None {
			return fmt.Errorf("node %d: leaf with split attribute %d", n.ID, n.SplitAttribute)
		}
		if !s.Class.Valid(n.MajorityClass) {
			return fmt.Errorf("node %d: class %d out of range for %s", n.ID, n.MajorityClass, s.Class.Name())
		}
		return nil
	}
	if n.SplitAttribute < 0 || n.SplitAttribute >= len(s.Attributes) {
		return fmt.Errorf("node %d: split attribute %d out of range", n.ID, n.SplitAttribute)
	}
	if n.Used.Has(n.SplitAttribute) {
		return fmt.Errorf("node %d: splits again on %s", n.ID, s.Attributes[n.SplitAttribute].Name())
	}
	return nil
}
