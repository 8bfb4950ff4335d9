package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
)

/*
Write takes an io.Writer and a pointer to a tree.Tree and serializes the
given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "class": a string with the name of the class the tree predicts
* "attributes": an array with the names of the attributes of the schema
  the tree was grown for, in order
* "nodes": an array containing the nodes of the tree in depth-first
  pre-order, each serialized by EncodeNode.
An error is returned if the tree cannot be serialized or written onto the
io.Writer.
*/
func Write(w io.Writer, t *tree.Tree) error {
	err := marshalJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	var i int
	err = t.Traverse(false, func(n *tree.Node) error {
		err := writeNode(i, n, w)
		i++
		return err
	})
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(`]}`))
	return err
}

/*
Read takes an io.Reader and a schema and unmarshals a tree written by
Write from the contents of the io.Reader. The class and attribute names
in the document must match those of the schema.

The tree returned keeps the class counts of its nodes but not the
training instances.
*/
func Read(r io.Reader, s *domain.Schema) (*tree.Tree, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		Class      string            `json:"class"`
		Attributes []string          `json:"attributes"`
		Nodes      []json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return nil, err
	}
	if err = CheckSchema(s, jt.Class, jt.Attributes); err != nil {
		return nil, err
	}
	nodes := make([]*tree.Node, 0, len(jt.Nodes))
	for _, jn := range jt.Nodes {
		n, err := DecodeNode(jn)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return Assemble(s, nodes)
}

/*
CheckSchema takes a schema, a class name and a list of attribute names
and returns an error unless they are the names of the schema's class and
attributes.
*/
func CheckSchema(s *domain.Schema, class string, attributes []string) error {
	if class != s.Class.Name() {
		return fmt.Errorf("tree predicts %q, not %q", class, s.Class.Name())
	}
	if len(attributes) != len(s.Attributes) {
		return fmt.Errorf("tree has %d attributes, schema has %d", len(attributes), len(s.Attributes))
	}
	for i, a := range s.Attributes {
		if attributes[i] != a.Name() {
			return fmt.Errorf("tree attribute %d is %q, not %q", i, attributes[i], a.Name())
		}
	}
	return nil
}

// AttributeNames returns the names of the attributes of a schema in order
func AttributeNames(s *domain.Schema) []string {
	names := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		names[i] = a.Name()
	}
	return names
}

func marshalJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jClassName, err := json.Marshal(t.Schema.Class.Name())
	if err != nil {
		return err
	}
	jAttributes, err := json.Marshal(AttributeNames(t.Schema))
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"class":%s,"attributes":%s,"nodes":[`, jClassName, jAttributes)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, n *tree.Node, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := EncodeNode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}
