/*
Package xml renders trees as XML documents: a tree element for the root
with one nested node element per other node, indented with one tab per
level.
*/
package xml

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
)

// Header is the XML declaration opening every document
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>`

/*
Options controls how node IDs are rendered.

With LegacyIDs set, the id of every non-root node is its stored ID plus
one and its parentid is the stored parent ID plus one, except for children
of the root, whose parentid is the root's ID as stored. This reproduces
the numbering of documents produced by earlier tools. Otherwise stored
IDs are rendered as they are.
*/
type Options struct {
	LegacyIDs bool
}

/*
Encode takes an io.Writer, a tree and options and writes the XML
document for the tree onto the writer. The tree is not modified.

An error is returned if the writer fails or a node refers to a category
outside the tree's schema.
*/
func Encode(w io.Writer, t *tree.Tree, opts Options) error {
	bw := bufio.NewWriter(w)
	e := &encoder{bw, t.Schema, t.Root.ID, opts}
	if err := e.encodeRoot(t.Root); err != nil {
		return err
	}
	return bw.Flush()
}

type encoder struct {
	w      *bufio.Writer
	schema *domain.Schema
	rootID int
	opts   Options
}

func (e *encoder) encodeRoot(root *tree.Node) error {
	classes := make([]string, len(root.ClassCounts))
	for c, count := range root.ClassCounts {
		name, err := e.schema.Class.CategoryAt(c)
		if err != nil {
			return err
		}
		classes[c] = fmt.Sprintf("%s:%d", name, count)
	}
	_, err := fmt.Fprintf(e.w, "%s\n<tree classes=\"%s\" id=\"%d\" parentid=\"%d\" level=\"%d\" entropy=\"%.3f\">\n",
		Header, escape(strings.Join(classes, ",")), root.ID, root.ParentID, root.Level, root.Entropy())
	if err != nil {
		return err
	}
	for _, child := range root.Children {
		if err = e.encodeNode(child); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(e.w, "</tree>")
	return err
}

func (e *encoder) encodeNode(n *tree.Node) error {
	var classes []string
	for c, count := range n.ClassCounts {
		if count == 0 {
			continue
		}
		name, err := e.schema.Class.CategoryAt(c)
		if err != nil {
			return err
		}
		classes = append(classes, fmt.Sprintf("%s:%d", name, count))
	}
	attribute := e.schema.Attributes[n.IncomingAttribute]
	value, err := attribute.CategoryAt(n.IncomingValue)
	if err != nil {
		return err
	}
	id, parentID := e.ids(n)
	tabs := strings.Repeat("\t", n.Level)
	isLeaf := "0"
	if n.IsLeaf() {
		isLeaf = "1"
	}
	_, err = fmt.Fprintf(e.w, "%s<node classes=\"%s\" id=\"%d\" parentid=\"%d\" level=\"%d\" entropy=\"%.3f\" isLeaf=\"%s\" attr=\"%s=%s\">",
		tabs, escape(strings.Join(classes, ",")), id, parentID, n.Level, n.Entropy(), isLeaf, escape(attribute.Name()), escape(value))
	if err != nil {
		return err
	}
	if n.IsLeaf() {
		label, err := e.schema.Class.CategoryAt(n.MajorityClass)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(e.w, "%s</node>\n", escape(label))
		return err
	}
	if _, err = fmt.Fprintln(e.w); err != nil {
		return err
	}
	for _, child := range n.Children {
		if err = e.encodeNode(child); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(e.w, "%s</node>\n", tabs)
	return err
}

func (e *encoder) ids(n *tree.Node) (int, int) {
	if !e.opts.LegacyIDs {
		return n.ID, n.ParentID
	}
	if n.ParentID == e.rootID {
		return n.ID + 1, n.ParentID
	}
	return n.ID + 1, n.ParentID + 1
}

func escape(s string) string {
	var b bytes.Buffer
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
