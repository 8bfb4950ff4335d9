package json

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *domain.Schema {
	return domain.NewSchema(
		domain.New("class", "p", "n"),
		domain.New("A", "x", "y"),
		domain.New("B", "u", "v"),
	)
}

func testTree() *tree.Tree {
	n2 := &tree.Node{ID: 2, ParentID: 0, Level: 1, IncomingAttribute: 0, IncomingValue: 1, SplitAttribute: 1, MajorityClass: tree.None, ClassCounts: []int{1, 2}, Used: domain.NewUsedSet(0)}
	n2.Children = []*tree.Node{
		{ID: 3, ParentID: 2, Level: 2, IncomingAttribute: 1, IncomingValue: 0, SplitAttribute: tree.None, MajorityClass: 0, ClassCounts: []int{1, 0}, Used: domain.NewUsedSet(0, 1)},
		{ID: 4, ParentID: 2, Level: 2, IncomingAttribute: 1, IncomingValue: 1, SplitAttribute: tree.None, MajorityClass: 1, ClassCounts: []int{0, 2}, Used: domain.NewUsedSet(0, 1)},
	}
	root := &tree.Node{ID: 0, ParentID: tree.NoParent, Level: 0, IncomingAttribute: tree.None, IncomingValue: tree.None, SplitAttribute: 0, MajorityClass: tree.None, ClassCounts: []int{3, 2}}
	root.Children = []*tree.Node{
		{ID: 1, ParentID: 0, Level: 1, IncomingAttribute: 0, IncomingValue: 0, SplitAttribute: tree.None, MajorityClass: 0, ClassCounts: []int{2, 0}, Used: domain.NewUsedSet(0)},
		n2,
	}
	return tree.New(testSchema(), root)
}

func TestWriteAndRead(t *testing.T) {
	tr := testTree()
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, tr))
	assert.True(t, strings.HasPrefix(buf.String(), `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,`), buf.String())

	loaded, err := Read(buf, tr.Schema)
	require.NoError(t, err)
	assert.Equal(t, tr.String(), loaded.String())
	assert.Equal(t, tr.Root.Children[1].Children[0].Used.Indexes(), loaded.Root.Children[1].Children[0].Used.Indexes())
	assert.Equal(t, 0, loaded.Root.Used.Len())
	for _, inst := range []domain.Instance{{0, 0, 0}, {1, 0, 0}, {1, 1, 1}} {
		assert.Equal(t, tr.Classify(inst), loaded.Classify(inst))
	}
}

func TestReadSchemaMismatch(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, testTree()))
	s := domain.NewSchema(domain.New("label", "p", "n"), domain.New("A", "x", "y"), domain.New("B", "u", "v"))
	_, err := Read(buf, s)
	assert.Error(t, err)
}

func TestAssembleRejectsInvalidTrees(t *testing.T) {
	testCases := map[string]string{
		"empty":           `{"class":"class","attributes":["A","B"],"nodes":[]}`,
		"orphan":          `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":0,"class":-1,"cc":[1,1]},{"id":1,"pId":7,"lvl":1,"ia":0,"iv":0,"split":-1,"class":0,"cc":[1,0]}]}`,
		"bad level":       `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":0,"class":-1,"cc":[1,1]},{"id":1,"pId":0,"lvl":2,"ia":0,"iv":0,"split":-1,"class":0,"cc":[1,0]}]}`,
		"bad value":       `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":0,"class":-1,"cc":[1,1]},{"id":1,"pId":0,"lvl":1,"ia":0,"iv":5,"split":-1,"class":0,"cc":[1,0]}]}`,
		"bad class":       `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":-1,"class":2,"cc":[1,1]}]}`,
		"bad counts":      `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":-1,"class":0,"cc":[1]}]}`,
		"repeated split":  `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":1,"class":-1,"cc":[1,1]},{"id":1,"pId":0,"lvl":1,"ia":1,"iv":0,"split":1,"class":-1,"cc":[1,1]},{"id":2,"pId":1,"lvl":2,"ia":1,"iv":0,"split":-1,"class":0,"cc":[1,1]}]}`,
		"duplicate id":    `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":0,"class":-1,"cc":[1,1]},{"id":0,"pId":0,"lvl":1,"ia":0,"iv":0,"split":-1,"class":0,"cc":[1,0]}]}`,
	}
	for name, doc := range testCases {
		_, err := Read(strings.NewReader(doc), testSchema())
		assert.Error(t, err, name)
	}
}

func TestReadLeafRoot(t *testing.T) {
	doc := `{"class":"class","attributes":["A","B"],"nodes":[{"id":0,"pId":-1,"lvl":0,"ia":-1,"iv":-1,"split":-1,"class":1,"cc":[1,3]}]}`
	tr, err := Read(strings.NewReader(doc), testSchema())
	require.NoError(t, err)
	assert.True(t, tr.Root.IsLeaf())
	assert.Equal(t, 1, tr.Classify(domain.Instance{0, 0, 0}))
}
