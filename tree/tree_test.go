package tree

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
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

// testTree returns
//
//	[0] A
//	|__[1] A=x -> p
//	|__[2] A=y B
//	   |__[3] B=u -> p
//	   |__[4] B=v -> n
func testTree() *Tree {
	leaf := func(id, parent, level, ia, iv, class int, counts []int, used domain.UsedSet) *Node {
		return &Node{ID: id, ParentID: parent, Level: level, IncomingAttribute: ia, IncomingValue: iv, SplitAttribute: None, MajorityClass: class, ClassCounts: counts, Used: used}
	}
	n2 := &Node{ID: 2, ParentID: 0, Level: 1, IncomingAttribute: 0, IncomingValue: 1, SplitAttribute: 1, MajorityClass: None, ClassCounts: []int{1, 2}, Used: domain.NewUsedSet(0)}
	n2.Children = []*Node{
		leaf(3, 2, 2, 1, 0, 0, []int{1, 0}, domain.NewUsedSet(0, 1)),
		leaf(4, 2, 2, 1, 1, 1, []int{0, 2}, domain.NewUsedSet(0, 1)),
	}
	root := &Node{ID: 0, ParentID: NoParent, Level: 0, IncomingAttribute: None, IncomingValue: None, SplitAttribute: 0, MajorityClass: None, ClassCounts: []int{3, 2}}
	root.Children = []*Node{
		leaf(1, 0, 1, 0, 0, 0, []int{2, 0}, domain.NewUsedSet(0)),
		n2,
	}
	return New(testSchema(), root)
}

func TestClassify(t *testing.T) {
	tr := testTree()
	testCases := []struct {
		inst     domain.Instance
		expected int
	}{
		{domain.Instance{0, 0, 0}, 0},
		{domain.Instance{0, 1, 1}, 0},
		{domain.Instance{1, 0, 0}, 0},
		{domain.Instance{1, 1, 0}, 1},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, tr.Classify(tc.inst), "%v", tc.inst)
	}
}

func TestClassifyLookupMiss(t *testing.T) {
	tr := testTree()
	n2, err := tr.Find(2)
	require.NoError(t, err)
	n2.Children = n2.Children[:1]
	assert.Equal(t, DefaultClass, tr.Classify(domain.Instance{1, 1, 0}))

	p, err := tr.PredictionFor(domain.Instance{1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultClass, p.Class())
	assert.Equal(t, "p", p.Label())
	assert.Equal(t, 0, p.Weight())
}

func TestPredict(t *testing.T) {
	tr := testTree()
	label, err := tr.Predict(domain.Instance{1, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, "n", label)

	_, err = tr.Predict(domain.Instance{1, 2, 0})
	var mie *domain.MalformedInputError
	assert.True(t, errors.As(err, &mie))

	p, err := tr.PredictionFor(domain.Instance{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "p", p.Label())
	assert.Equal(t, 2, p.Weight())
	assert.Equal(t, 1.0, p.ProbabilityOf("p"))
	assert.Equal(t, 0.0, p.ProbabilityOf("n"))
}

func TestTest(t *testing.T) {
	tr := testTree()
	assert.Equal(t, 0.0, tr.Test(nil))
	validation := dataset.Dataset{
		{0, 0, 0},
		{0, 1, 0},
		{1, 1, 1},
		{1, 0, 1},
	}
	assert.Equal(t, 0.75, tr.Test(validation))

	malformed := dataset.Dataset{{1}, {0, 0, 0}, {1, 2, 0}, {1, 1, 1}}
	assert.Equal(t, 0.5, tr.Test(malformed))
}

func TestTraverse(t *testing.T) {
	tr := testTree()
	var ids []int
	require.NoError(t, tr.Traverse(false, func(n *Node) error {
		ids = append(ids, n.ID)
		return nil
	}))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)

	ids = nil
	require.NoError(t, tr.Traverse(true, func(n *Node) error {
		ids = append(ids, n.ID)
		return nil
	}))
	assert.Equal(t, []int{1, 3, 4, 2, 0}, ids)

	stop := errors.New("stop")
	ids = nil
	err := tr.Traverse(false, func(n *Node) error {
		ids = append(ids, n.ID)
		if n.ID == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, []int{0, 1, 2}, ids)
}

func TestQueries(t *testing.T) {
	tr := testTree()
	assert.Equal(t, 2, tr.MaxLevel())
	assert.Equal(t, []int{0}, tr.InternalNodeIDsAt(0))
	assert.Equal(t, []int{2}, tr.InternalNodeIDsAt(1))
	assert.Empty(t, tr.InternalNodeIDsAt(2))

	n, err := tr.Find(4)
	require.NoError(t, err)
	assert.Equal(t, 2, n.ParentID)
	_, err = tr.Find(9)
	assert.Equal(t, ErrNodeNotFound, err)

	nodes, leaves := tr.Size()
	assert.Equal(t, 5, nodes)
	assert.Equal(t, 3, leaves)
}

func TestCollapse(t *testing.T) {
	tr := testTree()
	n2, err := tr.Find(2)
	require.NoError(t, err)
	n2.Collapse()
	assert.True(t, n2.IsLeaf())
	assert.Equal(t, None, n2.SplitAttribute)
	assert.Equal(t, 1, n2.MajorityClass)
	assert.Equal(t, 1, tr.MaxLevel())
	assert.Equal(t, 3, n2.Count())

	tied := &Node{ID: 5, SplitAttribute: 0, MajorityClass: None, ClassCounts: []int{2, 2}, Children: []*Node{{ID: 6}}}
	tied.Collapse()
	assert.Equal(t, 1, tied.MajorityClass, "ties go to the highest class code")
}

func TestClone(t *testing.T) {
	tr := testTree()
	c := tr.Clone()
	n2, err := c.Find(2)
	require.NoError(t, err)
	n2.Collapse()
	n2.ClassCounts[0] = 7

	orig, err := tr.Find(2)
	require.NoError(t, err)
	assert.False(t, orig.IsLeaf())
	assert.Equal(t, []int{1, 2}, orig.ClassCounts)
	assert.Same(t, tr.Schema, c.Schema)
}

func TestAttributeDomains(t *testing.T) {
	tr := testTree()
	n3, err := tr.Find(3)
	require.NoError(t, err)
	ads := n3.AttributeDomains(tr.Schema)
	require.Len(t, ads, 2)
	assert.True(t, ads[0].IsUsed())
	assert.True(t, ads[1].IsUsed())
	assert.False(t, tr.Schema.Attributes[0].IsUsed())

	ads = tr.Root.AttributeDomains(tr.Schema)
	assert.False(t, ads[0].IsUsed())
}

func TestString(t *testing.T) {
	s := testTree().String()
	assert.True(t, strings.HasPrefix(s, "[0]\n|\n|__[1]\n"), s)
	assert.Contains(t, s, "{ A is y }")
	assert.Contains(t, s, "{ class: n (2) }")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	defer st.Close(ctx)
	tr := testTree()

	_, err := st.Load(ctx, "car", tr.Schema)
	assert.Equal(t, ErrTreeNotFound, err)

	require.NoError(t, st.Save(ctx, "car", tr))
	tr.Root.Collapse()

	loaded, err := st.Load(ctx, "car", tr.Schema)
	require.NoError(t, err)
	nodes, _ := loaded.Size()
	assert.Equal(t, 5, nodes)

	require.NoError(t, st.Delete(ctx, "car"))
	_, err = st.Load(ctx, "car", tr.Schema)
	assert.Equal(t, ErrTreeNotFound, err)

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, st.Save(cctx, "car", tr))
}
