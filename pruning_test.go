package arbor

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// overfitTree grows
//
//	[0] A
//	|__[1] A=x -> p
//	|__[2] A=y B
//	   |__[3] B=u -> n
//	   |__[4] B=v -> p
//
// where node 2 splits on a single noisy instance, and returns it with a
// validation set on which collapsing node 2 is the only improvement.
func overfitTree(t *testing.T) (*tree.Tree, dataset.Dataset) {
	s := domain.NewSchema(domain.New("class", "p", "n"), domain.New("A", "x", "y"), domain.New("B", "u", "v"))
	training := dataset.Dataset{
		{0, 0, 0}, {0, 0, 0}, {0, 1, 0}, {0, 1, 0},
		{1, 0, 1}, {1, 0, 1}, {1, 0, 1}, {1, 1, 0},
	}
	tr, err := Grow(s, training)
	require.NoError(t, err)
	require.Equal(t, 0, tr.Root.SplitAttribute)
	n2, err := tr.Find(2)
	require.NoError(t, err)
	require.Equal(t, 1, n2.SplitAttribute)
	validation := dataset.Dataset{{1, 1, 1}, {1, 1, 1}, {1, 0, 1}, {0, 0, 0}}
	return tr, validation
}

func TestPruneCollapsesDeepestImprovement(t *testing.T) {
	tr, validation := overfitTree(t)
	before := tr.String()

	result, err := (&Pruner{}).Prune(context.Background(), tr, validation)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.InitialAccuracy)
	assert.Equal(t, 1.0, result.Accuracy)
	assert.Equal(t, []Step{{NodeID: 2, Level: 1, Accuracy: 1.0}}, result.Steps)
	assert.Equal(t, 2, result.Passes, "the second pass finds nothing and halts")

	n2, err := result.Tree.Find(2)
	require.NoError(t, err)
	assert.True(t, n2.IsLeaf())
	assert.Equal(t, 1, n2.MajorityClass)
	assert.Equal(t, 1.0, Accuracy(result.Tree, validation))
	_, err = result.Tree.Find(3)
	assert.Equal(t, tree.ErrNodeNotFound, err)

	assert.Equal(t, before, tr.String(), "the input tree is not modified")
	assert.Equal(t, 0.5, Accuracy(tr, validation))
}

func prunableNode(id, parent, level, incomingAttribute, incomingValue, split, class int, counts []int, children ...*tree.Node) *tree.Node {
	return &tree.Node{
		ID:                id,
		ParentID:          parent,
		Level:             level,
		IncomingAttribute: incomingAttribute,
		IncomingValue:     incomingValue,
		SplitAttribute:    split,
		MajorityClass:     class,
		ClassCounts:       counts,
		Children:          children,
	}
}

// siblingsTree returns
//
//	[0] A
//	|__[1] A=x B
//	|  |__[2] B=u -> p
//	|  |__[3] B=v -> n
//	|__[4] A=y C
//	|  |__[5] C=u -> p
//	|  |__[6] C=v -> n
//	|__[7] A=z -> n
func siblingsTree() *tree.Tree {
	s := domain.NewSchema(
		domain.New("class", "p", "n"),
		domain.New("A", "x", "y", "z"),
		domain.New("B", "u", "v"),
		domain.New("C", "u", "v"),
	)
	root := prunableNode(0, tree.NoParent, 0, tree.None, tree.None, 0, tree.None, []int{6, 8},
		prunableNode(1, 0, 1, 0, 0, 1, tree.None, []int{3, 1},
			prunableNode(2, 1, 2, 1, 0, tree.None, 0, []int{3, 0}),
			prunableNode(3, 1, 2, 1, 1, tree.None, 1, []int{0, 1}),
		),
		prunableNode(4, 0, 1, 0, 1, 2, tree.None, []int{3, 1},
			prunableNode(5, 4, 2, 2, 0, tree.None, 0, []int{3, 0}),
			prunableNode(6, 4, 2, 2, 1, tree.None, 1, []int{0, 1}),
		),
		prunableNode(7, 0, 1, 0, 2, tree.None, 1, []int{0, 6}),
	)
	return tree.New(s, root)
}

// chainTree returns
//
//	[0] A
//	|__[1] A=x B
//	|  |__[2] B=u C
//	|  |  |__[3] C=u -> p
//	|  |  |__[4] C=v -> n
//	|  |__[5] B=v -> n
//	|__[6] A=y -> p
func chainTree() *tree.Tree {
	s := domain.NewSchema(
		domain.New("class", "p", "n"),
		domain.New("A", "x", "y"),
		domain.New("B", "u", "v"),
		domain.New("C", "u", "v"),
	)
	root := prunableNode(0, tree.NoParent, 0, tree.None, tree.None, 0, tree.None, []int{9, 3},
		prunableNode(1, 0, 1, 0, 0, 1, tree.None, []int{4, 3},
			prunableNode(2, 1, 2, 1, 0, 2, tree.None, []int{4, 1},
				prunableNode(3, 2, 3, 2, 0, tree.None, 0, []int{4, 0}),
				prunableNode(4, 2, 3, 2, 1, tree.None, 1, []int{0, 1}),
			),
			prunableNode(5, 1, 2, 1, 1, tree.None, 1, []int{0, 2}),
		),
		prunableNode(6, 0, 1, 0, 1, tree.None, 0, []int{5, 0}),
	)
	return tree.New(s, root)
}

func TestPruneTiesKeepFirstCandidate(t *testing.T) {
	// collapsing either node 1 or node 4 fixes one instance
	validation := dataset.Dataset{{0, 1, 0, 0}, {1, 0, 1, 0}, {0, 0, 0, 0}, {2, 0, 0, 1}}
	result, err := (&Pruner{}).Prune(context.Background(), siblingsTree(), validation)
	require.NoError(t, err)
	assert.Equal(t, 0.5, result.InitialAccuracy)
	assert.Equal(t, []Step{
		{NodeID: 1, Level: 1, Accuracy: 0.75},
		{NodeID: 4, Level: 1, Accuracy: 1.0},
	}, result.Steps)
	assert.Equal(t, 3, result.Passes)
}

func TestPruneDeeperCandidateWins(t *testing.T) {
	misclassified := domain.Instance{0, 0, 1, 0}
	testCases := []struct {
		name       string
		validation dataset.Dataset
		initial    float64
		accuracy   float64
	}{
		{
			name:       "shallower candidates tie",
			validation: dataset.Dataset{misclassified, misclassified, {0, 1, 0, 1}, {0, 1, 0, 0}, {1, 0, 0, 0}},
			initial:    0.4,
			accuracy:   0.8,
		},
		{
			name:       "shallower candidates improve less",
			validation: dataset.Dataset{misclassified, misclassified, {0, 1, 0, 1}, {0, 1, 0, 1}, {0, 1, 0, 0}, {1, 0, 0, 0}},
			initial:    0.5,
			accuracy:   5.0 / 6,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr := chainTree()
			require.True(t, Accuracy(tr, tc.validation) < 1)
			result, err := (&Pruner{}).Prune(context.Background(), tr, tc.validation)
			require.NoError(t, err)
			assert.Equal(t, tc.initial, result.InitialAccuracy)
			assert.Equal(t, []Step{{NodeID: 2, Level: 2, Accuracy: tc.accuracy}}, result.Steps)
			assert.Equal(t, tc.accuracy, result.Accuracy)
			assert.Equal(t, 2, result.Passes)
		})
	}
}

func TestPruneRejectsMalformedValidation(t *testing.T) {
	tr, validation := overfitTree(t)
	validation = append(dataset.Dataset{{1}}, validation...)
	assert.Equal(t, 0.4, Accuracy(tr, validation))

	_, err := (&Pruner{}).Prune(context.Background(), tr, validation)
	require.Error(t, err)
	var mie *domain.MalformedInputError
	require.True(t, errors.As(err, &mie))
	assert.Equal(t, 0, mie.Row)

	_, err = MaxPruningSteps(context.Background(), tr, dataset.Dataset{{0, 2, 0}})
	assert.True(t, errors.As(err, &mie))
}

func TestPruneMaxPasses(t *testing.T) {
	tr, validation := overfitTree(t)
	result, err := (&Pruner{MaxPasses: 1}).Prune(context.Background(), tr, validation)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Passes)
	assert.Len(t, result.Steps, 1)
	assert.NotSame(t, tr, result.Tree)

	steps, err := MaxPruningSteps(context.Background(), tr, validation)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
}

func TestPruneKeepsOriginalWithoutImprovement(t *testing.T) {
	tr, _ := overfitTree(t)
	validation := dataset.Dataset{{1, 1, 0}, {1, 0, 1}, {0, 0, 0}}
	result, err := (&Pruner{}).Prune(context.Background(), tr, validation)
	require.NoError(t, err)
	assert.Same(t, tr, result.Tree)
	assert.Equal(t, 1.0, result.Accuracy)
	assert.Empty(t, result.Steps)
	assert.Equal(t, 1, result.Passes)

	result, err = (&Pruner{}).Prune(context.Background(), tr, nil)
	require.NoError(t, err)
	assert.Same(t, tr, result.Tree)
	assert.Equal(t, 0.0, result.Accuracy)
}

func TestPruneCancelled(t *testing.T) {
	tr, validation := overfitTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Pruner{}).Prune(ctx, tr, validation)
	assert.Equal(t, context.Canceled, err)
}

func TestPruneMetrics(t *testing.T) {
	tr, validation := overfitTree(t)
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	_, err := (&Pruner{Metrics: m}).Prune(context.Background(), tr, validation)
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Passes))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Candidates))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Adoptions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Accuracy))
	count, err := testutil.GatherAndCount(reg, "arbor_pruning_passes_total", "arbor_pruning_accuracy")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPruneNeverWorse(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	s := randomSchema()
	for round := 0; round < 10; round++ {
		tr, err := Grow(s, randomDataset(rnd, s, 80))
		require.NoError(t, err)
		validation := randomDataset(rnd, s, 30)
		nodes, _ := tr.Size()

		result, err := (&Pruner{}).Prune(context.Background(), tr, validation)
		require.NoError(t, err)
		assert.True(t, result.Accuracy >= result.InitialAccuracy)
		assert.Equal(t, Accuracy(result.Tree, validation), result.Accuracy)
		prunedNodes, _ := result.Tree.Size()
		assert.True(t, prunedNodes <= nodes)
		previous := result.InitialAccuracy
		for _, step := range result.Steps {
			assert.True(t, step.Accuracy > previous, "each adoption strictly improves accuracy")
			previous = step.Accuracy
		}
		if len(result.Steps) == 0 {
			assert.Same(t, tr, result.Tree)
		}
	}
}
