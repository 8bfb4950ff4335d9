package arbor

import (
	"context"
	"fmt"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/tree"
	"go.uber.org/zap"
)

/*
Accuracy takes a tree and a validation dataset and returns the fraction of
validation instances whose class the tree predicts, or 0 for an empty
dataset. Malformed instances count as misclassified.
*/
func Accuracy(t *tree.Tree, validation dataset.Dataset) float64 {
	return t.Test(validation)
}

// Step describes a node collapse adopted while pruning
type Step struct {
	NodeID   int
	Level    int
	Accuracy float64
}

/*
Result holds the outcome of pruning a tree: the tree to use, its
accuracy before and after pruning, the collapses adopted in order and the
number of passes made.
*/
type Result struct {
	Tree            *tree.Tree
	InitialAccuracy float64
	Accuracy        float64
	Steps           []Step
	Passes          int
}

/*
Pruner performs reduced-error pruning of trees.

MaxPasses caps the number of passes when greater than 0. Logger and
Metrics are optional.
*/
type Pruner struct {
	MaxPasses int
	Logger    *zap.Logger
	Metrics   *Metrics
}

/*
Prune takes a context, a tree and a validation dataset and returns the
result of pruning the tree against the dataset. The given tree is never
modified.

Each pass goes through the internal nodes level by level, from the
deepest level up to the root, evaluating the accuracy of the tree with
just that node collapsed into a leaf. The candidate with the highest
accuracy strictly above the current one is adopted at the end of the
pass, earlier candidates winning ties, and a new pass starts. Pruning
stops after a pass without candidates or after MaxPasses passes.

The pruned tree is the Result's Tree only if its accuracy is strictly
higher than the original's; otherwise the original tree is.

An error wrapping the *domain.MalformedInputError of every instance
that does not fit the tree's schema is returned if the validation dataset
has any. The context is checked between candidates, and its error
returned if it is done.
*/
func (p *Pruner) Prune(ctx context.Context, t *tree.Tree, validation dataset.Dataset) (*Result, error) {
	if err := t.Schema.Validate(validation); err != nil {
		return nil, fmt.Errorf("validating validation set: %w", err)
	}
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	initial := Accuracy(t, validation)
	result := &Result{Tree: t, InitialAccuracy: initial, Accuracy: initial}
	p.observeAccuracy(initial)
	working := t.Clone()
	current := initial
	for p.MaxPasses <= 0 || result.Passes < p.MaxPasses {
		result.Passes++
		if p.Metrics != nil {
			p.Metrics.Passes.Inc()
		}
		var best *tree.Node
		bestAccuracy := current
		for level := working.MaxLevel(); level >= 0; level-- {
			for _, id := range working.InternalNodeIDsAt(level) {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				n, err := working.Find(id)
				if err != nil {
					return nil, err
				}
				accuracy := collapsedAccuracy(working, n, validation)
				if p.Metrics != nil {
					p.Metrics.Candidates.Inc()
				}
				if accuracy > bestAccuracy {
					best, bestAccuracy = n, accuracy
				}
			}
		}
		if best == nil {
			break
		}
		best.Collapse()
		current = bestAccuracy
		result.Steps = append(result.Steps, Step{best.ID, best.Level, bestAccuracy})
		if p.Metrics != nil {
			p.Metrics.Adoptions.Inc()
		}
		p.observeAccuracy(current)
		logger.Debug("collapsed node",
			zap.Int("pass", result.Passes),
			zap.Int("node", best.ID),
			zap.Int("level", best.Level),
			zap.Float64("accuracy", current),
		)
	}
	if current > initial {
		result.Tree = working
		result.Accuracy = current
	}
	logger.Info("pruning finished",
		zap.Int("passes", result.Passes),
		zap.Int("steps", len(result.Steps)),
		zap.Float64("initialAccuracy", result.InitialAccuracy),
		zap.Float64("accuracy", result.Accuracy),
	)
	return result, nil
}

func (p *Pruner) observeAccuracy(accuracy float64) {
	if p.Metrics != nil {
		p.Metrics.Accuracy.Set(accuracy)
	}
}

/*
collapsedAccuracy returns the accuracy of the tree with the node collapsed
into a leaf, leaving the node as it was found.
*/
func collapsedAccuracy(t *tree.Tree, n *tree.Node, validation dataset.Dataset) float64 {
	children, split, majority := n.Children, n.SplitAttribute, n.MajorityClass
	n.Collapse()
	accuracy := Accuracy(t, validation)
	n.Children, n.SplitAttribute, n.MajorityClass = children, split, majority
	return accuracy
}

/*
MaxPruningSteps takes a context, a tree and a validation dataset and
returns the number of node collapses an unbounded Prune adopts.
*/
func MaxPruningSteps(ctx context.Context, t *tree.Tree, validation dataset.Dataset) (int, error) {
	r, err := (&Pruner{}).Prune(ctx, t, validation)
	if err != nil {
		return 0, err
	}
	return len(r.Steps), nil
}
