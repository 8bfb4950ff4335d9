/*
Package arbor grows ID3 decision trees from categorical data and prunes
them against validation data.
*/
package arbor

import (
	"fmt"

	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
	"github.com/pbanos/arbor/tree"
	"go.uber.org/zap"
)

// Error is the type for the constant errors of the package
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrEmptyTrainingSet is returned when trying to grow a tree without instances
const ErrEmptyTrainingSet = Error("cannot grow a tree from an empty training set")

// Option configures the growing of a tree
type Option func(*grower)

// WithLogger makes Grow log every split at debug level on the given logger
func WithLogger(l *zap.Logger) Option {
	return func(g *grower) {
		g.logger = l
	}
}

type grower struct {
	schema *domain.Schema
	logger *zap.Logger
	nextID int
}

/*
Grow takes a schema, a training dataset and options and returns the
decision tree that ID3 induces from the dataset.

Every instance is checked against the schema before anything is built.
If any is malformed, an error combining a *domain.MalformedInputError for
each of them is returned. ErrEmptyTrainingSet is returned if the dataset
has no instances.

A node becomes a leaf when every attribute has been split on along its
branch or all of its instances share a class. Otherwise it splits on the
unused attribute with the highest information gain, ties going to the
highest attribute index, and gets a child for every category of that
attribute, even those without instances. Leaves predict the most frequent
class among their instances, ties going to the highest class code, or
class 0 if they have none.

Node IDs are assigned in depth-first pre-order starting with 0 at the
root.
*/
func Grow(s *domain.Schema, d dataset.Dataset, opts ...Option) (*tree.Tree, error) {
	if len(d) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if err := s.Validate(d); err != nil {
		return nil, fmt.Errorf("validating training set: %w", err)
	}
	g := &grower{schema: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	root := g.build(d, tree.None, tree.None, 0, domain.UsedSet{}, tree.NoParent)
	return tree.New(s, root), nil
}

func (g *grower) build(d dataset.Dataset, incomingAttribute, incomingValue, level int, used domain.UsedSet, parentID int) *tree.Node {
	ci := g.schema.ClassIndex()
	n := &tree.Node{
		ID:                g.nextID,
		ParentID:          parentID,
		Level:             level,
		IncomingAttribute: incomingAttribute,
		IncomingValue:     incomingValue,
		SplitAttribute:    tree.None,
		MajorityClass:     tree.None,
		Data:              d,
		ClassCounts:       d.ClassCounts(ci, g.schema.ClassCount()),
		Used:              used,
	}
	g.nextID++
	if used.Len() == len(g.schema.Attributes) || d.Homogeneous(ci) {
		n.MajorityClass = dataset.Majority(n.ClassCounts)
		return n
	}
	var selected *Partition
	bestGain := -1.0
	for a := range g.schema.Attributes {
		if used.Has(a) {
			continue
		}
		p := NewPartition(g.schema, d, a)
		if p.InformationGain >= bestGain {
			selected, bestGain = p, p.InformationGain
		}
	}
	n.SplitAttribute = selected.Attribute
	g.logger.Debug("splitting node",
		zap.Int("node", n.ID),
		zap.Int("level", level),
		zap.String("attribute", g.schema.Attributes[selected.Attribute].Name()),
		zap.Float64("gain", selected.InformationGain),
		zap.Int("instances", len(d)),
	)
	childUsed := used.With(selected.Attribute)
	n.Children = make([]*tree.Node, 0, len(selected.Subsets))
	for v, subset := range selected.Subsets {
		n.Children = append(n.Children, g.build(subset, selected.Attribute, v, level+1, childUsed, n.ID))
	}
	return n
}
