package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/arbor/domain"
)

/*
Prediction represents the outcome of classifying an instance with a
tree: the predicted class and the class distribution of the training
instances at the leaf that decided it.
*/
type Prediction struct {
	class         int
	label         string
	probabilities map[string]float64
	weight        int
}

// Class returns the predicted class code
func (p *Prediction) Class() int {
	return p.class
}

// Label returns the name of the predicted class
func (p *Prediction) Label() string {
	return p.label
}

/*
ProbabilityOf takes a class name and returns the fraction of training
instances at the deciding leaf that belong to it.
*/
func (p *Prediction) ProbabilityOf(label string) float64 {
	return p.probabilities[label]
}

/*
Probabilities returns a map with the fraction of training instances at
the deciding leaf for each class name present there
*/
func (p *Prediction) Probabilities() map[string]float64 {
	return p.probabilities
}

/*
Weight returns the weight of the prediction: the number of training
instances at the deciding leaf. It is 0 when no leaf was reached because
the tree had no branch for one of the instance's values.
*/
func (p *Prediction) Weight() int {
	return p.weight
}

func (p *Prediction) String() string {
	return fmt.Sprintf("%s %s", p.label, strings.Replace(fmt.Sprintf("%v", p.probabilities), "map", "", 1))
}

/*
PredictionFor takes an instance and returns the Prediction the tree makes
for it, or an error if the instance does not fit the tree's schema.
*/
func (t *Tree) PredictionFor(inst domain.Instance) (*Prediction, error) {
	if err := t.Schema.Check(inst); err != nil {
		return nil, err
	}
	n := t.Root
	for !n.IsLeaf() {
		var next *Node
		for _, child := range n.Children {
			if child.IncomingValue == inst[n.SplitAttribute] {
				next = child
				break
			}
		}
		if next == nil {
			label, err := t.Schema.Class.CategoryAt(DefaultClass)
			if err != nil {
				return nil, err
			}
			return &Prediction{class: DefaultClass, label: label}, nil
		}
		n = next
	}
	return newPredictionFromNode(t.Schema, n)
}

func newPredictionFromNode(s *domain.Schema, n *Node) (*Prediction, error) {
	label, err := s.Class.CategoryAt(n.MajorityClass)
	if err != nil {
		return nil, err
	}
	weight := n.Count()
	probs := make(map[string]float64)
	if weight > 0 {
		for c, count := range n.ClassCounts {
			if count == 0 {
				continue
			}
			name, err := s.Class.CategoryAt(c)
			if err != nil {
				return nil, err
			}
			probs[name] = float64(count) / float64(weight)
		}
	}
	return &Prediction{n.MajorityClass, label, probs, weight}, nil
}
