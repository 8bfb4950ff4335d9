package arbor

import (
	"github.com/pbanos/arbor/dataset"
	"github.com/pbanos/arbor/domain"
)

/*
Partition represents the split of a dataset according to an attribute:
one subset per category of the attribute, so that the subset at position
v holds the instances with code v, along with the information gain the
split provides about the class.
*/
type Partition struct {
	Attribute       int
	Subsets         []dataset.Dataset
	InformationGain float64
}

/*
NewPartition takes a schema, a dataset and the index of an attribute and
returns the partition of the dataset for that attribute. Every category
of the attribute gets a subset, even if it holds no instances.
*/
func NewPartition(s *domain.Schema, d dataset.Dataset, attribute int) *Partition {
	ci, k := s.ClassIndex(), s.ClassCount()
	subsets := d.Partition(attribute, s.Attributes[attribute].Len())
	informationGain := d.Entropy(ci, k)
	totalCount := float64(len(d))
	for _, subset := range subsets {
		if len(subset) == 0 {
			continue
		}
		informationGain -= subset.Entropy(ci, k) * float64(len(subset)) / totalCount
	}
	return &Partition{attribute, subsets, informationGain}
}

/*
Entropy takes a schema and a dataset and returns the entropy of the
dataset's class distribution, using the number of class categories as
logarithm base.
*/
func Entropy(s *domain.Schema, d dataset.Dataset) float64 {
	return d.Entropy(s.ClassIndex(), s.ClassCount())
}

/*
InformationGain takes a schema, a dataset and the index of an attribute
and returns the reduction of entropy achieved by splitting the dataset on
that attribute. It is 0 for an empty dataset.
*/
func InformationGain(s *domain.Schema, d dataset.Dataset, attribute int) float64 {
	return NewPartition(s, d, attribute).InformationGain
}
