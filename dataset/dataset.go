/*
Package dataset provides the collections of instances trees are grown
from and tested against, along with the class distribution measures
computed on them.
*/
package dataset

import (
	"math"

	"github.com/pbanos/arbor/domain"
)

/*
Dataset is an ordered collection of instances. Subsets share the
instances of the dataset they are taken from.
*/
type Dataset []domain.Instance

// New takes a slice of instances and returns a dataset with them
func New(instances []domain.Instance) Dataset {
	return Dataset(instances)
}

// Count returns the number of instances in the dataset
func (d Dataset) Count() int {
	return len(d)
}

/*
ClassCounts takes the position of the class code in instances and the
number of class categories and returns the number of instances in the
dataset for each class code.
*/
func (d Dataset) ClassCounts(classIndex, classCount int) []int {
	counts := make([]int, classCount)
	for _, inst := range d {
		counts[inst[classIndex]]++
	}
	return counts
}

/*
SubsetWith takes an attribute index and a code and returns the subset of
instances whose value for that attribute is the code.
*/
func (d Dataset) SubsetWith(attribute, code int) Dataset {
	var result Dataset
	for _, inst := range d {
		if inst[attribute] == code {
			result = append(result, inst)
		}
	}
	return result
}

/*
Partition takes an attribute index and the number of categories of that
attribute and returns one subset per category, so that the subset at
position v holds the instances whose value for the attribute is v. Every
instance of the dataset ends up in exactly one subset.
*/
func (d Dataset) Partition(attribute, categories int) []Dataset {
	result := make([]Dataset, categories)
	for _, inst := range d {
		result[inst[attribute]] = append(result[inst[attribute]], inst)
	}
	return result
}

/*
Entropy takes the position of the class code in instances and the number of
class categories and returns the entropy of the class distribution of the
dataset. See the Entropy function.
*/
func (d Dataset) Entropy(classIndex, classCount int) float64 {
	return Entropy(d.ClassCounts(classIndex, classCount))
}

/*
Homogeneous returns whether all instances in the dataset share the same
class code. Empty datasets are homogeneous.
*/
func (d Dataset) Homogeneous(classIndex int) bool {
	for _, inst := range d {
		if inst[classIndex] != d[0][classIndex] {
			return false
		}
	}
	return true
}

/*
Entropy takes the count of instances for each class and returns the entropy
of that distribution using the number of classes as logarithm base, which
keeps the result within [0,1]. Classes without instances contribute
nothing. With no instances or a single class the entropy is 0.
*/
func Entropy(counts []int) float64 {
	k := len(counts)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 || k < 2 {
		return 0.0
	}
	logK := math.Log(float64(k))
	var result float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		result -= p * math.Log(p) / logK
	}
	return result
}

/*
Majority takes the count of instances for each class and returns the class
code with the most instances. Codes are scanned in ascending order and a
count equal to the best so far replaces it, so ties go to the highest code.
With no instances at all the result is 0.
*/
func Majority(counts []int) int {
	best, bestCount, total := 0, 0, 0
	for c, n := range counts {
		total += n
		if n >= bestCount {
			best, bestCount = c, n
		}
	}
	if total == 0 {
		return 0
	}
	return best
}
