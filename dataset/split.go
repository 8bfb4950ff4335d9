package dataset

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultTrainFraction is the share of instances Split assigns to training by default
const DefaultTrainFraction = 0.7

/*
Split takes a dataset, a training fraction in [0,1] and a source of
randomness and returns a training set with the first floor(fraction*n)
instances of a shuffled copy of the dataset and a validation set with the
rest. The given dataset is not modified.
*/
func Split(d Dataset, fraction float64, rnd *rand.Rand) (train, validation Dataset, err error) {
	if fraction < 0 || fraction > 1 || math.IsNaN(fraction) {
		return nil, nil, fmt.Errorf("invalid training fraction %v: must be between 0 and 1", fraction)
	}
	shuffled := append(Dataset(nil), d...)
	rnd.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	cut := int(math.Floor(fraction * float64(len(shuffled))))
	return shuffled[:cut:cut], shuffled[cut:], nil
}
