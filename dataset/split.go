package dataset

import (
	"fmt"
	"sort"
)

/*
Permuter is the source of randomness used to sample datasets. Its Perm method
returns a pseudo-random permutation of the integers in [0, n).

*rand.Rand satisfies it, so a seeded rand.New(rand.NewSource(seed)) makes
sampling deterministic.
*/
type Permuter interface {
	Perm(n int) []int
}

/*
SplitIndices takes a number of rows n, a train ratio and a Permuter and draws
floor(n * trainRatio) distinct indices uniformly at random from [0, n) for the
train set. The remaining indices are returned for the test set. Both index
slices are sorted in ascending order.

ErrInvalidTrainRatio is returned if the ratio is not in [0, 1]. A nil
Permuter uses a time-seeded source shared by the package.
*/
func SplitIndices(n int, trainRatio float64, src Permuter) ([]int, []int, error) {
	if !(trainRatio >= 0 && trainRatio <= 1) {
		return nil, nil, fmt.Errorf("%w: got %v", ErrInvalidTrainRatio, trainRatio)
	}
	if src == nil {
		src = rnd
	}
	trainSize := int(float64(n) * trainRatio)
	perm := src.Perm(n)
	train := append([]int(nil), perm[:trainSize]...)
	test := append([]int(nil), perm[trainSize:]...)
	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

/*
TrainTestSplit takes a train ratio and a Permuter and returns two new datasets:
a train set with floor(Size() * trainRatio) rows sampled without replacement
and a test set with all the other rows. Rows keep their original relative
order in both.

Unless a seeded Permuter is given, every call produces a different split.
*/
func (d *Dataset) TrainTestSplit(trainRatio float64, src Permuter) (*Dataset, *Dataset, error) {
	trainIdxs, testIdxs, err := SplitIndices(d.Size(), trainRatio, src)
	if err != nil {
		return nil, nil, err
	}
	return d.subset(trainIdxs), d.subset(testIdxs), nil
}

func (d *Dataset) subset(idxs []int) *Dataset {
	result := &Dataset{
		attributes: make([][]string, 0, len(idxs)),
		labels:     make([]string, 0, len(idxs)),
	}
	for _, i := range idxs {
		result.AddRow(d.attributes[i], d.labels[i])
	}
	return result
}
