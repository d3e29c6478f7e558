/*
Package impurity measures how mixed the labels of a dataset are and how much
partitioning it on an attribute reduces that mixture.
*/
package impurity

import (
	"fmt"
	"math"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
)

// Error represents an error related with impurity computations
type Error string

const (
	// ErrEmptyDataset is returned when computing the entropy of a dataset
	// without rows.
	ErrEmptyDataset = Error("cannot compute entropy of an empty dataset")
	// ErrNoCandidates is returned when looking for the best split among
	// no attributes.
	ErrNoCandidates = Error("no candidate attributes to split on")
)

func (e Error) Error() string {
	return string(e)
}

/*
Entropy takes a dataset and returns the entropy in bits of its labels:
the sum of -p * log2(p) over the labels present, with p the fraction of rows
carrying each label. ErrEmptyDataset is returned for an empty dataset.
*/
func Entropy(d *dataset.Dataset) (float64, error) {
	if d.IsEmpty() {
		return 0.0, ErrEmptyDataset
	}
	counts := make(map[string]int)
	for _, l := range d.Labels() {
		counts[l]++
	}
	var result float64
	total := float64(d.Size())
	for _, c := range counts {
		p := float64(c) / total
		result -= p * math.Log2(p)
	}
	return result, nil
}

/*
EntropyAfterSplit takes a dataset and an attribute index, partitions the
dataset by that attribute and returns the average entropy of the partitions
weighted by their sizes.
*/
func EntropyAfterSplit(d *dataset.Dataset, attributeIndex int) (float64, error) {
	if d.IsEmpty() {
		return 0.0, ErrEmptyDataset
	}
	parts, err := d.SplitByAttribute(attributeIndex)
	if err != nil {
		return 0.0, err
	}
	var result float64
	total := float64(d.Size())
	for v, p := range parts {
		e, err := Entropy(p)
		if err != nil {
			return 0.0, fmt.Errorf("entropy of partition %q on attribute %d: %w", v, attributeIndex, err)
		}
		result += float64(p.Size()) / total * e
	}
	return result, nil
}

/*
InformationGain takes a dataset and an attribute index and returns the
reduction of entropy obtained by partitioning the dataset on the attribute.
*/
func InformationGain(d *dataset.Dataset, attributeIndex int) (float64, error) {
	e, err := Entropy(d)
	if err != nil {
		return 0.0, err
	}
	after, err := EntropyAfterSplit(d, attributeIndex)
	if err != nil {
		return 0.0, err
	}
	return e - after, nil
}

/*
BestSplitIndex takes a dataset and a slice of candidate attribute indices and
returns the candidate with the highest information gain.

Candidates are evaluated in the order given and a later candidate only
replaces the current best when its gain is strictly greater, so among exact
ties the first one wins. ErrNoCandidates is returned for an empty slice.
*/
func BestSplitIndex(d *dataset.Dataset, candidates []int) (int, error) {
	if len(candidates) == 0 {
		return 0, ErrNoCandidates
	}
	best := -1
	bestGain := math.Inf(-1)
	for _, c := range candidates {
		g, err := InformationGain(d, c)
		if err != nil {
			return 0, fmt.Errorf("information gain of attribute %d: %w", c, err)
		}
		if best < 0 || g > bestGain {
			best, bestGain = c, g
		}
	}
	return best, nil
}
