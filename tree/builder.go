package tree

import (
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/impurity"
)

/*
Build takes a training dataset and the set of attribute indices available to
split on and grows a decision tree with the ID3 algorithm, returning its root
or an error.

The result is a leaf when all training rows share a label, or when there are
no attributes left, in which case the leaf predicts the most common label.
Otherwise the dataset is partitioned on the attribute with the highest
information gain and a subtree is grown for each partition with that attribute
removed from the candidates. Every level consumes one candidate, so the depth
of the tree never exceeds the number of candidates.

ErrEmptyTrainingSet is returned for an empty dataset.
*/
func Build(d *dataset.Dataset, candidates Attributes) (Node, error) {
	if d.IsEmpty() {
		return nil, ErrEmptyTrainingSet
	}
	labels := d.Labels()
	if allEqual(labels) {
		return &Leaf{Label: labels[0]}, nil
	}
	fallback, _ := MostCommon(labels)
	if candidates.Len() == 0 {
		return &Leaf{Label: fallback}, nil
	}
	split, err := impurity.BestSplitIndex(d, candidates.Indices())
	if err != nil {
		return nil, err
	}
	parts, err := d.SplitByAttribute(split)
	if err != nil {
		return nil, err
	}
	remaining := candidates.Without(split)
	children := make(map[string]Node, len(parts))
	for v, p := range parts {
		child, err := Build(p, remaining)
		if err != nil {
			return nil, fmt.Errorf("building subtree for value %q of attribute %d: %w", v, split, err)
		}
		children[v] = child
	}
	return &Internal{Attribute: split, Children: children, Fallback: fallback}, nil
}

/*
MostCommon takes a slice and returns the element occurring the most times in
it. When several elements share the maximum count, the one seen first wins.
The boolean result is false only for an empty slice.
*/
func MostCommon[T comparable](xs []T) (T, bool) {
	var result T
	if len(xs) == 0 {
		return result, false
	}
	counts := make(map[T]int)
	order := make([]T, 0)
	for _, x := range xs {
		if counts[x] == 0 {
			order = append(order, x)
		}
		counts[x]++
	}
	best := 0
	for _, x := range order {
		if counts[x] > best {
			result, best = x, counts[x]
		}
	}
	return result, true
}

func allEqual(labels []string) bool {
	for _, l := range labels[1:] {
		if l != labels[0] {
			return false
		}
	}
	return true
}
