/*
Package decisiontree trains ID3 decision tree classifiers over categorical
datasets and evaluates them.

	clf, err := decisiontree.Train(train)
	if err != nil {
		return err
	}
	cm, err := clf.EvaluateBinary(test, "e", "p")

Training and prediction are synchronous and do no I/O: datasets are loaded by
the packages under dataset/ and repeated evaluation is driven by the
experiment package.
*/
package decisiontree

import (
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/evaluation"
	"github.com/mGarbowski/wsi-decision-tree/tree"
)

// Classifier predicts labels for attribute tuples with a decision tree.
type Classifier struct {
	root tree.Node
}

/*
Train takes a training dataset and grows a decision tree on it, using every
attribute of its rows as candidate. The arity is taken from the first row.
It returns a Classifier wrapping the tree or tree.ErrEmptyTrainingSet if the
dataset has no rows.
*/
func Train(d *dataset.Dataset) (*Classifier, error) {
	attrs, _, err := d.Row(0)
	if err != nil {
		return nil, tree.ErrEmptyTrainingSet
	}
	root, err := tree.Build(d, tree.AttributeRange(len(attrs)))
	if err != nil {
		return nil, fmt.Errorf("training classifier: %w", err)
	}
	return New(root), nil
}

// New returns a Classifier wrapping the tree with the given root.
func New(root tree.Node) *Classifier {
	return &Classifier{root}
}

// Root returns the root node of the classifier's tree.
func (c *Classifier) Root() tree.Node {
	return c.root
}

// PredictSingle takes an attribute tuple and returns the label predicted for it.
func (c *Classifier) PredictSingle(attrs []string) (string, error) {
	return tree.Predict(c.root, attrs)
}

/*
Predict takes a slice of attribute tuples and returns the label predicted
for each of them, in the same order.
*/
func (c *Classifier) Predict(rows [][]string) ([]string, error) {
	result := make([]string, 0, len(rows))
	for i, attrs := range rows {
		p, err := c.PredictSingle(attrs)
		if err != nil {
			return nil, fmt.Errorf("predicting row %d: %w", i, err)
		}
		result = append(result, p)
	}
	return result, nil
}

// EvaluateAccuracy returns the fraction of rows of the test dataset whose
// label the classifier predicts correctly.
func (c *Classifier) EvaluateAccuracy(test *dataset.Dataset) (float64, error) {
	return evaluation.Accuracy(c, test)
}

// EvaluateBinary returns the confusion matrix of the classifier's predictions
// over the test dataset for the given positive and negative labels.
func (c *Classifier) EvaluateBinary(test *dataset.Dataset, positive, negative string) (evaluation.ConfusionMatrix, error) {
	return evaluation.Binary(c, test, positive, negative)
}

func (c *Classifier) String() string {
	return tree.Render(c.root, nil)
}
