/*
Package evaluation scores predictors against labelled datasets, either as a
plain accuracy ratio or as a binary confusion matrix.
*/
package evaluation

import (
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
)

// EvaluationError represents an error related with evaluations
type EvaluationError string

const (
	// ErrNonBinaryLabels is returned by binary evaluations when an actual or
	// predicted label is neither the positive nor the negative one.
	ErrNonBinaryLabels = EvaluationError("non-binary labels")
	// ErrEmptyTestSet is returned when computing the accuracy over a
	// dataset without rows.
	ErrEmptyTestSet = EvaluationError("cannot evaluate on an empty test set")
)

func (ee EvaluationError) Error() string {
	return string(ee)
}

/*
Predictor is the interface wrapping the PredictSingle method, which takes an
attribute tuple and returns the predicted label or an error.
*/
type Predictor interface {
	PredictSingle(attrs []string) (string, error)
}

/*
ConfusionMatrix holds the outcome counts of a binary evaluation. Derived
ratios are not guarded against zero denominators: they are NaN when no row
falls in the counts they divide by.
*/
type ConfusionMatrix struct {
	TruePositives  int
	TrueNegatives  int
	FalsePositives int
	FalseNegatives int
}

// Recall returns TP / (TP + FN).
func (cm ConfusionMatrix) Recall() float64 {
	return ratio(cm.TruePositives, cm.TruePositives+cm.FalseNegatives)
}

// Specificity returns TN / (FP + TN).
func (cm ConfusionMatrix) Specificity() float64 {
	return ratio(cm.TrueNegatives, cm.FalsePositives+cm.TrueNegatives)
}

// Precision returns TP / (TP + FP).
func (cm ConfusionMatrix) Precision() float64 {
	return ratio(cm.TruePositives, cm.TruePositives+cm.FalsePositives)
}

// Accuracy returns (TP + TN) / (TP + TN + FP + FN).
func (cm ConfusionMatrix) Accuracy() float64 {
	return ratio(cm.TruePositives+cm.TrueNegatives, cm.Total())
}

// Total returns the number of rows counted.
func (cm ConfusionMatrix) Total() int {
	return cm.TruePositives + cm.TrueNegatives + cm.FalsePositives + cm.FalseNegatives
}

func (cm ConfusionMatrix) String() string {
	return fmt.Sprintf("{TP: %d TN: %d FP: %d FN: %d}", cm.TruePositives, cm.TrueNegatives, cm.FalsePositives, cm.FalseNegatives)
}

/*
Accuracy takes a predictor and a test dataset and returns the fraction of rows
whose label is predicted correctly. ErrEmptyTestSet is returned for an empty
dataset, and prediction errors are returned as they come.
*/
func Accuracy(p Predictor, d *dataset.Dataset) (float64, error) {
	if d.IsEmpty() {
		return 0.0, ErrEmptyTestSet
	}
	var correct int
	labels := d.Labels()
	for i, attrs := range d.Attributes() {
		predicted, err := p.PredictSingle(attrs)
		if err != nil {
			return 0.0, fmt.Errorf("predicting row %d: %w", i, err)
		}
		if predicted == labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(d.Size()), nil
}

/*
Binary takes a predictor, a test dataset and the positive and negative labels
and returns the confusion matrix of the predictions over the dataset.
*/
func Binary(p Predictor, d *dataset.Dataset, positive, negative string) (ConfusionMatrix, error) {
	predicted := make([]string, 0, d.Size())
	for i, attrs := range d.Attributes() {
		pl, err := p.PredictSingle(attrs)
		if err != nil {
			return ConfusionMatrix{}, fmt.Errorf("predicting row %d: %w", i, err)
		}
		predicted = append(predicted, pl)
	}
	return Tally(d.Labels(), predicted, positive, negative)
}

/*
Tally takes parallel slices of actual and predicted labels and the positive
and negative labels and counts true and false positives and negatives.
ErrNonBinaryLabels is returned as soon as a pair holds any other label.
*/
func Tally(actual, predicted []string, positive, negative string) (ConfusionMatrix, error) {
	var cm ConfusionMatrix
	if len(actual) != len(predicted) {
		return cm, fmt.Errorf("tallying %d actual labels against %d predictions", len(actual), len(predicted))
	}
	for i, a := range actual {
		p := predicted[i]
		switch {
		case a == positive && p == positive:
			cm.TruePositives++
		case a == negative && p == negative:
			cm.TrueNegatives++
		case a == negative && p == positive:
			cm.FalsePositives++
		case a == positive && p == negative:
			cm.FalseNegatives++
		default:
			return ConfusionMatrix{}, fmt.Errorf("%w: row %d has actual %q and predicted %q, expected %q or %q", ErrNonBinaryLabels, i, a, p, positive, negative)
		}
	}
	return cm, nil
}

func ratio(a, b int) float64 {
	return float64(a) / float64(b)
}
