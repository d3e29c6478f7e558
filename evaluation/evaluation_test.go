package evaluation

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	cv "github.com/smartystreets/goconvey/convey"
)

// lookup predicts the label stored for the first attribute of a row.
type lookup map[string]string

func (l lookup) PredictSingle(attrs []string) (string, error) {
	p, ok := l[attrs[0]]
	if !ok {
		return "", fmt.Errorf("no prediction for %v", attrs)
	}
	return p, nil
}

func TestBinary(t *testing.T) {
	cv.Convey("Given four test rows with known predictions", t, func() {
		d, _ := dataset.New(
			[][]string{{"r1"}, {"r2"}, {"r3"}, {"r4"}},
			[]string{"e", "p", "p", "e"},
		)
		p := lookup{"r1": "e", "r2": "p", "r3": "e", "r4": "p"}

		cv.Convey("each outcome is counted once", func() {
			cm, err := Binary(p, d, "e", "p")
			cv.So(err, cv.ShouldBeNil)
			cv.So(cm, cv.ShouldResemble, ConfusionMatrix{TruePositives: 1, TrueNegatives: 1, FalsePositives: 1, FalseNegatives: 1})
			cv.So(cm.Accuracy(), cv.ShouldEqual, 0.5)
			cv.So(cm.Precision(), cv.ShouldEqual, 0.5)
			cv.So(cm.Recall(), cv.ShouldEqual, 0.5)
			cv.So(cm.Specificity(), cv.ShouldEqual, 0.5)
		})

		cv.Convey("swapping the positive label swaps the counts", func() {
			cm, err := Binary(p, d, "p", "e")
			cv.So(err, cv.ShouldBeNil)
			cv.So(cm.Total(), cv.ShouldEqual, 4)
		})

		cv.Convey("a label outside the pair fails", func() {
			_, err := Binary(p, d, "e", "x")
			cv.So(errors.Is(err, ErrNonBinaryLabels), cv.ShouldBeTrue)
		})

		cv.Convey("prediction errors are returned", func() {
			_, err := Binary(lookup{}, d, "e", "p")
			cv.So(err, cv.ShouldNotBeNil)
		})
	})
}

func TestTallyRatios(t *testing.T) {
	actual := []string{"y", "y", "y", "n", "n", "y", "n", "n"}
	predicted := []string{"y", "y", "n", "n", "y", "y", "n", "n"}
	cm, err := Tally(actual, predicted, "y", "n")
	if err != nil {
		t.Fatal(err)
	}
	want := ConfusionMatrix{TruePositives: 3, TrueNegatives: 3, FalsePositives: 1, FalseNegatives: 1}
	if cm != want {
		t.Fatalf("got %v, want %v", cm, want)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"accuracy", cm.Accuracy(), 6.0 / 8.0},
		{"precision", cm.Precision(), 3.0 / 4.0},
		{"recall", cm.Recall(), 3.0 / 4.0},
		{"specificity", cm.Specificity(), 3.0 / 4.0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if _, err := Tally(actual, predicted[1:], "y", "n"); err == nil {
		t.Errorf("expected an error for slices of different length")
	}
}

func TestZeroDenominators(t *testing.T) {
	cm := ConfusionMatrix{TrueNegatives: 2}
	if !math.IsNaN(cm.Recall()) || !math.IsNaN(cm.Precision()) {
		t.Errorf("expected NaN recall and precision without positives, got %v and %v", cm.Recall(), cm.Precision())
	}
	if cm.Specificity() != 1 || cm.Accuracy() != 1 {
		t.Errorf("expected specificity and accuracy of 1, got %v and %v", cm.Specificity(), cm.Accuracy())
	}
}

func TestAccuracy(t *testing.T) {
	cv.Convey("The accuracy of a predictor", t, func() {
		d, _ := dataset.New([][]string{{"a"}, {"b"}, {"c"}, {"d"}}, []string{"1", "2", "3", "4"})

		cv.Convey("is the fraction of rows predicted correctly for any number of labels", func() {
			acc, err := Accuracy(lookup{"a": "1", "b": "2", "c": "1", "d": "4"}, d)
			cv.So(err, cv.ShouldBeNil)
			cv.So(acc, cv.ShouldEqual, 0.75)
		})

		cv.Convey("cannot be computed on an empty test set", func() {
			_, err := Accuracy(lookup{}, &dataset.Dataset{})
			cv.So(errors.Is(err, ErrEmptyTestSet), cv.ShouldBeTrue)
		})
	})
}
