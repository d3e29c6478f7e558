package experiment

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stat holds the mean, sample standard deviation and range of a metric
// over the runs of an evaluation. StdDev is NaN for a single run.
type Stat struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

func newStat(xs []float64) Stat {
	return Stat{
		Mean:   stat.Mean(xs, nil),
		StdDev: stat.StdDev(xs, nil),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
}

func (s Stat) String() string {
	return fmt.Sprintf("%.2f%% (sd %.2f, range %.2f-%.2f)", s.Mean*100, s.StdDev*100, s.Min*100, s.Max*100)
}

/*
Summary aggregates the results of the runs of an evaluation. Metrics of
binary evaluations that are undefined for some run (a zero denominator)
are NaN for that run and make the aggregates NaN too.
*/
type Summary struct {
	Results  []*Result
	Binary   bool
	TestSize int

	Accuracy    Stat
	Precision   Stat
	Recall      Stat
	Specificity Stat

	TruePositives  float64
	TrueNegatives  float64
	FalsePositives float64
	FalseNegatives float64
}

/*
Summarize takes the results of an evaluation and whether it is binary and
returns their Summary. Metrics other than the accuracy are only filled in
for binary evaluations. It fails when given no results.
*/
func Summarize(results []*Result, binary bool) (*Summary, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("summarizing evaluation: no results")
	}
	rs := make([]*Result, len(results))
	copy(rs, results)
	SortResults(rs)
	s := &Summary{Results: rs, Binary: binary, TestSize: rs[len(rs)-1].TestSize}
	n := len(rs)
	acc := make([]float64, 0, n)
	for _, r := range rs {
		acc = append(acc, r.Accuracy)
	}
	s.Accuracy = newStat(acc)
	if !binary {
		return s, nil
	}
	prec := make([]float64, 0, n)
	rec := make([]float64, 0, n)
	specificity := make([]float64, 0, n)
	tp := make([]float64, 0, n)
	tn := make([]float64, 0, n)
	fp := make([]float64, 0, n)
	fn := make([]float64, 0, n)
	for _, r := range rs {
		cm := r.Matrix
		prec = append(prec, cm.Precision())
		rec = append(rec, cm.Recall())
		specificity = append(specificity, cm.Specificity())
		tp = append(tp, float64(cm.TruePositives))
		tn = append(tn, float64(cm.TrueNegatives))
		fp = append(fp, float64(cm.FalsePositives))
		fn = append(fn, float64(cm.FalseNegatives))
	}
	s.Precision = newStat(prec)
	s.Recall = newStat(rec)
	s.Specificity = newStat(specificity)
	s.TruePositives = stat.Mean(tp, nil)
	s.TrueNegatives = stat.Mean(tn, nil)
	s.FalsePositives = stat.Mean(fp, nil)
	s.FalseNegatives = stat.Mean(fn, nil)
	return s, nil
}

/*
Format takes a writer and the name of the evaluated dataset and writes
a report of the summary's average values to the writer.
*/
func (s *Summary) Format(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "Average values over %d runs on %s dataset\n", len(s.Results), name)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Number of samples in test set: %d\n", s.TestSize)
	fmt.Fprintf(w, "Accuracy:    %.2f%%\n", s.Accuracy.Mean*100)
	if !s.Binary {
		return nil
	}
	fmt.Fprintf(w, "Precision:   %.2f%%\n", s.Precision.Mean*100)
	fmt.Fprintf(w, "Recall:      %.2f%%\n", s.Recall.Mean*100)
	fmt.Fprintf(w, "Specificity: %.2f%%\n", s.Specificity.Mean*100)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "TP=%-6.0f FN=%-6.0f\n", s.TruePositives, s.FalseNegatives)
	_, err = fmt.Fprintf(w, "FP=%-6.0f TN=%-6.0f\n", s.FalsePositives, s.TrueNegatives)
	return err
}
