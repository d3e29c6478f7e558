package experiment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mGarbowski/wsi-decision-tree/evaluation"
)

// Result holds the outcome of a single evaluation run.
type Result struct {
	Run      int                        `json:"run"`
	TestSize int                        `json:"testSize"`
	Accuracy float64                    `json:"accuracy"`
	Binary   bool                       `json:"binary"`
	Matrix   evaluation.ConfusionMatrix `json:"matrix"`
}

func (r *Result) String() string {
	if !r.Binary {
		return fmt.Sprintf("{Run %d test size: %d accuracy: %.4f}", r.Run, r.TestSize, r.Accuracy)
	}
	return fmt.Sprintf("{Run %d test size: %d accuracy: %.4f %v}", r.Run, r.TestSize, r.Accuracy, r.Matrix)
}

/*
Recorder is the interface of the stores where workers keep the results
of the runs. Implementations must be safe for concurrent use.
*/
type Recorder interface {
	// Record takes a result and stores it or returns an error
	Record(context.Context, *Result) error
	// Results returns all recorded results sorted by run or an error
	Results(context.Context) ([]*Result, error)
}

type memRecorder struct {
	lock    sync.Mutex
	results []*Result
}

// NewRecorder returns a Recorder that keeps results in memory.
func NewRecorder() Recorder {
	return &memRecorder{}
}

func (mr *memRecorder) Record(ctx context.Context, r *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mr.lock.Lock()
	mr.results = append(mr.results, r)
	mr.lock.Unlock()
	return nil
}

func (mr *memRecorder) Results(ctx context.Context) ([]*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mr.lock.Lock()
	results := make([]*Result, len(mr.results))
	copy(results, mr.results)
	mr.lock.Unlock()
	SortResults(results)
	return results, nil
}

// SortResults sorts the given results by run.
func SortResults(results []*Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Run < results[j].Run
	})
}
