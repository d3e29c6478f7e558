package queue

import (
	"fmt"

	"github.com/google/uuid"
)

// Task represents a single evaluation run: a train/test split of a
// dataset, a tree trained on the train set and its evaluation on the
// test set.
type Task struct {
	// An ID to identify the task
	ID string
	// The position of the run among the runs of the evaluation
	Run int
	// The seed for the random source used to split the dataset
	Seed int64
	// The fraction of the dataset's rows used for training
	TrainRatio float64
}

// NewTask takes a run number, a seed and a train ratio and returns
// a task for them with a fresh random ID.
func NewTask(run int, seed int64, trainRatio float64) *Task {
	return &Task{ID: uuid.NewString(), Run: run, Seed: seed, TrainRatio: trainRatio}
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s run %d}", t.ID, t.Run)
}
