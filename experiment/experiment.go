/*
Package experiment drives repeated train/test evaluations of decision tree
classifiers over a dataset and summarizes their outcome.

Each run of an evaluation is a queue.Task with its own seed. Workers pull
tasks from a queue.Queue, split the dataset with the task's seed, train a
classifier on the train part, score it on the test part and hand the Result
to a Recorder. Once the queue is drained the recorded results are averaged
into a Summary.
*/
package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	decisiontree "github.com/mGarbowski/wsi-decision-tree"
	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/queue"
)

// Default values used by the command line and evaluation plans.
const (
	DefaultTrainRatio = 0.6
	DefaultRuns       = 25
	DefaultWorkers    = 4
)

// EmptyQueueSleep is the time workers wait before pulling again from
// a queue with no pending tasks but some running ones.
var EmptyQueueSleep = 50 * time.Millisecond

// Logger is the interface of the objects evaluations report progress to.
type Logger interface {
	Logf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Logf(string, ...interface{}) {}

/*
Config holds the parameters of an evaluation. Positive and Negative
name the labels of a binary evaluation; leaving both empty evaluates
accuracy only, which allows datasets with any number of labels.
*/
type Config struct {
	TrainRatio float64
	Runs       int
	Positive   string
	Negative   string
	Workers    int
	Seed       int64
}

// Validate returns an error describing the first invalid parameter
// of the config, or nil.
func (c *Config) Validate() error {
	if c.TrainRatio < 0 || c.TrainRatio > 1 {
		return fmt.Errorf("train ratio must be within [0, 1], got %v", c.TrainRatio)
	}
	if c.Runs < 1 {
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if (c.Positive == "") != (c.Negative == "") {
		return fmt.Errorf("positive and negative labels must be both set or both empty")
	}
	if c.Positive != "" && c.Positive == c.Negative {
		return fmt.Errorf("positive and negative labels must differ, both are %q", c.Positive)
	}
	return nil
}

// Binary returns whether the config describes a binary evaluation.
func (c *Config) Binary() bool {
	return c.Positive != ""
}

/*
Evaluate takes a context, a dataset, a config, a queue, a recorder and a
logger and evaluates classifiers trained on cfg.Runs random splits of the
dataset. It pushes a task per run to the queue, then runs cfg.Workers
workers until the queue is drained and returns the summary of the results
found on the recorder. A nil logger is allowed.

The seeds of the runs are drawn from a source seeded with cfg.Seed, so an
evaluation is reproducible given the same dataset and config.
*/
func Evaluate(ctx context.Context, d *dataset.Dataset, cfg Config, q queue.Queue, rec Recorder, l Logger) (*Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = nopLogger{}
	}
	err := Seed(ctx, cfg, q)
	if err != nil {
		return nil, err
	}
	l.Logf("Pushed %d runs, starting %d workers...", cfg.Runs, cfg.Workers)
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	errs := make(chan error, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := Work(wctx, d, cfg, q, rec, l, EmptyQueueSleep)
			if err != nil {
				errs <- fmt.Errorf("worker %d: %w", id, err)
				cancel()
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return nil, err
	}
	err = queue.WaitFor(ctx, q, EmptyQueueSleep)
	if err != nil {
		return nil, err
	}
	results, err := rec.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving results: %w", err)
	}
	l.Logf("Summarizing %d results...", len(results))
	return Summarize(results, cfg.Binary())
}

// Seed pushes a task for each of the runs described by the config to
// the queue.
func Seed(ctx context.Context, cfg Config, q queue.Queue) error {
	seeds := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.Runs; i++ {
		t := queue.NewTask(i, seeds.Int63(), cfg.TrainRatio)
		err := q.Push(ctx, t)
		if err != nil {
			return fmt.Errorf("pushing run %d: %w", i, err)
		}
	}
	return nil
}

/*
Work takes a context, a dataset, a config, a queue, a recorder, a logger
and an emptyQueueSleep duration and enters a loop in which it:
  * pulls a task from the queue,
  * runs it with RunTask,
  * records the result,
  * marks the task as completed on the queue.

If at some point no task can be pulled from the queue and the sum of
tasks running and pending on the queue is 0, the worker ends returning
nil. If no task can be pulled but the sum is not 0, then the worker
sleeps for the given emptyQueueSleep duration and then retries.

Work returns a non-nil error if the given context times out or is
cancelled, if a run fails or if an operation with the given queue or
recorder returns a non-nil error. Tasks are dropped back to the queue
when they cannot be completed.
*/
func Work(ctx context.Context, d *dataset.Dataset, cfg Config, q queue.Queue, rec Recorder, l Logger, emptyQueueSleep time.Duration) error {
	if l == nil {
		l = nopLogger{}
	}
	for {
		task, tctx, tcf, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return err
			}
			if p+r == 0 {
				return nil
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, d, cfg, task, q, rec, l)
		cancel()
		tcf()
		if err != nil {
			return err
		}
		if err = ctx.Err(); err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, d *dataset.Dataset, cfg Config, task *queue.Task, q queue.Queue, rec Recorder, l Logger) (err error) {
	defer func() {
		if err != nil {
			q.Drop(context.Background(), task.ID)
		}
	}()
	result, err := RunTask(d, cfg, task)
	if err != nil {
		return err
	}
	l.Logf("Run %d: %v", task.Run, result)
	err = rec.Record(ctx, result)
	if err != nil {
		return fmt.Errorf("recording run %d: %w", task.Run, err)
	}
	return q.Complete(ctx, task.ID)
}

/*
RunTask takes a dataset, a config and a task and performs the task's run:
it splits the dataset with the task's seed and train ratio, trains a
classifier on the train part and evaluates it on the test part, as a
binary evaluation if the config names positive and negative labels or
as an accuracy evaluation otherwise.
*/
func RunTask(d *dataset.Dataset, cfg Config, task *queue.Task) (*Result, error) {
	train, test, err := d.TrainTestSplit(task.TrainRatio, rand.New(rand.NewSource(task.Seed)))
	if err != nil {
		return nil, fmt.Errorf("splitting dataset for run %d: %w", task.Run, err)
	}
	clf, err := decisiontree.Train(train)
	if err != nil {
		return nil, fmt.Errorf("run %d: %w", task.Run, err)
	}
	result := &Result{Run: task.Run, TestSize: test.Size(), Binary: cfg.Binary()}
	if cfg.Binary() {
		cm, err := clf.EvaluateBinary(test, cfg.Positive, cfg.Negative)
		if err != nil {
			return nil, fmt.Errorf("evaluating run %d: %w", task.Run, err)
		}
		result.Matrix = cm
		result.Accuracy = cm.Accuracy()
		return result, nil
	}
	result.Accuracy, err = clf.EvaluateAccuracy(test)
	if err != nil {
		return nil, fmt.Errorf("evaluating run %d: %w", task.Run, err)
	}
	return result, nil
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
