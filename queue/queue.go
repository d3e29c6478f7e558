package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

/*
Queue holds the tasks of an evaluation while workers process them. A worker
pulls a task, runs it and then either completes it or drops it so another
worker can take it over.

Every method takes a context as first parameter, so implementations backed
by remote stores can honour timeouts and cancellations.
*/
type Queue interface {
	// Push adds a task to the queue as pending.
	Push(context.Context, *Task) error
	// Pull takes the next pending task and marks it as running. It also
	// returns a context for running the task, which the queue may cancel,
	// and the function releasing it. With no pending tasks it returns
	// all nil values. A worker whose task context is cancelled must still
	// drop the task.
	Pull(context.Context) (*Task, context.Context, context.CancelFunc, error)
	// Drop takes the ID of a running task and makes it pending again.
	// Unknown or completed IDs are ignored.
	Drop(context.Context, string) error
	// Complete takes the ID of a running task and removes it from the
	// queue.
	Complete(context.Context, string) error
	// Count returns the number of pending and running tasks.
	Count(context.Context) (int, int, error)
	// Stop releases the queue's resources and cancels the contexts of
	// pulled tasks.
	Stop(context.Context) error
}

type memQueue struct {
	sync.Mutex
	pending   *linkedlistqueue.Queue
	running   map[string]*Task
	ctx       context.Context
	ctxCancel context.CancelFunc
}

// New returns a Queue kept on the process memory.
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		pending:   linkedlistqueue.New(),
		running:   make(map[string]*Task),
		ctx:       ctx,
		ctxCancel: cancel,
	}
}

/*
WaitFor takes a context, a queue and a polling interval and blocks until
the queue has no pending nor running tasks, checking its Count every poll.
It returns an error if the context is done first or Count fails.
*/
func WaitFor(ctx context.Context, q Queue, poll time.Duration) error {
	ticker := time.NewTicker(poll)
	defer ticker.Stop()
	for {
		pending, running, err := q.Count(ctx)
		if err != nil {
			return err
		}
		if pending == 0 && running == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.Lock()
	defer mq.Unlock()
	mq.pending.Enqueue(t)
	return nil
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, nil, err
	}
	mq.Lock()
	v, ok := mq.pending.Dequeue()
	if !ok {
		mq.Unlock()
		return nil, nil, nil, nil
	}
	t := v.(*Task)
	mq.running[t.ID] = t
	mq.Unlock()
	tctx, cancel := context.WithCancel(mq.ctx)
	return t, tctx, cancel, nil
}

func (mq *memQueue) Drop(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.Lock()
	defer mq.Unlock()
	if t, ok := mq.running[id]; ok {
		delete(mq.running, id)
		mq.pending.Enqueue(t)
	}
	return nil
}

func (mq *memQueue) Complete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.Lock()
	defer mq.Unlock()
	delete(mq.running, id)
	return nil
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	mq.Lock()
	defer mq.Unlock()
	return mq.pending.Size(), len(mq.running), nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.ctxCancel()
	return nil
}

func (mq *memQueue) String() string {
	mq.Lock()
	defer mq.Unlock()
	return fmt.Sprintf("{Queue pending: %d running: %d}", mq.pending.Size(), len(mq.running))
}
