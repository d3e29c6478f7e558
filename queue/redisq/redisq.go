/*
Package redisq provides a queue.Queue backed by redis, so that evaluation
runs can be shared by workers living in several processes or hosts.
*/
package redisq

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/mGarbowski/wsi-decision-tree/queue"
	redis "gopkg.in/redis.v5"
)

// TaskCodec turns tasks into the bytes kept on redis and back.
type TaskCodec interface {
	Encode(context.Context, *queue.Task) ([]byte, error)
	Decode(context.Context, []byte) (*queue.Task, error)
}

const (
	// releases a lock only if it still holds the value set by its owner
	unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) end return 0`
	countScript  = `return {redis.call("SCARD", KEYS[1]), redis.call("SCARD", KEYS[2])}`

	lockRetries   = 5
	lockRetryBase = 10 * time.Millisecond
)

type redisQueue struct {
	prefix  string
	client  *redis.Client
	codec   TaskCodec
	maxRun  time.Duration
	lockTTL time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

/*
New takes an id, a redis client, the maximum run time of a task, the
expiration of task locks and a TaskCodec, and returns a queue.Queue keeping
its state on redis under keys prefixed by id:

  * id:pending and id:running are sets with the IDs of pending and running tasks
  * id:task:<task id>:data holds the encoded task
  * id:task:<task id>:lock is a lock on the task, expiring after lockTTL
  * id:task:<task id>:running marks a pulled task and expires after maxRun

While maxRun is positive a background process moves back to pending the
running tasks whose mark expired, assuming their worker is gone. A zero
maxRun disables both the expiration and the process.

The queue is safe for concurrent use.
*/
func New(id string, rc *redis.Client, maxRun, lockTTL time.Duration, codec TaskCodec) queue.Queue {
	ctx, cancel := context.WithCancel(context.Background())
	rq := &redisQueue{
		prefix:  id,
		client:  rc,
		codec:   codec,
		maxRun:  maxRun,
		lockTTL: lockTTL,
		ctx:     ctx,
		cancel:  cancel,
	}
	if maxRun > 0 {
		go rq.reap()
	}
	return rq
}

func (rq *redisQueue) Push(ctx context.Context, t *queue.Task) error {
	data, err := rq.codec.Encode(ctx, t)
	if err != nil {
		return fmt.Errorf("pushing task %s: %v", t.ID, err)
	}
	ok, err := rq.client.SetNX(rq.taskKey(t.ID, "data"), data, 0).Result()
	if err != nil {
		return fmt.Errorf("pushing task %s: %v", t.ID, err)
	}
	if !ok {
		return fmt.Errorf("pushing task %s: task already on queue %s", t.ID, rq.prefix)
	}
	err = rq.client.SAdd(rq.pendingKey(), t.ID).Err()
	if err != nil {
		rq.client.Del(rq.taskKey(t.ID, "data"))
		return fmt.Errorf("pushing task %s: %v", t.ID, err)
	}
	return nil
}

// Pull claims the first pending task it can lock. The context of the
// claimed task expires after maxRun, if set, or when the queue is stopped.
func (rq *redisQueue) Pull(ctx context.Context) (*queue.Task, context.Context, context.CancelFunc, error) {
	iter := rq.client.SScan(rq.pendingKey(), 0, "", 0).Iterator()
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, nil, err
		}
		id := iter.Val()
		if rq.claim(ctx, id) != nil {
			continue
		}
		t, err := rq.load(ctx, id)
		if err != nil {
			rq.Drop(ctx, id)
			continue
		}
		var tctx context.Context
		var cancel context.CancelFunc
		if rq.maxRun > 0 {
			tctx, cancel = context.WithTimeout(rq.ctx, rq.maxRun)
		} else {
			tctx, cancel = context.WithCancel(rq.ctx)
		}
		return t, tctx, cancel, nil
	}
	if err := iter.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("scanning pending tasks of %s: %v", rq.prefix, err)
	}
	return nil, nil, nil, nil
}

func (rq *redisQueue) Drop(ctx context.Context, id string) error {
	err := rq.lock(ctx, id, lockRetries, func() error {
		moved, err := rq.client.SMove(rq.runningKey(), rq.pendingKey(), id).Result()
		if err != nil || !moved {
			return err
		}
		return rq.client.Del(rq.taskKey(id, "running")).Err()
	})
	if err != nil {
		return fmt.Errorf("dropping task %s: %v", id, err)
	}
	return nil
}

// Complete removes a running task and its data from the queue.
func (rq *redisQueue) Complete(ctx context.Context, id string) error {
	err := rq.lock(ctx, id, lockRetries, func() error {
		removed, err := rq.client.SRem(rq.runningKey(), id).Result()
		if err != nil || removed == 0 {
			return err
		}
		return rq.client.Del(rq.taskKey(id, "running"), rq.taskKey(id, "data")).Err()
	})
	if err != nil {
		return fmt.Errorf("completing task %s: %v", id, err)
	}
	return nil
}

// Count reads both sets in one script, so a task moving between them is
// never missed by both counts.
func (rq *redisQueue) Count(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	v, err := rq.client.Eval(countScript, []string{rq.pendingKey(), rq.runningKey()}).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("counting tasks of %s: %v", rq.prefix, err)
	}
	counts, ok := v.([]interface{})
	if !ok || len(counts) != 2 {
		return 0, 0, fmt.Errorf("counting tasks of %s: unexpected reply %v", rq.prefix, v)
	}
	pending, ok1 := counts[0].(int64)
	running, ok2 := counts[1].(int64)
	if !ok1 || !ok2 {
		return 0, 0, fmt.Errorf("counting tasks of %s: unexpected reply %v", rq.prefix, v)
	}
	return int(pending), int(running), nil
}

// Stop cancels pulled task contexts and the reaper. The keys on redis are
// kept for other processes sharing the queue.
func (rq *redisQueue) Stop(context.Context) error {
	rq.cancel()
	return nil
}

func (rq *redisQueue) String() string {
	return fmt.Sprintf("{redis queue %s}", rq.prefix)
}

func (rq *redisQueue) claim(ctx context.Context, id string) error {
	return rq.lock(ctx, id, 0, func() error {
		marked, err := rq.client.SetNX(rq.taskKey(id, "running"), 1, rq.maxRun).Result()
		if err != nil {
			return err
		}
		if !marked {
			return fmt.Errorf("task %s already running", id)
		}
		err = rq.client.SMove(rq.pendingKey(), rq.runningKey(), id).Err()
		if err != nil {
			rq.client.Del(rq.taskKey(id, "running"))
		}
		return err
	})
}

func (rq *redisQueue) load(ctx context.Context, id string) (*queue.Task, error) {
	data, err := rq.client.Get(rq.taskKey(id, "data")).Bytes()
	if err != nil {
		return nil, fmt.Errorf("reading task %s: %v", id, err)
	}
	return rq.codec.Decode(ctx, data)
}

/*
lock runs f holding the lock of the task with the given id. When the lock
is taken it waits for it to expire, plus some jitter, up to retries more
times before giving up.
*/
func (rq *redisQueue) lock(ctx context.Context, id string, retries int, f func() error) error {
	key := rq.taskKey(id, "lock")
	value := uuid.NewString()
	for {
		ok, err := rq.client.SetNX(key, value, rq.lockTTL).Result()
		if err != nil {
			return fmt.Errorf("locking task %s: %v", id, err)
		}
		if ok {
			break
		}
		if retries == 0 {
			return fmt.Errorf("locking task %s: lock taken", id)
		}
		ttl, _ := rq.client.PTTL(key).Result()
		if ttl < 0 {
			ttl = 0
		}
		jitter := time.Duration(rand.Int63n(int64(lockRetryBase) * int64(retries)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(ttl + jitter):
		}
		retries--
	}
	defer rq.client.Eval(unlockScript, []string{key}, value)
	return f()
}

// reap drops running tasks whose running mark expired until the queue stops.
func (rq *redisQueue) reap() {
	ticker := time.NewTicker(rq.maxRun / 2)
	defer ticker.Stop()
	for {
		ids, err := rq.client.SMembers(rq.runningKey()).Result()
		if err == nil {
			for _, id := range ids {
				if rq.ctx.Err() != nil {
					return
				}
				if n, err := rq.client.Exists(rq.taskKey(id, "running")).Result(); err == nil && !n {
					rq.Drop(rq.ctx, id)
				}
			}
		}
		select {
		case <-rq.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (rq *redisQueue) pendingKey() string {
	return rq.prefix + ":pending"
}

func (rq *redisQueue) runningKey() string {
	return rq.prefix + ":running"
}

func (rq *redisQueue) taskKey(id, suffix string) string {
	return fmt.Sprintf("%s:task:%s:%s", rq.prefix, id, suffix)
}
