package redisq

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mGarbowski/wsi-decision-tree/experiment"
	"github.com/mGarbowski/wsi-decision-tree/queue"
	qjson "github.com/mGarbowski/wsi-decision-tree/queue/json"
	cv "github.com/smartystreets/goconvey/convey"
	redis "gopkg.in/redis.v5"
)

// redisClient returns a client for the server at REDIS_ADDR or skips
// the test when it is not set.
func redisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rc := redis.NewClient(&redis.Options{Addr: addr})
	if err := rc.Ping().Err(); err != nil {
		t.Fatalf("pinging redis at %s: %v", addr, err)
	}
	return rc
}

func TestRedisQueue(t *testing.T) {
	rc := redisClient(t)
	defer rc.Close()
	cv.Convey("Given a redis queue", t, func() {
		ctx := context.Background()
		id := "wsi-tree-test-" + uuid.NewString()
		q := New(id, rc, 0, time.Second, qjson.New())
		defer q.Stop(ctx)

		cv.Convey("a pushed task can be pulled and completed", func() {
			task := queue.NewTask(2, 17, 0.6)
			cv.So(q.Push(ctx, task), cv.ShouldBeNil)
			cv.So(q.Push(ctx, task), cv.ShouldNotBeNil)
			pending, running, err := q.Count(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(pending, cv.ShouldEqual, 1)
			cv.So(running, cv.ShouldEqual, 0)

			got, _, tcf, err := q.Pull(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(*got, cv.ShouldResemble, *task)
			defer tcf()
			pending, running, _ = q.Count(ctx)
			cv.So(pending, cv.ShouldEqual, 0)
			cv.So(running, cv.ShouldEqual, 1)

			cv.So(q.Drop(ctx, task.ID), cv.ShouldBeNil)
			pending, running, _ = q.Count(ctx)
			cv.So(pending, cv.ShouldEqual, 1)
			cv.So(running, cv.ShouldEqual, 0)

			got, _, tcf2, err := q.Pull(ctx)
			cv.So(err, cv.ShouldBeNil)
			defer tcf2()
			cv.So(q.Complete(ctx, got.ID), cv.ShouldBeNil)
			cv.So(queue.WaitFor(ctx, q, 10*time.Millisecond), cv.ShouldBeNil)
			exists, err := rc.Exists(id + ":task:" + task.ID + ":data").Result()
			cv.So(err, cv.ShouldBeNil)
			cv.So(exists, cv.ShouldBeFalse)
		})

		cv.Convey("results recorded are read back sorted by run", func() {
			rec := NewRecorder(id, rc, qjson.NewResultEncodeDecoder())
			defer rc.Del(id + ":results")
			cv.So(rec.Record(ctx, &experiment.Result{Run: 1, TestSize: 3, Accuracy: 1}), cv.ShouldBeNil)
			cv.So(rec.Record(ctx, &experiment.Result{Run: 0, TestSize: 3, Accuracy: 0.5}), cv.ShouldBeNil)
			results, err := rec.Results(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(results, cv.ShouldHaveLength, 2)
			cv.So(results[0].Run, cv.ShouldEqual, 0)
			cv.So(results[1].Accuracy, cv.ShouldEqual, 1)
		})
	})
}
