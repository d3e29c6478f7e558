package queue

import (
	"context"
	"testing"
	"time"

	cv "github.com/smartystreets/goconvey/convey"
)

func TestMemQueue(t *testing.T) {
	cv.Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()
		q := New()
		defer q.Stop(ctx)

		cv.Convey("pulling from it when empty returns no task", func() {
			task, tctx, tcf, err := q.Pull(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(task, cv.ShouldBeNil)
			cv.So(tctx, cv.ShouldBeNil)
			cv.So(tcf, cv.ShouldBeNil)
		})

		cv.Convey("tasks pushed are pulled in order", func() {
			tasks := []*Task{NewTask(0, 1, 0.6), NewTask(1, 2, 0.6), NewTask(2, 3, 0.6)}
			for _, task := range tasks {
				cv.So(q.Push(ctx, task), cv.ShouldBeNil)
			}
			pending, running, err := q.Count(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(pending, cv.ShouldEqual, 3)
			cv.So(running, cv.ShouldEqual, 0)

			for _, want := range tasks {
				got, _, tcf, err := q.Pull(ctx)
				cv.So(err, cv.ShouldBeNil)
				cv.So(got, cv.ShouldEqual, want)
				tcf()
			}
			pending, running, _ = q.Count(ctx)
			cv.So(pending, cv.ShouldEqual, 0)
			cv.So(running, cv.ShouldEqual, 3)

			cv.Convey("dropped tasks become pending again and completed ones leave", func() {
				cv.So(q.Drop(ctx, tasks[1].ID), cv.ShouldBeNil)
				cv.So(q.Complete(ctx, tasks[0].ID), cv.ShouldBeNil)
				cv.So(q.Complete(ctx, tasks[2].ID), cv.ShouldBeNil)
				pending, running, _ := q.Count(ctx)
				cv.So(pending, cv.ShouldEqual, 1)
				cv.So(running, cv.ShouldEqual, 0)

				got, _, tcf, err := q.Pull(ctx)
				cv.So(err, cv.ShouldBeNil)
				cv.So(got, cv.ShouldEqual, tasks[1])
				tcf()
				cv.So(q.Complete(ctx, got.ID), cv.ShouldBeNil)
				cv.So(WaitFor(ctx, q, time.Millisecond), cv.ShouldBeNil)
			})
		})

		cv.Convey("stopping it cancels the contexts of pulled tasks", func() {
			cv.So(q.Push(ctx, NewTask(0, 1, 0.5)), cv.ShouldBeNil)
			_, tctx, tcf, err := q.Pull(ctx)
			cv.So(err, cv.ShouldBeNil)
			defer tcf()
			cv.So(q.Stop(ctx), cv.ShouldBeNil)
			<-tctx.Done()
			cv.So(tctx.Err(), cv.ShouldEqual, context.Canceled)
		})
	})
}

func TestQueueInterleaved(t *testing.T) {
	ctx := context.Background()
	q := New()
	var want []string
	// interleave pushes and pulls
	for i := 0; i < 20; i++ {
		task := NewTask(i, int64(i), 0.5)
		if err := q.Push(ctx, task); err != nil {
			t.Fatal(err)
		}
		want = append(want, task.ID)
		if i%3 == 0 {
			got, _, tcf, err := q.Pull(ctx)
			if err != nil {
				t.Fatal(err)
			}
			tcf()
			if got.ID != want[0] {
				t.Fatalf("pulled %s, want %s", got.ID, want[0])
			}
			want = want[1:]
		}
	}
	for len(want) > 0 {
		got, _, tcf, err := q.Pull(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if got == nil {
			t.Fatalf("queue ran out with %d tasks left", len(want))
		}
		tcf()
		if got.ID != want[0] {
			t.Fatalf("pulled %s, want %s", got.ID, want[0])
		}
		want = want[1:]
	}
	if pending, _, _ := q.Count(ctx); pending != 0 {
		t.Errorf("%d tasks still pending", pending)
	}
}

func TestWaitForCancelled(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())
	if err := q.Push(ctx, NewTask(0, 0, 0.5)); err != nil {
		t.Fatal(err)
	}
	cancel()
	if err := WaitFor(ctx, q, time.Millisecond); err == nil {
		t.Errorf("expected WaitFor to fail with a cancelled context")
	}
}
