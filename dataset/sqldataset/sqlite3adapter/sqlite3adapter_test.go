package sqlite3adapter

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/dataset/sqldataset"
	cv "github.com/smartystreets/goconvey/convey"
)

func TestStoreAndLoad(t *testing.T) {
	cv.Convey("Given a SQLite3 database file", t, func() {
		ctx := context.Background()
		a, err := New(filepath.Join(t.TempDir(), "dataset.db"), 1)
		cv.So(err, cv.ShouldBeNil)
		defer a.Close()

		cv.Convey("a dataset stored on it is loaded back in order", func() {
			d := &dataset.Dataset{}
			for i := 0; i < 23; i++ {
				d.AddRow([]string{fmt.Sprintf("x%d", i%4), "?", fmt.Sprintf("%d", i)}, fmt.Sprintf("l%d", i%2))
			}
			n, err := sqldataset.Create(ctx, a, d)
			cv.So(err, cv.ShouldBeNil)
			cv.So(n, cv.ShouldEqual, 23)

			loaded, err := sqldataset.Load(ctx, a)
			cv.So(err, cv.ShouldBeNil)
			cv.So(loaded.Equal(d), cv.ShouldBeTrue)

			cv.Convey("and storing more rows appends them", func() {
				extra, _ := dataset.New([][]string{{"y", "y", "y"}}, []string{"l9"})
				_, err := sqldataset.Create(ctx, a, extra)
				cv.So(err, cv.ShouldBeNil)
				loaded, err := sqldataset.Load(ctx, a)
				cv.So(err, cv.ShouldBeNil)
				cv.So(loaded.Size(), cv.ShouldEqual, 24)
				_, label, _ := loaded.Row(23)
				cv.So(label, cv.ShouldEqual, "l9")
			})
		})

		cv.Convey("iteration stops when the lambda says so", func() {
			d, _ := dataset.New([][]string{{"a"}, {"b"}, {"c"}}, []string{"1", "2", "3"})
			_, err := sqldataset.Create(ctx, a, d)
			cv.So(err, cv.ShouldBeNil)
			var seen []string
			err = sqldataset.IterateOnRows(ctx, a, func(i int, attrs []string, label string) (bool, error) {
				seen = append(seen, label)
				return i < 1, nil
			})
			cv.So(err, cv.ShouldBeNil)
			cv.So(seen, cv.ShouldResemble, []string{"1", "2"})
		})

		cv.Convey("rows with different arities are rejected", func() {
			d := &dataset.Dataset{}
			d.AddRow([]string{"a", "b"}, "1")
			d.AddRow([]string{"a"}, "2")
			_, err := sqldataset.Create(ctx, a, d)
			cv.So(err, cv.ShouldNotBeNil)
		})

		cv.Convey("loading before storing anything fails", func() {
			_, err := sqldataset.Load(ctx, a)
			cv.So(err, cv.ShouldNotBeNil)
		})
	})
}
