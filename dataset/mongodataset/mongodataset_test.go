package mongodataset

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/mGarbowski/wsi-decision-tree/dataset"
	cv "github.com/smartystreets/goconvey/convey"
	mgo "gopkg.in/mgo.v2"
)

func TestWriteAndLoad(t *testing.T) {
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}
	session, err := mgo.Dial(url)
	if err != nil {
		t.Fatal(err)
	}
	defer session.Close()
	cv.Convey("Given a mongo dataset", t, func() {
		ctx := context.Background()
		s, err := Open(ctx, session, "test-"+uuid.NewString())
		cv.So(err, cv.ShouldBeNil)

		cv.Convey("a dataset written on it is loaded back in order", func() {
			d := &dataset.Dataset{}
			for i := 0; i < 15; i++ {
				d.AddRow([]string{fmt.Sprintf("v%d", i%3), "?"}, fmt.Sprintf("l%d", i%2))
			}
			n, err := s.Write(ctx, d)
			cv.So(err, cv.ShouldBeNil)
			cv.So(n, cv.ShouldEqual, 15)
			defer s.Drop(ctx)

			loaded, err := s.Load(ctx)
			cv.So(err, cv.ShouldBeNil)
			cv.So(loaded.Equal(d), cv.ShouldBeTrue)

			cv.Convey("and writing more rows appends them", func() {
				extra, _ := dataset.New([][]string{{"w", "w"}}, []string{"last"})
				_, err := s.Write(ctx, extra)
				cv.So(err, cv.ShouldBeNil)
				count, err := s.Count(ctx)
				cv.So(err, cv.ShouldBeNil)
				cv.So(count, cv.ShouldEqual, 16)
				loaded, _ := s.Load(ctx)
				_, label, _ := loaded.Row(15)
				cv.So(label, cv.ShouldEqual, "last")
			})
		})
	})
}
