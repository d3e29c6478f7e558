package csv

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	cv "github.com/smartystreets/goconvey/convey"
)

const mushrooms = `p,x,s,n
e,x,s,y
e,b,s,w
p,x,y,w
`

func TestReadDataset(t *testing.T) {
	cv.Convey("Given comma separated rows with the label on the first column", t, func() {
		cv.Convey("the label is removed from the attributes", func() {
			d, err := ReadDataset(strings.NewReader(mushrooms), DefaultLabelColumn)
			cv.So(err, cv.ShouldBeNil)
			want, _ := dataset.New(
				[][]string{{"x", "s", "n"}, {"x", "s", "y"}, {"b", "s", "w"}, {"x", "y", "w"}},
				[]string{"p", "e", "e", "p"},
			)
			cv.So(d.Equal(want), cv.ShouldBeTrue)
		})

		cv.Convey("a label column in the middle keeps the other fields in order", func() {
			d, err := ReadDataset(strings.NewReader("a,b,c\r\n"), 1)
			cv.So(err, cv.ShouldBeNil)
			attrs, label, _ := d.Row(0)
			cv.So(label, cv.ShouldEqual, "b")
			cv.So(attrs, cv.ShouldResemble, []string{"a", "c"})
		})

		cv.Convey("a blank line becomes a row with an empty label", func() {
			d, err := ReadDataset(strings.NewReader("a,b\n\nc,d\n"), 0)
			cv.So(err, cv.ShouldBeNil)
			cv.So(d.Size(), cv.ShouldEqual, 3)
			attrs, label, _ := d.Row(1)
			cv.So(label, cv.ShouldEqual, "")
			cv.So(attrs, cv.ShouldBeEmpty)
		})

		cv.Convey("a line without the label column fails", func() {
			_, err := ReadDataset(strings.NewReader("a,b,c\nd\n"), 2)
			cv.So(err, cv.ShouldNotBeNil)
			cv.So(err.Error(), cv.ShouldContainSubstring, "line 2")
		})
	})
}

func TestWriteDatasetRoundTrip(t *testing.T) {
	for _, labelColumn := range []int{0, 1, 3} {
		d, err := ReadDataset(strings.NewReader(mushrooms), labelColumn)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := WriteDataset(&buf, d, labelColumn); err != nil {
			t.Fatal(err)
		}
		if buf.String() != mushrooms {
			t.Errorf("label column %d: wrote %q, want %q", labelColumn, buf.String(), mushrooms)
		}
	}
}

func TestFilePaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.data")
	if err := os.WriteFile(path, []byte(mushrooms), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadDatasetFromFilePath(path, 0)
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "copy.data")
	if err := WriteDatasetToFilePath(out, d, 0); err != nil {
		t.Fatal(err)
	}
	copied, err := ReadDatasetFromFilePath(out, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !copied.Equal(d) {
		t.Errorf("got %v, want %v", copied, d)
	}
	if _, err := ReadDatasetFromFilePath(filepath.Join(t.TempDir(), "missing"), 0); err == nil {
		t.Errorf("expected an error reading a missing file")
	}
}

func TestReadAttributes(t *testing.T) {
	rows, err := ReadAttributes(strings.NewReader("x,s,n\n\n b,y,w \n"))
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"x", "s", "n"}, {"b", "y", "w"}}
	if len(rows) != len(want) {
		t.Fatalf("read %d rows, want %d", len(rows), len(want))
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d is %v, want %v", i, rows[i], want[i])
		}
	}
}
