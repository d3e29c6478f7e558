package tree

import (
	"errors"
	"testing"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	cv "github.com/smartystreets/goconvey/convey"
)

func weatherDataset(t *testing.T) *dataset.Dataset {
	d, err := dataset.New(
		[][]string{
			{"sunny", "hot", "high"},
			{"sunny", "mild", "normal"},
			{"rainy", "mild", "high"},
			{"rainy", "cool", "normal"},
			{"overcast", "hot", "high"},
			{"overcast", "cool", "normal"},
			{"sunny", "cool", "high"},
		},
		[]string{"no", "yes", "no", "yes", "no", "yes", "no"},
	)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestMostCommon(t *testing.T) {
	if got, ok := MostCommon([]int{1, 6, 4, 2, 6, 1, 2, 2}); !ok || got != 2 {
		t.Errorf("MostCommon returned %v, %v; want 2, true", got, ok)
	}
	if got, _ := MostCommon([]string{"b", "a", "a", "b"}); got != "b" {
		t.Errorf("MostCommon returned %q on a tie; want first seen %q", got, "b")
	}
	if _, ok := MostCommon([]string{}); ok {
		t.Errorf("MostCommon of an empty slice should not report a result")
	}
}

func TestAttributes(t *testing.T) {
	cv.Convey("Given a set of attributes", t, func() {
		a := NewAttributes(3, 1, 2)

		cv.Convey("its indices are listed in ascending order", func() {
			cv.So(a.Indices(), cv.ShouldResemble, []int{1, 2, 3})
			cv.So(a.Len(), cv.ShouldEqual, 3)
			cv.So(a.Contains(2), cv.ShouldBeTrue)
			cv.So(a.Contains(0), cv.ShouldBeFalse)
		})

		cv.Convey("removing an index returns a new set and leaves it untouched", func() {
			b := a.Without(2)
			c := a.Without(3)
			cv.So(b.Indices(), cv.ShouldResemble, []int{1, 3})
			cv.So(c.Indices(), cv.ShouldResemble, []int{1, 2})
			cv.So(a.Indices(), cv.ShouldResemble, []int{1, 2, 3})
		})

		cv.Convey("the zero value is empty", func() {
			var z Attributes
			cv.So(z.Len(), cv.ShouldEqual, 0)
			cv.So(z.Indices(), cv.ShouldBeEmpty)
			cv.So(z.Without(1).Len(), cv.ShouldEqual, 0)
		})

		cv.Convey("a range holds every index below its bound", func() {
			cv.So(AttributeRange(4).Indices(), cv.ShouldResemble, []int{0, 1, 2, 3})
		})
	})
}

func TestBuild(t *testing.T) {
	cv.Convey("Growing a tree", t, func() {
		cv.Convey("from an empty dataset fails", func() {
			_, err := Build(&dataset.Dataset{}, AttributeRange(2))
			cv.So(errors.Is(err, ErrEmptyTrainingSet), cv.ShouldBeTrue)
		})

		cv.Convey("from rows sharing a label yields a leaf", func() {
			d, _ := dataset.New([][]string{{"a"}, {"b"}}, []string{"x", "x"})
			n, err := Build(d, AttributeRange(1))
			cv.So(err, cv.ShouldBeNil)
			cv.So(n, cv.ShouldResemble, &Leaf{Label: "x"})
		})

		cv.Convey("without attributes yields a leaf with the most common label", func() {
			d, _ := dataset.New([][]string{{"a"}, {"b"}, {"c"}}, []string{"x", "y", "y"})
			n, err := Build(d, NewAttributes())
			cv.So(err, cv.ShouldBeNil)
			cv.So(n, cv.ShouldResemble, &Leaf{Label: "y"})
		})

		cv.Convey("from rows whose labels depend on one attribute", func() {
			d := weatherDataset(t)
			n, err := Build(d, AttributeRange(3))
			cv.So(err, cv.ShouldBeNil)

			cv.Convey("splits on that attribute at the root", func() {
				in, ok := n.(*Internal)
				cv.So(ok, cv.ShouldBeTrue)
				cv.So(in.Attribute, cv.ShouldEqual, 2)
				cv.So(in.Fallback, cv.ShouldEqual, "no")
				cv.So(in.Children, cv.ShouldHaveLength, 2)
				cv.So(in.Children["high"], cv.ShouldResemble, &Leaf{Label: "no"})
				cv.So(in.Children["normal"], cv.ShouldResemble, &Leaf{Label: "yes"})
			})

			cv.Convey("predicts every training row correctly", func() {
				for i, attrs := range d.Attributes() {
					p, err := Predict(n, attrs)
					cv.So(err, cv.ShouldBeNil)
					cv.So(p, cv.ShouldEqual, d.Labels()[i])
				}
			})

			cv.Convey("is no deeper than the number of attributes", func() {
				cv.So(Depth(n), cv.ShouldBeLessThanOrEqualTo, 3)
				cv.So(CountLeaves(n), cv.ShouldEqual, 2)
			})
		})
	})
}

func TestBuildNoisy(t *testing.T) {
	// The last two rows are identical but carry different labels, so
	// attributes run out before the node becomes pure.
	d, _ := dataset.New(
		[][]string{{"a", "x"}, {"a", "y"}, {"b", "x"}, {"b", "y"}, {"b", "y"}},
		[]string{"P", "N", "P", "N", "P"},
	)
	n, err := Build(d, AttributeRange(2))
	if err != nil {
		t.Fatal(err)
	}
	if depth := Depth(n); depth > 2 {
		t.Errorf("depth %d exceeds the number of attributes", depth)
	}
	err = Walk(n, func(n Node, _ int) error {
		in, ok := n.(*Internal)
		if !ok {
			return nil
		}
		for v := range in.Children {
			if v == "" {
				t.Errorf("unexpected child for empty value")
			}
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := Predict(n, []string{"a", "x"}); p != "P" {
		t.Errorf("predicted %q for (a, x), want P", p)
	}
}

func TestPredict(t *testing.T) {
	root := &Internal{
		Attribute: 0,
		Fallback:  "maybe",
		Children: map[string]Node{
			"a": &Leaf{Label: "yes"},
			"b": &Internal{
				Attribute: 1,
				Fallback:  "no",
				Children: map[string]Node{
					"x": &Leaf{Label: "yes"},
				},
			},
		},
	}
	cases := []struct {
		attrs []string
		want  string
	}{
		{[]string{"a", "z"}, "yes"},
		{[]string{"b", "x"}, "yes"},
		{[]string{"b", "unseen"}, "no"},
		{[]string{"unseen", "x"}, "maybe"},
		{[]string{"unseen"}, "maybe"},
	}
	for _, c := range cases {
		got, err := Predict(root, c.attrs)
		if err != nil {
			t.Errorf("Predict(%v): %v", c.attrs, err)
			continue
		}
		if got != c.want {
			t.Errorf("Predict(%v) = %q, want %q", c.attrs, got, c.want)
		}
	}
	if _, err := Predict(root, []string{"b"}); !errors.Is(err, ErrMissingAttribute) {
		t.Errorf("Predict on a short row returned %v, want ErrMissingAttribute", err)
	}
}

func TestRender(t *testing.T) {
	root := &Internal{
		Attribute: 1,
		Fallback:  "no",
		Children: map[string]Node{
			"b": &Leaf{Label: "yes"},
			"a": &Leaf{Label: "no"},
		},
	}
	want := "{ odor ? otherwise no }\n|\n|__a: [no]\n|__b: [yes]\n"
	if got := Render(root, []string{"cap", "odor"}); got != want {
		t.Errorf("Render returned\n%s\nwant\n%s", got, want)
	}
	want = "{ attribute 1 ? otherwise no }\n|\n|__a: [no]\n|__b: [yes]\n"
	if got := Render(root, nil); got != want {
		t.Errorf("Render returned\n%s\nwant\n%s", got, want)
	}
}
