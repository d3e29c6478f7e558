package json

import (
	"context"
	"math"
	"testing"

	"github.com/mGarbowski/wsi-decision-tree/evaluation"
	"github.com/mGarbowski/wsi-decision-tree/experiment"
	"github.com/mGarbowski/wsi-decision-tree/queue"
)

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()
	ed := New()
	task := queue.NewTask(4, -12345, 0.4)
	data, err := ed.Encode(ctx, task)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ed.Decode(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *task {
		t.Errorf("decoded %+v, want %+v", got, task)
	}
	for _, bad := range []string{`{"run":1}`, `not json`} {
		if _, err := ed.Decode(ctx, []byte(bad)); err == nil {
			t.Errorf("expected an error decoding %q", bad)
		}
	}
}

func TestEncodeDecodeResult(t *testing.T) {
	ctx := context.Background()
	ed := NewResultEncodeDecoder()
	results := []*experiment.Result{
		{Run: 3, TestSize: 10, Accuracy: 0.8, Binary: true, Matrix: evaluation.ConfusionMatrix{TruePositives: 5, TrueNegatives: 3, FalsePositives: 1, FalseNegatives: 1}},
		{Run: 0, TestSize: 2, Accuracy: 0.5},
	}
	for _, r := range results {
		data, err := ed.EncodeResult(ctx, r)
		if err != nil {
			t.Fatal(err)
		}
		got, err := ed.DecodeResult(ctx, data)
		if err != nil {
			t.Fatal(err)
		}
		if *got != *r {
			t.Errorf("decoded %+v, want %+v", got, r)
		}
	}
	data, err := ed.EncodeResult(ctx, &experiment.Result{Run: 1, Accuracy: math.NaN(), Binary: true})
	if err != nil {
		t.Fatalf("encoding a NaN accuracy: %v", err)
	}
	got, err := ed.DecodeResult(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(got.Accuracy) {
		t.Errorf("decoded accuracy %v, want NaN", got.Accuracy)
	}
}
