package json

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/mGarbowski/wsi-decision-tree/evaluation"
	"github.com/mGarbowski/wsi-decision-tree/experiment"
)

/*
ResultEncodeDecoder is an interface for objects that allow encoding
evaluation results as slices of bytes and decoding them back.
*/
type ResultEncodeDecoder interface {
	EncodeResult(context.Context, *experiment.Result) ([]byte, error)
	DecodeResult(context.Context, []byte) (*experiment.Result, error)
}

type jsonResult struct {
	Run      int      `json:"run"`
	TestSize int      `json:"testSize"`
	Accuracy *float64 `json:"accuracy,omitempty"`
	Binary   bool     `json:"binary"`
	TP       int      `json:"tp"`
	TN       int      `json:"tn"`
	FP       int      `json:"fp"`
	FN       int      `json:"fn"`
}

// NewResultEncodeDecoder returns a ResultEncodeDecoder that represents
// results as JSON objects. An undefined (NaN) accuracy is left out of
// the document and decoded back as NaN.
func NewResultEncodeDecoder() ResultEncodeDecoder {
	return jsonEncodeDecoder{}
}

func (jsonEncodeDecoder) EncodeResult(ctx context.Context, r *experiment.Result) ([]byte, error) {
	jr := &jsonResult{
		Run:      r.Run,
		TestSize: r.TestSize,
		Binary:   r.Binary,
		TP:       r.Matrix.TruePositives,
		TN:       r.Matrix.TrueNegatives,
		FP:       r.Matrix.FalsePositives,
		FN:       r.Matrix.FalseNegatives,
	}
	if !math.IsNaN(r.Accuracy) {
		acc := r.Accuracy
		jr.Accuracy = &acc
	}
	data, err := json.Marshal(jr)
	if err != nil {
		return nil, fmt.Errorf("encoding result of run %d as json: %v", r.Run, err)
	}
	return data, nil
}

func (jsonEncodeDecoder) DecodeResult(ctx context.Context, data []byte) (*experiment.Result, error) {
	jr := &jsonResult{}
	err := json.Unmarshal(data, jr)
	if err != nil {
		return nil, fmt.Errorf("decoding result from json: %v", err)
	}
	r := &experiment.Result{
		Run:      jr.Run,
		TestSize: jr.TestSize,
		Accuracy: math.NaN(),
		Binary:   jr.Binary,
		Matrix: evaluation.ConfusionMatrix{
			TruePositives:  jr.TP,
			TrueNegatives:  jr.TN,
			FalsePositives: jr.FP,
			FalseNegatives: jr.FN,
		},
	}
	if jr.Accuracy != nil {
		r.Accuracy = *jr.Accuracy
	}
	return r, nil
}
