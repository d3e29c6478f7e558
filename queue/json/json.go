/*
Package json encodes evaluation tasks and their results as JSON documents
so they can be kept on external backends such as redis.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/queue"
)

// TaskEncodeDecoder turns tasks into JSON documents and back.
type TaskEncodeDecoder interface {
	Encode(context.Context, *queue.Task) ([]byte, error)
	// Decode fails on documents without a task id.
	Decode(context.Context, []byte) (*queue.Task, error)
}

type jsonEncodeDecoder struct{}

type jsonTask struct {
	ID         string  `json:"id"`
	Run        int     `json:"run"`
	Seed       int64   `json:"seed"`
	TrainRatio float64 `json:"ratio"`
}

// New returns a TaskEncodeDecoder that represents tasks as JSON objects.
func New() TaskEncodeDecoder {
	return jsonEncodeDecoder{}
}

func (jsonEncodeDecoder) Encode(ctx context.Context, t *queue.Task) ([]byte, error) {
	data, err := json.Marshal(&jsonTask{t.ID, t.Run, t.Seed, t.TrainRatio})
	if err != nil {
		return nil, fmt.Errorf("encoding task %s as json: %v", t.ID, err)
	}
	return data, nil
}

func (jsonEncodeDecoder) Decode(ctx context.Context, data []byte) (*queue.Task, error) {
	jt := &jsonTask{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, fmt.Errorf("decoding task from json: %v", err)
	}
	if jt.ID == "" {
		return nil, fmt.Errorf("decoding task from json: no task id in %q", data)
	}
	return &queue.Task{ID: jt.ID, Run: jt.Run, Seed: jt.Seed, TrainRatio: jt.TrainRatio}, nil
}
