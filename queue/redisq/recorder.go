package redisq

import (
	"context"
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/experiment"
	redis "gopkg.in/redis.v5"
)

/*
ResultEncodeDecoder is an interface for objects that allow encoding
results as slices of bytes and decoding them back, to store them on redis.
*/
type ResultEncodeDecoder interface {
	EncodeResult(context.Context, *experiment.Result) ([]byte, error)
	DecodeResult(context.Context, []byte) (*experiment.Result, error)
}

type recorder struct {
	id string
	rc *redis.Client
	ResultEncodeDecoder
}

/*
NewRecorder returns an experiment.Recorder that appends the encoded
results to a redis list under the key id:results, so that workers in
different processes can share an evaluation. Use the same id as the
queue holding the evaluation's tasks.
*/
func NewRecorder(id string, rc *redis.Client, encDec ResultEncodeDecoder) experiment.Recorder {
	return &recorder{id, rc, encDec}
}

func (r *recorder) Record(ctx context.Context, result *experiment.Result) error {
	data, err := r.EncodeResult(ctx, result)
	if err != nil {
		return fmt.Errorf("recording result of run %d: %v", result.Run, err)
	}
	err = r.rc.RPush(r.resultsKey(), string(data)).Err()
	if err != nil {
		return fmt.Errorf("recording result of run %d on %q: %v", result.Run, r.resultsKey(), err)
	}
	return nil
}

func (r *recorder) Results(ctx context.Context) ([]*experiment.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := r.rc.LRange(r.resultsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading results from %q: %v", r.resultsKey(), err)
	}
	results := make([]*experiment.Result, 0, len(values))
	for i, v := range values {
		result, err := r.DecodeResult(ctx, []byte(v))
		if err != nil {
			return nil, fmt.Errorf("decoding result %d from %q: %v", i, r.resultsKey(), err)
		}
		results = append(results, result)
	}
	experiment.SortResults(results)
	return results, nil
}

func (r *recorder) resultsKey() string {
	return fmt.Sprintf("%s:results", r.id)
}
