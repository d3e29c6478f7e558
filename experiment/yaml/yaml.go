/*
Package yaml reads evaluation plans written in YAML.

A plan lists the datasets to evaluate, each with its own evaluation
parameters:

	evaluations:
	  - name: mushroom
	    input: data/mushroom/agaricus-lepiota.data
	    positive: e
	    negative: p
	  - name: breast cancer without missing values
	    input: data/breast+cancer/breast-cancer.data
	    label-column: 0
	    positive: no-recurrence-events
	    negative: recurrence-events
	    missing: "?"
	    train-ratio: 0.4
	    runs: 10

Omitted train ratios and run counts take experiment.DefaultTrainRatio and
experiment.DefaultRuns.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/mGarbowski/wsi-decision-tree/experiment"
	yaml "gopkg.in/yaml.v2"
)

// Plan is a list of evaluations to run one after the other.
type Plan struct {
	Entries []*Entry `yaml:"evaluations"`
}

/*
Entry describes the evaluation of a dataset. Rows holding the Missing
symbol among their attributes are removed before evaluating when it is
not empty.
*/
type Entry struct {
	Name        string   `yaml:"name"`
	Input       string   `yaml:"input"`
	LabelColumn int      `yaml:"label-column"`
	Positive    string   `yaml:"positive"`
	Negative    string   `yaml:"negative"`
	Missing     string   `yaml:"missing"`
	TrainRatio  *float64 `yaml:"train-ratio"`
	Runs        int      `yaml:"runs"`
}

// Config takes the number of workers and the seed and returns the
// experiment.Config to evaluate the entry with.
func (e *Entry) Config(workers int, seed int64) experiment.Config {
	ratio := experiment.DefaultTrainRatio
	if e.TrainRatio != nil {
		ratio = *e.TrainRatio
	}
	runs := e.Runs
	if runs == 0 {
		runs = experiment.DefaultRuns
	}
	return experiment.Config{
		TrainRatio: ratio,
		Runs:       runs,
		Positive:   e.Positive,
		Negative:   e.Negative,
		Workers:    workers,
		Seed:       seed,
	}
}

/*
ReadPlan takes a slice of bytes with a plan in YAML and returns the plan
parsed from it or an error. Every entry must have an input and the
name of an entry defaults to its input.
*/
func ReadPlan(data []byte) (*Plan, error) {
	p := &Plan{}
	err := yaml.Unmarshal(data, p)
	if err != nil {
		return nil, fmt.Errorf("parsing yaml plan: %v", err)
	}
	if len(p.Entries) == 0 {
		return nil, fmt.Errorf("parsing yaml plan: no evaluations")
	}
	for i, e := range p.Entries {
		if e == nil || e.Input == "" {
			return nil, fmt.Errorf("parsing yaml plan: evaluation %d has no input", i)
		}
		if e.Name == "" {
			e.Name = e.Input
		}
		if e.LabelColumn < 0 {
			return nil, fmt.Errorf("parsing yaml plan: evaluation %q has negative label column %d", e.Name, e.LabelColumn)
		}
		if e.Runs < 0 {
			return nil, fmt.Errorf("parsing yaml plan: evaluation %q has negative runs %d", e.Name, e.Runs)
		}
	}
	return p, nil
}

/*
ReadPlanFromFile takes a filepath string, reads its contents and uses
ReadPlan to parse it and return the plan or an error.
*/
func ReadPlanFromFile(filepath string) (*Plan, error) {
	data, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading yaml plan file %s: %v", filepath, err)
	}
	p, err := ReadPlan(data)
	if err != nil {
		return nil, fmt.Errorf("parsing yaml plan file %s: %v", filepath, err)
	}
	return p, nil
}
