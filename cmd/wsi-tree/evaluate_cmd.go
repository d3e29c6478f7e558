package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/mGarbowski/wsi-decision-tree/experiment"
	"github.com/mGarbowski/wsi-decision-tree/experiment/yaml"
	"github.com/mGarbowski/wsi-decision-tree/queue"
	"github.com/mGarbowski/wsi-decision-tree/queue/json"
	"github.com/mGarbowski/wsi-decision-tree/queue/redisq"
	"github.com/spf13/cobra"
	redis "gopkg.in/redis.v5"
)

type evaluateCmdConfig struct {
	*rootCmdConfig
	input       datasetLocation
	name        string
	planInput   string
	positive    string
	negative    string
	missing     string
	trainRatio  float64
	runs        int
	workers     int
	seed        int64
	redisAddr   string
	redisDB     int
	queueID     string
	join        bool
	taskMaxRun  time.Duration
	lockTTL     time.Duration
	redisClient *redis.Client
}

func evaluateCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &evaluateCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate decision trees over repeated train/test splits",
		Long: `Evaluate decision trees grown on random train splits of a dataset against the rest of it, averaging the results of several runs.
Either a single dataset is evaluated, as described by flags, or every dataset listed on a YAML plan.
Runs can be shared with other processes through a redis queue: those processes should be started with the join flag and the same queue-id.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := config.Context()
			if config.redisAddr != "" {
				config.Logf("Connecting to redis at %s...", config.redisAddr)
				config.redisClient = redis.NewClient(&redis.Options{Addr: config.redisAddr, DB: config.redisDB})
				defer config.redisClient.Close()
				err = config.redisClient.Ping().Err()
				if err != nil {
					fmt.Fprintf(os.Stderr, "connecting to redis at %s: %v\n", config.redisAddr, err)
					os.Exit(2)
				}
			}
			entries, err := config.entries()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			for i, e := range entries {
				d, err := readDataset(ctx, &datasetLocation{e.Input, e.LabelColumn, config.input.maxDBConns, config.input.collection}, logger(config.verbose))
				if err != nil {
					fmt.Fprintf(os.Stderr, "reading dataset %s: %v\n", e.Name, err)
					os.Exit(4)
				}
				d = withoutMissing(d, e.Missing, logger(config.verbose))
				cfg := e.Config(config.workers, config.seed+int64(i))
				if config.join {
					err = config.joinEvaluation(ctx, d, cfg, i)
					if err != nil {
						fmt.Fprintf(os.Stderr, "working on evaluation of %s: %v\n", e.Name, err)
						os.Exit(5)
					}
					continue
				}
				config.Logf("Evaluating %s dataset with %d rows over %d runs...", e.Name, d.Size(), cfg.Runs)
				summary, err := config.evaluate(ctx, d, cfg, i)
				if err != nil {
					fmt.Fprintf(os.Stderr, "evaluating %s: %v\n", e.Name, err)
					os.Exit(6)
				}
				if i > 0 {
					fmt.Println()
				}
				err = summary.Format(os.Stdout, e.Name)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(7)
				}
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input.path), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to evaluate on (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().IntVarP(&(config.input.labelColumn), "label-column", "l", 0, "index of the column holding the label on CSV input")
	cmd.PersistentFlags().IntVar(&(config.input.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().StringVar(&(config.input.collection), "collection", mongodataset.DefaultCollectionName, "collection holding the dataset on MongoDB input")
	cmd.PersistentFlags().StringVar(&(config.name), "name", "", "name of the dataset on the report (defaults to the input)")
	cmd.PersistentFlags().StringVarP(&(config.planInput), "plan", "P", "", "path to a YAML plan listing datasets to evaluate, instead of a single dataset described by flags")
	cmd.PersistentFlags().StringVarP(&(config.positive), "positive", "p", "", "positive label for a binary evaluation (leave it and negative unset to evaluate accuracy only)")
	cmd.PersistentFlags().StringVarP(&(config.negative), "negative", "n", "", "negative label for a binary evaluation")
	cmd.PersistentFlags().StringVarP(&(config.missing), "missing", "m", "", "symbol for missing values: rows holding it are removed before evaluating")
	cmd.PersistentFlags().Float64VarP(&(config.trainRatio), "train-ratio", "r", experiment.DefaultTrainRatio, "fraction of the rows used to grow the tree on each run")
	cmd.PersistentFlags().IntVar(&(config.runs), "runs", experiment.DefaultRuns, "number of runs to average")
	cmd.PersistentFlags().IntVarP(&(config.workers), "workers", "w", experiment.DefaultWorkers, "number of runs processed concurrently")
	cmd.PersistentFlags().Int64VarP(&(config.seed), "seed", "s", 0, "seed for the random splits (defaults to 0: seeded from the current time)")
	cmd.PersistentFlags().StringVar(&(config.redisAddr), "redis-addr", "", "address of a redis server to keep the runs and results on (defaults to keeping them in memory)")
	cmd.PersistentFlags().IntVar(&(config.redisDB), "redis-db", 0, "redis database to use")
	cmd.PersistentFlags().StringVar(&(config.queueID), "queue-id", "", "prefix for the redis keys of the evaluation (defaults to a random one)")
	cmd.PersistentFlags().BoolVar(&(config.join), "join", false, "only work on the runs of an evaluation started by another process on the redis queue")
	cmd.PersistentFlags().DurationVar(&(config.taskMaxRun), "task-max-run", time.Minute, "time after which a run taken by a worker is considered abandoned and handed to another worker (0 to disable)")
	cmd.PersistentFlags().DurationVar(&(config.lockTTL), "lock-ttl", time.Second, "expiration of the redis locks on runs")
	return cmd
}

func (ecc *evaluateCmdConfig) Validate() error {
	if ecc.planInput != "" && ecc.input.path != "" {
		return fmt.Errorf("cannot set both plan and input flags")
	}
	if ecc.join && ecc.redisAddr == "" {
		return fmt.Errorf("join flag requires the redis-addr flag")
	}
	if ecc.join && ecc.queueID == "" {
		return fmt.Errorf("join flag requires the queue-id flag")
	}
	if ecc.input.labelColumn < 0 {
		return fmt.Errorf("label-column flag must not be negative")
	}
	if ecc.seed == 0 {
		ecc.seed = time.Now().UnixNano()
	}
	if ecc.queueID == "" {
		ecc.queueID = "wsi-tree:" + uuid.NewString()
	}
	if ecc.planInput == "" {
		cfg := experiment.Config{TrainRatio: ecc.trainRatio, Runs: ecc.runs, Positive: ecc.positive, Negative: ecc.negative, Workers: ecc.workers}
		return cfg.Validate()
	}
	return nil
}

func (ecc *evaluateCmdConfig) entries() ([]*yaml.Entry, error) {
	if ecc.planInput != "" {
		ecc.Logf("Reading evaluation plan from %s...", ecc.planInput)
		plan, err := yaml.ReadPlanFromFile(ecc.planInput)
		if err != nil {
			return nil, err
		}
		return plan.Entries, nil
	}
	name := ecc.name
	if name == "" {
		name = ecc.input.path
	}
	if name == "" {
		name = "STDIN"
	}
	trainRatio := ecc.trainRatio
	return []*yaml.Entry{{
		Name:        name,
		Input:       ecc.input.path,
		LabelColumn: ecc.input.labelColumn,
		Positive:    ecc.positive,
		Negative:    ecc.negative,
		Missing:     ecc.missing,
		TrainRatio:  &trainRatio,
		Runs:        ecc.runs,
	}}, nil
}

func (ecc *evaluateCmdConfig) evaluate(ctx context.Context, d *dataset.Dataset, cfg experiment.Config, i int) (*experiment.Summary, error) {
	q, rec := ecc.queue(i)
	defer q.Stop(ctx)
	return experiment.Evaluate(ctx, d, cfg, q, rec, ecc)
}

func (ecc *evaluateCmdConfig) joinEvaluation(ctx context.Context, d *dataset.Dataset, cfg experiment.Config, i int) error {
	q, rec := ecc.queue(i)
	defer q.Stop(ctx)
	ecc.Logf("Joining evaluation %s with %d workers...", ecc.evaluationID(i), cfg.Workers)
	errs := make(chan error, cfg.Workers)
	for w := 0; w < cfg.Workers; w++ {
		go func() {
			errs <- experiment.Work(ctx, d, cfg, q, rec, ecc, experiment.EmptyQueueSleep)
		}()
	}
	var err error
	for w := 0; w < cfg.Workers; w++ {
		if werr := <-errs; werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// queue returns the queue and recorder for the i-th evaluation, on redis
// if configured or in memory otherwise.
func (ecc *evaluateCmdConfig) queue(i int) (queue.Queue, experiment.Recorder) {
	if ecc.redisClient == nil {
		return queue.New(), experiment.NewRecorder()
	}
	id := ecc.evaluationID(i)
	q := redisq.New(id, ecc.redisClient, ecc.taskMaxRun, ecc.lockTTL, json.New())
	rec := redisq.NewRecorder(id, ecc.redisClient, json.NewResultEncodeDecoder())
	return q, rec
}

func (ecc *evaluateCmdConfig) evaluationID(i int) string {
	return fmt.Sprintf("%s:%d", ecc.queueID, i)
}
