package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/mGarbowski/wsi-decision-tree/experiment"
	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	*rootCmdConfig
	input       datasetLocation
	output      datasetLocation
	splitOutput datasetLocation
	trainRatio  float64
	seed        int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a dataset into a train and a test dataset",
		Long:  `Split a dataset at random into an output dataset with a given fraction of its rows, to train on, and a split dataset with the rest, to test on`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			ctx := config.Context()
			d, err := readDataset(ctx, &config.input, logger(config.verbose))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			config.Logf("Splitting dataset with %d rows using seed %d...", d.Size(), config.seed)
			train, test, err := d.TrainTestSplit(config.trainRatio, rand.New(rand.NewSource(config.seed)))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			err = writeDataset(ctx, &config.output, train, logger(config.verbose))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			err = writeDataset(ctx, &config.splitOutput, test, logger(config.verbose))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Done")
			config.Logf("Input dataset with %d rows was split into datasets with %d and %d rows", d.Size(), train.Size(), test.Size())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input.path), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to split (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.output.path), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the train dataset (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput.path), "split-output", "s", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to dump the test dataset (required)")
	cmd.PersistentFlags().IntVarP(&(config.input.labelColumn), "label-column", "l", 0, "index of the column holding the label on CSV input and output")
	cmd.PersistentFlags().StringVar(&(config.input.collection), "collection", mongodataset.DefaultCollectionName, "collection holding the dataset on MongoDB input")
	cmd.PersistentFlags().StringVar(&(config.output.collection), "output-collection", mongodataset.DefaultCollectionName+"_train", "collection for the train dataset on MongoDB output")
	cmd.PersistentFlags().StringVar(&(config.splitOutput.collection), "split-output-collection", mongodataset.DefaultCollectionName+"_test", "collection for the test dataset on MongoDB output")
	cmd.PersistentFlags().Float64VarP(&(config.trainRatio), "train-ratio", "r", experiment.DefaultTrainRatio, "fraction of the rows assigned to the output dataset")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random split (defaults to 0: seeded from the current time)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput.path == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.trainRatio < 0 || scc.trainRatio > 1 {
		return fmt.Errorf("train-ratio flag was set to an invalid value: it must be between 0 and 1")
	}
	if scc.input.labelColumn < 0 {
		return fmt.Errorf("label-column flag must not be negative")
	}
	scc.output.labelColumn = scc.input.labelColumn
	scc.splitOutput.labelColumn = scc.input.labelColumn
	if scc.seed == 0 {
		scc.seed = time.Now().UnixNano()
	}
	return nil
}
