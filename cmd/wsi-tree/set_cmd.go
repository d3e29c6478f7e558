package main

import (
	"fmt"
	"os"

	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/spf13/cobra"
)

type setCmdConfig struct {
	*rootCmdConfig
	input   datasetLocation
	output  datasetLocation
	missing string
}

func setCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &setCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Copy a dataset between storages",
		Long:  `Copy a dataset from a CSV file, SQLite3 file, PostgreSQL DB or MongoDB collection into another, optionally dropping the rows with missing values`,
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
			d = withoutMissing(d, config.missing, logger(config.verbose))
			err = writeDataset(ctx, &config.output, d, logger(config.verbose))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Done: %d rows written to %s", d.Size(), &config.output)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input.path), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to copy (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.output.path), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to copy the dataset to (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().IntVarP(&(config.input.labelColumn), "label-column", "l", 0, "index of the column holding the label on CSV input")
	cmd.PersistentFlags().IntVar(&(config.output.labelColumn), "output-label-column", 0, "index of the column holding the label on CSV output")
	cmd.PersistentFlags().IntVar(&(config.input.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	cmd.PersistentFlags().StringVar(&(config.input.collection), "collection", mongodataset.DefaultCollectionName, "collection holding the dataset on MongoDB input")
	cmd.PersistentFlags().StringVar(&(config.output.collection), "output-collection", mongodataset.DefaultCollectionName, "collection for the dataset on MongoDB output")
	cmd.PersistentFlags().StringVarP(&(config.missing), "missing", "m", "", "symbol for missing values: rows holding it are not copied")
	return cmd
}

func (scc *setCmdConfig) Validate() error {
	if scc.input.labelColumn < 0 || scc.output.labelColumn < 0 {
		return fmt.Errorf("label column flags must not be negative")
	}
	if scc.input.path != "" && scc.input.path == scc.output.path && scc.input.collection == scc.output.collection {
		return fmt.Errorf("input and output must differ")
	}
	scc.output.maxDBConns = scc.input.maxDBConns
	return nil
}
