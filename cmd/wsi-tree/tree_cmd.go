package main

import (
	"fmt"
	"os"
	"strings"

	decisiontree "github.com/mGarbowski/wsi-decision-tree"
	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/mGarbowski/wsi-decision-tree/tree"
	"github.com/mGarbowski/wsi-decision-tree/tree/json"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	input   datasetLocation
	missing string
	names   string
	output  string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Grow a decision tree and print it",
		Long:  `Grow a decision tree on a whole dataset and print it, with its internal nodes named after the attributes they test`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			clf, err := config.train()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			if config.output != "" {
				err = outputTree(config.output, clf.Root())
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				config.Logf("Tree written to %s", config.output)
				return
			}
			var names []string
			if config.names != "" {
				names = strings.Split(config.names, ",")
			}
			fmt.Print(tree.Render(clf.Root(), names))
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input.path), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to grow the tree on (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().IntVarP(&(config.input.labelColumn), "label-column", "l", 0, "index of the column holding the label on CSV input")
	cmd.PersistentFlags().StringVar(&(config.input.collection), "collection", mongodataset.DefaultCollectionName, "collection holding the dataset on MongoDB input")
	cmd.PersistentFlags().StringVarP(&(config.missing), "missing", "m", "", "symbol for missing values: rows holding it are removed before growing the tree")
	cmd.PersistentFlags().StringVarP(&(config.names), "names", "n", "", "comma-separated names of the attributes, in order, to print instead of their indices")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the grown tree will be written in JSON format instead of printing it")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	if tcc.input.labelColumn < 0 {
		return fmt.Errorf("label-column flag must not be negative")
	}
	return nil
}

func (tcc *treeCmdConfig) train() (*decisiontree.Classifier, error) {
	d, err := readDataset(tcc.Context(), &tcc.input, logger(tcc.verbose))
	if err != nil {
		return nil, err
	}
	d = withoutMissing(d, tcc.missing, logger(tcc.verbose))
	tcc.Logf("Growing tree from a dataset with %d rows...", d.Size())
	clf, err := decisiontree.Train(d)
	if err != nil {
		return nil, fmt.Errorf("growing the tree: %v", err)
	}
	tcc.Logf("Grown tree has depth %d and %d leaves", tree.Depth(clf.Root()), tree.CountLeaves(clf.Root()))
	return clf, nil
}

func outputTree(outputPath string, root tree.Node) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("writing tree: %v", err)
	}
	err = json.WriteJSONTree(f, root)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
