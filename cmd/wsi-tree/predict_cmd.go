package main

import (
	"fmt"
	"os"

	decisiontree "github.com/mGarbowski/wsi-decision-tree"
	"github.com/mGarbowski/wsi-decision-tree/dataset/csv"
	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/mGarbowski/wsi-decision-tree/tree/json"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	treeCmdConfig
	queryInput string
	treeInput  string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{treeCmdConfig: treeCmdConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels for unlabelled rows",
		Long:  `Grow a decision tree on a dataset and use it to predict a label for each comma-separated unlabelled row of a query file, printing one label per line`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			clf, err := config.classifier()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			rows, err := config.queryRows()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			config.Logf("Predicting labels for %d rows...", len(rows))
			labels, err := clf.Predict(rows)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			for _, l := range labels {
				fmt.Println(l)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.input.path), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL with the dataset to grow the tree on (required unless tree is set)")
	cmd.PersistentFlags().IntVarP(&(config.input.labelColumn), "label-column", "l", 0, "index of the column holding the label on CSV input")
	cmd.PersistentFlags().StringVar(&(config.input.collection), "collection", mongodataset.DefaultCollectionName, "collection holding the dataset on MongoDB input")
	cmd.PersistentFlags().StringVarP(&(config.missing), "missing", "m", "", "symbol for missing values: rows holding it are removed before growing the tree")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which a tree grown with the tree command will be read and parsed as JSON, instead of growing one")
	cmd.PersistentFlags().StringVarP(&(config.queryInput), "query", "q", "", "path to a file with the rows to predict labels for, without labels (defaults to STDIN)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.input.path == "" && pcc.treeInput == "" {
		return fmt.Errorf("either input or tree flag must be set")
	}
	if pcc.input.path != "" && pcc.treeInput != "" {
		return fmt.Errorf("cannot set both input and tree flags")
	}
	return pcc.treeCmdConfig.Validate()
}

func (pcc *predictCmdConfig) queryRows() ([][]string, error) {
	if pcc.queryInput == "" {
		pcc.Logf("Reading rows to predict from STDIN...")
		return csv.ReadAttributes(os.Stdin)
	}
	f, err := os.Open(pcc.queryInput)
	if err != nil {
		return nil, fmt.Errorf("reading rows to predict: %v", err)
	}
	defer f.Close()
	return csv.ReadAttributes(f)
}

func (pcc *predictCmdConfig) classifier() (*decisiontree.Classifier, error) {
	if pcc.treeInput == "" {
		return pcc.train()
	}
	pcc.Logf("Reading tree from %s...", pcc.treeInput)
	root, err := json.ReadJSONTreeFromFilePath(pcc.treeInput)
	if err != nil {
		return nil, err
	}
	return decisiontree.New(root), nil
}
