package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	"github.com/mGarbowski/wsi-decision-tree/dataset/csv"
	"github.com/mGarbowski/wsi-decision-tree/dataset/mongodataset"
	"github.com/mGarbowski/wsi-decision-tree/dataset/sqldataset"
	"github.com/mGarbowski/wsi-decision-tree/dataset/sqldataset/pgadapter"
	"github.com/mGarbowski/wsi-decision-tree/dataset/sqldataset/sqlite3adapter"
	mgo "gopkg.in/mgo.v2"
)

/*
datasetLocation describes where a dataset is read from or written to:
  * a PostgreSQL DB connection URL (postgresql:// or postgres://),
  * a MongoDB connection URL (mongodb://), using the given collection,
  * a SQLite3 file (.db),
  * a CSV file otherwise, with STDIN or STDOUT standing for "".
*/
type datasetLocation struct {
	path        string
	labelColumn int
	maxDBConns  int
	collection  string
}

func (dl *datasetLocation) String() string {
	if dl.path == "" {
		return "STDIN/STDOUT"
	}
	return dl.path
}

func (dl *datasetLocation) isPostgreSQL() bool {
	return strings.HasPrefix(dl.path, "postgresql://") || strings.HasPrefix(dl.path, "postgres://")
}

func (dl *datasetLocation) isMongoDB() bool {
	return strings.HasPrefix(dl.path, "mongodb://")
}

func (dl *datasetLocation) isSQLite3() bool {
	return strings.HasSuffix(dl.path, ".db")
}

func (dl *datasetLocation) sqlAdapter() (sqldataset.Adapter, error) {
	if dl.isPostgreSQL() {
		return pgadapter.New(dl.path)
	}
	return sqlite3adapter.New(dl.path, dl.maxDBConns)
}

func (dl *datasetLocation) mongoStore(ctx context.Context) (*mongodataset.Store, func(), error) {
	session, err := mgo.Dial(dl.path)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to %s: %v", dl.path, err)
	}
	s, err := mongodataset.Open(ctx, session, dl.collection)
	if err != nil {
		session.Close()
		return nil, nil, err
	}
	return s, session.Close, nil
}

func readDataset(ctx context.Context, dl *datasetLocation, l logger) (*dataset.Dataset, error) {
	switch {
	case dl.isPostgreSQL() || dl.isSQLite3():
		l.Logf("Opening SQL adapter for %s to read dataset...", dl)
		a, err := dl.sqlAdapter()
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.Load(ctx, a)
	case dl.isMongoDB():
		l.Logf("Connecting to %s to read dataset...", dl)
		s, closeFn, err := dl.mongoStore(ctx)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		return s.Load(ctx)
	}
	l.Logf("Reading CSV dataset from %s...", dl)
	return csv.ReadDatasetFromFilePath(dl.path, dl.labelColumn)
}

func writeDataset(ctx context.Context, dl *datasetLocation, d *dataset.Dataset, l logger) error {
	switch {
	case dl.isPostgreSQL() || dl.isSQLite3():
		l.Logf("Opening SQL adapter for %s to write dataset...", dl)
		a, err := dl.sqlAdapter()
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.Create(ctx, a, d)
		return err
	case dl.isMongoDB():
		l.Logf("Connecting to %s to write dataset...", dl)
		s, closeFn, err := dl.mongoStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()
		_, err = s.Write(ctx, d)
		return err
	}
	l.Logf("Writing CSV dataset to %s...", dl)
	return csv.WriteDatasetToFilePath(dl.path, d, dl.labelColumn)
}

// withoutMissing returns the dataset without the rows holding the
// missing symbol, or the dataset itself if the symbol is empty.
func withoutMissing(d *dataset.Dataset, missing string, l logger) *dataset.Dataset {
	if missing == "" {
		return d
	}
	clean := d.WithoutValue(missing)
	l.Logf("Removed %d of %d rows holding %q", d.Size()-clean.Size(), d.Size(), missing)
	return clean
}
