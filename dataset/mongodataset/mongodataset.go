/*
Package mongodataset stores datasets on a MongoDB collection and loads
them back.

Each row is kept as a document with the following fields:
  * label: the label of the row
  * attributes: the array of attribute values of the row
  * position: the index of the row in the dataset, used to keep the order
*/
package mongodataset

import (
	"context"
	"fmt"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

// DefaultCollectionName is the collection used when none is given
const DefaultCollectionName = "rows"

// MaxRowInsertionsPerCommand is the maximum number of documents sent
// with a single insert command.
const MaxRowInsertionsPerCommand = 1000

type rowDocument struct {
	Label      string   `bson:"label"`
	Attributes []string `bson:"attributes"`
	Position   int      `bson:"position"`
}

/*
Store is a handle on the collection keeping a dataset on the default
database of a MongoDB session.
*/
type Store struct {
	session    *mgo.Session
	collection string
}

/*
Open takes a context, a MongoDB session and a collection name and returns
a Store for the collection with that name on the session's default
database, or an error if the index on the position field cannot be
ensured. An empty name selects DefaultCollectionName.
*/
func Open(ctx context.Context, session *mgo.Session, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollectionName
	}
	s := &Store{session, collection}
	err := s.ensureIndexes()
	if err != nil {
		return nil, fmt.Errorf("opening mongo dataset %s: %v", collection, err)
	}
	return s, nil
}

/*
Write takes a context and a dataset and appends the rows of the dataset to
the collection, after the rows already in it. It returns the number of rows
written or an error.
*/
func (s *Store) Write(ctx context.Context, d *dataset.Dataset) (int, error) {
	offset, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	attributes := d.Attributes()
	labels := d.Labels()
	docs := make([]interface{}, 0, MaxRowInsertionsPerCommand)
	written := 0
	for i, l := range labels {
		docs = append(docs, &rowDocument{Label: l, Attributes: attributes[i], Position: offset + i})
		if len(docs) < MaxRowInsertionsPerCommand && i < len(labels)-1 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}
		err = s.rows().Insert(docs...)
		if err != nil {
			return written, fmt.Errorf("writing rows %d to %d: %v", written, written+len(docs)-1, err)
		}
		written += len(docs)
		docs = docs[:0]
	}
	return written, nil
}

/*
Load takes a context and returns the dataset kept on the collection,
with its rows sorted by position, or an error.
*/
func (s *Store) Load(ctx context.Context) (*dataset.Dataset, error) {
	d := &dataset.Dataset{}
	err := s.Read(ctx, func(_ int, attrs []string, label string) (bool, error) {
		d.AddRow(attrs, label)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
Read takes a context and a lambda function and calls the lambda with the
index, attributes and label of each row on the collection, sorted by
position. Reading stops when the lambda returns false or an error, or
when the context is done, and the error is returned.
*/
func (s *Store) Read(ctx context.Context, lambda func(int, []string, string) (bool, error)) error {
	iter := s.rows().Find(bson.M{}).Sort("position").Iter()
	var doc rowDocument
	for i := 0; iter.Next(&doc); i++ {
		if err := ctx.Err(); err != nil {
			iter.Close()
			return err
		}
		attrs := doc.Attributes
		if attrs == nil {
			attrs = []string{}
		}
		ok, err := lambda(i, attrs, doc.Label)
		if err != nil {
			iter.Close()
			return err
		}
		if !ok {
			break
		}
		doc = rowDocument{}
	}
	err := iter.Close()
	if err != nil {
		return fmt.Errorf("reading mongo dataset %s: %v", s.collection, err)
	}
	return nil
}

// Count returns the number of rows on the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := s.rows().Count()
	if err != nil {
		return 0, fmt.Errorf("counting rows of mongo dataset %s: %v", s.collection, err)
	}
	return n, nil
}

// Drop removes the collection and all its rows.
func (s *Store) Drop(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.rows().DropCollection()
	if err != nil {
		return fmt.Errorf("dropping mongo dataset %s: %v", s.collection, err)
	}
	return nil
}

func (s *Store) ensureIndexes() error {
	index := mgo.Index{
		Key:        []string{"position"},
		Background: true,
	}
	return s.rows().EnsureIndex(index)
}

func (s *Store) rows() *mgo.Collection {
	return s.session.DB("").C(s.collection)
}
