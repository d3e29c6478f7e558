/*
Package dataset provides the in-memory collection of categorical rows
from which decision trees are grown and against which they are tested.

A row is a tuple of attribute values plus a label, all of them opaque
text tokens. A Dataset keeps rows as two parallel sequences: attribute
tuples and labels.
*/
package dataset

import (
	"fmt"
	"strings"
)

// Error represents an error related with datasets
type Error string

const (
	// ErrLengthMismatch is returned when building a dataset from attribute
	// and label sequences of different lengths.
	ErrLengthMismatch = Error("attributes and labels must have equal length")
	// ErrIndexOutOfRange is returned when requesting a row that does not
	// exist in the dataset.
	ErrIndexOutOfRange = Error("row index out of range")
	// ErrAttributeIndex is returned when a row has no value for a
	// requested attribute index.
	ErrAttributeIndex = Error("attribute index out of range")
	// ErrInvalidTrainRatio is returned when a train ratio outside [0, 1]
	// is requested.
	ErrInvalidTrainRatio = Error("train ratio must be between 0 and 1")
)

func (e Error) Error() string {
	return string(e)
}

/*
Dataset represents an ordered collection of rows. Attribute tuples and labels
are kept at corresponding indices of two slices of equal length.

The zero value is an empty dataset ready to use. Datasets only grow through
AddRow; every other operation returns new datasets and leaves the receiver
untouched.
*/
type Dataset struct {
	attributes [][]string
	labels     []string
}

/*
New takes a slice of attribute tuples and a slice of labels and returns a
dataset with them, or ErrLengthMismatch if both slices do not have the same
length. The slices are not copied.
*/
func New(attributes [][]string, labels []string) (*Dataset, error) {
	if len(attributes) != len(labels) {
		return nil, fmt.Errorf("%w: %d attribute tuples, %d labels", ErrLengthMismatch, len(attributes), len(labels))
	}
	return &Dataset{attributes, labels}, nil
}

// Size returns the number of rows in the dataset.
func (d *Dataset) Size() int {
	return len(d.attributes)
}

// IsEmpty returns whether the dataset has no rows.
func (d *Dataset) IsEmpty() bool {
	return d.Size() == 0
}

/*
Row takes an index and returns the attribute tuple and label at that
index, or ErrIndexOutOfRange if there is no such row.
*/
func (d *Dataset) Row(i int) ([]string, string, error) {
	if i < 0 || i >= d.Size() {
		return nil, "", fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, d.Size())
	}
	return d.attributes[i], d.labels[i], nil
}

/*
AddRow appends a row to the dataset. The arity of attrs is not checked
against the rows already present: keeping it consistent is up to the caller.
*/
func (d *Dataset) AddRow(attrs []string, label string) {
	d.attributes = append(d.attributes, attrs)
	d.labels = append(d.labels, label)
}

// Attributes returns the attribute tuples of the dataset. Callers must
// not modify the returned slice.
func (d *Dataset) Attributes() [][]string {
	return d.attributes
}

// Labels returns the labels of the dataset. Callers must not modify the
// returned slice.
func (d *Dataset) Labels() []string {
	return d.labels
}

// Equal returns whether both datasets hold the same rows in the same order.
func (d *Dataset) Equal(other *Dataset) bool {
	if d.Size() != other.Size() {
		return false
	}
	for i, l := range d.labels {
		if l != other.labels[i] {
			return false
		}
		a, b := d.attributes[i], other.attributes[i]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

/*
SplitByAttribute takes an attribute index and groups the rows of the dataset
by the value they hold at that index. It returns a map with a dataset for
each distinct value observed, in which rows keep their relative order.
An error is returned if any row has no attribute at the given index.
*/
func (d *Dataset) SplitByAttribute(attributeIndex int) (map[string]*Dataset, error) {
	result := make(map[string]*Dataset)
	for i, attrs := range d.attributes {
		if attributeIndex < 0 || attributeIndex >= len(attrs) {
			return nil, fmt.Errorf("splitting by attribute %d: row %d: %w", attributeIndex, i, ErrAttributeIndex)
		}
		v := attrs[attributeIndex]
		part, ok := result[v]
		if !ok {
			part = &Dataset{}
			result[v] = part
		}
		part.AddRow(attrs, d.labels[i])
	}
	return result, nil
}

/*
WithoutValue takes a value and returns a new dataset with the rows of the
receiver that do not hold that value for any of their attributes. It is meant
to drop rows with missing values marked with a placeholder such as "?".
*/
func (d *Dataset) WithoutValue(value string) *Dataset {
	result := &Dataset{}
rows:
	for i, attrs := range d.attributes {
		for _, v := range attrs {
			if v == value {
				continue rows
			}
		}
		result.AddRow(attrs, d.labels[i])
	}
	return result
}

func (d *Dataset) String() string {
	rows := make([]string, 0, d.Size())
	for i, attrs := range d.attributes {
		rows = append(rows, fmt.Sprintf("(%s) %s", strings.Join(attrs, ","), d.labels[i]))
	}
	return fmt.Sprintf("[%s]", strings.Join(rows, " "))
}
