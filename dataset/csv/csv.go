/*
Package csv reads and writes datasets as plain comma-separated text.

Each line holds one row. One of its fields, at a fixed column, is the label;
the others are the attributes in their original relative order. There is no
header row and no quoting or escaping: every comma separates two fields.
*/
package csv

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
)

// DefaultLabelColumn is the column holding the label when none is given.
const DefaultLabelColumn = 0

/*
ReadDataset takes an io.Reader and the index of the label column and returns
a dataset with a row for each line read, or an error.

Lines are trimmed of surrounding whitespace and split on every comma. A blank
line is not skipped: with the label on column 0 it becomes a row with an empty
label and no attributes. A line with fewer fields than the label column
requires makes ReadDataset fail.
*/
func ReadDataset(reader io.Reader, labelColumn int) (*dataset.Dataset, error) {
	d := &dataset.Dataset{}
	err := ReadDatasetByRow(reader, labelColumn, func(_ int, attrs []string, label string) (bool, error) {
		d.AddRow(attrs, label)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
ReadDatasetByRow takes an io.Reader, the index of the label column and a
lambda function on an integer, an attribute tuple and a label that returns a
boolean value. It parses rows from the reader and calls the lambda with each
of them and its index. If the lambda returns true, it continues with the next
row, otherwise it stops. An error is returned if something goes wrong reading
or parsing a line.
*/
func ReadDatasetByRow(reader io.Reader, labelColumn int, lambda func(int, []string, string) (bool, error)) error {
	if labelColumn < 0 {
		return fmt.Errorf("invalid label column %d", labelColumn)
	}
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for l := 0; scanner.Scan(); l++ {
		attrs, label, err := parseRow(scanner.Text(), labelColumn)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l+1, err)
		}
		ok, err := lambda(l, attrs, label)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading rows: %v", err)
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string and the index of the label
column, opens the file (os.Stdin if the filepath is "") and uses ReadDataset
to return the dataset in it or an error.
*/
func ReadDatasetFromFilePath(filepath string, labelColumn int) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading dataset: %v", err)
		}
		defer f.Close()
	}
	d, err := ReadDataset(f, labelColumn)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return d, err
}

/*
WriteDataset takes an io.Writer, a dataset and the index of the label column
and writes every row of the dataset as a line, inserting the label back at its
column. Rows whose attribute tuple is shorter than the label column get the
label appended at the end. It returns an error if writing fails.
*/
func WriteDataset(writer io.Writer, d *dataset.Dataset, labelColumn int) error {
	w := bufio.NewWriter(writer)
	labels := d.Labels()
	for i, attrs := range d.Attributes() {
		_, err := w.WriteString(formatRow(attrs, labels[i], labelColumn))
		if err != nil {
			return fmt.Errorf("writing row %d: %v", i+1, err)
		}
		err = w.WriteByte('\n')
		if err != nil {
			return fmt.Errorf("writing row %d: %v", i+1, err)
		}
	}
	return w.Flush()
}

/*
WriteDatasetToFilePath takes a filepath string, a dataset and the index of
the label column and writes the dataset with WriteDataset onto the file,
creating or truncating it (os.Stdout is used if the filepath is "").
*/
func WriteDatasetToFilePath(filepath string, d *dataset.Dataset, labelColumn int) error {
	if filepath == "" {
		return WriteDataset(os.Stdout, d, labelColumn)
	}
	f, err := os.Create(filepath)
	if err != nil {
		return fmt.Errorf("writing dataset: %v", err)
	}
	err = WriteDataset(f, d, labelColumn)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func parseRow(line string, labelColumn int) ([]string, string, error) {
	values := strings.Split(strings.TrimSpace(line), ",")
	if labelColumn >= len(values) {
		return nil, "", fmt.Errorf("label column %d missing on a row with %d fields", labelColumn, len(values))
	}
	label := values[labelColumn]
	attrs := make([]string, 0, len(values)-1)
	attrs = append(attrs, values[:labelColumn]...)
	attrs = append(attrs, values[labelColumn+1:]...)
	return attrs, label, nil
}

func formatRow(attrs []string, label string, labelColumn int) string {
	if labelColumn > len(attrs) {
		labelColumn = len(attrs)
	}
	fields := make([]string, 0, len(attrs)+1)
	fields = append(fields, attrs[:labelColumn]...)
	fields = append(fields, label)
	fields = append(fields, attrs[labelColumn:]...)
	return strings.Join(fields, ",")
}

/*
ReadAttributes takes an io.Reader with unlabelled rows, one per line, and
returns the attribute tuple of each non-blank line, or an error.
*/
func ReadAttributes(reader io.Reader) ([][]string, error) {
	var rows [][]string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		rows = append(rows, strings.Split(line, ","))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %v", err)
	}
	return rows, nil
}
