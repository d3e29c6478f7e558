/*
Package sqldataset stores datasets on SQL databases and loads them back.

A dataset is kept on a single table named rows, with an autoincremented id
column that keeps the order of the rows, a label column and a column per
attribute named a0, a1, ... All values are kept as TEXT.

Database specifics are left to an Adapter, with implementations for
SQLite3 and PostgreSQL in the sqlite3adapter and pgadapter subpackages.
*/
package sqldataset

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mGarbowski/wsi-decision-tree/dataset"
)

const (
	// TableName is the name of the table holding the rows
	TableName = "rows"
	// LabelColumn is the name of the column holding the labels
	LabelColumn = "label"
	// IDColumn is the name of the column keeping the order of the rows
	IDColumn = "id"
	/*
		MaxRowInsertionsPerStatement is the maximum number of rows that
		are added with a single insert command. Adding more results in
		making more insertion commands.
	*/
	MaxRowInsertionsPerStatement = 10
)

/*
Adapter is an interface providing the database specifics needed to store
datasets on a SQL database.
*/
type Adapter interface {
	// DB returns the database handle of the adapter
	DB() *sql.DB
	// IDColumnDefinition returns the definition for an autoincremented
	// integer primary key column with the given name
	IDColumnDefinition(name string) string
	// Placeholder returns the bind parameter for the i-th argument of a
	// statement, starting at 1
	Placeholder(i int) string
	// Close releases the database handle
	Close() error
}

// AttributeColumn returns the name of the column holding the attribute
// with the given index.
func AttributeColumn(i int) string {
	return fmt.Sprintf("a%d", i)
}

/*
Create takes a context, an adapter and a dataset, ensures the rows table
exists on the adapter's database and appends the rows of the dataset to it
in a single transaction. All rows must have the same number of attributes.
It returns the number of rows written or an error.
*/
func Create(ctx context.Context, a Adapter, d *dataset.Dataset) (int, error) {
	arity := 0
	if attrs, _, err := d.Row(0); err == nil {
		arity = len(attrs)
	}
	for i, attrs := range d.Attributes() {
		if len(attrs) != arity {
			return 0, fmt.Errorf("storing dataset: row %d has %d attributes, expected %d", i, len(attrs), arity)
		}
	}
	columns := make([]string, 0, arity+1)
	columns = append(columns, LabelColumn)
	for i := 0; i < arity; i++ {
		columns = append(columns, AttributeColumn(i))
	}
	err := createTable(ctx, a, columns)
	if err != nil {
		return 0, err
	}
	tx, err := a.DB().BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("storing dataset: starting transaction: %v", err)
	}
	n, err := insertRows(ctx, a, tx, columns, d)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("storing dataset: committing %d rows: %v", n, err)
	}
	return n, nil
}

/*
Load takes a context and an adapter and returns the dataset stored on the
adapter's database with the rows in the order they were written, or an
error. The attribute columns are discovered from the table itself.
*/
func Load(ctx context.Context, a Adapter) (*dataset.Dataset, error) {
	d := &dataset.Dataset{}
	err := IterateOnRows(ctx, a, func(_ int, attrs []string, label string) (bool, error) {
		d.AddRow(attrs, label)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
IterateOnRows takes a context, an adapter and a lambda function and calls
the lambda with the index, attributes and label of each stored row in
order. Iteration stops when the lambda returns false or an error, and
the error is returned.
*/
func IterateOnRows(ctx context.Context, a Adapter, lambda func(int, []string, string) (bool, error)) error {
	rows, err := a.DB().QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q ORDER BY %q`, TableName, IDColumn))
	if err != nil {
		return fmt.Errorf("loading dataset: %v", err)
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("loading dataset: listing columns: %v", err)
	}
	labelPos, attrPos, err := columnPositions(columns)
	if err != nil {
		return fmt.Errorf("loading dataset: %v", err)
	}
	values := make([]sql.NullString, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for j := 0; rows.Next(); j++ {
		err = rows.Scan(dest...)
		if err != nil {
			return fmt.Errorf("loading dataset: scanning row %d: %v", j, err)
		}
		attrs := make([]string, len(attrPos))
		for i, p := range attrPos {
			attrs[i] = values[p].String
		}
		ok, err := lambda(j, attrs, values[labelPos].String)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	err = rows.Err()
	if err != nil {
		return fmt.Errorf("loading dataset: %v", err)
	}
	return nil
}

// columnPositions returns the position of the label column and the
// positions of the attribute columns sorted by attribute index.
func columnPositions(columns []string) (int, []int, error) {
	labelPos := -1
	type attrColumn struct{ index, pos int }
	var attrColumns []attrColumn
	for pos, c := range columns {
		switch {
		case c == LabelColumn:
			labelPos = pos
		case c == IDColumn:
		case strings.HasPrefix(c, "a"):
			index, err := strconv.Atoi(c[1:])
			if err != nil {
				return 0, nil, fmt.Errorf("unexpected column %q", c)
			}
			attrColumns = append(attrColumns, attrColumn{index, pos})
		default:
			return 0, nil, fmt.Errorf("unexpected column %q", c)
		}
	}
	if labelPos < 0 {
		return 0, nil, fmt.Errorf("no %q column", LabelColumn)
	}
	sort.Slice(attrColumns, func(i, j int) bool { return attrColumns[i].index < attrColumns[j].index })
	attrPos := make([]int, 0, len(attrColumns))
	for i, ac := range attrColumns {
		if ac.index != i {
			return 0, nil, fmt.Errorf("missing column %q", AttributeColumn(i))
		}
		attrPos = append(attrPos, ac.pos)
	}
	return labelPos, attrPos, nil
}

func createTable(ctx context.Context, a Adapter, columns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString(fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q(", TableName))
	for _, c := range columns {
		createStmtBuf.WriteString(fmt.Sprintf(`%q TEXT NOT NULL, `, c))
	}
	createStmtBuf.WriteString(a.IDColumnDefinition(IDColumn))
	createStmtBuf.WriteString(")")
	_, err := a.DB().ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring %s table exists: %v", TableName, err)
	}
	return nil
}

func insertRows(ctx context.Context, a Adapter, tx *sql.Tx, columns []string, d *dataset.Dataset) (int, error) {
	attributes := d.Attributes()
	labels := d.Labels()
	var fullStmt *sql.Stmt
	defer func() {
		if fullStmt != nil {
			fullStmt.Close()
		}
	}()
	for chunkStart := 0; chunkStart < len(labels); chunkStart += MaxRowInsertionsPerStatement {
		chunkEnd := chunkStart + MaxRowInsertionsPerStatement
		if chunkEnd > len(labels) {
			chunkEnd = len(labels)
		}
		args := make([]interface{}, 0, (chunkEnd-chunkStart)*len(columns))
		for i := chunkStart; i < chunkEnd; i++ {
			args = append(args, labels[i])
			for _, v := range attributes[i] {
				args = append(args, v)
			}
		}
		var err error
		if chunkEnd-chunkStart == MaxRowInsertionsPerStatement {
			if fullStmt == nil {
				fullStmt, err = tx.PrepareContext(ctx, insertStatement(a, columns, MaxRowInsertionsPerStatement))
				if err != nil {
					return chunkStart, fmt.Errorf("preparing insert command for %d rows: %v", MaxRowInsertionsPerStatement, err)
				}
			}
			_, err = fullStmt.ExecContext(ctx, args...)
		} else {
			_, err = tx.ExecContext(ctx, insertStatement(a, columns, chunkEnd-chunkStart), args...)
		}
		if err != nil {
			return chunkStart, fmt.Errorf("inserting rows %d to %d: %v", chunkStart, chunkEnd-1, err)
		}
	}
	return len(labels), nil
}

// insertStatement returns an insert command for n rows with the given
// columns using the adapter's placeholders.
func insertStatement(a Adapter, columns []string, n int) string {
	var buf bytes.Buffer
	quoted := make([]string, 0, len(columns))
	for _, c := range columns {
		quoted = append(quoted, strconv.Quote(c))
	}
	buf.WriteString(fmt.Sprintf("INSERT INTO %q (%s) VALUES ", TableName, strings.Join(quoted, ", ")))
	arg := 1
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString("(")
		for j := range columns {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(a.Placeholder(arg))
			arg++
		}
		buf.WriteString(")")
	}
	return buf.String()
}
