package sqldataset

import (
	"database/sql"
	"fmt"
	"testing"
)

type dollarAdapter struct{}

func (dollarAdapter) DB() *sql.DB                         { return nil }
func (dollarAdapter) IDColumnDefinition(n string) string { return n }
func (dollarAdapter) Placeholder(i int) string           { return fmt.Sprintf("$%d", i) }
func (dollarAdapter) Close() error                       { return nil }

func TestInsertStatement(t *testing.T) {
	got := insertStatement(dollarAdapter{}, []string{"label", "a0", "a1"}, 2)
	want := `INSERT INTO "rows" ("label", "a0", "a1") VALUES ($1, $2, $3), ($4, $5, $6)`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestColumnPositions(t *testing.T) {
	labelPos, attrPos, err := columnPositions([]string{"a1", "label", "a0", "id", "a2"})
	if err != nil {
		t.Fatal(err)
	}
	if labelPos != 1 {
		t.Errorf("label at %d, want 1", labelPos)
	}
	want := []int{2, 0, 4}
	for i := range want {
		if attrPos[i] != want[i] {
			t.Fatalf("attribute positions %v, want %v", attrPos, want)
		}
	}
	for _, bad := range [][]string{
		{"id", "a0"},
		{"label", "a0", "a2"},
		{"label", "color"},
		{"label", "ax"},
	} {
		if _, _, err := columnPositions(bad); err == nil {
			t.Errorf("expected an error for columns %v", bad)
		}
	}
}
