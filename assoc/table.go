// Package assoc loads, concatenates and joins the flat result tables plink
// writes for association tests.
package assoc

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Missing is how plink, and this package, spell an absent value.
const Missing = "NA"

var ErrMissingColumn = errors.New("column not found")

// Table is a rectangular, string-typed view of a result file. Columns keep
// file order; every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

func NewTable(columns []string) *Table {
	t := &Table{Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

func (t *Table) NumRows() int {
	return len(t.Rows)
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Col returns the position of a column or -1.
func (t *Table) Col(name string) int {
	if t.index == nil {
		t.reindex()
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

func (t *Table) mustCols(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = t.Col(n)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, n)
		}
	}
	return idx, nil
}

func (t *Table) Get(row int, col string) string {
	c := t.Col(col)
	if c < 0 {
		return Missing
	}
	return t.Rows[row][c]
}

// Float parses a cell, returning NaN for missing or non-numeric values.
func (t *Table) Float(row int, col string) float64 {
	return parseFloat(t.Get(row, col))
}

func parseFloat(s string) float64 {
	if IsMissing(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func IsMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "na", "nan":
		return true
	}
	return false
}

// ReadTable parses a whitespace-delimited table with a header line.
func ReadTable(r io.Reader) (*Table, error) {
	ts, err := newReaderStream(r)
	if err != nil {
		return nil, err
	}
	return ts.ToTable()
}

func ReadTableFile(filename string) (*Table, error) {
	ts, err := NewTableStream(filename)
	if err != nil {
		return nil, err
	}
	defer ts.Close()
	return ts.ToTable()
}

// Concat stacks tables row-wise in argument order over the union of their
// columns. Cells for columns a table lacks are Missing.
func Concat(tables ...*Table) *Table {
	var columns []string
	seen := map[string]bool{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				columns = append(columns, c)
			}
		}
	}

	out := NewTable(columns)
	for _, t := range tables {
		pos := make([]int, len(columns))
		for i, c := range columns {
			pos[i] = t.Col(c)
		}
		for _, row := range t.Rows {
			nr := make([]string, len(columns))
			for i, p := range pos {
				if p < 0 {
					nr[i] = Missing
				} else {
					nr[i] = row[p]
				}
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out
}
