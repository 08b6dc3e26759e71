package assoc

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
)

var ErrEmptyTable = errors.New("table has no rows")

// Matrix packs the named numeric columns into a rows x len(cols) matrix.
// Missing or non-numeric cells become NaN.
func (t *Table) Matrix(cols ...string) (*mat.Dense, error) {
	idx, err := t.mustCols(cols...)
	if err != nil {
		return nil, err
	}
	if t.Empty() || len(cols) == 0 {
		return nil, ErrEmptyTable
	}

	data := make([]float64, len(t.Rows)*len(cols))
	for i, row := range t.Rows {
		for j, c := range idx {
			data[i*len(cols)+j] = parseFloat(row[c])
		}
	}
	return mat.NewDense(len(t.Rows), len(cols), data), nil
}

// WriteTable writes t as aligned, whitespace-delimited text that ReadTable
// can read back.
func WriteTable(w io.Writer, t *Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(t.Columns, "\t")); err != nil {
		return err
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if IsMissing(c) {
				c = Missing
			}
			cells[i] = c
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
