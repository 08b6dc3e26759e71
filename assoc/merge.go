package assoc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.dedis.ch/onet/v3/log"
)

// Join keys pairing a logistic table with its --adjust companion.
var (
	PrimaryKeys  = []string{"CHR", "SNP", "P"}
	AdjustedKeys = []string{"CHR", "SNP", "UNADJ"}
)

// LeftJoin attaches right's columns to every row of left whose key columns
// match. Rows without a match get Missing; a row matching several right
// rows is repeated once per match. A key column that has the same name on
// both sides appears once, and other shared names get _x and _y suffixes.
// A right table with no columns at all is treated as having no rows.
func LeftJoin(left, right *Table, leftOn, rightOn []string) (*Table, error) {
	if len(leftOn) != len(rightOn) {
		return nil, fmt.Errorf("join keys differ in length: %d vs %d", len(leftOn), len(rightOn))
	}
	if len(right.Columns) == 0 {
		out := NewTable(left.Columns)
		out.Rows = append(out.Rows, left.Rows...)
		return out, nil
	}

	lk, err := left.mustCols(leftOn...)
	if err != nil {
		return nil, fmt.Errorf("left table: %w", err)
	}
	rk, err := right.mustCols(rightOn...)
	if err != nil {
		return nil, fmt.Errorf("right table: %w", err)
	}

	dropRight := map[int]bool{}
	for i := range leftOn {
		if leftOn[i] == rightOn[i] {
			dropRight[rk[i]] = true
		}
	}

	var rightCols []int
	for i := range right.Columns {
		if !dropRight[i] {
			rightCols = append(rightCols, i)
		}
	}

	inRight := map[string]bool{}
	for _, i := range rightCols {
		inRight[right.Columns[i]] = true
	}
	columns := make([]string, 0, len(left.Columns)+len(rightCols))
	shared := map[string]bool{}
	for _, c := range left.Columns {
		if inRight[c] && !isSameNameKey(c, leftOn, rightOn) {
			shared[c] = true
			columns = append(columns, c+"_x")
		} else {
			columns = append(columns, c)
		}
	}
	for _, i := range rightCols {
		c := right.Columns[i]
		if shared[c] {
			c += "_y"
		}
		columns = append(columns, c)
	}

	lookup := make(map[string][]int, len(right.Rows))
	for r, row := range right.Rows {
		k := joinKey(row, rk)
		lookup[k] = append(lookup[k], r)
	}

	out := NewTable(columns)
	for _, row := range left.Rows {
		matches := lookup[joinKey(row, lk)]
		if len(matches) == 0 {
			nr := append(append(make([]string, 0, len(columns)), row...), missingRow(len(rightCols))...)
			out.Rows = append(out.Rows, nr)
			continue
		}
		for _, m := range matches {
			nr := append(make([]string, 0, len(columns)), row...)
			for _, i := range rightCols {
				nr = append(nr, right.Rows[m][i])
			}
			out.Rows = append(out.Rows, nr)
		}
	}
	return out, nil
}

func isSameNameKey(c string, leftOn, rightOn []string) bool {
	for i := range leftOn {
		if leftOn[i] == c && rightOn[i] == c {
			return true
		}
	}
	return false
}

func missingRow(n int) []string {
	r := make([]string, n)
	for i := range r {
		r[i] = Missing
	}
	return r
}

// joinKey compares numeric cells by value so that "0.05" and "5e-02" match.
func joinKey(row []string, cols []int) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = normalizeKey(row[c])
	}
	return strings.Join(parts, "\x00")
}

func normalizeKey(s string) string {
	if IsMissing(s) {
		return Missing
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return s
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// MergeResults collects every primary and adjusted result file for model in
// dir and left-joins the adjusted statistics onto the primary rows.
func MergeResults(dir, prefix, model string) (*Table, error) {
	sr, err := Scan(dir, prefix, model)
	if err != nil {
		return nil, err
	}
	log.Lvl2("Found", len(sr.Primary), "primary and", len(sr.Adjusted), "adjusted files for", model)

	left, err := loadAll(sr.Primary)
	if err != nil {
		return nil, err
	}
	right, err := loadAll(sr.Adjusted)
	if err != nil {
		return nil, err
	}
	if len(left.Columns) == 0 {
		return left, nil
	}

	merged, err := LeftJoin(left, right, PrimaryKeys, AdjustedKeys)
	if err != nil {
		return nil, fmt.Errorf("merging %s results: %w", model, err)
	}
	log.LLvl1("Merged", merged.NumRows(), "rows for", model, "model")
	return merged, nil
}

func loadAll(files []string) (*Table, error) {
	tables := make([]*Table, 0, len(files))
	for _, f := range files {
		t, err := ReadTableFile(f)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
		tables = append(tables, t)
	}
	return Concat(tables...), nil
}
