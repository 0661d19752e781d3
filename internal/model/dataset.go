package model

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// ColumnKind is the detected semantic type of a column.
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
	KindBoolean ColumnKind = "boolean"
)

// Table is an in-memory, column-ordered dataset passed between pipeline
// stages. Cells are nil (null), int, float64 or string. Tables are not
// persisted as entities; export writes them back out as CSV.
type Table struct {
	Columns []string        `json:"columns"`
	Rows    [][]interface{} `json:"rows"`
}

// NewTable builds a table from a header and rows. Rows shorter than the
// header are padded with nulls so every row has len(Columns) cells.
func NewTable(columns []string, rows [][]interface{}) *Table {
	t := &Table{Columns: columns, Rows: rows}
	for i, row := range t.Rows {
		for len(row) < len(columns) {
			row = append(row, nil)
		}
		t.Rows[i] = row[:len(columns)]
	}
	return t
}

func (t *Table) NumRows() int { return len(t.Rows) }
func (t *Table) NumCols() int { return len(t.Columns) }

// ColumnIndex returns the position of a named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether a named column exists.
func (t *Table) HasColumn(name string) bool { return t.ColumnIndex(name) >= 0 }

// ColumnValues returns the cells of column i in row order.
func (t *Table) ColumnValues(i int) []interface{} {
	vals := make([]interface{}, 0, len(t.Rows))
	for _, row := range t.Rows {
		vals = append(vals, row[i])
	}
	return vals
}

// Clone deep-copies the table so stages can mutate freely.
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([][]interface{}, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append([]interface{}(nil), row...)
	}
	return &Table{Columns: cols, Rows: rows}
}

// NullCount returns the number of null cells in column i.
func (t *Table) NullCount(i int) int {
	n := 0
	for _, row := range t.Rows {
		if row[i] == nil {
			n++
		}
	}
	return n
}

// Kind infers the semantic type of column i from its non-null cells.
func (t *Table) Kind(i int) ColumnKind {
	numeric, boolean, seen := true, true, 0
	for _, row := range t.Rows {
		v := row[i]
		if v == nil {
			continue
		}
		seen++
		switch val := v.(type) {
		case int, float64:
			n, _ := toFloat(val)
			if n != 0 && n != 1 {
				boolean = false
			}
		case string:
			numeric = false
			switch strings.ToLower(val) {
			case "true", "false", "yes", "no":
			default:
				boolean = false
			}
		default:
			numeric = false
			boolean = false
		}
	}
	switch {
	case seen == 0:
		return KindText
	case boolean && !numeric:
		return KindBoolean
	case numeric:
		return KindNumeric
	default:
		return KindText
	}
}

// DropColumns removes the named columns, preserving the order of the rest.
func (t *Table) DropColumns(names []string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	keep := make([]int, 0, len(t.Columns))
	cols := make([]string, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !drop[c] {
			keep = append(keep, i)
			cols = append(cols, c)
		}
	}
	for r, row := range t.Rows {
		next := make([]interface{}, 0, len(keep))
		for _, i := range keep {
			next = append(next, row[i])
		}
		t.Rows[r] = next
	}
	t.Columns = cols
}

// DropRows removes the given row indices in one pass.
func (t *Table) DropRows(indices map[int]bool) {
	if len(indices) == 0 {
		return
	}
	rows := make([][]interface{}, 0, len(t.Rows))
	for i, row := range t.Rows {
		if !indices[i] {
			rows = append(rows, row)
		}
	}
	t.Rows = rows
}

// AddColumn appends a derived column. values must have one entry per row;
// missing entries are padded with nulls.
func (t *Table) AddColumn(name string, values []interface{}) {
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		var v interface{}
		if i < len(values) {
			v = values[i]
		}
		t.Rows[i] = append(t.Rows[i], v)
	}
}

// ContentHash computes a stable hash over header and row content in order,
// used to verify that reprocessing an already-clean table is a no-op.
func (t *Table) ContentHash() string {
	h := fnv.New64a()
	for _, c := range t.Columns {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	h.Write([]byte{'\n'})
	for _, row := range t.Rows {
		for _, v := range row {
			h.Write([]byte(FormatCell(v)))
			h.Write([]byte{0})
		}
		h.Write([]byte{'\n'})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// FormatCell renders a cell for CSV output and hashing. Nulls render empty.
func FormatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return fmt.Sprintf("%d", val)
	case float64:
		return trimFloat(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

// ValidationIssue is a single structural problem found in a loaded table.
type ValidationIssue struct {
	Column      string `json:"column"`
	Description string `json:"description"`
}
