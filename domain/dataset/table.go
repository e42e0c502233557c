// Package dataset holds the immutable observation table loaded from a switchback export.
package dataset

import (
	"fmt"
	"strings"

	"switchback/domain/core"
)

// ColumnKind is the inferred type of a column
type ColumnKind string

const (
	KindBool   ColumnKind = "bool"
	KindNumber ColumnKind = "number"
	KindText   ColumnKind = "text"
)

// Column describes one table column
type Column struct {
	Name string     `json:"name"`
	Kind ColumnKind `json:"kind"`
}

type cell struct {
	raw     string
	num     float64
	flag    bool
	present bool
}

// Table is an immutable, ordered set of observation rows.
// Filtered tables share cells with their parent.
type Table struct {
	columns []Column
	index   map[string]int
	cells   [][]cell
	rows    []int
	lines   []int
}

// NewTable builds a table from a header and raw string records, inferring
// each column's kind. Short records are padded with empty cells.
// Rows report their record number, counting from 1, as their line.
func NewTable(header []string, records [][]string) (*Table, error) {
	return NewTableWithLines(header, records, nil)
}

// NewTableWithLines is NewTable for records read from a file: lines[i] is the
// source line of records[i], so errors point into the file.
func NewTableWithLines(header []string, records [][]string, lines []int) (*Table, error) {
	if lines != nil && len(lines) != len(records) {
		return nil, fmt.Errorf("%d line numbers for %d records", len(lines), len(records))
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: header row is empty", core.ErrSchema)
	}

	t := &Table{
		columns: make([]Column, len(header)),
		index:   make(map[string]int, len(header)),
		cells:   make([][]cell, len(records)),
		rows:    make([]int, len(records)),
		lines:   lines,
	}

	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has no name", core.ErrSchema, i+1)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", core.ErrSchema, name)
		}
		t.index[name] = i

		values := make([]string, len(records))
		for r, rec := range records {
			if i < len(rec) {
				values[r] = rec[i]
			}
		}
		t.columns[i] = Column{Name: name, Kind: inferKind(values)}
	}

	for r, rec := range records {
		row := make([]cell, len(header))
		for i, col := range t.columns {
			if i >= len(rec) {
				continue
			}
			raw := strings.TrimSpace(rec[i])
			c := cell{raw: raw, present: raw != ""}
			if c.present {
				switch col.Kind {
				case KindBool:
					c.flag, _ = ParseBool(raw)
				case KindNumber:
					c.num, _ = ParseNumber(raw)
				}
			}
			row[i] = c
		}
		t.cells[r] = row
		t.rows[r] = r
	}

	return t, nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Require fails with a schema error naming the first absent column
func (t *Table) Require(names ...string) error {
	for _, name := range names {
		if _, ok := t.index[name]; !ok {
			return core.NewColumnMissingError(name)
		}
	}
	return nil
}

// Row returns the i-th row of this table
func (t *Table) Row(i int) Row {
	return Row{table: t, pos: t.rows[i]}
}

// Rows returns all rows in original order
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, pos := range t.rows {
		out[i] = Row{table: t, pos: pos}
	}
	return out
}

// Filter returns a view holding the rows for which keep is true, in order
func (t *Table) Filter(keep func(Row) (bool, error)) (*Table, error) {
	view := &Table{
		columns: t.columns,
		index:   t.index,
		cells:   t.cells,
		rows:    make([]int, 0, len(t.rows)),
		lines:   t.lines,
	}
	for _, pos := range t.rows {
		ok, err := keep(Row{table: t, pos: pos})
		if err != nil {
			return nil, err
		}
		if ok {
			view.rows = append(view.rows, pos)
		}
	}
	return view, nil
}

// Row is a read-only handle on one observation
type Row struct {
	table *Table
	pos   int
}

// Line is the source line the row was loaded from
func (r Row) Line() int {
	if r.table.lines != nil {
		return r.table.lines[r.pos]
	}
	return r.pos + 1
}

func (r Row) lookup(name string) (Column, cell, error) {
	i, ok := r.table.index[name]
	if !ok {
		return Column{}, cell{}, core.NewColumnMissingError(name)
	}
	c := r.table.cells[r.pos][i]
	if !c.present {
		return Column{}, cell{}, core.NewValueMissingError(name, r.Line())
	}
	return r.table.columns[i], c, nil
}

// Float reads a numeric column
func (r Row) Float(name string) (float64, error) {
	col, c, err := r.lookup(name)
	if err != nil {
		return 0, err
	}
	if col.Kind != KindNumber {
		return 0, core.NewColumnTypeError(name, string(KindNumber), string(col.Kind))
	}
	return c.num, nil
}

// Bool reads a boolean column. Numeric columns are accepted as flags (non-zero is true).
func (r Row) Bool(name string) (bool, error) {
	col, c, err := r.lookup(name)
	if err != nil {
		return false, err
	}
	switch col.Kind {
	case KindBool:
		return c.flag, nil
	case KindNumber:
		return c.num != 0, nil
	}
	return false, core.NewColumnTypeError(name, string(KindBool), string(col.Kind))
}

// Text returns the trimmed raw cell
func (r Row) Text(name string) (string, error) {
	_, c, err := r.lookup(name)
	if err != nil {
		return "", err
	}
	return c.raw, nil
}
