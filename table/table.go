// Package table provides a small row-based in-memory table representation.
//
// Think of it as a much simpler, predictable replacement for a dataframe
// library, for doing relational transforms on small in-memory tables
// (hundreds or thousands of rows). A Table is an ordered list of named
// columns and a list of rows. None of the operations mutate their receiver:
// every operation returns a new Table, favoring ease of reasoning over
// efficiency.
package table

import (
	"fmt"
	"iter"
	"slices"
)

// Table is a list of column names and a list of rows matching those columns.
type Table struct {
	columns []string
	rows    [][]any
}

// New creates a Table from column names and rows.
//
// It panics if a row does not have exactly one cell per column: the schema
// of a table is static, decided by the code that builds it.
func New(columns []string, rows ...[]any) *Table {
	for i, row := range rows {
		if len(row) != len(columns) {
			panic(fmt.Sprintf("table: row %d has %d cells, want %d columns", i, len(row), len(columns)))
		}
	}
	return &Table{columns: slices.Clone(columns), rows: rows}
}

// Columns returns a copy of the column names, in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Has reports whether the table has a column with that name.
func (t *Table) Has(column string) bool { return slices.Contains(t.columns, column) }

// index returns the position of a column, panicking on unknown names:
// referencing a column that does not exist is a programming error, not a
// data error (data-level schema checks happen before any table transform).
func (t *Table) index(column string) int {
	i := slices.Index(t.columns, column)
	if i < 0 {
		panic(fmt.Sprintf("table: unknown column %q in %v", column, t.columns))
	}
	return i
}

// Row is a view over a single row of a Table.
type Row struct {
	t     *Table
	cells []any
}

// Get returns the raw cell value for that column.
func (r Row) Get(column string) any { return r.cells[r.t.index(column)] }

// String returns the cell value for that column as a string.
// Non-string cells are rendered with their default format.
func (r Row) String(column string) string {
	v := r.Get(column)
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Float returns the cell value for that column as a float64.
// It panics if the cell does not hold a float64.
func (r Row) Float(column string) float64 { return r.Get(column).(float64) }

// Rows returns an iterator over the rows of the table.
func (t *Table) Rows() iter.Seq[Row] {
	return func(yield func(Row) bool) {
		for _, cells := range t.rows {
			if !yield(Row{t: t, cells: cells}) {
				return
			}
		}
	}
}

// Select returns a new table with only the given columns, in the given order.
func (t *Table) Select(columns ...string) *Table {
	indexes := make([]int, len(columns))
	for i, c := range columns {
		indexes[i] = t.index(c)
	}
	rows := make([][]any, len(t.rows))
	for i, row := range t.rows {
		cells := make([]any, len(indexes))
		for j, index := range indexes {
			cells[j] = row[index]
		}
		rows[i] = cells
	}
	return New(columns, rows...)
}

// Create returns a new table with an extra column appended, whose value is
// derived from each row.
func (t *Table) Create(column string, f func(Row) any) *Table {
	columns := append(t.Columns(), column)
	rows := make([][]any, len(t.rows))
	for i, row := range t.rows {
		cells := make([]any, 0, len(row)+1)
		cells = append(cells, row...)
		cells = append(cells, f(Row{t: t, cells: row}))
		rows[i] = cells
	}
	return New(columns, rows...)
}

// Map returns a new table with the values of one column replaced by a mapper
// on the column values.
func (t *Table) Map(column string, f func(any) any) *Table {
	index := t.index(column)
	rows := make([][]any, len(t.rows))
	for i, row := range t.rows {
		cells := slices.Clone(row)
		cells[index] = f(cells[index])
		rows[i] = cells
	}
	return New(t.columns, rows...)
}

// Delete returns a new table without the given columns.
func (t *Table) Delete(columns ...string) *Table {
	kept := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if !slices.Contains(columns, c) {
			kept = append(kept, c)
		}
	}
	return t.Select(kept...)
}

// Filter returns a new table with only the rows for which the predicate holds.
func (t *Table) Filter(pred func(Row) bool) *Table {
	var rows [][]any
	for _, cells := range t.rows {
		if pred(Row{t: t, cells: cells}) {
			rows = append(rows, cells)
		}
	}
	return New(t.columns, rows...)
}

// Sort returns a new table with the rows reordered by the comparison
// function, using a stable sort so equal rows keep their relative order.
func (t *Table) Sort(cmp func(a, b Row) int) *Table {
	rows := slices.Clone(t.rows)
	slices.SortStableFunc(rows, func(a, b []any) int {
		return cmp(Row{t: t, cells: a}, Row{t: t, cells: b})
	})
	return New(t.columns, rows...)
}

// Head returns a new table with at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return New(t.columns, t.rows[:n]...)
}

// Strings returns all the values of a column rendered as strings.
func (t *Table) Strings(column string) []string {
	index := t.index(column)
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		if s, ok := row[index].(string); ok {
			values[i] = s
		} else {
			values[i] = fmt.Sprint(row[index])
		}
	}
	return values
}

// Floats returns all the values of a float64 column.
func (t *Table) Floats(column string) []float64 {
	index := t.index(column)
	values := make([]float64, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[index].(float64)
	}
	return values
}

// Sum returns the sum of a float64 column.
func (t *Table) Sum(column string) float64 {
	var total float64
	for _, v := range t.Floats(column) {
		total += v
	}
	return total
}

// Concat concatenates tables with identical columns, preserving row order.
// It panics if the tables do not share the same column set: callers project
// to a common schema first.
func Concat(tables ...*Table) *Table {
	if len(tables) == 0 {
		panic("table: cannot concat zero tables")
	}
	first := tables[0]
	var rows [][]any
	for _, t := range tables {
		if !slices.Equal(t.columns, first.columns) {
			panic(fmt.Sprintf("table: cannot concat %v with %v", t.columns, first.columns))
		}
		rows = append(rows, t.rows...)
	}
	return New(first.columns, rows...)
}
