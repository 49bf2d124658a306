package report

import (
	"strconv"

	"github.com/guregu/null/v6"
)

// Value is one cell. Literal values (numbers, booleans) are written unquoted in JSON.
type Value struct {
	null.String
	Literal bool
}

func Null() Value {
	return Value{}
}

func Text(s string) Value {
	return Value{String: null.StringFrom(s)}
}

func Number(f float64) Value {
	return literal(strconv.FormatFloat(f, 'f', -1, 64))
}

func literal(s string) Value {
	return Value{String: null.StringFrom(s), Literal: true}
}

func FromNullString(s null.String) Value {
	return Value{String: s}
}

func FromNullFloat(f null.Float) Value {
	if !f.Valid {
		return Null()
	}
	return Number(f.Float64)
}

func FromNullBool(b null.Bool) Value {
	if !b.Valid {
		return Null()
	}
	return literal(strconv.FormatBool(b.Bool))
}

// Row is an ordered set of named cells.
type Row struct {
	keys   []string
	values map[string]Value
}

func NewRow() *Row {
	return &Row{values: make(map[string]Value)}
}

// Set adds or replaces a cell. New keys keep insertion order.
func (r *Row) Set(key string, v Value) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

func (r *Row) Get(key string) (Value, bool) {
	v, ok := r.values[key]
	return v, ok
}

func (r *Row) Keys() []string {
	return r.keys
}

// Merge copies every cell of other into r, overwriting on conflict.
func (r *Row) Merge(other *Row) {
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Clone returns an independent copy.
func (r *Row) Clone() *Row {
	c := NewRow()
	c.Merge(r)
	return c
}

// Table holds rows whose columns are the union of all row keys in first-seen order.
type Table struct {
	columns []string
	seen    map[string]bool
	rows    []*Row
}

func NewTable() *Table {
	return &Table{seen: make(map[string]bool)}
}

func (t *Table) Append(rows ...*Row) {
	for _, r := range rows {
		for _, k := range r.keys {
			if !t.seen[k] {
				t.seen[k] = true
				t.columns = append(t.columns, k)
			}
		}
		t.rows = append(t.rows, r)
	}
}

// Concat appends every row of other.
func (t *Table) Concat(other *Table) {
	t.Append(other.rows...)
}

func (t *Table) Columns() []string {
	return t.columns
}

func (t *Table) Rows() []*Row {
	return t.rows
}

func (t *Table) Len() int {
	return len(t.rows)
}

// Cell returns the value of column for row i; missing cells are null.
func (t *Table) Cell(i int, column string) Value {
	v, _ := t.rows[i].Get(column)
	return v
}
