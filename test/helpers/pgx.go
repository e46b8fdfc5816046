package helpers

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Row is a pgx.Row stub that assigns fixed values to Scan destinations.
type Row struct {
	values []any
	err    error
}

// NewRow returns a row whose Scan copies values into the destinations in order.
func NewRow(values ...any) *Row {
	return &Row{values: values}
}

// ErrRow returns a row whose Scan fails with err, e.g. pgx.ErrNoRows.
func ErrRow(err error) *Row {
	return &Row{err: err}
}

// Scan implements pgx.Row
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values for %d destinations", len(values), len(dest))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d)
		if target.Kind() != reflect.Pointer || target.IsNil() {
			return fmt.Errorf("scan: destination %d is not a pointer", i)
		}
		elem := target.Elem()
		if values[i] == nil {
			elem.Set(reflect.Zero(elem.Type()))
			continue
		}
		v := reflect.ValueOf(values[i])
		if !v.Type().AssignableTo(elem.Type()) {
			if !v.Type().ConvertibleTo(elem.Type()) {
				return fmt.Errorf("scan: cannot assign %s to %s at %d", v.Type(), elem.Type(), i)
			}
			v = v.Convert(elem.Type())
		}
		elem.Set(v)
	}
	return nil
}

// Rows is a pgx.Rows stub over fixed values.
type Rows struct {
	rows   [][]any
	cursor int
	err    error
	closed bool
}

var _ pgx.Rows = (*Rows)(nil)

// NewRows returns a result set of the given rows.
func NewRows(rows ...[]any) *Rows {
	return &Rows{rows: rows, cursor: -1}
}

// WithErr makes Err report err after iteration.
func (r *Rows) WithErr(err error) *Rows {
	r.err = err
	return r
}

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return r.err }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) Next() bool {
	if r.closed {
		return false
	}
	r.cursor++
	return r.cursor < len(r.rows)
}

func (r *Rows) Scan(dest ...any) error {
	if r.cursor < 0 || r.cursor >= len(r.rows) {
		return fmt.Errorf("scan called without a current row")
	}
	return assign(r.rows[r.cursor], dest)
}

func (r *Rows) Values() ([]any, error) {
	if r.cursor < 0 || r.cursor >= len(r.rows) {
		return nil, fmt.Errorf("no current row")
	}
	return r.rows[r.cursor], nil
}
