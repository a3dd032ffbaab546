package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Row maps column names to cell values. A missing key and an explicit nil both
// mean "no value" and serialize to an empty field.
type Row map[string]any

// Table is an ordered sequence of rows with an explicit column order.
type Table struct {
	cols []string
	rows []Row
}

// New creates an empty table with the given column order.
func New(cols ...string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Columns returns a copy of the column order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.cols...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a row to the end of the table.
func (t *Table) Append(r Row) {
	t.rows = append(t.rows, r)
}

// Rows returns the underlying row slice in table order.
func (t *Table) Rows() []Row {
	return t.rows
}

// Set assigns the same value to col on every row, adding the column if absent.
func (t *Table) Set(col string, v any) {
	t.ensureColumn(col)
	for _, row := range t.rows {
		row[col] = v
	}
}

// FillMissing replaces every nil or absent cell with v.
func (t *Table) FillMissing(v any) {
	for _, row := range t.rows {
		for _, col := range t.cols {
			if row[col] == nil {
				row[col] = v
			}
		}
	}
}

// CoerceInt converts the named columns to int64 cells. Values that cannot be
// represented as integers become nil rather than failing the row.
func (t *Table) CoerceInt(cols ...string) {
	for _, row := range t.rows {
		for _, col := range cols {
			if n, ok := AsInt64(row[col]); ok {
				row[col] = n
			} else {
				row[col] = nil
			}
		}
	}
}

// SortBy sorts rows ascending by the given key columns. The sort is stable, so
// rows that compare equal keep their original relative order.
func (t *Table) SortBy(keys ...string) {
	sort.SliceStable(t.rows, func(i, j int) bool {
		for _, k := range keys {
			if c := compareValues(t.rows[i][k], t.rows[j][k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// LeftJoin joins this table against right on leftKey == rightKey and returns a
// new table with the right table's pick column attached under the name as.
// Every left row is retained; unmatched rows get a nil value. Duplicate keys on
// the right side duplicate the left row, as in a standard left join.
func (t *Table) LeftJoin(right *Table, leftKey, rightKey, pick, as string) *Table {
	index := make(map[any][]Row)
	for _, row := range right.rows {
		if k, ok := joinKey(row[rightKey]); ok {
			index[k] = append(index[k], row)
		}
	}

	out := New(append(t.Columns(), as)...)
	for _, row := range t.rows {
		k, ok := joinKey(row[leftKey])
		if !ok || len(index[k]) == 0 {
			cp := copyRow(row)
			cp[as] = nil
			out.Append(cp)
			continue
		}
		for _, match := range index[k] {
			cp := copyRow(row)
			cp[as] = match[pick]
			out.Append(cp)
		}
	}
	return out
}

// Select returns a new table holding only the given columns, in that order.
func (t *Table) Select(cols ...string) *Table {
	out := New(cols...)
	for _, row := range t.rows {
		cp := make(Row, len(cols))
		for _, col := range cols {
			cp[col] = row[col]
		}
		out.Append(cp)
	}
	return out
}

// WritePipe serializes the table as pipe-delimited text with a header row and
// no index column.
func (t *Table) WritePipe(out io.Writer) error {
	w := csv.NewWriter(out)
	w.Comma = '|'

	if err := w.Write(t.cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	fields := make([]string, len(t.cols))
	for _, row := range t.rows {
		for i, col := range t.cols {
			fields[i] = Format(row[col])
		}
		if err := w.Write(fields); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (t *Table) ensureColumn(col string) {
	for _, c := range t.cols {
		if c == col {
			return
		}
	}
	t.cols = append(t.cols, col)
}

func copyRow(row Row) Row {
	cp := make(Row, len(row)+1)
	for k, v := range row {
		cp[k] = v
	}
	return cp
}

// Format renders a cell for output. nil renders as an empty field and floats
// render without an exponent.
func Format(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// AsInt64 reports whether v holds an integral value and returns it. JSON
// numbers decode as float64, so integral floats and numeric strings count.
func AsInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) || val != math.Trunc(val) {
			return 0, false
		}
		return int64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func compareValues(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	switch {
	case aok && bok:
		if af < bf {
			return -1
		}
		if af > bf {
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(Format(a), Format(b))
}

// joinKey normalizes a cell into a comparable join key. Integral numbers join
// across int64 and float64 representations; nil never matches.
func joinKey(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	if n, ok := AsInt64(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return Format(v), true
}
