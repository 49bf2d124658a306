package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"

	"github.com/tidwall/pretty"
)

// WriteCSV writes a header of the table's columns followed by one line per row.
// Null and missing cells are empty.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return err
	}

	record := make([]string, len(t.Columns()))
	for i := range t.Rows() {
		for j, col := range t.Columns() {
			v := t.Cell(i, col)
			record[j] = ""
			if v.Valid {
				record[j] = v.ValueOrZero()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the table as an array of objects keyed in column order.
// Every object carries every column; missing cells are null.
func WriteJSON(w io.Writer, t *Table) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range t.Rows() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, col := range t.Columns() {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(col)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSONValue(&buf, t.Cell(i, col)); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	_, err := w.Write(pretty.PrettyOptions(buf.Bytes(), &pretty.Options{
		Width:    80,
		Prefix:   "",
		Indent:   "  ",
		SortKeys: false,
	}))
	return err
}

func writeJSONValue(buf *bytes.Buffer, v Value) error {
	switch {
	case !v.Valid:
		buf.WriteString("null")
	case v.Literal:
		buf.WriteString(v.ValueOrZero())
	default:
		text, err := json.Marshal(v.ValueOrZero())
		if err != nil {
			return err
		}
		buf.Write(text)
	}
	return nil
}
