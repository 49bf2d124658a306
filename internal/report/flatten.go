package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlattenJSON turns a JSON object into a row. Nested objects become dotted keys
// in document order and arrays are kept as compact JSON text.
func FlattenJSON(raw []byte) (*Row, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	row := NewRow()
	if err := flattenObject(dec, "", row); err != nil {
		return nil, err
	}
	return row, nil
}

// flattenObject reads members until the closing brace.
func flattenObject(dec *json.Decoder, prefix string, row *Row) error {
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if err := flattenValue(dec, name, row); err != nil {
			return err
		}
	}
	_, err := dec.Token()
	return err
}

func flattenValue(dec *json.Decoder, name string, row *Row) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch v := tok.(type) {
	case json.Delim:
		if v == '{' {
			return flattenObject(dec, name, row)
		}
		items := []any{}
		for dec.More() {
			var item any
			if err := dec.Decode(&item); err != nil {
				return err
			}
			items = append(items, item)
		}
		if _, err := dec.Token(); err != nil {
			return err
		}
		text, err := json.Marshal(items)
		if err != nil {
			return err
		}
		row.Set(name, Text(string(text)))
	case nil:
		row.Set(name, Null())
	case string:
		row.Set(name, Text(v))
	case json.Number:
		row.Set(name, literal(v.String()))
	case bool:
		row.Set(name, literal(strconv.FormatBool(v)))
	}
	return nil
}

// ScalarValue converts a raw JSON scalar to a cell; objects and arrays are kept as text.
func ScalarValue(raw json.RawMessage) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Null()
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return Text(s)
		}
	case '{', '[':
		return Text(string(raw))
	}
	return literal(string(raw))
}
