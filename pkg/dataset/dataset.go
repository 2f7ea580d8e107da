// Package dataset accumulates per-sample vectors into aligned rectangular
// datasets and writes them as fluid.dataset~ JSON artifacts.
//
// A [Dataset] is a table with a declared column count and string-keyed rows
// whose insertion order is preserved through JSON serialization, so the
// sample order in every artifact matches processing order.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Dataset is a fluid.dataset~ style table: a declared column count plus an
// ordered mapping from sample id to a fixed-width numeric row.
type Dataset struct {
	cols int
	ids  []string
	rows map[string][]float64
}

// New creates an empty Dataset with the given column count.
func New(cols int) *Dataset {
	return &Dataset{cols: cols, rows: make(map[string][]float64)}
}

// Cols returns the declared column count.
func (d *Dataset) Cols() int { return d.cols }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.ids) }

// IDs returns the row keys in insertion order.
func (d *Dataset) IDs() []string {
	out := make([]string, len(d.ids))
	copy(out, d.ids)
	return out
}

// Row returns the row for id, if present.
func (d *Dataset) Row(id string) ([]float64, bool) {
	row, ok := d.rows[id]
	return row, ok
}

// Add appends a row. Adding an existing id replaces its row but keeps its
// original position. The row length must match the declared column count.
func (d *Dataset) Add(id string, row []float64) error {
	if len(row) != d.cols {
		return fmt.Errorf("dataset: row %q has %d values, want %d", id, len(row), d.cols)
	}
	if _, exists := d.rows[id]; !exists {
		d.ids = append(d.ids, id)
	}
	d.rows[id] = row
	return nil
}

// MarshalJSON encodes the dataset as {"cols": n, "data": {id: [...], ...}}
// with data keys in insertion order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"cols":%d,"data":{`, d.cols)
	for i, id := range d.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		row, err := json.Marshal(d.rows[id])
		if err != nil {
			return nil, fmt.Errorf("dataset: row %q: %w", id, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(row)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a {"cols", "data"} object, preserving the key order
// of the data object.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	d.cols = 0
	d.ids = nil
	d.rows = make(map[string][]float64)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		switch keyTok.(string) {
		case "cols":
			if err := dec.Decode(&d.cols); err != nil {
				return fmt.Errorf("dataset: cols: %w", err)
			}
		case "data":
			if err := expectDelim(dec, '{'); err != nil {
				return err
			}
			for dec.More() {
				idTok, err := dec.Token()
				if err != nil {
					return err
				}
				id := idTok.(string)
				var row []float64
				if err := dec.Decode(&row); err != nil {
					return fmt.Errorf("dataset: row %q: %w", id, err)
				}
				d.ids = append(d.ids, id)
				d.rows[id] = row
			}
			if err := expectDelim(dec, '}'); err != nil {
				return err
			}
		default:
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return err
			}
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("dataset: expected %q, got %v", want, tok)
	}
	return nil
}
