package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is one blog entry. The original JSON object is kept verbatim and
// only the integer id is extracted from it.
type Record struct {
	id    int64
	hasID bool
	raw   json.RawMessage
}

// NewRecord parses a single JSON object.
func NewRecord(raw []byte) (Record, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Record{}, fmt.Errorf("record is not a JSON object")
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return Record{}, err
	}
	rec := Record{raw: append(json.RawMessage(nil), trimmed...)}
	rec.id, rec.hasID = extractID(fields["id"])
	return rec, nil
}

// Absent, non-numeric, fractional and out of range ids all count as missing.
func extractID(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return 0, false
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, false
	}
	id, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return id, true
}

// ID returns the record id and whether the record has one.
func (r Record) ID() (int64, bool) {
	return r.id, r.hasID
}

// Raw returns the record's JSON object as loaded.
func (r Record) Raw() json.RawMessage {
	return r.raw
}

// String representation
func (r Record) String() string {
	if !r.hasID {
		return "id=<none>"
	}
	return fmt.Sprintf("id=%d", r.id)
}

// Parse decodes a JSON array of objects, preserving order.
func Parse(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("dataset is not a JSON array")
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	records := make([]Record, 0, len(elems))
	for i, elem := range elems {
		rec, err := NewRecord(elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
