package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TypeEntry is one labelled row of trades_by_type.
type TypeEntry struct {
	Label string    `json:"label"`
	Stats TypeStats `json:"stats"`
}

// TypeBreakdown is trades_by_type kept in the key order the backend sent.
// It encodes back to a JSON object with the same order.
type TypeBreakdown []TypeEntry

// Lookup returns the stats for label.
func (b TypeBreakdown) Lookup(label string) (TypeStats, bool) {
	for _, e := range b {
		if e.Label == label {
			return e.Stats, true
		}
	}
	return TypeStats{}, false
}

// UnmarshalJSON decodes an object while recording key order.
func (b *TypeBreakdown) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*b = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("trades_by_type: expected object, got %v", tok)
	}

	out := TypeBreakdown{}
	index := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("trades_by_type: unexpected key %v", tok)
		}

		var stats TypeStats
		if err := dec.Decode(&stats); err != nil {
			return fmt.Errorf("trades_by_type[%s]: %w", label, err)
		}

		// Duplicate keys keep their first position and the last value.
		if i, seen := index[label]; seen {
			out[i].Stats = stats
			continue
		}
		index[label] = len(out)
		out = append(out, TypeEntry{Label: label, Stats: stats})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*b = out
	return nil
}

// MarshalJSON encodes the breakdown as an ordered JSON object.
func (b TypeBreakdown) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Stats)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
