package entity

import (
	"bytes"
	"encoding/json"
)

// FieldMap is an insertion-ordered map of wire field names to string values.
// The provider signs fields by position, so order is part of the contract
// and a plain Go map cannot carry it.
type FieldMap struct {
	names  []string
	values map[string]string
}

func NewFieldMap() *FieldMap {
	return &FieldMap{
		values: make(map[string]string),
	}
}

// Set stores a value, appending the name to the order on first insertion.
// Setting an existing name overwrites the value and keeps its position.
func (m *FieldMap) Set(name, value string) {
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

// Get returns the value for name, or the empty string when absent.
// Absent and empty are equivalent on the wire.
func (m *FieldMap) Get(name string) string {
	return m.values[name]
}

func (m *FieldMap) Has(name string) bool {
	_, ok := m.values[name]
	return ok
}

// Names returns the field names in insertion order.
func (m *FieldMap) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

func (m *FieldMap) Len() int {
	return len(m.names)
}

// MarshalJSON emits the fields as a JSON object preserving insertion order,
// so the rendering collaborator can lay out hidden form inputs in the same
// order they were signed.
func (m *FieldMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
