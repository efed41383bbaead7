package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ChildMap is an insertion-ordered map of child id -> LinkNode.
// Plain Go maps lose the order of the links file, which decides the
// order of the menu buttons, so decoding walks the object token stream.
type ChildMap struct {
	ids   []string
	nodes map[string]LinkNode
}

// Get returns the child node by id.
func (m *ChildMap) Get(id string) (LinkNode, bool) {
	node, ok := m.nodes[id]
	return node, ok
}

// Set inserts or replaces a child, appending new ids at the end.
func (m *ChildMap) Set(id string, node LinkNode) {
	if m.nodes == nil {
		m.nodes = make(map[string]LinkNode)
	}
	if _, exists := m.nodes[id]; !exists {
		m.ids = append(m.ids, id)
	}
	m.nodes[id] = node
}

// IDs returns child ids in file order.
func (m *ChildMap) IDs() []string {
	return append([]string(nil), m.ids...)
}

// Len returns the number of children.
func (m *ChildMap) Len() int { return len(m.ids) }

// MarshalJSON writes the children as an object in insertion order.
func (m ChildMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range m.ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.nodes[id])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object while keeping key order.
func (m *ChildMap) UnmarshalJSON(data []byte) error {
	m.ids = nil
	m.nodes = make(map[string]LinkNode)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("store: child map must be an object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("store: child map key %v", keyTok)
		}
		var node LinkNode
		if err := dec.Decode(&node); err != nil {
			return fmt.Errorf("store: child %q: %w", key, err)
		}
		m.Set(key, node)
	}
	// Closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
