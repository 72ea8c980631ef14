package signal

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Classification results returned to the dispatcher. Which VIS error table
// row applies to each of these is the dispatcher's decision, not ours.
var (
	ErrInvalidPath  = errors.New("signal: invalid path")
	ErrPrivatePath  = errors.New("signal: private path")
	ErrReadOnly     = errors.New("signal: read only")
	ErrInvalidValue = errors.New("signal: value does not match signal type")
)

// Value is a recorded signal value.
type Value struct {
	Data      json.RawMessage
	Timestamp uint64
}

// Metadata describes one node of the signal tree. Branch nodes carry
// Children; leaf nodes carry a primitive Type.
type Metadata struct {
	Type        string               `json:"type,omitempty"`
	Unit        string               `json:"unit,omitempty"`
	Description string               `json:"description,omitempty"`
	ReadOnly    bool                 `json:"readOnly,omitempty"`
	Private     bool                 `json:"private,omitempty"`
	Children    map[string]*Metadata `json:"children,omitempty"`
}

// IsBranch reports whether the node groups other signals.
func (m *Metadata) IsBranch() bool { return len(m.Children) > 0 }

// IsPrimitive reports whether a numeric filter can apply to the node.
func (m *Metadata) IsPrimitive() bool {
	if m.IsBranch() {
		return false
	}
	switch m.Type {
	case "Float", "Double", "Int8", "Int16", "Int32", "UInt8", "UInt16", "UInt32", "Boolean":
		return true
	}
	return false
}

// Listener receives every accepted signal change.
type Listener func(path string, value Value)

// Tree is the in-memory signal store. All reads and writes go through the
// mutex; values are snapshots, so callers never observe partial updates.
type Tree struct {
	root *Metadata

	mu     sync.RWMutex
	index  map[string]*Metadata
	values map[string]Value

	listenerMu sync.RWMutex
	listeners  []Listener
}

// New builds a tree over a fixed schema. The schema never changes after
// construction.
func New(root *Metadata) *Tree {
	t := &Tree{
		root:   root,
		index:  make(map[string]*Metadata),
		values: make(map[string]Value),
	}
	t.walk("", root)
	return t
}

func (t *Tree) walk(prefix string, node *Metadata) {
	for name, child := range node.Children {
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		// private/readOnly flags propagate down from branch nodes
		if node.Private {
			child.Private = true
		}
		if node.ReadOnly {
			child.ReadOnly = true
		}
		t.index[path] = child
		if child.IsBranch() {
			t.walk(path, child)
		}
	}
}

// Meta returns the node for a path.
func (t *Tree) Meta(path string) (*Metadata, bool) {
	m, ok := t.index[path]
	return m, ok
}

// Get reads the current value of a leaf signal.
func (t *Tree) Get(path string, authorized bool) (Value, error) {
	meta, ok := t.index[path]
	if !ok || meta.IsBranch() {
		return Value{}, ErrInvalidPath
	}
	if meta.Private && !authorized {
		return Value{}, ErrPrivatePath
	}
	t.mu.RLock()
	v, ok := t.values[path]
	t.mu.RUnlock()
	if !ok {
		return Value{}, ErrInvalidPath
	}
	return v, nil
}

// Set writes a client-supplied value to a leaf signal and fans the change
// out to listeners.
func (t *Tree) Set(path string, data json.RawMessage, timestamp uint64, authorized bool) error {
	meta, ok := t.index[path]
	if !ok || meta.IsBranch() {
		return ErrInvalidPath
	}
	if meta.Private && !authorized {
		return ErrPrivatePath
	}
	if meta.ReadOnly {
		return ErrReadOnly
	}
	if err := checkType(meta.Type, data); err != nil {
		return err
	}
	t.store(path, Value{Data: data, Timestamp: timestamp})
	return nil
}

// Ingest records a value arriving from the vehicle feed. The feed is the
// source of truth, so readOnly does not apply; unknown paths are rejected
// so a misconfigured feed cannot grow the tree.
func (t *Tree) Ingest(path string, data json.RawMessage, timestamp uint64) error {
	meta, ok := t.index[path]
	if !ok || meta.IsBranch() {
		return fmt.Errorf("%w: %s", ErrInvalidPath, path)
	}
	if err := checkType(meta.Type, data); err != nil {
		return err
	}
	t.store(path, Value{Data: data, Timestamp: timestamp})
	return nil
}

func (t *Tree) store(path string, v Value) {
	t.mu.Lock()
	t.values[path] = v
	t.mu.Unlock()

	t.listenerMu.RLock()
	listeners := t.listeners
	t.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn(path, v)
	}
}

// OnChange registers a listener for accepted changes. Listeners run on the
// writer's goroutine and must not block.
func (t *Tree) OnChange(fn Listener) {
	t.listenerMu.Lock()
	t.listeners = append(t.listeners, fn)
	t.listenerMu.Unlock()
}

// Subtree returns the metadata below a path (or the whole tree for an empty
// path), with private branches stripped for unauthorized callers.
func (t *Tree) Subtree(path string, authorized bool) (json.RawMessage, error) {
	node := t.root
	if path != "" {
		m, ok := t.index[path]
		if !ok {
			return nil, ErrInvalidPath
		}
		node = m
	}
	if node.Private && !authorized {
		return nil, ErrPrivatePath
	}
	return json.Marshal(redact(node, authorized))
}

func redact(node *Metadata, authorized bool) *Metadata {
	if authorized || !node.IsBranch() {
		return node
	}
	out := *node
	out.Children = make(map[string]*Metadata, len(node.Children))
	for name, child := range node.Children {
		if child.Private {
			continue
		}
		out.Children[name] = redact(child, authorized)
	}
	return &out
}

func checkType(signalType string, data json.RawMessage) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return ErrInvalidValue
	}
	switch signalType {
	case "Float", "Double", "Int8", "Int16", "Int32", "UInt8", "UInt16", "UInt32":
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return ErrInvalidValue
		}
	case "Boolean":
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return ErrInvalidValue
		}
	case "String":
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidValue
		}
	}
	return nil
}
