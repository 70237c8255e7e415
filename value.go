package srafetch

import (
	"fmt"
	"strings"
)

// ValueKind discriminates the three shapes a normalized XML node can take.
type ValueKind int

const (
	ScalarKind ValueKind = iota
	MappingKind
	ListKind
)

// Value is a generic container for normalized XML: a scalar, an ordered
// mapping of unique keys or a list. The zero value is a null scalar.
type Value struct {
	Kind ValueKind
	// Text holds the scalar payload. Null marks scalars normalized from
	// empty or whitespace-only text.
	Text string
	Null bool
	// Items holds the list payload.
	Items []Value

	keys     []string
	children map[string]Value
}

// NewScalar trims the text and returns a scalar value. Whitespace-only
// text yields a null scalar.
func NewScalar(text string) Value {
	s := strings.TrimSpace(text)
	return Value{Kind: ScalarKind, Text: s, Null: s == ""}
}

// NewMapping returns an empty mapping.
func NewMapping() Value {
	return Value{Kind: MappingKind, children: make(map[string]Value)}
}

// NewList wraps items in a list value.
func NewList(items []Value) Value {
	return Value{Kind: ListKind, Items: items}
}

// Set records a key. A repeated key overwrites the earlier value and keeps
// its original position, so the last occurrence wins.
func (v *Value) Set(key string, child Value) {
	if _, ok := v.children[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.children[key] = child
}

// Get returns the value recorded under key.
func (v Value) Get(key string) (Value, bool) {
	child, ok := v.children[key]
	return child, ok
}

// Has reports whether a mapping contains key. False for non-mappings.
func (v Value) Has(key string) bool {
	_, ok := v.children[key]
	return ok
}

// Keys returns the mapping keys in insertion order.
func (v Value) Keys() []string {
	return v.keys
}

// Path descends through nested mappings. It fails on the first missing
// key or non-mapping intermediate.
func (v Value) Path(keys ...string) (Value, bool) {
	node := v
	for _, k := range keys {
		child, ok := node.Get(k)
		if !ok {
			return Value{}, false
		}
		node = child
	}
	return node, true
}

// String renders a value for diagnostics, mappings in key order.
func (v Value) String() string {
	switch v.Kind {
	case MappingKind:
		var parts []string
		for _, k := range v.keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.children[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ListKind:
		var parts []string
		for _, item := range v.Items {
			parts = append(parts, item.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	if v.Null {
		return "null"
	}
	return fmt.Sprintf("%q", v.Text)
}

// shape is the outcome of the dict-vs-list decision over a sibling run.
type shape int

const (
	mappingShape shape = iota
	listShape
)

// childShape implements the two-branch heuristic over an ordered child tag
// sequence: a single child, or first two tags that differ, means mapping;
// first two tags that match mean the whole run is a list under that tag.
// Only the first two tags are inspected, tags beyond position two are not
// validated.
func childShape(tags []string) (shape, string) {
	if len(tags) < 2 || tags[0] != tags[1] {
		return mappingShape, ""
	}
	return listShape, tags[0]
}
