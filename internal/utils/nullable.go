package utils

import (
	"bytes"
	"encoding/json"
)

// Nullable is an optional field of a partial update. An absent key leaves Set
// false; an explicit null sets Set and leaves Valid false.
type Nullable[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Valid: true, Value: v}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Valid, n.Value = false, zero
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// Merge returns current when the key was absent, nil for null and the new value otherwise.
func (n Nullable[T]) Merge(current *T) *T {
	if !n.Set {
		return current
	}
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
