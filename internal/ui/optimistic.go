package ui

import "github.com/google/uuid"

// Entry is a list item and, while it waits for the server, its temporary key.
type Entry[T any] struct {
	Key     string
	Item    T
	Pending bool
}

// Optimistic is a list that shows items before the server confirms them.
// Add returns a temporary key; the caller later settles it with Resolve or
// Revert. It is not safe for concurrent use.
type Optimistic[T any] struct {
	confirmed []T
	pending   []Entry[T]
}

// Reset replaces the confirmed items and drops anything pending.
func (o *Optimistic[T]) Reset(items []T) {
	o.confirmed = append([]T(nil), items...)
	o.pending = nil
}

func (o *Optimistic[T]) Add(item T) string {
	key := "tmp-" + uuid.NewString()
	o.pending = append([]Entry[T]{{Key: key, Item: item, Pending: true}}, o.pending...)
	return key
}

// Resolve swaps the pending item for the one the server returned.
func (o *Optimistic[T]) Resolve(key string, item T) bool {
	if !o.remove(key) {
		return false
	}
	o.confirmed = append([]T{item}, o.confirmed...)
	return true
}

// Revert drops the pending item.
func (o *Optimistic[T]) Revert(key string) bool {
	return o.remove(key)
}

func (o *Optimistic[T]) remove(key string) bool {
	for i, e := range o.pending {
		if e.Key == key {
			o.pending = append(o.pending[:i:i], o.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Entries lists pending items first, newest first, then the confirmed ones.
func (o *Optimistic[T]) Entries() []Entry[T] {
	out := make([]Entry[T], 0, len(o.pending)+len(o.confirmed))
	out = append(out, o.pending...)
	for _, it := range o.confirmed {
		out = append(out, Entry[T]{Item: it})
	}
	return out
}

func (o *Optimistic[T]) Items() []T {
	out := make([]T, 0, len(o.pending)+len(o.confirmed))
	for _, e := range o.Entries() {
		out = append(out, e.Item)
	}
	return out
}

func (o *Optimistic[T]) InFlight() int {
	return len(o.pending)
}
