package store

// Keyed is implemented by every entity kept in a Collection.
type Keyed interface {
	Key() string
}

// Collection is an ordered sequence of entity pointers. Elements are never
// mutated in place: Update swaps in a new pointer for the matching entity
// and leaves every other pointer untouched, so callers can compare elements
// by identity to detect change.
//
// Collection is not safe for concurrent use; Store serializes access.
type Collection[T Keyed] struct {
	items []*T
}

// Set replaces the whole sequence, keeping the input order.
func (c *Collection[T]) Set(items []T) {
	next := make([]*T, len(items))
	for i := range items {
		item := items[i]
		next[i] = &item
	}
	c.items = next
}

// Update applies patch to a shallow copy of every element whose key matches
// id. It reports whether anything matched.
func (c *Collection[T]) Update(id string, patch func(*T)) bool {
	matched := false
	next := make([]*T, len(c.items))
	for i, item := range c.items {
		if (*item).Key() != id {
			next[i] = item
			continue
		}
		updated := *item
		if patch != nil {
			patch(&updated)
		}
		next[i] = &updated
		matched = true
	}
	if matched {
		c.items = next
	}
	return matched
}

// Add appends item. Keys are not de-duplicated.
func (c *Collection[T]) Add(item T) {
	next := make([]*T, len(c.items), len(c.items)+1)
	copy(next, c.items)
	c.items = append(next, &item)
}

// Remove drops every element keyed by id and returns how many were removed.
func (c *Collection[T]) Remove(id string) int {
	next := make([]*T, 0, len(c.items))
	for _, item := range c.items {
		if (*item).Key() != id {
			next = append(next, item)
		}
	}
	removed := len(c.items) - len(next)
	if removed > 0 {
		c.items = next
	}
	return removed
}

// Clear empties the sequence.
func (c *Collection[T]) Clear() {
	c.items = nil
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// Snapshot returns a fresh slice sharing the element pointers.
func (c *Collection[T]) Snapshot() []*T {
	out := make([]*T, len(c.items))
	copy(out, c.items)
	return out
}
