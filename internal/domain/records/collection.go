// Package records implements the copy-on-write record collection that backs
// every dashboard screen.
//
// A Collection is a value: Add, Update, Remove and Replace return a new
// Collection and never write to the receiver's backing array, so a snapshot
// handed to a reader stays valid while the owner keeps mutating.
package records

import (
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// IDFunc generates a fresh record identifier.
type IDFunc func() string

// UUID generates random v4 identifiers.
func UUID() string { return uuid.NewString() }

// Timestamp returns an IDFunc producing millisecond timestamps, bumped when
// two records are created within the same millisecond.
func Timestamp(now func() time.Time) IDFunc {
	var last int64
	return func() string {
		ts := now().UnixMilli()
		if ts <= last {
			ts = last + 1
		}
		last = ts
		return strconv.FormatInt(ts, 10)
	}
}

// Collection is an insertion-ordered, immutable list of records keyed by id.
type Collection[T any] struct {
	items  []T
	key    func(T) string
	withID func(T, string) T
	newID  IDFunc
}

// Option configures a Collection.
type Option[T any] func(*Collection[T])

// WithIDFunc overrides the identifier generator used by Add.
func WithIDFunc[T any](f IDFunc) Option[T] {
	return func(c *Collection[T]) {
		if f != nil {
			c.newID = f
		}
	}
}

// WithItems seeds the collection. The slice is copied.
func WithItems[T any](items []T) Option[T] {
	return func(c *Collection[T]) {
		c.items = slices.Clone(items)
	}
}

// New creates an empty collection. key reads a record's id and withID
// returns a copy of a record carrying a new id.
func New[T any](key func(T) string, withID func(T, string) T, opts ...Option[T]) Collection[T] {
	c := Collection[T]{
		key:    key,
		withID: withID,
		newID:  UUID,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Len returns the number of records.
func (c Collection[T]) Len() int { return len(c.items) }

// Items returns a copy of the records in insertion order.
func (c Collection[T]) Items() []T { return slices.Clone(c.items) }

// Get returns the record with id.
func (c Collection[T]) Get(id string) (T, bool) {
	if i := c.index(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// Add returns store ++ [item] with a freshly generated id, and the stored item.
func (c Collection[T]) Add(item T) (Collection[T], T) {
	item = c.withID(item, c.newID())
	next := c.clone(len(c.items) + 1)
	next.items = append(next.items, item)
	return next, item
}

// Update replaces the record matching id with patch(record). Every other
// record is carried over unchanged. An unknown id returns c and false.
func (c Collection[T]) Update(id string, patch func(T) T) (Collection[T], bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	next := c.clone(len(c.items))
	updated := patch(c.items[i])
	// The id is the key; a patch cannot move a record.
	next.items[i] = c.withID(updated, id)
	return next, true
}

// Remove filters out the record matching id. An unknown id returns c and false.
func (c Collection[T]) Remove(id string) (Collection[T], bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	next := c.clone(len(c.items) - 1)
	next.items = slices.Delete(next.items, i, i+1)
	return next, true
}

// Replace returns a collection holding items, keeping the configuration of c.
func (c Collection[T]) Replace(items []T) Collection[T] {
	next := c
	next.items = slices.Clone(items)
	return next
}

// Filter returns the records for which keep returns true, in order.
func (c Collection[T]) Filter(keep func(T) bool) []T {
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func (c Collection[T]) index(id string) int {
	return slices.IndexFunc(c.items, func(it T) bool { return c.key(it) == id })
}

// clone copies the items into a fresh backing array with room for capacity.
func (c Collection[T]) clone(capacity int) Collection[T] {
	next := c
	next.items = make([]T, len(c.items), max(capacity, len(c.items)))
	copy(next.items, c.items)
	return next
}
