package contiguous

import "fmt"

// List is a dynamic array of T. Slots [0, size) hold live elements;
// slots [size, len(store)) hold the zero value and are never returned.
// The zero value is an empty list with no slots; its first Insert
// allocates one.
type List[T any] struct {
	store []T
	size  int
}

// New returns an empty list whose store has exactly capacity slots.
// Returns ErrInvalidArgument if capacity is not positive, since doubling
// a zero capacity never grows.
func New[T any](capacity int) (*List[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	return &List[T]{store: make([]T, capacity)}, nil
}

// IsEmpty reports whether the list holds no elements.
func (l *List[T]) IsEmpty() bool {
	return l.size == 0
}

// IsFull reports whether the next Insert will grow the store.
func (l *List[T]) IsFull() bool {
	return l.size == len(l.store)
}

// Size returns the number of live elements.
func (l *List[T]) Size() int {
	return l.size
}

// Cap returns the number of slots in the store.
func (l *List[T]) Cap() int {
	return len(l.store)
}

// resize doubles the store and copies the live elements into its low slots.
// A zero-value List has no slots and grows to one.
func (l *List[T]) resize() {
	grown := make([]T, max(1, 2*len(l.store)))
	copy(grown, l.store[:l.size])
	l.store = grown
}

// Insert appends element at the logical end, doubling the store first
// when it is full.
func (l *List[T]) Insert(element T) {
	if l.IsFull() {
		l.resize()
	}
	l.store[l.size] = element
	l.size++
}

// Remove deletes the element at position and shifts every later element
// one slot toward the front. An empty list reports ErrEmptyContainer
// before any bounds check.
func (l *List[T]) Remove(position int) error {
	if l.IsEmpty() {
		return ErrEmptyContainer
	}
	if err := l.checkPosition(position); err != nil {
		return err
	}

	copy(l.store[position:l.size-1], l.store[position+1:l.size])
	var zero T
	l.store[l.size-1] = zero
	l.size--
	return nil
}

// Get returns the element at position.
func (l *List[T]) Get(position int) (T, error) {
	if err := l.checkPosition(position); err != nil {
		var zero T
		return zero, err
	}
	return l.store[position], nil
}

func (l *List[T]) checkPosition(position int) error {
	if position < 0 || position >= l.size {
		return fmt.Errorf("%w: position %d, size %d", ErrIndexOutOfRange, position, l.size)
	}
	return nil
}
