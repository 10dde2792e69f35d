package parquet

// Batch is a sequence of values produced by one read of a column reader.
//
// Positions holding nulls have the zero value of T. Batches of required
// columns, and batches of optional columns in which no null was found, have no
// null mask.
type Batch[T any] struct {
	values []T
	nulls  []bool
}

// Len returns the number of positions in the batch.
func (b *Batch[T]) Len() int { return len(b.values) }

// MayHaveNull returns false if no position of the batch holds a null.
func (b *Batch[T]) MayHaveNull() bool { return b.nulls != nil }

// IsNull returns true if position i holds a null.
func (b *Batch[T]) IsNull(i int) bool { return b.nulls != nil && b.nulls[i] }

// Value returns the value at position i.
func (b *Batch[T]) Value(i int) T { return b.values[i] }

// Values returns the dense values of the batch.
func (b *Batch[T]) Values() []T { return b.values }

// Nulls returns the null mask of the batch, which is nil when the batch
// cannot contain nulls.
func (b *Batch[T]) Nulls() []bool { return b.nulls }

// Any returns the value at position i as an interface, or nil if the
// position holds a null.
func (b *Batch[T]) Any(i int) any {
	if b.IsNull(i) {
		return nil
	}
	return b.values[i]
}

var (
	_ Column = (*Batch[int32])(nil)
)
