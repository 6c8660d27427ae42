// Package fixvec implements a sequence with a compile-time capacity.
//
// All Cap() backing elements always exist; only the first Len() are part of
// the sequence. On disk the backing array is followed by the length as a u64
// in the codec's byte order.
package fixvec

import (
	"errors"
	"fmt"
	"iter"

	"github.com/rawbytedev/savekit"
)

var (
	ErrCapacity      = errors.New("fixvec: capacity exceeded")
	ErrCorruptLength = errors.New("fixvec: stored length exceeds capacity")
)

const lenSize = 8

// Capacity fixes the number of backing elements of a Vec.
type Capacity interface {
	Cap() int
}

// Vec holds up to C.Cap() elements. Backing storage is allocated on first
// write and shared by plain struct copies; use Clone for an independent value.
type Vec[T any, C Capacity] struct {
	data   []T
	length int
}

func (v *Vec[T, C]) backing() []T {
	if v.data == nil {
		var c C
		v.data = make([]T, c.Cap())
	}
	return v.data
}

func (v *Vec[T, C]) Cap() int {
	var c C
	return c.Cap()
}

func (v *Vec[T, C]) Len() int { return v.length }

func (v *Vec[T, C]) IsEmpty() bool { return v.length == 0 }

// Get returns element i, or false if i is outside the current length even
// when the backing slot holds data.
func (v *Vec[T, C]) Get(i int) (T, bool) {
	if i < 0 || i >= v.length {
		var zero T
		return zero, false
	}
	return v.data[i], true
}

// Set overwrites element i. It panics if i >= Len().
func (v *Vec[T, C]) Set(i int, x T) {
	if i < 0 || i >= v.length {
		panic(fmt.Sprintf("fixvec: set index %d with length %d", i, v.length))
	}
	v.data[i] = x
}

func (v *Vec[T, C]) TryPush(x T) error {
	if v.length >= v.Cap() {
		return fmt.Errorf("%w: %d", ErrCapacity, v.Cap())
	}
	v.backing()[v.length] = x
	v.length++
	return nil
}

// TryPop removes the last element and zeroes its backing slot.
func (v *Vec[T, C]) TryPop() (T, error) {
	var zero T
	if v.length == 0 {
		return zero, fmt.Errorf("%w: pop from empty", ErrCapacity)
	}
	v.length--
	x := v.data[v.length]
	v.data[v.length] = zero
	return x, nil
}

// Clear sets the length to zero; backing slots keep their values.
func (v *Vec[T, C]) Clear() { v.length = 0 }

// All yields the first Len() elements.
func (v *Vec[T, C]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < v.length; i++ {
			if !yield(v.data[i]) {
				return
			}
		}
	}
}

// Clone returns a copy that shares no storage with v.
func (v *Vec[T, C]) Clone() Vec[T, C] {
	if v.data == nil {
		return Vec[T, C]{length: v.length}
	}
	return Vec[T, C]{data: append([]T(nil), v.data...), length: v.length}
}

func (v *Vec[T, C]) elemSize() (int, error) {
	var zero T
	return savekit.SizeOf(&zero)
}

// BinSize returns -1 when T has no fixed encoding.
func (v *Vec[T, C]) BinSize() int {
	es, err := v.elemSize()
	if err != nil {
		return -1
	}
	return es*v.Cap() + lenSize
}

func (v *Vec[T, C]) ReadBin(c *savekit.Codec, buf []byte, off int) (int, error) {
	es, err := v.elemSize()
	if err != nil {
		return 0, err
	}
	data := v.backing()
	for i := range data {
		if _, err := c.Unmarshal(buf, off+i*es, &data[i]); err != nil {
			return 0, err
		}
	}
	lo := off + es*len(data)
	if lo < 0 || len(buf)-lo < lenSize {
		return 0, &savekit.DecodeError{Type: "fixvec length", Offset: lo,
			Err: fmt.Errorf("%w: need %d bytes, have %d", savekit.ErrShortBuffer, lenSize, len(buf)-lo)}
	}
	n := c.ByteOrder().Uint64(buf[lo:])
	if n > uint64(len(data)) {
		return 0, &savekit.DecodeError{Type: "fixvec length", Offset: lo,
			Err: fmt.Errorf("%w: %d > %d", ErrCorruptLength, n, len(data))}
	}
	v.length = int(n)
	return lo + lenSize - off, nil
}

// WriteBin writes zero elements for a Vec that was never written to.
func (v *Vec[T, C]) WriteBin(c *savekit.Codec, buf []byte, off int) (int, error) {
	es, err := v.elemSize()
	if err != nil {
		return 0, err
	}
	n := v.Cap()
	size := es*n + lenSize
	if off < 0 || len(buf)-off < size {
		return 0, fmt.Errorf("fixvec: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, size, off, len(buf))
	}
	var zero T
	for i := 0; i < n; i++ {
		elem := &zero
		if v.data != nil {
			elem = &v.data[i]
		}
		if _, err := c.Marshal(elem, buf, off+i*es); err != nil {
			return 0, err
		}
	}
	c.ByteOrder().PutUint64(buf[off+es*n:], uint64(v.length))
	return size, nil
}
