// Package bitflags stores boolean flags packed into a fixed number of bytes.
//
// Bit i lives in byte i/8 at position i%8, least significant bit first.
package bitflags

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/rawbytedev/savekit"
)

var ErrOutOfRange = errors.New("bitflags: index out of range")

// Width fixes the byte length of a Flags value.
type Width interface {
	Bytes() int
}

type (
	Bytes1 struct{}
	Bytes2 struct{}
	Bytes4 struct{}
	Bytes8 struct{}
)

func (Bytes1) Bytes() int { return 1 }
func (Bytes2) Bytes() int { return 2 }
func (Bytes4) Bytes() int { return 4 }
func (Bytes8) Bytes() int { return 8 }

// Flags is a bit set of exactly 8*W.Bytes() bits. The zero value is all
// bits clear.
//
// Storage is allocated on first write and shared by plain struct copies;
// use Clone for an independent value. Read paths never allocate.
type Flags[W Width] struct {
	data []byte
}

func (f *Flags[W]) width() int {
	var w W
	return w.Bytes()
}

func (f *Flags[W]) bytes() []byte {
	if f.data == nil {
		f.data = make([]byte, f.width())
	}
	return f.data
}

// Len returns the number of addressable bits.
func (f *Flags[W]) Len() int { return f.width() * 8 }

func (f *Flags[W]) check(i int) error {
	if i < 0 || i >= f.Len() {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, f.Len())
	}
	return nil
}

func (f *Flags[W]) Get(i int) (bool, error) {
	if err := f.check(i); err != nil {
		return false, err
	}
	if f.data == nil {
		return false, nil
	}
	return f.data[i/8]&(1<<(i%8)) != 0, nil
}

// Set changes bit i only.
func (f *Flags[W]) Set(i int, v bool) error {
	if err := f.check(i); err != nil {
		return err
	}
	b := f.bytes()
	if v {
		b[i/8] |= 1 << (i % 8)
	} else {
		b[i/8] &^= 1 << (i % 8)
	}
	return nil
}

// Count returns the number of set bits.
func (f *Flags[W]) Count() int {
	n := 0
	for _, b := range f.data {
		n += bits.OnesCount8(b)
	}
	return n
}

func (f *Flags[W]) Reset() {
	clear(f.data)
}

// Bytes returns a copy of the raw storage.
func (f *Flags[W]) Bytes() []byte {
	out := make([]byte, f.width())
	copy(out, f.data)
	return out
}

// Clone returns a copy that shares no storage with f.
func (f *Flags[W]) Clone() Flags[W] {
	if f.data == nil {
		return Flags[W]{}
	}
	return Flags[W]{data: append([]byte(nil), f.data...)}
}

var _ savekit.Field = (*Flags[Bytes4])(nil)

func (f *Flags[W]) BinSize() int { return f.width() }

func (f *Flags[W]) ReadBin(_ *savekit.Codec, buf []byte, off int) (int, error) {
	n := f.width()
	if off < 0 || len(buf)-off < n {
		return 0, fmt.Errorf("bitflags: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, n, off, len(buf))
	}
	copy(f.bytes(), buf[off:off+n])
	return n, nil
}

func (f *Flags[W]) WriteBin(_ *savekit.Codec, buf []byte, off int) (int, error) {
	n := f.width()
	if off < 0 || len(buf)-off < n {
		return 0, fmt.Errorf("bitflags: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, n, off, len(buf))
	}
	dst := buf[off : off+n]
	if f.data == nil {
		clear(dst)
	} else {
		copy(dst, f.data)
	}
	return n, nil
}
