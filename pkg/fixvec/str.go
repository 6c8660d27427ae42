package fixvec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/rawbytedev/savekit"
)

var ErrNULInString = errors.New("fixvec: string contains NUL")

// Str is a NUL-terminated string stored in exactly C.Cap() bytes. A string
// of full capacity has no terminator. Bytes after the terminator are not
// guaranteed to be zero; they are kept as read and written back unchanged.
type Str[C Capacity] struct {
	data []byte
}

func (s *Str[C]) Cap() int {
	var c C
	return c.Cap()
}

func (s *Str[C]) backing() []byte {
	if s.data == nil {
		s.data = make([]byte, s.Cap())
	}
	return s.data
}

func (s *Str[C]) text() []byte {
	if i := bytes.IndexByte(s.data, 0); i >= 0 {
		return s.data[:i]
	}
	return s.data
}

// Len returns the length of the string up to the terminator.
func (s *Str[C]) Len() int { return len(s.text()) }

func (s *Str[C]) String() string { return string(s.text()) }

// Set replaces the string. Only the new text and its terminator are
// written; the rest of the storage keeps its bytes.
func (s *Str[C]) Set(v string) error {
	if len(v) > s.Cap() {
		return fmt.Errorf("%w: %d bytes into %d", ErrCapacity, len(v), s.Cap())
	}
	if strings.IndexByte(v, 0) >= 0 {
		return ErrNULInString
	}
	b := s.backing()
	copy(b, v)
	if len(v) < len(b) {
		b[len(v)] = 0
	}
	return nil
}

// Clone returns a copy that shares no storage with s.
func (s *Str[C]) Clone() Str[C] {
	if s.data == nil {
		return Str[C]{}
	}
	return Str[C]{data: append([]byte(nil), s.data...)}
}

func (s *Str[C]) BinSize() int { return s.Cap() }

func (s *Str[C]) ReadBin(_ *savekit.Codec, buf []byte, off int) (int, error) {
	n := s.Cap()
	if off < 0 || len(buf)-off < n {
		return 0, fmt.Errorf("fixvec: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, n, off, len(buf))
	}
	copy(s.backing(), buf[off:off+n])
	return n, nil
}

func (s *Str[C]) WriteBin(_ *savekit.Codec, buf []byte, off int) (int, error) {
	n := s.Cap()
	if off < 0 || len(buf)-off < n {
		return 0, fmt.Errorf("fixvec: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, n, off, len(buf))
	}
	dst := buf[off : off+n]
	if s.data == nil {
		clear(dst)
	} else {
		copy(dst, s.data)
	}
	return n, nil
}
