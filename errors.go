package savekit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotPointer   = errors.New("expected non-nil pointer")
	ErrUnsupported  = errors.New("unsupported type")
	ErrLayout       = errors.New("invalid layout")
	ErrShortBuffer  = errors.New("buffer too short")
	ErrAssertion    = errors.New("assertion failed")
	ErrUnknownField = errors.New("unknown field")
)

// DecodeError reports where a read failed.
//
// Field is the dotted path of the failing field inside Type; Offset is the
// absolute byte offset of that field in the buffer.
type DecodeError struct {
	Type   string
	Field  string
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode %s at 0x%x: %v", e.Type, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode %s.%s at 0x%x: %v", e.Type, e.Field, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeError reports a write whose destination range is out of bounds.
type EncodeError struct {
	Type   string
	Offset int
	Size   int
	Len    int
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %d bytes at 0x%x into buffer of %d: %v", e.Type, e.Size, e.Offset, e.Len, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// AssertionError is the generic failure of an assert= field.
type AssertionError struct {
	Field    string
	Expected uint64
	Actual   uint64
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected 0x%x, got 0x%x", e.Field, e.Expected, e.Actual)
}

func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

func shortBuffer(off, need, have int) error {
	return fmt.Errorf("%w: need %d bytes at 0x%x, have %d", ErrShortBuffer, need, off, have)
}

// prefixField attaches the enclosing field to a nested decode error so the
// reported path reads from the outermost record inwards.
func prefixField(typ, field string, off int, err error) error {
	var de *DecodeError
	if errors.As(err, &de) {
		switch {
		case field == "":
		case de.Field == "":
			de.Field = field
		case strings.HasPrefix(de.Field, "["):
			de.Field = field + de.Field
		default:
			de.Field = field + "." + de.Field
		}
		de.Type = typ
		return err
	}
	return &DecodeError{Type: typ, Field: field, Offset: off, Err: err}
}
