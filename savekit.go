// Package savekit maps fixed-offset binary records onto Go structs.
//
// A record is a struct whose exported fields are laid out in declaration
// order, each optionally pinned to an absolute offset with a `bin` tag:
//
//	type Header struct {
//		Magic   uint32 `bin:"assert=0xb368fa6a"`
//		Version uint8  `bin:"assert=10"`
//		Gold    uint32 `bin:"loc=0x10"`
//		Weather uint16 `bin:"loc=0x20,default=0"`
//		_       struct{} `bin:"size=0x40"`
//	}
//
// Supported field types are bool, fixed-width integers, floats, arrays of
// supported types, nested records, and any type whose pointer implements
// Field. Bytes between fields are never written, so encoding into the buffer
// a record was read from preserves everything the record does not model.
package savekit

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/rawbytedev/savekit/internal/common"
)

type Options struct {
	ByteOrder binary.ByteOrder // defaults to little-endian
}

// Codec caches one layout plan per type. It is safe for concurrent use.
type Codec struct {
	order binary.ByteOrder
	plans map[reflect.Type]*typePlan
	mu    sync.RWMutex
}

func New(opts Options) *Codec {
	order := opts.ByteOrder
	if order == nil {
		order = binary.LittleEndian
	}
	return &Codec{
		order: order,
		plans: make(map[reflect.Type]*typePlan),
	}
}

var std = New(Options{})

// Default returns the little-endian codec behind the package-level functions.
func Default() *Codec { return std }

func (c *Codec) ByteOrder() binary.ByteOrder { return c.order }

// Unmarshal decodes out from buf at off using the default codec.
func Unmarshal(buf []byte, off int, out any) (int, error) { return std.Unmarshal(buf, off, out) }

// Marshal encodes in into buf at off using the default codec.
func Marshal(in any, buf []byte, off int) (int, error) { return std.Marshal(in, buf, off) }

func SizeOf(v any) (int, error) { return std.SizeOf(v) }

func LayoutOf(v any) (*Layout, error) { return std.LayoutOf(v) }

func UnmarshalField(buf []byte, off int, out any, name string) error {
	return std.UnmarshalField(buf, off, out, name)
}

// Unmarshal reads a value of out's element type at off. out must be a
// non-nil pointer. It returns the number of bytes the type occupies.
func (c *Codec) Unmarshal(buf []byte, off int, out any) (int, error) {
	v, err := pointee(out)
	if err != nil {
		return 0, err
	}
	p, err := c.getPlan(v.Type())
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, &DecodeError{Type: p.typ.String(), Offset: off, Err: shortBuffer(off, p.size, len(buf))}
	}
	if err := c.decode(p, v, buf, off); err != nil {
		return 0, err
	}
	return p.size, nil
}

// Marshal writes in at off, overwriting exactly SizeOf(in) bytes. Nothing is
// written unless the whole range fits in buf.
func (c *Codec) Marshal(in any, buf []byte, off int) (int, error) {
	v := reflect.ValueOf(in)
	if !v.IsValid() {
		return 0, fmt.Errorf("%w: nil value", ErrUnsupported)
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, ErrNotPointer
		}
		v = v.Elem()
	} else {
		// Field implementations have pointer receivers.
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		v = cp
	}
	p, err := c.getPlan(v.Type())
	if err != nil {
		return 0, err
	}
	if !common.InBounds(off, p.size, len(buf)) {
		return 0, &EncodeError{Type: p.typ.String(), Offset: off, Size: p.size, Len: len(buf),
			Err: shortBuffer(off, p.size, len(buf))}
	}
	if err := c.encode(p, v, buf, off); err != nil {
		return 0, err
	}
	return p.size, nil
}

// SizeOf returns the static encoded size of v's type. v may be a value or a
// pointer to one.
func (c *Codec) SizeOf(v any) (int, error) {
	t, err := typeOf(v)
	if err != nil {
		return 0, err
	}
	p, err := c.getPlan(t)
	if err != nil {
		return 0, err
	}
	return p.size, nil
}

// UnmarshalField decodes the single field name of the record pointed to by
// out, jumping straight to its offset. Assertions on that field still apply.
func (c *Codec) UnmarshalField(buf []byte, off int, out any, name string) error {
	v, err := pointee(out)
	if err != nil {
		return err
	}
	p, err := c.getPlan(v.Type())
	if err != nil {
		return err
	}
	if p.kind != kindStruct {
		return fmt.Errorf("%w: %s is not a record", ErrUnsupported, p.typ)
	}
	f, ok := p.field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, p.typ, name)
	}
	return c.decodeField(p, f, v, buf, off)
}

func (c *Codec) decode(p *typePlan, v reflect.Value, buf []byte, off int) error {
	switch p.kind {
	case kindFixed:
		if !common.InBounds(off, p.size, len(buf)) {
			return &DecodeError{Type: p.typ.String(), Offset: off, Err: shortBuffer(off, p.size, len(buf))}
		}
		common.SetFixed(v, buf[off:off+p.size], p.prim, c.order)
	case kindBytes:
		if !common.InBounds(off, p.size, len(buf)) {
			return &DecodeError{Type: p.typ.String(), Offset: off, Err: shortBuffer(off, p.size, len(buf))}
		}
		reflect.Copy(v, reflect.ValueOf(buf[off:off+p.size]))
	case kindArray:
		for i := 0; i < p.count; i++ {
			eo := off + i*p.elem.size
			if err := c.decode(p.elem, v.Index(i), buf, eo); err != nil {
				return prefixField(p.typ.String(), fmt.Sprintf("[%d]", i), eo, err)
			}
		}
	case kindField:
		if !common.InBounds(off, p.size, len(buf)) {
			return &DecodeError{Type: p.typ.String(), Offset: off, Err: shortBuffer(off, p.size, len(buf))}
		}
		if _, err := v.Addr().Interface().(Field).ReadBin(c, buf, off); err != nil {
			return prefixField(p.typ.String(), "", off, err)
		}
	case kindStruct:
		for i := range p.fields {
			if err := c.decodeField(p, &p.fields[i], v, buf, off); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Codec) decodeField(p *typePlan, f *fieldPlan, v reflect.Value, buf []byte, off int) error {
	fo := off + f.offset
	fv := v.Field(f.idx)
	if f.hasDef && !common.InBounds(fo, f.plan.size, len(buf)) {
		fv.Set(f.def)
		return nil
	}
	if err := c.decode(f.plan, fv, buf, fo); err != nil {
		return prefixField(p.typ.String(), f.name, fo, err)
	}
	if !f.hasAssert {
		return nil
	}
	actual := common.Bits(fv)
	if actual == f.assert {
		return nil
	}
	var err error
	if p.mapper && v.CanAddr() {
		err = v.Addr().Interface().(AssertionMapper).MapAssertion(f.name, actual)
	}
	if err == nil {
		err = &AssertionError{Field: f.name, Expected: f.assert, Actual: actual}
	}
	return &DecodeError{Type: p.typ.String(), Field: f.name, Offset: fo, Err: err}
}

// encode assumes the caller has bounds checked the full range.
func (c *Codec) encode(p *typePlan, v reflect.Value, buf []byte, off int) error {
	switch p.kind {
	case kindFixed:
		common.PutFixed(buf[off:off+p.size], v, p.prim, c.order)
	case kindBytes:
		reflect.Copy(reflect.ValueOf(buf[off:off+p.size]), v)
	case kindArray:
		for i := 0; i < p.count; i++ {
			if err := c.encode(p.elem, v.Index(i), buf, off+i*p.elem.size); err != nil {
				return err
			}
		}
	case kindField:
		if _, err := v.Addr().Interface().(Field).WriteBin(c, buf, off); err != nil {
			return fmt.Errorf("encode %s at 0x%x: %w", p.typ, off, err)
		}
	case kindStruct:
		for i := range p.fields {
			f := &p.fields[i]
			fo := off + f.offset
			if f.hasAssert {
				tmp := reflect.New(f.plan.typ).Elem()
				common.SetBits(tmp, f.assert)
				common.PutFixed(buf[fo:fo+f.plan.size], tmp, f.plan.prim, c.order)
				continue
			}
			if err := c.encode(f.plan, v.Field(f.idx), buf, fo); err != nil {
				return err
			}
		}
	}
	return nil
}

func pointee(out any) (reflect.Value, error) {
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, ErrNotPointer
	}
	return v.Elem(), nil
}

func typeOf(v any) (reflect.Type, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("%w: nil value", ErrUnsupported)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, nil
}
