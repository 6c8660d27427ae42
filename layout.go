package savekit

import "fmt"

// Layout is the resolved placement of a record's fields.
type Layout struct {
	Type   string
	Size   int
	Fields []FieldLayout
}

type FieldLayout struct {
	Name       string
	Type       string
	Offset     int
	Size       int
	Assert     *uint64
	HasDefault bool
}

// Field looks up a field by its Go name.
func (l *Layout) Field(name string) (FieldLayout, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// Offset returns the offset of name relative to the start of the record.
func (l *Layout) Offset(name string) (int, error) {
	f, ok := l.Field(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrUnknownField, l.Type, name)
	}
	return f.Offset, nil
}

// LayoutOf resolves the field offsets of a record type.
func (c *Codec) LayoutOf(v any) (*Layout, error) {
	t, err := typeOf(v)
	if err != nil {
		return nil, err
	}
	p, err := c.getPlan(t)
	if err != nil {
		return nil, err
	}
	if p.kind != kindStruct {
		return nil, fmt.Errorf("%w: %s is not a record", ErrUnsupported, t)
	}
	l := &Layout{Type: t.String(), Size: p.size, Fields: make([]FieldLayout, 0, len(p.fields))}
	for _, f := range p.fields {
		fl := FieldLayout{
			Name:       f.name,
			Type:       f.plan.typ.String(),
			Offset:     f.offset,
			Size:       f.plan.size,
			HasDefault: f.hasDef,
		}
		if f.hasAssert {
			a := f.assert
			fl.Assert = &a
		}
		l.Fields = append(l.Fields, fl)
	}
	return l, nil
}
