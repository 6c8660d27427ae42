package savekit

import (
	"fmt"
	"reflect"

	"github.com/rawbytedev/savekit/internal/common"
)

type planKind uint8

const (
	kindFixed planKind = iota
	kindBytes
	kindArray
	kindStruct
	kindField
)

var (
	fieldType  = reflect.TypeOf((*Field)(nil)).Elem()
	mapperType = reflect.TypeOf((*AssertionMapper)(nil)).Elem()
)

// typePlan describes how one Go type maps onto a byte range.
type typePlan struct {
	typ    reflect.Type
	kind   planKind
	size   int
	prim   reflect.Kind // kindFixed
	elem   *typePlan    // kindArray
	count  int          // kindArray, kindBytes
	fields []fieldPlan  // kindStruct
	mapper bool         // *typ implements AssertionMapper
}

type fieldPlan struct {
	name      string
	idx       int
	offset    int
	plan      *typePlan
	hasAssert bool
	assert    uint64
	hasDef    bool
	def       reflect.Value
}

func (p *typePlan) field(name string) (*fieldPlan, bool) {
	for i := range p.fields {
		if p.fields[i].name == name {
			return &p.fields[i], true
		}
	}
	return nil, false
}

// getPlan returns the cached plan for t, building it on first use.
//
// Building runs without the lock held: Field implementations may ask the
// default codec for sizes of their own elements while their plan is built.
func (c *Codec) getPlan(t reflect.Type) (*typePlan, error) {
	if p, ok := c.cached(t); ok {
		return p, nil
	}
	b := &planBuilder{c: c, built: make(map[reflect.Type]*typePlan)}
	if _, err := b.plan(t); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for bt, bp := range b.built {
		if _, ok := c.plans[bt]; !ok {
			c.plans[bt] = bp
		}
	}
	return c.plans[t], nil
}

func (c *Codec) cached(t reflect.Type) (*typePlan, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.plans[t]
	return p, ok
}

type planBuilder struct {
	c     *Codec
	built map[reflect.Type]*typePlan
}

func (b *planBuilder) plan(t reflect.Type) (*typePlan, error) {
	if p, ok := b.built[t]; ok {
		return p, nil
	}
	if p, ok := b.c.cached(t); ok {
		return p, nil
	}
	p, err := b.build(t)
	if err != nil {
		return nil, err
	}
	b.built[t] = p
	return p, nil
}

func (b *planBuilder) build(t reflect.Type) (*typePlan, error) {
	if reflect.PointerTo(t).Implements(fieldType) {
		size := reflect.New(t).Interface().(Field).BinSize()
		if size < 0 {
			return nil, fmt.Errorf("%w: %s reports negative size", ErrLayout, t)
		}
		return &typePlan{typ: t, kind: kindField, size: size}, nil
	}

	k := t.Kind()
	switch {
	case common.IsFixedKind(k):
		return &typePlan{typ: t, kind: kindFixed, size: common.FixedSize(k), prim: k}, nil
	case k == reflect.Array && t.Elem().Kind() == reflect.Uint8 && !reflect.PointerTo(t.Elem()).Implements(fieldType):
		return &typePlan{typ: t, kind: kindBytes, size: t.Len(), count: t.Len()}, nil
	case k == reflect.Array:
		elem, err := b.plan(t.Elem())
		if err != nil {
			return nil, err
		}
		return &typePlan{typ: t, kind: kindArray, size: elem.size * t.Len(), elem: elem, count: t.Len()}, nil
	case k == reflect.Struct:
		return b.buildStruct(t)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, t)
	}
}

func (b *planBuilder) buildStruct(t reflect.Type) (*typePlan, error) {
	p := &typePlan{
		typ:    t,
		kind:   kindStruct,
		mapper: reflect.PointerTo(t).Implements(mapperType),
	}
	cursor := 0
	declared := -1

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		opts, err := parseTag(sf.Tag.Get(tagKey))
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}
		if opts.skip {
			continue
		}

		if opts.hasLoc {
			if opts.loc < cursor {
				return nil, fmt.Errorf("%w: %s.%s at 0x%x overlaps previous field ending at 0x%x",
					ErrLayout, t, sf.Name, opts.loc, cursor)
			}
			cursor = opts.loc
		}

		if sf.Name == "_" {
			if opts.hasSize {
				declared = opts.size
			}
			if !opts.hasLoc && !opts.hasSize {
				pad, err := b.plan(sf.Type)
				if err != nil {
					return nil, fmt.Errorf("%s padding: %w", t, err)
				}
				cursor += pad.size
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		if opts.hasSize {
			return nil, fmt.Errorf("%w: %s.%s: size= is only valid on a blank field", ErrLayout, t, sf.Name)
		}

		fp, err := b.plan(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
		}
		f := fieldPlan{name: sf.Name, idx: i, offset: cursor, plan: fp}

		if opts.hasAssert {
			if fp.kind != kindFixed || !common.IsIntegerKind(fp.prim) {
				return nil, fmt.Errorf("%w: %s.%s: assert= needs an integer field", ErrLayout, t, sf.Name)
			}
			if !fitsKind(fp.prim, opts.assert) {
				return nil, fmt.Errorf("%w: %s.%s: assert value 0x%x overflows %s", ErrLayout, t, sf.Name, opts.assert, sf.Type)
			}
			f.hasAssert, f.assert = true, opts.assert
		}
		if opts.hasDef {
			if fp.kind != kindFixed {
				return nil, fmt.Errorf("%w: %s.%s: default= needs a scalar field", ErrLayout, t, sf.Name)
			}
			def, err := parseDefault(sf.Type, opts.def)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", t, sf.Name, err)
			}
			f.hasDef, f.def = true, def
		}

		p.fields = append(p.fields, f)
		cursor += fp.size
	}

	p.size = cursor
	if declared >= 0 {
		if declared < cursor {
			return nil, fmt.Errorf("%w: %s declares size 0x%x but fields end at 0x%x", ErrLayout, t, declared, cursor)
		}
		p.size = declared
	}
	return p, nil
}
