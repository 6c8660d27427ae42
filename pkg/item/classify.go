package item

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Classifier maps an item id to the category whose array holds it.
type Classifier interface {
	Classify(id uint16) (ItemType, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(id uint16) (ItemType, error)

func (f ClassifierFunc) Classify(id uint16) (ItemType, error) { return f(id) }

// Range assigns the inclusive id span [First, Last] to one category.
type Range struct {
	First uint16   `yaml:"first"`
	Last  uint16   `yaml:"last"`
	Type  ItemType `yaml:"type"`
}

// RangeTable classifies ids by binary search over sorted, disjoint ranges.
type RangeTable struct {
	ranges []Range
}

type rangeFile struct {
	Ranges []Range `yaml:"ranges"`
}

func NewRangeTable(ranges ...Range) (*RangeTable, error) {
	rs := slices.Clone(ranges)
	slices.SortFunc(rs, func(a, b Range) int { return cmp.Compare(a.First, b.First) })
	for i, r := range rs {
		if r.Last < r.First {
			return nil, fmt.Errorf("item: range %d-%d is inverted", r.First, r.Last)
		}
		if !r.Type.Valid() {
			return nil, fmt.Errorf("%w: range %d-%d", ErrUnknownType, r.First, r.Last)
		}
		if i > 0 && rs[i-1].Last >= r.First {
			return nil, fmt.Errorf("item: range %d-%d overlaps %d-%d", r.First, r.Last, rs[i-1].First, rs[i-1].Last)
		}
	}
	return &RangeTable{ranges: rs}, nil
}

// ParseRangeTable reads a YAML document of the form
//
//	ranges:
//	  - {first: 1, last: 15, type: cylinder}
func ParseRangeTable(data []byte) (*RangeTable, error) {
	var f rangeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("item: parse range table: %w", err)
	}
	return NewRangeTable(f.Ranges...)
}

func LoadRangeTable(path string) (*RangeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("item: read range table: %w", err)
	}
	return ParseRangeTable(data)
}

func (t *RangeTable) Classify(id uint16) (ItemType, error) {
	i, found := slices.BinarySearchFunc(t.ranges, id, func(r Range, id uint16) int {
		return cmp.Compare(r.First, id)
	})
	if found {
		return t.ranges[i].Type, nil
	}
	if i > 0 && id <= t.ranges[i-1].Last {
		return t.ranges[i-1].Type, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnknownItem, id)
}

func (t *RangeTable) Ranges() []Range { return slices.Clone(t.ranges) }

// UnmarshalYAML accepts a category name, lang id, or numeric tag.
func (t *ItemType) UnmarshalYAML(n *yaml.Node) error {
	if v, err := strconv.ParseUint(n.Value, 0, 32); err == nil {
		pt, err := ParseItemType(uint32(v))
		if err != nil {
			return err
		}
		*t = pt
		return nil
	}
	return t.UnmarshalText([]byte(n.Value))
}
