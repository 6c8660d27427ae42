// Package item models the inventory region of a save: 16-byte item slots
// grouped into one fixed array per item category.
package item

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownType   = errors.New("item: unknown item type")
	ErrUnknownItem   = errors.New("item: no category for item id")
	ErrItemNotFound  = errors.New("item: item not in inventory")
	ErrSameSlot      = errors.New("item: both ids resolve to the same slot")
	ErrNoSlots       = errors.New("item: category has no inventory slots")
	ErrInventoryFull = errors.New("item: no free slot")
)

// ItemType is the category tag stored in a slot.
type ItemType uint32

const (
	Cylinder ItemType = iota + 1
	Gem
	Collection
	Info
	Accessory
	Collectopedia
	Precious
	Exchange
	Extra
)

// Types lists every category in tag order.
var Types = []ItemType{Cylinder, Gem, Collection, Info, Accessory, Collectopedia, Precious, Exchange, Extra}

var typeNames = [...]string{
	Cylinder:      "Cylinder",
	Gem:           "Gem",
	Collection:    "Collection",
	Info:          "Info",
	Accessory:     "Accessory",
	Collectopedia: "Collectopedia",
	Precious:      "Precious",
	Exchange:      "Exchange",
	Extra:         "Extra",
}

var langIDs = [...]string{
	Cylinder:      "cylinder",
	Gem:           "gem",
	Collection:    "collection",
	Info:          "info",
	Accessory:     "accessory",
	Collectopedia: "collepedia",
	Precious:      "precious",
	Exchange:      "exchange",
	Extra:         "extra",
}

// ParseItemType validates a raw tag read from a slot.
func ParseItemType(v uint32) (ItemType, error) {
	t := ItemType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownType, v)
	}
	return t, nil
}

// ParseItemTypeName accepts either the Go name or the lang id, case-insensitively.
func ParseItemTypeName(s string) (ItemType, error) {
	for _, t := range Types {
		if strings.EqualFold(s, t.String()) || strings.EqualFold(s, t.LangID()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

func (t ItemType) Valid() bool { return t >= Cylinder && t <= Extra }

// LangID is the key used by the game's text tables for this category.
func (t ItemType) LangID() string {
	if !t.Valid() {
		return ""
	}
	return langIDs[t]
}

func (t ItemType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ItemType(%d)", uint32(t))
	}
	return typeNames[t]
}

// HasSlots reports whether the category owns an inventory array.
func (t ItemType) HasSlots() bool { return t.Valid() && t != Collectopedia }

func (t ItemType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, uint32(t))
	}
	return []byte(t.LangID()), nil
}

func (t *ItemType) UnmarshalText(b []byte) error {
	v, err := ParseItemTypeName(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
