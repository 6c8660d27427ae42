package item

import (
	"fmt"
	"iter"
)

// Per-category slot counts.
const (
	CylinderSlots   = 16
	GemSlots        = 300
	CollectionSlots = 1500
	InfoSlots       = 800
	AccessorySlots  = 1500
	PreciousSlots   = 200
	ExchangeSlots   = 16
	ExtraSlots      = 64

	TotalSlots = CylinderSlots + GemSlots + CollectionSlots + InfoSlots +
		AccessorySlots + PreciousSlots + ExchangeSlots + ExtraSlots

	slotsOffset = 0x28
	// InventorySize is the encoded size of an Inventory.
	InventorySize = slotsOffset + TotalSlots*SlotSize
)

// Inventory is the item region of a save. Offsets are relative to the
// start of the region.
type Inventory struct {
	ChronologicalIDMax uint32
	Cylinders          [CylinderSlots]ItemSlot `bin:"loc=0x28"`
	Gems               [GemSlots]ItemSlot
	Collectibles       [CollectionSlots]ItemSlot
	Infos              [InfoSlots]ItemSlot
	Accessories        [AccessorySlots]ItemSlot
	KeyItems           [PreciousSlots]ItemSlot
	Exchange           [ExchangeSlots]ItemSlot
	Extra              [ExtraSlots]ItemSlot
}

// SlotView is a read-only view over every slot of one category, active or not.
type SlotView struct {
	slots []ItemSlot
}

func (v SlotView) Len() int { return len(v.slots) }

// At returns a copy of slot i.
func (v SlotView) At(i int) ItemSlot { return v.slots[i] }

// Find returns the index of the first active slot holding id.
func (v SlotView) Find(id uint16) (int, bool) {
	for i := range v.slots {
		if v.slots[i].IsValid() && v.slots[i].itemID == id {
			return i, true
		}
	}
	return -1, false
}

// All yields every slot with its index.
func (v SlotView) All() iter.Seq2[int, ItemSlot] {
	return func(yield func(int, ItemSlot) bool) {
		for i, s := range v.slots {
			if !yield(i, s) {
				return
			}
		}
	}
}

// Active yields only occupied slots.
func (v SlotView) Active() iter.Seq2[int, ItemSlot] {
	return func(yield func(int, ItemSlot) bool) {
		for i, s := range v.slots {
			if s.IsValid() && !yield(i, s) {
				return
			}
		}
	}
}

func (inv *Inventory) array(t ItemType) []ItemSlot {
	switch t {
	case Cylinder:
		return inv.Cylinders[:]
	case Gem:
		return inv.Gems[:]
	case Collection:
		return inv.Collectibles[:]
	case Info:
		return inv.Infos[:]
	case Accessory:
		return inv.Accessories[:]
	case Precious:
		return inv.KeyItems[:]
	case Exchange:
		return inv.Exchange[:]
	case Extra:
		return inv.Extra[:]
	default:
		return nil
	}
}

// Slots returns the category's slots; categories without an array give an
// empty view.
func (inv *Inventory) Slots(t ItemType) SlotView {
	return SlotView{slots: inv.array(t)}
}

// SlotsMut aliases the category's backing array. It panics for categories
// without one.
func (inv *Inventory) SlotsMut(t ItemType) []ItemSlot {
	s := inv.array(t)
	if s == nil {
		panic(fmt.Errorf("%w: %s", ErrNoSlots, t))
	}
	return s
}

func (inv *Inventory) locate(cls Classifier, id uint16) (ItemType, int, error) {
	t, err := cls.Classify(id)
	if err != nil {
		return 0, 0, err
	}
	i, ok := inv.Slots(t).Find(id)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %d (%s)", ErrItemNotFound, id, t)
	}
	return t, i, nil
}

// SplitTwo returns the slots holding idA and idB. The two pointers never
// refer to the same slot.
func (inv *Inventory) SplitTwo(cls Classifier, idA, idB uint16) (*ItemSlot, *ItemSlot, error) {
	ta, ia, err := inv.locate(cls, idA)
	if err != nil {
		return nil, nil, err
	}
	tb, ib, err := inv.locate(cls, idB)
	if err != nil {
		return nil, nil, err
	}

	if ta != tb {
		return &inv.SlotsMut(ta)[ia], &inv.SlotsMut(tb)[ib], nil
	}
	if ia == ib {
		return nil, nil, fmt.Errorf("%w: %d and %d at %s[%d]", ErrSameSlot, idA, idB, ta, ia)
	}
	slots := inv.SlotsMut(ta)
	if ia > ib {
		head, tail := slots[:ia], slots[ia:]
		return &tail[0], &head[ib], nil
	}
	head, tail := slots[:ib], slots[ib:]
	return &head[ia], &tail[0], nil
}

// MustSplitTwo is SplitTwo for callers that have already validated both ids.
func (inv *Inventory) MustSplitTwo(cls Classifier, idA, idB uint16) (*ItemSlot, *ItemSlot) {
	a, b, err := inv.SplitTwo(cls, idA, idB)
	if err != nil {
		panic(err)
	}
	return a, b
}

// Swap exchanges the sort position of two items.
func (inv *Inventory) Swap(cls Classifier, idA, idB uint16) error {
	a, b, err := inv.SplitTwo(cls, idA, idB)
	if err != nil {
		return err
	}
	ca, cb := a.ChronologicalID(), b.ChronologicalID()
	a.SetChronologicalID(cb)
	b.SetChronologicalID(ca)
	return nil
}

// Add places amount of id into the first free slot of category t and
// returns that slot.
func (inv *Inventory) Add(t ItemType, id, amount uint16) (*ItemSlot, error) {
	if !t.HasSlots() {
		return nil, fmt.Errorf("%w: %s", ErrNoSlots, t)
	}
	slots := inv.SlotsMut(t)
	for i := range slots {
		if slots[i].IsValid() {
			continue
		}
		inv.ChronologicalIDMax++
		slots[i] = NewSlot(t, id, uint16(i), inv.ChronologicalIDMax, amount)
		return &slots[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInventoryFull, t)
}
