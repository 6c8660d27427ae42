package item

import (
	"fmt"

	"github.com/rawbytedev/savekit"
)

// SlotSize is the on-disk size of one slot.
const SlotSize = 16

const (
	flagActive uint8 = 1 << iota
	flagFavorite
	flagNew
	flagHasCraftData
)

// ItemSlot is one inventory entry. The type tag is only meaningful while
// the slot is active.
type ItemSlot struct {
	itemID    uint16
	slotIndex uint16
	itemType  uint32
	chronoID  uint32
	amount    uint16
	flags     uint8
}

var _ savekit.Field = (*ItemSlot)(nil)

// NewSlot returns an active, unseen slot.
func NewSlot(t ItemType, id, index uint16, chronoID uint32, amount uint16) ItemSlot {
	return ItemSlot{
		itemID:    id,
		slotIndex: index,
		itemType:  uint32(t),
		chronoID:  chronoID,
		amount:    amount,
		flags:     flagActive | flagNew,
	}
}

func (s *ItemSlot) ItemID() uint16 { return s.itemID }

// Index is the slot's position within its category array.
func (s *ItemSlot) Index() uint16 { return s.slotIndex }

func (s *ItemSlot) Amount() uint16 { return s.amount }

func (s *ItemSlot) SetAmount(n uint16) { s.amount = n }

func (s *ItemSlot) ChronologicalID() uint32 { return s.chronoID }

func (s *ItemSlot) SetChronologicalID(id uint32) { s.chronoID = id }

// IsValid reports whether the slot holds an item.
func (s *ItemSlot) IsValid() bool { return s.flags&flagActive != 0 }

func (s *ItemSlot) IsFavorite() bool { return s.flags&flagFavorite != 0 }

func (s *ItemSlot) SetFavorite(v bool) { s.setFlag(flagFavorite, v) }

func (s *ItemSlot) IsNew() bool { return s.flags&flagNew != 0 }

func (s *ItemSlot) SetNew(v bool) { s.setFlag(flagNew, v) }

func (s *ItemSlot) HasCraftData() bool { return s.flags&flagHasCraftData != 0 }

// ItemType panics if the slot is empty or carries an unknown tag.
func (s *ItemSlot) ItemType() ItemType {
	if !s.IsValid() {
		panic("item: type of empty slot")
	}
	t, err := ParseItemType(s.itemType)
	if err != nil {
		panic(err)
	}
	return t
}

// Clear empties the slot, keeping its positional index.
func (s *ItemSlot) Clear() {
	*s = ItemSlot{slotIndex: s.slotIndex}
}

func (s *ItemSlot) setFlag(bit uint8, v bool) {
	if v {
		s.flags |= bit
	} else {
		s.flags &^= bit
	}
}

func (s *ItemSlot) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("slot %d: empty", s.slotIndex)
	}
	return fmt.Sprintf("slot %d: item %d x%d (%s)", s.slotIndex, s.itemID, s.amount, ItemType(s.itemType))
}

func (s *ItemSlot) BinSize() int { return SlotSize }

func (s *ItemSlot) ReadBin(c *savekit.Codec, buf []byte, off int) (int, error) {
	if off < 0 || len(buf)-off < SlotSize {
		return 0, fmt.Errorf("item slot: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, SlotSize, off, len(buf))
	}
	b, order := buf[off:off+SlotSize], c.ByteOrder()
	s.itemID = order.Uint16(b[0:])
	s.slotIndex = order.Uint16(b[2:])
	s.itemType = order.Uint32(b[4:])
	s.chronoID = order.Uint32(b[8:])
	s.amount = order.Uint16(b[0xc:])
	s.flags = b[0xe]
	return SlotSize, nil
}

// WriteBin leaves the trailing padding byte untouched.
func (s *ItemSlot) WriteBin(c *savekit.Codec, buf []byte, off int) (int, error) {
	if off < 0 || len(buf)-off < SlotSize {
		return 0, fmt.Errorf("item slot: %w: need %d bytes at 0x%x, have %d", savekit.ErrShortBuffer, SlotSize, off, len(buf))
	}
	b, order := buf[off:off+SlotSize], c.ByteOrder()
	order.PutUint16(b[0:], s.itemID)
	order.PutUint16(b[2:], s.slotIndex)
	order.PutUint32(b[4:], s.itemType)
	order.PutUint32(b[8:], s.chronoID)
	order.PutUint16(b[0xc:], s.amount)
	b[0xe] = s.flags
	return SlotSize, nil
}
