// Package savedata decodes the top-level save record.
package savedata

import (
	"errors"
	"fmt"

	"github.com/rawbytedev/savekit"
	"github.com/rawbytedev/savekit/pkg/bitflags"
	"github.com/rawbytedev/savekit/pkg/fixvec"
	"github.com/rawbytedev/savekit/pkg/item"
)

const (
	Magic   uint32 = 0xb368fa6a
	Version uint8  = 10

	InventoryOffset = 0x53c78
	// Size is the shortest buffer FromBytes accepts: everything up to the
	// end of the inventory.
	Size = InventoryOffset + item.InventorySize
)

var (
	ErrNotSaveFile        = errors.New("savedata: not a save file")
	ErrUnsupportedVersion = errors.New("savedata: unsupported save version")
)

// UnsupportedVersionError carries the version byte found in the header.
type UnsupportedVersionError struct {
	Actual uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("%v %d (want %d)", ErrUnsupportedVersion, e.Actual, Version)
}

func (e *UnsupportedVersionError) Is(target error) bool { return target == ErrUnsupportedVersion }

type (
	PartyCap struct{}
	GuestCap struct{}
)

func (PartyCap) Cap() int { return 16 }
func (GuestCap) Cap() int { return 32 }

type Pos struct {
	X, Y, Z  float32
	Rotation float32
}

// SaveData is the decoded save. Regions without a field here are left as
// they are in the buffer by EncodeTo.
type SaveData struct {
	Magic   uint32 `bin:"assert=0xb368fa6a"`
	Version uint8  `bin:"assert=10"`

	PlayTime  PlayTime      `bin:"loc=0x10"`
	Timestamp SaveTimestamp `bin:"loc=0x18"`
	Gold      uint32

	// Updated by the game on load.
	SeenColonies uint32 `bin:"loc=0x4c"`

	SaveFlags bitflags.Flags[bitflags.Bytes4] `bin:"loc=0x664"`

	// Event flow resumed by end-of-chapter saves.
	SavedEventFlow uint32 `bin:"loc=0x684"`

	MapID   uint16 `bin:"loc=0x68c"`
	MapTime MapTime
	// Only honored while WeatherLocked is set.
	Weather uint16

	PlayerPos              Pos `bin:"loc=0x6a0"`
	ShipPos                Pos `bin:"loc=0x6c0"`
	ControlledCharacterIdx uint32

	PartyCharacters fixvec.Vec[uint16, PartyCap] `bin:"loc=0xe330"`
	PartyGuests     fixvec.Vec[uint16, GuestCap] `bin:"loc=0xe358"`

	Inventory item.Inventory `bin:"loc=0x53c78"`
}

// MapAssertion turns header mismatches into format errors.
func (sd *SaveData) MapAssertion(field string, actual uint64) error {
	switch field {
	case "Magic":
		return fmt.Errorf("%w: magic 0x%08x", ErrNotSaveFile, actual)
	case "Version":
		return &UnsupportedVersionError{Actual: uint8(actual)}
	}
	return nil
}

// FromBytes decodes a save. The magic number and version are checked
// before anything else is read.
func FromBytes(buf []byte) (*SaveData, error) {
	sd := new(SaveData)
	for _, name := range []string{"Magic", "Version"} {
		if err := savekit.UnmarshalField(buf, 0, sd, name); err != nil {
			return nil, err
		}
	}
	if _, err := savekit.Unmarshal(buf, 0, sd); err != nil {
		return nil, err
	}
	return sd, nil
}

// EncodeTo encodes sd over buf in place, typically the buffer it was
// decoded from.
func (sd *SaveData) EncodeTo(buf []byte) error {
	_, err := savekit.Marshal(sd, buf, 0)
	return err
}

// ToBytes encodes sd into a fresh zeroed buffer of Size bytes.
func (sd *SaveData) ToBytes() ([]byte, error) {
	buf := make([]byte, Size)
	if err := sd.EncodeTo(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Clone returns a deep copy. A plain struct copy shares the flag store and
// party lists with sd.
func (sd *SaveData) Clone() *SaveData {
	c := *sd
	c.SaveFlags = sd.SaveFlags.Clone()
	c.PartyCharacters = sd.PartyCharacters.Clone()
	c.PartyGuests = sd.PartyGuests.Clone()
	return &c
}

func (sd *SaveData) IsFlagSet(f SaveFlag) bool {
	v, err := sd.SaveFlags.Get(int(f))
	if err != nil {
		panic(err)
	}
	return v
}

func (sd *SaveData) SetFlag(f SaveFlag, v bool) {
	if err := sd.SaveFlags.Set(int(f), v); err != nil {
		panic(err)
	}
}

// IsDLC4 reports whether this is a Future Redeemed save.
func (sd *SaveData) IsDLC4() bool { return sd.IsFlagSet(Dlc4) }
