package savedata

import (
	"encoding/binary"
	"errors"
	"sync"
	"testing"
	"testing/quick"
	"time"

	"github.com/rawbytedev/savekit"
	"github.com/rawbytedev/savekit/pkg/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blankSave() []byte {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint32(buf, Magic)
	buf[4] = Version
	return buf
}

func FuzzFromBytes(f *testing.F) {
	f.Add([]byte{0x6a, 0xfa, 0x68, 0xb3, 0x0a, 0, 0})
	f.Add([]byte{0x6a, 0xfa, 0x68, 0xb3, 0x09})
	f.Fuzz(func(t *testing.T, data []byte) {
		sd, err := FromBytes(data)
		if err != nil {
			require.Nil(t, sd)
			return
		}
		require.GreaterOrEqual(t, len(data), Size)
	})
}

func TestLayoutMatchesFormat(t *testing.T) {
	l, err := savekit.LayoutOf(&SaveData{})
	require.NoError(t, err)
	require.Equal(t, Size, l.Size)

	want := map[string]int{
		"Magic":                  0,
		"Version":                4,
		"PlayTime":               0x10,
		"Timestamp":              0x18,
		"Gold":                   0x20,
		"SeenColonies":           0x4c,
		"SaveFlags":              0x664,
		"SavedEventFlow":         0x684,
		"MapID":                  0x68c,
		"MapTime":                0x68e,
		"Weather":                0x692,
		"PlayerPos":              0x6a0,
		"ShipPos":                0x6c0,
		"ControlledCharacterIdx": 0x6d0,
		"PartyCharacters":        0xe330,
		"PartyGuests":            0xe358,
		"Inventory":              InventoryOffset,
	}
	for name, off := range want {
		got, err := l.Offset(name)
		require.NoError(t, err, name)
		assert.Equal(t, off, got, name)
	}

	party, _ := l.Field("PartyCharacters")
	require.Equal(t, 0xe358-0xe330, party.Size)
	guests, _ := l.Field("PartyGuests")
	require.Equal(t, 0xe3a0-0xe358, guests.Size)
	flags, _ := l.Field("SaveFlags")
	require.Equal(t, 4, flags.Size)

	magic, _ := l.Field("Magic")
	require.NotNil(t, magic.Assert)
	require.Equal(t, uint64(Magic), *magic.Assert)
	version, _ := l.Field("Version")
	require.NotNil(t, version.Assert)
	require.Equal(t, uint64(Version), *version.Assert)
}

func TestMagicProperty(t *testing.T) {
	condition := func(head [4]byte, rest uint8) bool {
		if binary.LittleEndian.Uint32(head[:]) == Magic {
			return true
		}
		buf := blankSave()
		copy(buf, head[:])
		buf[5] = rest
		_, err := FromBytes(buf)
		if !errors.Is(err, ErrNotSaveFile) {
			return false
		}
		// only the magic is looked at
		_, err = FromBytes(head[:])
		return errors.Is(err, ErrNotSaveFile)
	}
	require.NoError(t, quick.Check(condition, &quick.Config{MaxCount: 50}))
}

func TestVersionProperty(t *testing.T) {
	for v := 0; v < 256; v++ {
		if uint8(v) == Version {
			continue
		}
		buf := []byte{0x6a, 0xfa, 0x68, 0xb3, byte(v)}
		_, err := FromBytes(buf)
		require.ErrorIs(t, err, ErrUnsupportedVersion)
		require.NotErrorIs(t, err, ErrNotSaveFile)
		var ve *UnsupportedVersionError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, uint8(v), ve.Actual)
	}
}

func TestShortBuffer(t *testing.T) {
	buf := blankSave()
	_, err := FromBytes(buf[:len(buf)-1])
	require.ErrorIs(t, err, savekit.ErrShortBuffer)

	sd, err := FromBytes(buf)
	require.NoError(t, err)
	require.ErrorIs(t, sd.EncodeTo(buf[:100]), savekit.ErrShortBuffer)
}

func TestRoundTrip(t *testing.T) {
	sd, err := FromBytes(blankSave())
	require.NoError(t, err)

	sd.PlayTime = 3725
	sd.Timestamp = NewTimestamp(2023, 1, 2, 12, 28)
	sd.Gold = 123456
	sd.SeenColonies = 0x3f
	sd.SavedEventFlow = 10042
	sd.MapID = 9
	sd.MapTime = MapTime{Hour: 18, Minute: 45}
	sd.Weather = 3
	sd.PlayerPos = Pos{X: 1.5, Y: -2, Z: 300.25, Rotation: 3.14}
	sd.ShipPos = Pos{X: -10, Y: 0, Z: 7, Rotation: 0}
	sd.ControlledCharacterIdx = 2
	sd.SetFlag(TimeLocked, true)
	sd.SetFlag(Gauntlet, true)
	for _, id := range []uint16{1, 2, 3, 4, 5, 6} {
		require.NoError(t, sd.PartyCharacters.TryPush(id))
	}
	require.NoError(t, sd.PartyGuests.TryPush(900))
	_, err = sd.Inventory.Add(item.Accessory, 5, 1)
	require.NoError(t, err)

	buf, err := sd.ToBytes()
	require.NoError(t, err)
	require.Len(t, buf, Size)
	require.Equal(t, Magic, binary.LittleEndian.Uint32(buf))
	require.Equal(t, Version, buf[4])
	require.Equal(t, byte(0x21), buf[0x664])

	back, err := FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, sd, back)
	require.Equal(t, 6, back.PartyCharacters.Len())
	require.Equal(t, uint16(5), firstAccessoryID(t, back))
}

func firstAccessoryID(t *testing.T, sd *SaveData) uint16 {
	t.Helper()
	s := sd.Inventory.Slots(item.Accessory).At(0)
	require.True(t, s.IsValid())
	require.Equal(t, item.Accessory, s.ItemType())
	return s.ItemID()
}

func TestEncodePreservesUnmodeled(t *testing.T) {
	buf := blankSave()
	for _, off := range []int{5, 0x40, 0x710, 0x1000, 0xe3a0, 0x53c7c} {
		buf[off] = 0xa5
	}
	sd, err := FromBytes(buf)
	require.NoError(t, err)
	sd.Gold = 99
	require.NoError(t, sd.EncodeTo(buf))

	for _, off := range []int{5, 0x40, 0x710, 0x1000, 0xe3a0, 0x53c7c} {
		require.Equal(t, byte(0xa5), buf[off], "offset 0x%x", off)
	}
	require.Equal(t, uint32(99), binary.LittleEndian.Uint32(buf[0x20:]))
}

func TestLargerBufferAccepted(t *testing.T) {
	buf := append(blankSave(), make([]byte, 0x1000)...)
	binary.LittleEndian.PutUint32(buf[0x20:], 7)
	sd, err := FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, uint32(7), sd.Gold)
}

func TestFlags(t *testing.T) {
	sd, err := FromBytes(blankSave())
	require.NoError(t, err)
	for _, f := range AllFlags {
		require.False(t, sd.IsFlagSet(f), f.String())
	}
	sd.SetFlag(Dlc4, true)
	require.True(t, sd.IsDLC4())
	for _, f := range AllFlags {
		require.Equal(t, f == Dlc4, sd.IsFlagSet(f), f.String())
	}
	sd.SetFlag(Dlc4, false)
	require.False(t, sd.IsDLC4())

	require.Panics(t, func() { sd.IsFlagSet(SaveFlag(32)) })
	require.Panics(t, func() { sd.SetFlag(SaveFlag(-1), true) })
}

func TestParseSaveFlag(t *testing.T) {
	for _, f := range AllFlags {
		got, err := ParseSaveFlag(f.String())
		require.NoError(t, err)
		require.Equal(t, f, got)
	}
	got, err := ParseSaveFlag("Weather-Locked")
	require.NoError(t, err)
	require.Equal(t, WeatherLocked, got)
	_, err = ParseSaveFlag("nope")
	require.Error(t, err)
	require.Equal(t, "SaveFlag(9)", SaveFlag(9).String())
}

func TestTimestamp(t *testing.T) {
	ts := NewTimestamp(2023, 1, 2, 12, 28)
	require.Equal(t, uint32(2023), ts.Year())
	require.Equal(t, uint8(1), ts.Month())
	require.Equal(t, uint8(2), ts.Day())
	require.Equal(t, uint8(12), ts.Hour())
	require.Equal(t, uint8(28), ts.Minute())
	require.Equal(t, "2023-01-02", ts.ISODate())
	require.Equal(t, "12:28", ts.ISOTime())

	tm := time.Date(2024, time.December, 31, 23, 59, 42, 0, time.UTC)
	require.True(t, tm.Truncate(time.Minute).Equal(TimestampOf(tm).Time(time.UTC)))
}

func TestPlayTime(t *testing.T) {
	p := PlayTime(3725)
	h, m, s := p.HoursMinsSecs()
	require.Equal(t, [3]uint32{1, 2, 5}, [3]uint32{h, m, s})
	require.Equal(t, "1:02:05", p.String())
	require.Equal(t, 3725*time.Second, p.Duration())
	require.Equal(t, "07:05", MapTime{Hour: 7, Minute: 5}.String())
}

func TestCloneIsIndependent(t *testing.T) {
	sd, err := FromBytes(blankSave())
	require.NoError(t, err)
	require.NoError(t, sd.PartyCharacters.TryPush(1))
	sd.Inventory.Gems[0] = item.NewSlot(item.Gem, 100, 0, 1, 1)

	snap := sd.Clone()
	snap.SetFlag(AboardShip, true)
	snap.PartyCharacters.Set(0, 99)
	require.NoError(t, snap.PartyGuests.TryPush(7))
	snap.Inventory.Gems[0].SetAmount(5)
	snap.Gold = 10

	assert.False(t, sd.IsFlagSet(AboardShip))
	got, _ := sd.PartyCharacters.Get(0)
	assert.Equal(t, uint16(1), got)
	assert.True(t, sd.PartyGuests.IsEmpty())
	assert.Equal(t, uint16(1), sd.Inventory.Gems[0].Amount())
	assert.Equal(t, uint32(0), sd.Gold)

	assert.True(t, snap.IsFlagSet(AboardShip))
	got, _ = snap.PartyCharacters.Get(0)
	assert.Equal(t, uint16(99), got)
}

func TestConcurrentEncodeOfZeroValue(t *testing.T) {
	var sd SaveData
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := sd.ToBytes()
			assert.NoError(t, err)
			assert.Equal(t, Magic, binary.LittleEndian.Uint32(buf))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, sd.SaveFlags.Count())
}
