package savedata

import (
	"fmt"
	"time"
)

// PlayTime is the total play time in seconds.
type PlayTime uint32

func (p PlayTime) Seconds() uint32 { return uint32(p) }

func (p PlayTime) HoursMinsSecs() (h, m, s uint32) {
	secs := uint32(p)
	return secs / 3600, secs % 3600 / 60, secs % 60
}

func (p PlayTime) Duration() time.Duration { return time.Duration(p) * time.Second }

func (p PlayTime) String() string {
	h, m, s := p.HoursMinsSecs()
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// SaveTimestamp is the wall-clock time the save was written, packed as
//
//	date = year<<18 | month<<14 | day
//	time = hour<<26 | minute<<20
type SaveTimestamp struct {
	PackedTime uint32
	PackedDate uint32
}

func NewTimestamp(year uint32, month, day, hour, minute uint8) SaveTimestamp {
	return SaveTimestamp{
		PackedDate: year<<18 | (uint32(month)&0xf)<<14 | uint32(day)&0x1f,
		PackedTime: uint32(hour)<<26 | (uint32(minute)&0x3f)<<20,
	}
}

// TimestampOf truncates t to the minute.
func TimestampOf(t time.Time) SaveTimestamp {
	return NewTimestamp(uint32(t.Year()), uint8(t.Month()), uint8(t.Day()), uint8(t.Hour()), uint8(t.Minute()))
}

func (t SaveTimestamp) Year() uint32 { return t.PackedDate >> 18 }
func (t SaveTimestamp) Month() uint8 { return uint8(t.PackedDate >> 14 & 0xf) }
func (t SaveTimestamp) Day() uint8 { return uint8(t.PackedDate & 0x1f) }
func (t SaveTimestamp) Hour() uint8 { return uint8(t.PackedTime >> 26) }

func (t SaveTimestamp) Minute() uint8 { return uint8(t.PackedTime >> 20 & 0x3f) }

func (t SaveTimestamp) ISODate() string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), t.Month(), t.Day())
}

func (t SaveTimestamp) ISOTime() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Time interprets the timestamp in loc.
func (t SaveTimestamp) Time(loc *time.Location) time.Time {
	return time.Date(int(t.Year()), time.Month(t.Month()), int(t.Day()), int(t.Hour()), int(t.Minute()), 0, 0, loc)
}

// MapTime is the in-game clock.
type MapTime struct {
	Hour   uint16
	Minute uint16
}

func (m MapTime) String() string { return fmt.Sprintf("%02d:%02d", m.Hour, m.Minute) }
