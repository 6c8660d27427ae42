package savekit

import (
	"testing"
)

type benchRecord struct {
	Magic uint32 `bin:"assert=0xb368fa6a"`
	Ver   uint8  `bin:"assert=10"`
	Time  uint32 `bin:"loc=0x10"`
	Gold  uint32 `bin:"loc=0x20"`
	Pos   [4]float32
	Party [16]uint16 `bin:"loc=0x100"`
	_     struct{}   `bin:"size=0x200"`
}

func BenchmarkMarshal(b *testing.B) {
	r := &benchRecord{Time: 3600, Gold: 1000, Pos: [4]float32{1, 2, 3, 0.5}}
	buf := make([]byte, 0x200)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Marshal(r, buf, 0)
	}
}

func BenchmarkUnmarshal(b *testing.B) {
	buf := make([]byte, 0x200)
	_, _ = Marshal(&benchRecord{}, buf, 0)
	var r benchRecord
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, _ = Unmarshal(buf, 0, &r)
	}
}

func BenchmarkUnmarshalField(b *testing.B) {
	buf := make([]byte, 0x200)
	_, _ = Marshal(&benchRecord{Gold: 7}, buf, 0)
	var r benchRecord
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = UnmarshalField(buf, 0, &r, "Gold")
	}
}
