package common

import (
	"encoding/binary"
	"math"
	"reflect"
)

// IsFixedKind reports whether k is a fixed-size primitive kind.
func IsFixedKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsIntegerKind reports whether k holds a value representable as uint64 bits.
func IsIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool:
		return true
	default:
		return false
	}
}

// FixedSize returns the byte width for fixed-size primitive kinds.
func FixedSize(k reflect.Kind) int {
	switch k {
	case reflect.Bool, reflect.Int8, reflect.Uint8:
		return 1
	case reflect.Int16, reflect.Uint16:
		return 2
	case reflect.Int32, reflect.Uint32, reflect.Float32:
		return 4
	case reflect.Int64, reflect.Uint64, reflect.Float64:
		return 8
	default:
		return -1
	}
}

// SetFixed decodes a fixed-width primitive from b and sets dst.
// b must hold at least FixedSize(k) bytes.
func SetFixed(dst reflect.Value, b []byte, k reflect.Kind, order binary.ByteOrder) {
	switch k {
	case reflect.Bool:
		dst.SetBool(b[0] != 0)
	case reflect.Int8:
		dst.SetInt(int64(int8(b[0])))
	case reflect.Uint8:
		dst.SetUint(uint64(b[0]))
	case reflect.Int16:
		dst.SetInt(int64(int16(order.Uint16(b))))
	case reflect.Uint16:
		dst.SetUint(uint64(order.Uint16(b)))
	case reflect.Int32:
		dst.SetInt(int64(int32(order.Uint32(b))))
	case reflect.Uint32:
		dst.SetUint(uint64(order.Uint32(b)))
	case reflect.Int64:
		dst.SetInt(int64(order.Uint64(b)))
	case reflect.Uint64:
		dst.SetUint(order.Uint64(b))
	case reflect.Float32:
		dst.SetFloat(float64(math.Float32frombits(order.Uint32(b))))
	case reflect.Float64:
		dst.SetFloat(math.Float64frombits(order.Uint64(b)))
	}
}

// PutFixed encodes v into b. b must hold at least FixedSize(k) bytes.
func PutFixed(b []byte, v reflect.Value, k reflect.Kind, order binary.ByteOrder) {
	switch k {
	case reflect.Bool:
		if v.Bool() {
			b[0] = 1
		} else {
			b[0] = 0
		}
	case reflect.Int8:
		b[0] = byte(v.Int())
	case reflect.Uint8:
		b[0] = byte(v.Uint())
	case reflect.Int16:
		order.PutUint16(b, uint16(v.Int()))
	case reflect.Uint16:
		order.PutUint16(b, uint16(v.Uint()))
	case reflect.Int32:
		order.PutUint32(b, uint32(v.Int()))
	case reflect.Uint32:
		order.PutUint32(b, uint32(v.Uint()))
	case reflect.Int64:
		order.PutUint64(b, uint64(v.Int()))
	case reflect.Uint64:
		order.PutUint64(b, v.Uint())
	case reflect.Float32:
		order.PutUint32(b, math.Float32bits(float32(v.Float())))
	case reflect.Float64:
		order.PutUint64(b, math.Float64bits(v.Float()))
	default:
		panic("unsupported fixed kind")
	}
}

// Bits returns the raw integer bits of v, used for assertion comparisons.
func Bits(v reflect.Value) uint64 {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return 1
		}
		return 0
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return uint64(v.Int()) & mask(v.Kind())
	default:
		return v.Uint()
	}
}

// SetBits stores the integer bits x into v.
func SetBits(v reflect.Value, x uint64) {
	switch v.Kind() {
	case reflect.Bool:
		v.SetBool(x != 0)
	case reflect.Int8:
		v.SetInt(int64(int8(x)))
	case reflect.Int16:
		v.SetInt(int64(int16(x)))
	case reflect.Int32:
		v.SetInt(int64(int32(x)))
	case reflect.Int64:
		v.SetInt(int64(x))
	default:
		v.SetUint(x)
	}
}

func mask(k reflect.Kind) uint64 {
	size := FixedSize(k)
	if size >= 8 {
		return math.MaxUint64
	}
	return 1<<(uint(size)*8) - 1
}

// InBounds reports whether [off, off+n) lies inside a buffer of length size.
func InBounds(off, n, size int) bool {
	return off >= 0 && n >= 0 && off <= size && n <= size-off
}
