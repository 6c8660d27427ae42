package savekit

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/rawbytedev/savekit/internal/common"
)

const tagKey = "bin"

// tagOpts is the parsed form of a `bin:"..."` struct tag.
type tagOpts struct {
	skip      bool
	hasLoc    bool
	loc       int
	hasSize   bool
	size      int
	hasAssert bool
	assert    uint64
	hasDef    bool
	def       string
}

// parseTag reads comma separated key=value pairs. Numbers accept the usual
// Go prefixes (0x, 0o, 0b).
func parseTag(tag string) (tagOpts, error) {
	var o tagOpts
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return o, nil
	}
	if tag == "-" {
		o.skip = true
		return o, nil
	}
	for _, part := range strings.Split(tag, ",") {
		key, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return o, fmt.Errorf("%w: tag entry %q has no value", ErrLayout, part)
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch key {
		case "loc":
			n, err := parseOffset(val)
			if err != nil {
				return o, err
			}
			o.hasLoc, o.loc = true, n
		case "size":
			n, err := parseOffset(val)
			if err != nil {
				return o, err
			}
			o.hasSize, o.size = true, n
		case "assert":
			n, err := strconv.ParseUint(val, 0, 64)
			if err != nil {
				return o, fmt.Errorf("%w: assert %q: %v", ErrLayout, val, err)
			}
			o.hasAssert, o.assert = true, n
		case "default":
			o.hasDef, o.def = true, val
		default:
			return o, fmt.Errorf("%w: unknown tag key %q", ErrLayout, key)
		}
	}
	return o, nil
}

func parseOffset(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad offset %q", ErrLayout, s)
	}
	return int(n), nil
}

// parseDefault converts a default= literal into a value of type t.
func parseDefault(t reflect.Type, s string) (reflect.Value, error) {
	v := reflect.New(t).Elem()
	k := t.Kind()
	switch {
	case k == reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return v, fmt.Errorf("%w: default %q for %s", ErrLayout, s, t)
		}
		v.SetBool(b)
	case k == reflect.Float32 || k == reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return v, fmt.Errorf("%w: default %q for %s", ErrLayout, s, t)
		}
		v.SetFloat(f)
	case k >= reflect.Int8 && k <= reflect.Int64:
		n, err := strconv.ParseInt(s, 0, t.Bits())
		if err != nil {
			return v, fmt.Errorf("%w: default %q for %s", ErrLayout, s, t)
		}
		v.SetInt(n)
	case common.IsIntegerKind(k):
		n, err := strconv.ParseUint(s, 0, t.Bits())
		if err != nil {
			return v, fmt.Errorf("%w: default %q for %s", ErrLayout, s, t)
		}
		v.SetUint(n)
	default:
		return v, fmt.Errorf("%w: default on non-scalar %s", ErrLayout, t)
	}
	return v, nil
}

// fitsKind reports whether x is representable in a field of kind k.
func fitsKind(k reflect.Kind, x uint64) bool {
	if k == reflect.Bool {
		return x <= 1
	}
	size := common.FixedSize(k)
	if size >= 8 {
		return true
	}
	return x < 1<<(uint(size)*8)
}
