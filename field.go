package savekit

// Field is implemented by types that encode themselves at a fixed offset.
//
// BinSize must return the same value for every value of the type, including
// the zero value: the plan builder asks a freshly allocated value for its size.
// ReadBin and WriteBin operate on exactly BinSize bytes starting at off and
// return the number of bytes consumed or produced. c is the codec driving
// the call; implementations take their byte order from it and route nested
// values through it.
type Field interface {
	BinSize() int
	ReadBin(c *Codec, buf []byte, off int) (int, error)
	WriteBin(c *Codec, buf []byte, off int) (int, error)
}

// AssertionMapper lets a record replace the generic *AssertionError raised
// when one of its assert= fields does not hold the declared constant.
// Returning nil keeps the generic error.
type AssertionMapper interface {
	MapAssertion(field string, actual uint64) error
}
