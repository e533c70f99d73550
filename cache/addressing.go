package cache

// An AddressDecoder splits addresses into tag, set index and block offset.
type AddressDecoder struct {
	offsetBits uint
	indexBits  uint
	offsetMask uint64
	indexMask  uint64
}

// NewAddressDecoder creates a decoder for the given geometry. The config is
// expected to be valid.
func NewAddressDecoder(c Config) AddressDecoder {
	offsetBits := uint(c.OffsetBits())
	indexBits := uint(c.IndexBits())

	return AddressDecoder{
		offsetBits: offsetBits,
		indexBits:  indexBits,
		offsetMask: lowMask(offsetBits),
		indexMask:  uint64(c.NumSets) - 1,
	}
}

// Decode returns the tag, the set index and the block offset of an address.
func (d AddressDecoder) Decode(addr uint64) (tag uint64, setIndex, offset uint32) {
	tag = addr >> (d.indexBits + d.offsetBits)
	setIndex = uint32((addr >> d.offsetBits) & d.indexMask)
	offset = uint32(addr & d.offsetMask)

	return tag, setIndex, offset
}

// Recombine is the inverse of Decode.
func (d AddressDecoder) Recombine(tag uint64, setIndex, offset uint32) uint64 {
	return tag<<(d.indexBits+d.offsetBits) |
		uint64(setIndex)<<d.offsetBits |
		uint64(offset)
}

// BlockAddress clears the offset bits of an address.
func (d AddressDecoder) BlockAddress(addr uint64) uint64 {
	return addr &^ d.offsetMask
}

func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}

	return uint64(1)<<n - 1
}
