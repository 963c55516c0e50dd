package compress

// bitPackCodec packs the fixed entry record by dropping the reserved tail and
// merging the flag and source fields into one byte:
//
//	0-7 hash, 8-11 move, 12-13 score, 14-15 age, 16 depth,
//	17 flag (bits 0-1) | source (bits 2-3)
//
// It only applies to exact EntrySize records; anything else is reported
// incompressible so the adaptive path can fall through.
type bitPackCodec struct{}

// packedEntrySize is the bit-packed record size.
const packedEntrySize = 18

func (c *bitPackCodec) Algorithm() Algorithm {
	return AlgorithmBitPack
}

func (c *bitPackCodec) Compress(src []byte) ([]byte, error) {
	if len(src) != EntrySize {
		return nil, ErrIncompressible
	}

	out := make([]byte, packedEntrySize)
	copy(out[:17], src[:17])
	out[17] = src[17]&0x3 | (src[18]&0x3)<<2
	return out, nil
}

func (c *bitPackCodec) Decompress(src []byte, originalSize int) ([]byte, error) {
	if len(src) != packedEntrySize || originalSize != EntrySize {
		return nil, ErrCorruptPayload
	}

	out := make([]byte, EntrySize)
	copy(out[:17], src[:17])
	out[17] = src[17] & 0x3
	out[18] = src[17] >> 2 & 0x3
	return out, nil
}
