package compress

import (
	"github.com/pierrec/lz4/v4"
)

// lz4Codec implements LZ4 block compression. The fast variant trades ratio
// for speed (hot entries); the high variant runs the HC match finder.
type lz4Codec struct {
	high bool
}

func (c *lz4Codec) Algorithm() Algorithm {
	if c.high {
		return AlgorithmLZ4High
	}
	return AlgorithmLZ4Fast
}

func (c *lz4Codec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrIncompressible
	}

	dst := make([]byte, lz4.CompressBlockBound(len(src)))

	var (
		n   int
		err error
	)
	if c.high {
		n, err = lz4.CompressBlockHC(src, dst, lz4.Level9, nil, nil)
	} else {
		n, err = lz4.CompressBlock(src, dst, nil)
	}
	if err != nil {
		return nil, err
	}
	if n == 0 || n >= len(src) {
		return nil, ErrIncompressible
	}

	return dst[:n], nil
}

func (c *lz4Codec) Decompress(src []byte, originalSize int) ([]byte, error) {
	dst := make([]byte, originalSize)

	n, err := lz4.UncompressBlock(src, dst)
	if err != nil || n != originalSize {
		return nil, ErrCorruptPayload
	}
	return dst, nil
}
