package compress

import (
	"errors"

	"github.com/klauspost/compress/huff0"
)

// huffmanCodec implements Huffman entropy coding via huff0. The table is
// embedded in every payload so each entry decodes independently.
type huffmanCodec struct{}

func (c *huffmanCodec) Algorithm() Algorithm {
	return AlgorithmHuffman
}

func (c *huffmanCodec) Compress(src []byte) ([]byte, error) {
	if len(src) < 4 {
		return nil, ErrIncompressible
	}

	s := &huff0.Scratch{}
	s.Reuse = huff0.ReusePolicyNone

	out, _, err := huff0.Compress1X(src, s)
	if err != nil {
		if errors.Is(err, huff0.ErrIncompressible) || errors.Is(err, huff0.ErrUseRLE) {
			return nil, ErrIncompressible
		}
		return nil, err
	}
	if len(out) >= len(src) {
		return nil, ErrIncompressible
	}

	// Copy out of the scratch buffer; huff0 reuses it.
	payload := make([]byte, len(out))
	copy(payload, out)
	return payload, nil
}

func (c *huffmanCodec) Decompress(src []byte, originalSize int) ([]byte, error) {
	s, remain, err := huff0.ReadTable(src, nil)
	if err != nil {
		return nil, ErrCorruptPayload
	}

	out, err := s.Decompress1X(remain)
	if err != nil || len(out) != originalSize {
		return nil, ErrCorruptPayload
	}
	return out, nil
}
