package compress

// rleCodec implements byte run-length encoding as (count, value) pairs.
// Effective on the near-constant tails of serialized entry records.
type rleCodec struct{}

func (c *rleCodec) Algorithm() Algorithm {
	return AlgorithmRLE
}

func (c *rleCodec) Compress(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, ErrIncompressible
	}

	out := make([]byte, 0, len(src))
	i := 0
	for i < len(src) {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < 255 {
			run++
		}
		out = append(out, byte(run), src[i])
		i += run
	}

	if len(out) >= len(src) {
		return nil, ErrIncompressible
	}
	return out, nil
}

func (c *rleCodec) Decompress(src []byte, originalSize int) ([]byte, error) {
	if len(src)%2 != 0 {
		return nil, ErrCorruptPayload
	}

	out := make([]byte, 0, originalSize)
	for i := 0; i < len(src); i += 2 {
		run := int(src[i])
		if run == 0 || len(out)+run > originalSize {
			return nil, ErrCorruptPayload
		}
		for range run {
			out = append(out, src[i+1])
		}
	}

	if len(out) != originalSize {
		return nil, ErrCorruptPayload
	}
	return out, nil
}
