package compress

import (
	"time"

	"github.com/hupe1980/shogitt/model"
)

// Metadata records how a compression attempt went.
type Metadata struct {
	// Ratio is originalSize/compressedSize; 1.0 for raw storage.
	Ratio float64
	// Latency is the time spent compressing.
	Latency time.Duration
	// Beneficial reports whether Ratio beat the configured minimum.
	Beneficial bool
}

// CompressedEntry is the at-rest representation of one entry. It is not kept
// decoded; probes go through the decode cache.
type CompressedEntry struct {
	// Payload is the encoded record.
	Payload []byte
	// OriginalSize is the serialized record size before encoding.
	OriginalSize int
	// Algorithm tags the codec used; AlgorithmNone means raw.
	Algorithm Algorithm
	// Meta holds compression diagnostics.
	Meta Metadata
}

// CompressorConfig configures a Compressor.
type CompressorConfig struct {
	// Algorithm is the scheme to use; AlgorithmAdaptive selects per entry.
	Algorithm Algorithm
	// MinRatio is the ratio a result must achieve to be judged beneficial.
	// Defaults to 1.2.
	MinRatio float64
}

// Compressor encodes and decodes individual entries.
type Compressor struct {
	cfg CompressorConfig
}

// NewCompressor creates a Compressor. AlgorithmNone is rejected; use a table
// backend directly if compression is not wanted.
func NewCompressor(cfg CompressorConfig) (*Compressor, error) {
	if cfg.Algorithm != AlgorithmAdaptive {
		// Validate eagerly so misconfiguration surfaces at startup.
		if _, err := NewCodec(cfg.Algorithm); err != nil {
			return nil, err
		}
	}
	if cfg.MinRatio <= 0 {
		cfg.MinRatio = 1.2
	}

	return &Compressor{cfg: cfg}, nil
}

// CompressEntry encodes e. When the codec cannot shrink the record, or the
// achieved ratio misses MinRatio, the raw record is stored instead; the
// result is always usable.
func (c *Compressor) CompressEntry(e model.Entry) CompressedEntry {
	record := EncodeEntry(e)

	algo := c.cfg.Algorithm
	if algo == AlgorithmAdaptive {
		algo = ChooseAlgorithm(record)
	}

	start := time.Now()
	codec, err := NewCodec(algo)
	if err != nil {
		return rawEntry(record, time.Since(start))
	}

	payload, err := codec.Compress(record)
	latency := time.Since(start)
	if err != nil {
		return rawEntry(record, latency)
	}

	ratio := float64(len(record)) / float64(len(payload))
	meta := Metadata{Ratio: ratio, Latency: latency, Beneficial: ratio >= c.cfg.MinRatio}

	// Results missing MinRatio are stored raw; the attempt's metadata is
	// preserved for diagnostics.
	if !meta.Beneficial {
		return CompressedEntry{
			Payload:      record,
			OriginalSize: len(record),
			Algorithm:    AlgorithmNone,
			Meta:         meta,
		}
	}

	return CompressedEntry{
		Payload:      payload,
		OriginalSize: len(record),
		Algorithm:    algo,
		Meta:         meta,
	}
}

func rawEntry(record []byte, latency time.Duration) CompressedEntry {
	return CompressedEntry{
		Payload:      record,
		OriginalSize: len(record),
		Algorithm:    AlgorithmNone,
		Meta:         Metadata{Ratio: 1.0, Latency: latency, Beneficial: false},
	}
}

// DecompressEntry decodes a CompressedEntry back to its entry.
func (c *Compressor) DecompressEntry(ce CompressedEntry) (model.Entry, error) {
	record := ce.Payload

	if ce.Algorithm != AlgorithmNone {
		codec, err := NewCodec(ce.Algorithm)
		if err != nil {
			return model.Entry{}, err
		}
		record, err = codec.Decompress(ce.Payload, ce.OriginalSize)
		if err != nil {
			return model.Entry{}, err
		}
	}

	return DecodeEntry(record)
}
