package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/shogitt/model"
)

// ErrIncompressible is returned by codecs when no size reduction is possible.
// Callers fall back to storing the raw record.
var ErrIncompressible = errors.New("compress: incompressible input")

// ErrCorruptPayload is returned when a compressed payload cannot be decoded.
var ErrCorruptPayload = errors.New("compress: corrupt payload")

// Algorithm identifies a compression scheme.
type Algorithm uint8

const (
	// AlgorithmNone stores the record raw.
	AlgorithmNone Algorithm = iota
	// AlgorithmLZ4Fast is LZ4 block compression at default speed.
	AlgorithmLZ4Fast
	// AlgorithmLZ4High is LZ4 block compression at a high compression level.
	AlgorithmLZ4High
	// AlgorithmHuffman is Huffman entropy coding.
	AlgorithmHuffman
	// AlgorithmBitPack is entry-specific fixed bit-packing.
	AlgorithmBitPack
	// AlgorithmRLE is byte run-length encoding.
	AlgorithmRLE
	// AlgorithmAdaptive selects a codec per entry from an entropy estimate.
	AlgorithmAdaptive
)

// String returns a string representation of the Algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgorithmNone:
		return "none"
	case AlgorithmLZ4Fast:
		return "lz4-fast"
	case AlgorithmLZ4High:
		return "lz4-high"
	case AlgorithmHuffman:
		return "huffman"
	case AlgorithmBitPack:
		return "bitpack"
	case AlgorithmRLE:
		return "rle"
	case AlgorithmAdaptive:
		return "adaptive"
	default:
		return fmt.Sprintf("algorithm(%d)", uint8(a))
	}
}

// Codec encodes and decodes byte payloads for one algorithm.
type Codec interface {
	// Compress encodes src. Returns ErrIncompressible when encoding would
	// not shrink the payload.
	Compress(src []byte) ([]byte, error)
	// Decompress decodes src back to originalSize bytes.
	Decompress(src []byte, originalSize int) ([]byte, error)
	// Algorithm identifies the scheme.
	Algorithm() Algorithm
}

// NewCodec returns the codec for a concrete (non-adaptive) algorithm.
func NewCodec(a Algorithm) (Codec, error) {
	switch a {
	case AlgorithmLZ4Fast:
		return &lz4Codec{}, nil
	case AlgorithmLZ4High:
		return &lz4Codec{high: true}, nil
	case AlgorithmHuffman:
		return &huffmanCodec{}, nil
	case AlgorithmBitPack:
		return &bitPackCodec{}, nil
	case AlgorithmRLE:
		return &rleCodec{}, nil
	default:
		return nil, fmt.Errorf("compress: no codec for %s", a)
	}
}

// EntrySize is the serialized record size in bytes.
const EntrySize = 24

// EncodeEntry serializes an entry to its fixed little-endian record:
//
//	0-7 hash, 8-11 move, 12-13 score, 14-15 age, 16 depth, 17 flag,
//	18 source, 19-23 reserved (zero)
func EncodeEntry(e model.Entry) []byte {
	b := make([]byte, EntrySize)
	binary.LittleEndian.PutUint64(b[0:8], e.HashKey)
	binary.LittleEndian.PutUint32(b[8:12], uint32(e.BestMove))
	binary.LittleEndian.PutUint16(b[12:14], uint16(e.Score))
	binary.LittleEndian.PutUint16(b[14:16], e.Age)
	b[16] = e.Depth
	b[17] = uint8(e.Flag)
	b[18] = uint8(e.Source)
	return b
}

// DecodeEntry deserializes a fixed record produced by EncodeEntry.
func DecodeEntry(b []byte) (model.Entry, error) {
	if len(b) != EntrySize {
		return model.Entry{}, ErrCorruptPayload
	}
	return model.Entry{
		HashKey:  binary.LittleEndian.Uint64(b[0:8]),
		BestMove: model.Move(binary.LittleEndian.Uint32(b[8:12])),
		Score:    int16(binary.LittleEndian.Uint16(b[12:14])),
		Age:      binary.LittleEndian.Uint16(b[14:16]),
		Depth:    b[16],
		Flag:     model.Bound(b[17]),
		Source:   model.Source(b[18]),
	}, nil
}

// ShannonEntropy estimates the byte entropy of b in bits per byte.
func ShannonEntropy(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}

	var hist [256]int
	for _, c := range b {
		hist[c]++
	}

	entropy := 0.0
	n := float64(len(b))
	for _, count := range hist {
		if count == 0 {
			continue
		}
		p := float64(count) / n
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// UniqueBytes counts distinct byte values in b.
func UniqueBytes(b []byte) int {
	var seen [256]bool
	n := 0
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			n++
		}
	}
	return n
}

// ChooseAlgorithm picks a codec for the payload from cheap statistics:
// low entropy favors RLE, a small alphabet favors Huffman, tiny entry
// records favor bit-packing, everything else goes to fast LZ4.
func ChooseAlgorithm(b []byte) Algorithm {
	switch {
	case ShannonEntropy(b) < 2.0:
		return AlgorithmRLE
	case UniqueBytes(b) <= 16:
		return AlgorithmHuffman
	case len(b) <= 32:
		return AlgorithmBitPack
	default:
		return AlgorithmLZ4Fast
	}
}
