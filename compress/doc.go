// Package compress shrinks the at-rest footprint of transposition entries.
//
// Entries are serialized to a fixed 24-byte record and encoded with one of
// several codecs: LZ4 block compression (fast and high-compression variants),
// a Huffman entropy coder, entry-specific fixed bit-packing, or run-length
// encoding. In adaptive mode the codec is chosen per entry from a cheap
// entropy estimate of the serialized bytes.
//
// Compression is judged beneficial only when the achieved ratio beats the
// configured minimum; non-beneficial results are stored raw, so correctness
// never depends on the heuristic. A bounded FIFO decode cache amortizes
// repeated decompression of frequently probed entries.
package compress
