// internal/oracle/hash.go
package oracle

import "unicode/utf16"

const (
	fnvOffset32 uint32 = 0x811c9dc5
	fnvPrime32  uint32 = 0x01000193
)

// FNV1a32 is 32-bit FNV-1a over the UTF-16 code units of s. For ASCII input
// the result equals hash/fnv New32a over the bytes; digests must match the
// browser client, which hashes JavaScript strings.
func FNV1a32(s string) uint32 {
	h := fnvOffset32
	for _, unit := range utf16.Encode([]rune(s)) {
		h ^= uint32(unit)
		h *= fnvPrime32
	}
	return h
}
