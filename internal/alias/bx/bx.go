// stand for bytes helper
package bx

import "encoding/binary"

// BE is the byte order of every fixed-width field written to a heap page.
var BE = binary.BigEndian

// --- BE: read ---
func U32(b []byte) uint32 { return BE.Uint32(b) }
func I32(b []byte) int32  { return int32(U32(b)) }

// --- BE: write ---
func PutU32(b []byte, v uint32) { BE.PutUint32(b, v) }
func PutI32(b []byte, v int32)  { PutU32(b, uint32(v)) }

// --- BE: At (offset) ---
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func I32At(b []byte, off int) int32        { return I32(b[off:]) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }
func PutI32At(b []byte, off int, v int32)  { PutI32(b[off:], v) }

// --- bitmap (LSB first inside each byte) ---
func Bit(b []byte, i int) bool { return b[i/8]&(1<<(uint(i)%8)) != 0 }

func SetBit(b []byte, i int, on bool) {
	if on {
		b[i/8] |= 1 << (uint(i) % 8)
		return
	}
	b[i/8] &^= 1 << (uint(i) % 8)
}
