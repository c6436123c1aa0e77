// Package wire implements the primitive codec the Zaurus protocol builds
// on: little-endian integers, a packed 5-byte date-time, and the 13-byte
// framed envelope that carries every message.
package wire

import "encoding/binary"

// PutUint16 writes v to buf[0:2] in little-endian order. The device
// always transmits little-endian regardless of the host's own byte
// order, so encoding never consults host endianness.
func PutUint16(buf []byte, v uint16) {
	binary.LittleEndian.PutUint16(buf, v)
}

// Uint16 reads a little-endian uint16 from buf[0:2].
func Uint16(buf []byte) uint16 {
	return binary.LittleEndian.Uint16(buf)
}

// PutUint32 writes v to buf[0:4] in little-endian order.
func PutUint32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

// Uint32 reads a little-endian uint32 from buf[0:4].
func Uint32(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

// AppendUint16 appends v to buf in little-endian order.
func AppendUint16(buf []byte, v uint16) []byte {
	return binary.LittleEndian.AppendUint16(buf, v)
}

// AppendUint32 appends v to buf in little-endian order.
func AppendUint32(buf []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, v)
}
