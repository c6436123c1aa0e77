package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/zyncd/zyncd/zyncerr"
)

const (
	headerSize = 13
	magic      = 0x96

	// MaxPayload is the largest payload Encode accepts before failing
	// with a wrapped zyncerr.ErrBadFrame (the observed wire limit).
	MaxPayload = 65532
)

// Origin selects which side built a frame; desktop and device frames
// differ only in header bytes 8-12, the origin marker and the
// length-mirror field (§4.B).
type Origin uint8

const (
	OriginDevice Origin = iota
	OriginDesktop
)

// Control identifies one of the three 7-byte turn-taking frames.
type Control uint8

const (
	ControlReq  Control = 0x05
	ControlAck  Control = 0x06
	ControlAbrt Control = 0x18
)

func (c Control) String() string {
	switch c {
	case ControlReq:
		return "REQ"
	case ControlAck:
		return "ACK"
	case ControlAbrt:
		return "ABRT"
	default:
		return fmt.Sprintf("Control(%#x)", byte(c))
	}
}

// Frame is a decoded payload envelope: a 3-byte ASCII type tag plus its
// payload, with the header and checksum already stripped and verified.
type Frame struct {
	Tag     [3]byte
	Payload []byte
}

// EncodeControl returns the 7-byte wire form of a control frame.
func EncodeControl(c Control) []byte {
	buf := make([]byte, 7)
	buf[5] = magic
	buf[6] = byte(c)
	return buf
}

// Encode builds a complete payload frame: 13-byte header, 2-byte body
// size, 3-byte tag, payload, 2-byte checksum. It fails with a wrapped
// zyncerr.ErrBadFrame when payload exceeds MaxPayload.
func Encode(origin Origin, tag [3]byte, payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: payload size %d exceeds %d", zyncerr.ErrBadFrame, len(payload), MaxPayload)
	}

	buf := make([]byte, headerSize, headerSize+2+3+len(payload)+2)
	buf[5] = magic
	buf[6] = 0x01
	buf[7] = 0x01
	if origin == OriginDesktop {
		buf[8] = 0x0c
		binary.LittleEndian.PutUint32(buf[9:13], uint32(len(payload)))
	} else {
		buf[8] = 0x00
		buf[9], buf[10], buf[11], buf[12] = 0xff, 0xff, 0xff, 0xff
	}

	bodySize := uint16(3 + len(payload))
	buf = binary.LittleEndian.AppendUint16(buf, bodySize)
	buf = append(buf, tag[0], tag[1], tag[2])
	buf = append(buf, payload...)
	buf = binary.LittleEndian.AppendUint16(buf, sumChecksum(tag, payload))
	return buf, nil
}

// sumChecksum is the plain truncating sum of the tag and payload bytes,
// wrapping modulo 2^16 via uint16 arithmetic. Not ones-complement.
func sumChecksum(tag [3]byte, payload []byte) uint16 {
	var sum uint16
	sum += uint16(tag[0])
	sum += uint16(tag[1])
	sum += uint16(tag[2])
	for _, b := range payload {
		sum += uint16(b)
	}
	return sum
}

// Decode reads exactly one frame from r, blocking until it has enough
// bytes (callers set a read deadline on r beforehand; see transport).
// The return is either a Control value or a *Frame. Unlike the teacher's
// skip-cursor Marshal/Unmarshal pair built for a non-blocking event
// loop, this reads a full frame per call via io.ReadFull, which is the
// idiomatic shape for the strictly synchronous, one-round-at-a-time
// dialogue this protocol requires.
func Decode(r io.Reader) (any, error) {
	var head [7]byte
	if _, err := io.ReadFull(r, head[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", zyncerr.ErrIO, err)
	}

	if isZero(head[:5]) && head[5] == magic {
		switch Control(head[6]) {
		case ControlReq, ControlAck, ControlAbrt:
			return Control(head[6]), nil
		}
	}

	var rest [6]byte
	if _, err := io.ReadFull(r, rest[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", zyncerr.ErrIO, err)
	}

	var bodySizeBuf [2]byte
	if _, err := io.ReadFull(r, bodySizeBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", zyncerr.ErrIO, err)
	}
	bodySize := binary.LittleEndian.Uint16(bodySizeBuf[:])
	if bodySize < 3 {
		return nil, fmt.Errorf("%w: body size %d shorter than a tag", zyncerr.ErrBadFrame, bodySize)
	}

	body := make([]byte, bodySize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: %v", zyncerr.ErrIO, err)
	}

	var checksumBuf [2]byte
	if _, err := io.ReadFull(r, checksumBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", zyncerr.ErrIO, err)
	}
	wantChecksum := binary.LittleEndian.Uint16(checksumBuf[:])

	var tag [3]byte
	copy(tag[:], body[:3])
	payload := body[3:]

	if got := sumChecksum(tag, payload); got != wantChecksum {
		return nil, fmt.Errorf("%w: checksum mismatch, got %#x want %#x", zyncerr.ErrBadFrame, got, wantChecksum)
	}

	return &Frame{Tag: tag, Payload: payload}, nil
}

func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
