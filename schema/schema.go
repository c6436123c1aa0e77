// Package schema implements the dynamically negotiated per-sync record
// field schema (the "tape" format) described by an ADI message, and the
// cursor-based reader/writer that walks record payloads against it.
package schema

import (
	"fmt"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/zyncerr"
)

// Field type identifiers, the closed set observed on the wire.
const (
	TypeTime   byte = 0x04
	TypeBit    byte = 0x06
	TypeWord   byte = 0x08
	TypeUChar  byte = 0x0b
	TypeBArray byte = 0x0c
	TypeUTF8   byte = 0x11
	TypeULong  byte = 0x12
)

// Descriptor is one field of a negotiated schema: its 4-character
// abbreviation, a human-readable description, and its wire type.
type Descriptor struct {
	Abbrev      [4]byte
	TypeID      byte
	Description string
}

func (d Descriptor) String() string { return string(d.Abbrev[:]) }

// Schema is the ordered field list negotiated for one sync, via ADI.
type Schema struct {
	CardCount   uint32
	Descriptors []Descriptor
}

// Len is the number of fields every record payload must tape-encode
// against this schema.
func (s Schema) Len() int { return len(s.Descriptors) }

// IndexOf returns the position of abbrev in the schema, or -1.
func (s Schema) IndexOf(abbrev string) int {
	for i, d := range s.Descriptors {
		if d.String() == abbrev {
			return i
		}
	}
	return -1
}

// FromMessage builds a Schema from a decoded ADI message.
func FromMessage(msg catalog.SchemaMsg) (Schema, error) {
	if len(msg.Abbrevs) != len(msg.TypeIDs) || len(msg.Abbrevs) != len(msg.Descriptions) {
		return Schema{}, fmt.Errorf("%w: ADI field count mismatch", zyncerr.ErrProtocolViolation)
	}
	s := Schema{CardCount: msg.CardCount, Descriptors: make([]Descriptor, len(msg.Abbrevs))}
	for i := range msg.Abbrevs {
		s.Descriptors[i] = Descriptor{
			Abbrev:      msg.Abbrevs[i],
			TypeID:      msg.TypeIDs[i],
			Description: msg.Descriptions[i],
		}
	}
	return s, nil
}

// ToMessage encodes the schema back into an ADI message, as the device
// side of a test harness would.
func (s Schema) ToMessage() catalog.SchemaMsg {
	msg := catalog.SchemaMsg{
		CardCount:    s.CardCount,
		Abbrevs:      make([][4]byte, len(s.Descriptors)),
		TypeIDs:      make([]byte, len(s.Descriptors)),
		Descriptions: make([]string, len(s.Descriptors)),
	}
	for i, d := range s.Descriptors {
		msg.Abbrevs[i] = d.Abbrev
		msg.TypeIDs[i] = d.TypeID
		msg.Descriptions[i] = d.Description
	}
	return msg
}
