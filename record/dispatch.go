package record

import (
	"fmt"

	"github.com/zyncd/zyncd/schema"
	"github.com/zyncd/zyncd/zyncerr"
)

// Decode dispatches to the kind-specific tape decoder.
func Decode(kind Kind, s schema.Schema, tape []byte) (Record, error) {
	switch kind {
	case KindTodo:
		return DecodeTodo(s, tape)
	case KindCalendar:
		return DecodeCalendar(s, tape)
	case KindAddress:
		return DecodeAddress(s, tape)
	default:
		return nil, fmt.Errorf("%w: unrecognized record kind %v", zyncerr.ErrProtocolViolation, kind)
	}
}

// Encode dispatches to the kind-specific tape encoder.
func Encode(r Record, s schema.Schema) ([]byte, error) {
	switch v := r.(type) {
	case *Todo:
		return EncodeTodo(v, s), nil
	case *Calendar:
		return EncodeCalendar(v, s), nil
	case *Address:
		return EncodeAddress(v, s), nil
	default:
		return nil, fmt.Errorf("%w: unrecognized record type %T", zyncerr.ErrProtocolViolation, r)
	}
}

// EncodeModify builds a Modify-variant tape. The Modify header already
// carries syncId, and the device already holds attr/created/modified
// for the record being patched, so the tape itself starts at schema
// index 4 rather than repeating ATTR/CTTM/MDTM/SYID (§4.C).
func EncodeModify(r Record, s schema.Schema) ([]byte, error) {
	return Encode(r, tailFrom(s, 4))
}

// EncodeObtainID builds an ObtainID-variant tape: the ATTR field alone,
// which is all the device needs to allocate a syncId before the full
// NewItem write follows (§4.C).
func EncodeObtainID(r Record, s schema.Schema) ([]byte, error) {
	i := s.IndexOf("ATTR")
	if i < 0 {
		return nil, fmt.Errorf("%w: schema has no ATTR descriptor", zyncerr.ErrProtocolViolation)
	}
	return Encode(r, schema.Schema{Descriptors: s.Descriptors[i : i+1]})
}

func tailFrom(s schema.Schema, n int) schema.Schema {
	if len(s.Descriptors) <= n {
		return schema.Schema{CardCount: s.CardCount}
	}
	return schema.Schema{CardCount: s.CardCount, Descriptors: s.Descriptors[n:]}
}
