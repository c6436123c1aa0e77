package catalog

import (
	"fmt"
	"time"

	"github.com/zyncd/zyncd/wire"
	"github.com/zyncd/zyncd/zyncerr"
)

const anchorLayout = "20060102150405"

// HelloAck is AAY: an empty acknowledgement of RAY.
type HelloAck struct{}

func (HelloAck) Tag() Tag         { return TagAAY }
func (HelloAck) Encode() []byte   { return nil }
func DecodeHelloAck([]byte) (HelloAck, error) { return HelloAck{}, nil }

// Password-required markers carried in Identify.AuthState.
const (
	AuthOpen          = 0x00
	AuthNeedsPassword = 0x07
	AuthNeedsPassword2 = 0x0b
)

// Identify is AIG: the device's model/language/auth-state announcement.
type Identify struct {
	Model     string
	Reserved  [5]byte
	Language  [2]byte
	AuthState byte
}

func (Identify) Tag() Tag { return TagAIG }

func (id Identify) Encode() []byte {
	buf := wire.AppendUint16(nil, uint16(len(id.Model)))
	buf = append(buf, id.Model...)
	buf = append(buf, id.Reserved[:]...)
	buf = append(buf, id.Language[:]...)
	return append(buf, id.AuthState)
}

func DecodeIdentify(payload []byte) (Identify, error) {
	if len(payload) < 2 {
		return Identify{}, fmt.Errorf("%w: AIG payload too short", zyncerr.ErrProtocolViolation)
	}
	modelLen := int(wire.Uint16(payload))
	want := 2 + modelLen + 5 + 2 + 1
	if len(payload) < want {
		return Identify{}, fmt.Errorf("%w: AIG payload truncated", zyncerr.ErrProtocolViolation)
	}

	var id Identify
	id.Model = string(payload[2 : 2+modelLen])
	copy(id.Reserved[:], payload[2+modelLen:2+modelLen+5])
	copy(id.Language[:], payload[2+modelLen+5:2+modelLen+7])
	id.AuthState = payload[2+modelLen+7]
	return id, nil
}

// RequiresPassword reports whether AuthState demands an RRL round.
func (id Identify) RequiresPassword() bool {
	return id.AuthState == AuthNeedsPassword || id.AuthState == AuthNeedsPassword2
}

// SyncLogStatus is AMG: a per-kind bitmask of "can do incremental sync".
type SyncLogStatus struct {
	raw []byte
}

func (SyncLogStatus) Tag() Tag       { return TagAMG }
func (s SyncLogStatus) Encode() []byte { return append([]byte(nil), s.raw...) }

func DecodeSyncLogStatus(payload []byte) (SyncLogStatus, error) {
	if len(payload) < 3 {
		return SyncLogStatus{}, fmt.Errorf("%w: AMG payload too short", zyncerr.ErrProtocolViolation)
	}
	return SyncLogStatus{raw: append([]byte(nil), payload...)}, nil
}

func fullSyncBit(k Kind) byte {
	switch k {
	case KindTodo:
		return 0x01
	case KindCalendar:
		return 0x02
	case KindAddress:
		return 0x04
	default:
		return 0
	}
}

// NeedsFullSync reports whether kind's bit is cleared in byte offset 2,
// meaning the device cannot trust its change log for kind.
func (s SyncLogStatus) NeedsFullSync(k Kind) bool {
	return s.raw[2]&fullSyncBit(k) == 0
}

// Anchor is ATG: the last-sync boundary timestamp, UTC.
type Anchor struct {
	Time time.Time
}

func (Anchor) Tag() Tag { return TagATG }
func (a Anchor) Encode() []byte {
	return []byte(a.Time.UTC().Format(anchorLayout))
}

func DecodeAnchor(payload []byte) (Anchor, error) {
	if len(payload) < 14 {
		return Anchor{}, fmt.Errorf("%w: ATG payload too short", zyncerr.ErrProtocolViolation)
	}
	t, err := time.ParseInLocation(anchorLayout, string(payload[:14]), time.UTC)
	if err != nil {
		return Anchor{}, fmt.Errorf("%w: %v", zyncerr.ErrProtocolViolation, err)
	}
	return Anchor{Time: t}, nil
}

// ChangesetIDs is ASY: the three id lists (new/modified/deleted) the
// device reports since the last anchor.
type ChangesetIDs struct {
	New      []uint32
	Modified []uint32
	Deleted  []uint32
}

func (ChangesetIDs) Tag() Tag { return TagASY }

func (c ChangesetIDs) Encode() []byte {
	buf := []byte{0} // single byte preamble
	buf = appendIDList(buf, c.New)
	buf = appendIDList(buf, c.Modified)
	buf = appendIDList(buf, c.Deleted)
	return buf
}

func appendIDList(buf []byte, ids []uint32) []byte {
	buf = wire.AppendUint16(buf, uint16(len(ids)))
	for _, id := range ids {
		buf = wire.AppendUint32(buf, id)
	}
	return buf
}

func DecodeChangesetIDs(payload []byte) (ChangesetIDs, error) {
	if len(payload) < 1 {
		return ChangesetIDs{}, fmt.Errorf("%w: ASY payload too short", zyncerr.ErrProtocolViolation)
	}
	cur := payload[1:]

	var out ChangesetIDs
	for _, dst := range []*[]uint32{&out.New, &out.Modified, &out.Deleted} {
		ids, rest, err := readIDList(cur)
		if err != nil {
			return ChangesetIDs{}, err
		}
		*dst = ids
		cur = rest
	}
	return out, nil
}

func readIDList(buf []byte) (ids []uint32, rest []byte, err error) {
	if len(buf) < 2 {
		return nil, nil, fmt.Errorf("%w: ASY id-list count truncated", zyncerr.ErrProtocolViolation)
	}
	count := int(wire.Uint16(buf))
	buf = buf[2:]
	if len(buf) < count*4 {
		return nil, nil, fmt.Errorf("%w: ASY id-list truncated", zyncerr.ErrProtocolViolation)
	}
	ids = make([]uint32, count)
	for i := range ids {
		ids[i] = wire.Uint32(buf[i*4:])
	}
	return ids, buf[count*4:], nil
}

// SchemaMsg is ADI: the negotiated per-sync field descriptor list, in
// its raw, not-yet-bound-to-record-fields form. Package schema turns
// this into a schema.Schema.
type SchemaMsg struct {
	CardCount    uint32
	Abbrevs      [][4]byte
	TypeIDs      []byte
	Descriptions []string
}

func (SchemaMsg) Tag() Tag { return TagADI }

func (s SchemaMsg) Encode() []byte {
	buf := wire.AppendUint32(nil, s.CardCount)
	buf = wire.AppendUint16(buf, uint16(len(s.Abbrevs)))
	for _, a := range s.Abbrevs {
		buf = append(buf, a[:]...)
	}
	buf = append(buf, s.TypeIDs...)
	for _, d := range s.Descriptions {
		buf = wire.AppendUint16(buf, uint16(len(d)))
		buf = append(buf, d...)
	}
	return buf
}

func DecodeSchemaMsg(payload []byte) (SchemaMsg, error) {
	if len(payload) < 6 {
		return SchemaMsg{}, fmt.Errorf("%w: ADI payload too short", zyncerr.ErrProtocolViolation)
	}
	var s SchemaMsg
	s.CardCount = wire.Uint32(payload)
	paramCount := int(wire.Uint16(payload[4:]))
	cur := payload[6:]

	if len(cur) < paramCount*4 {
		return SchemaMsg{}, fmt.Errorf("%w: ADI abbreviations truncated", zyncerr.ErrProtocolViolation)
	}
	s.Abbrevs = make([][4]byte, paramCount)
	for i := range s.Abbrevs {
		copy(s.Abbrevs[i][:], cur[i*4:i*4+4])
	}
	cur = cur[paramCount*4:]

	if len(cur) < paramCount {
		return SchemaMsg{}, fmt.Errorf("%w: ADI type ids truncated", zyncerr.ErrProtocolViolation)
	}
	s.TypeIDs = append([]byte(nil), cur[:paramCount]...)
	cur = cur[paramCount:]

	s.Descriptions = make([]string, paramCount)
	for i := range s.Descriptions {
		if len(cur) < 2 {
			return SchemaMsg{}, fmt.Errorf("%w: ADI description length truncated", zyncerr.ErrProtocolViolation)
		}
		n := int(wire.Uint16(cur))
		cur = cur[2:]
		if len(cur) < n {
			return SchemaMsg{}, fmt.Errorf("%w: ADI description truncated", zyncerr.ErrProtocolViolation)
		}
		s.Descriptions[i] = string(cur[:n])
		cur = cur[n:]
	}
	return s, nil
}

// RecordPayload is ADR: one record's tape-encoded field values, framed
// by an item count and a param count the caller cross-checks against
// the negotiated schema length.
type RecordPayload struct {
	ItemCount  uint16
	ParamCount uint16
	Tape       []byte
}

func (RecordPayload) Tag() Tag { return TagADR }

func (r RecordPayload) Encode() []byte {
	buf := wire.AppendUint16(nil, r.ItemCount)
	buf = wire.AppendUint16(buf, r.ParamCount)
	return append(buf, r.Tape...)
}

func DecodeRecordPayload(payload []byte) (RecordPayload, error) {
	if len(payload) < 4 {
		return RecordPayload{}, fmt.Errorf("%w: ADR payload too short", zyncerr.ErrProtocolViolation)
	}
	return RecordPayload{
		ItemCount:  wire.Uint16(payload),
		ParamCount: wire.Uint16(payload[2:]),
		Tape:       payload[4:],
	}, nil
}

// IDAssigned is ADW: the syncId the device allocated for a new record,
// found 6 bytes into the payload.
type IDAssigned struct {
	SyncID uint32
}

func (IDAssigned) Tag() Tag { return TagADW }

func (a IDAssigned) Encode() []byte {
	buf := make([]byte, 6)
	return wire.AppendUint32(buf, a.SyncID)
}

func DecodeIDAssigned(payload []byte) (IDAssigned, error) {
	if len(payload) < 10 {
		return IDAssigned{}, fmt.Errorf("%w: ADW payload too short", zyncerr.ErrProtocolViolation)
	}
	return IDAssigned{SyncID: wire.Uint32(payload[6:10])}, nil
}

// BulkFragment is AGE: a chunk of out-of-band bulk data. Only the first
// fragment in a transfer carries TotalSize.
type BulkFragment struct {
	First     bool
	TotalSize uint32
	Data      []byte
}

func (BulkFragment) Tag() Tag { return TagAGE }

func (f BulkFragment) Encode() []byte {
	if !f.First {
		return append([]byte(nil), f.Data...)
	}
	buf := wire.AppendUint32(nil, f.TotalSize)
	return append(buf, f.Data...)
}

func DecodeBulkFragment(payload []byte, first bool) (BulkFragment, error) {
	if !first {
		return BulkFragment{Data: append([]byte(nil), payload...)}, nil
	}
	if len(payload) < 4 {
		return BulkFragment{}, fmt.Errorf("%w: AGE first fragment too short", zyncerr.ErrProtocolViolation)
	}
	return BulkFragment{First: true, TotalSize: wire.Uint32(payload), Data: append([]byte(nil), payload[4:]...)}, nil
}

// ActionAck is AEX: a generic acknowledgement of the desktop's last
// action (record write, delete, kind-done, ...).
type ActionAck struct{}

func (ActionAck) Tag() Tag              { return TagAEX }
func (ActionAck) Encode() []byte        { return nil }
func DecodeActionAck([]byte) (ActionAck, error) { return ActionAck{}, nil }

// NegativeAck is ANG: a negative acknowledgement, observed during the
// password-reset/log-reset probe sequence.
type NegativeAck struct{}

func (NegativeAck) Tag() Tag               { return TagANG }
func (NegativeAck) Encode() []byte         { return nil }
func DecodeNegativeAck([]byte) (NegativeAck, error) { return NegativeAck{}, nil }
