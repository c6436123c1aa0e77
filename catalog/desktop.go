package catalog

import (
	"time"

	"github.com/zyncd/zyncd/wire"
)

// Hello is RAY: the opening greeting.
type Hello struct{}

func (Hello) Tag() Tag       { return TagRAY }
func (Hello) Encode() []byte { return nil }

// IdentifyRequest is RIG: asks the device to send its Identify.
type IdentifyRequest struct{}

func (IdentifyRequest) Tag() Tag       { return TagRIG }
func (IdentifyRequest) Encode() []byte { return nil }

// Password is RRL: the cleartext passcode, length-prefixed.
type Password struct {
	Secret []byte
}

func (Password) Tag() Tag { return TagRRL }

func (p Password) Encode() []byte {
	buf := wire.AppendUint16(nil, uint16(len(p.Secret)))
	return append(buf, p.Secret...)
}

// SyncLogRequest is RMG: asks for the sync-log status of one kind.
type SyncLogRequest struct {
	Kind Kind
}

func (SyncLogRequest) Tag() Tag            { return TagRMG }
func (r SyncLogRequest) Encode() []byte    { return []byte{byte(r.Kind)} }

// AnchorRequest is RTG: asks for the last-sync anchor.
type AnchorRequest struct{}

func (AnchorRequest) Tag() Tag       { return TagRTG }
func (AnchorRequest) Encode() []byte { return nil }

// SetAnchor is RTS: ships the desktop-computed "now" as the new anchor.
type SetAnchor struct {
	Time time.Time
}

func (SetAnchor) Tag() Tag { return TagRTS }
func (s SetAnchor) Encode() []byte {
	return []byte(s.Time.UTC().Format(anchorLayout))
}

// LogReset is RMS: either an empty probe, or a 38-byte reset body.
type LogReset struct {
	Body []byte // nil/empty for the probe variant
}

func (LogReset) Tag() Tag { return TagRMS }

func (l LogReset) Encode() []byte {
	buf := wire.AppendUint16(nil, uint16(len(l.Body)))
	return append(buf, l.Body...)
}

// SchemaRequest is RDI: asks for the field schema of one kind.
type SchemaRequest struct {
	Kind Kind
}

func (SchemaRequest) Tag() Tag         { return TagRDI }
func (r SchemaRequest) Encode() []byte { return []byte{byte(r.Kind), 0x06, 0x07} }

// ChangesetRequest is RSY: asks for the id-list changeset of one kind.
type ChangesetRequest struct {
	Kind Kind
}

func (ChangesetRequest) Tag() Tag         { return TagRSY }
func (r ChangesetRequest) Encode() []byte { return []byte{byte(r.Kind), 0x07} }

// RecordGet is RDR: asks for one record's full payload by syncId.
type RecordGet struct {
	Kind   Kind
	SyncID uint32
}

func (RecordGet) Tag() Tag { return TagRDR }
func (r RecordGet) Encode() []byte {
	buf := []byte{byte(r.Kind), 0x01, 0x00}
	return wire.AppendUint32(buf, r.SyncID)
}

// RecordWriteVariant distinguishes the three RDW shapes (§4.C).
type RecordWriteVariant uint8

const (
	RecordWriteModify RecordWriteVariant = iota
	RecordWriteObtainID
	RecordWriteNewItem
)

// RecordWrite is RDW. Tape must already be tape-encoded by the schema
// writer for the field subset the variant requires: starting at schema
// index 4 for Modify, just the ATTR field for ObtainID, and all fields
// for NewItem.
type RecordWrite struct {
	Kind    Kind
	Variant RecordWriteVariant
	SyncID  uint32 // only used by RecordWriteModify
	Tape    []byte
}

func (RecordWrite) Tag() Tag { return TagRDW }

func (r RecordWrite) Encode() []byte {
	buf := []byte{byte(r.Kind)}
	buf = wire.AppendUint16(buf, 1)
	switch r.Variant {
	case RecordWriteModify:
		buf = wire.AppendUint32(buf, r.SyncID)
		for i := 0; i < 16; i++ {
			buf = append(buf, 0xff)
		}
	default: // ObtainID, NewItem
		buf = append(buf, 0, 0, 0, 0)
	}
	return append(buf, r.Tape...)
}

// RecordDelete is RDD: deletes one record by syncId.
type RecordDelete struct {
	Kind   Kind
	SyncID uint32
}

func (RecordDelete) Tag() Tag { return TagRDD }
func (r RecordDelete) Encode() []byte {
	buf := []byte{byte(r.Kind), 0x01, 0x00}
	return wire.AppendUint32(buf, r.SyncID)
}

// KindDone is RDS: signals that the current kind's sync is complete.
type KindDone struct {
	Kind Kind
}

func (KindDone) Tag() Tag         { return TagRDS }
func (k KindDone) Encode() []byte { return []byte{byte(k.Kind), 0x07, 0x00, 0x00} }

// KindStart is RSS: signals the start of one kind's sync.
type KindStart struct {
	Kind Kind
}

func (KindStart) Tag() Tag         { return TagRSS }
func (k KindStart) Encode() []byte { return []byte{0x01, byte(k.Kind), 0x01} }

// EndSession is RQT: requests an orderly session end.
type EndSession struct{}

func (EndSession) Tag() Tag       { return TagRQT }
func (EndSession) Encode() []byte { return []byte{0, 0, 0} }

// Goodbye is RLR: the final frame before closing the socket.
type Goodbye struct{}

func (Goodbye) Tag() Tag       { return TagRLR }
func (Goodbye) Encode() []byte { return []byte{0x06} }

// BulkGet is RGE: requests an out-of-band bulk transfer by path.
type BulkGet struct {
	Path string
}

func (BulkGet) Tag() Tag { return TagRGE }
func (b BulkGet) Encode() []byte {
	buf := wire.AppendUint16(nil, uint16(len(b.Path)))
	return append(buf, b.Path...)
}
