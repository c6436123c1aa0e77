package record

import (
	"time"

	"github.com/zyncd/zyncd/schema"
)

// applyCommonField binds the abbreviations shared by every record kind
// (§4.F) into b. It reports whether abbrev was one of its own.
func applyCommonField(b *Base, abbrev string, f schema.Field) bool {
	switch abbrev {
	case "ATTR":
		b.Attribute = uint8(f.Uint())
	case "CTTM":
		if f.Present() {
			if t, err := f.Time(); err == nil {
				b.CreatedTime = t.Unix()
			}
		}
	case "MDTM":
		if f.Present() {
			if t, err := f.Time(); err == nil {
				b.ModifiedTime = t.Unix()
			}
		}
	case "SYID":
		b.SyncID = uint32(f.Uint())
	case "CTGR":
		b.Category = f.String()
	default:
		return false
	}
	return true
}

// writeCommonField is applyCommonField's encoding counterpart.
func writeCommonField(b *Base, abbrev string, w *schema.Writer) bool {
	switch abbrev {
	case "ATTR":
		w.WriteUint(uint64(b.Attribute), 1)
	case "CTTM":
		writeOptionalTime(w, b.CreatedTime)
	case "MDTM":
		writeOptionalTime(w, b.ModifiedTime)
	case "SYID":
		w.WriteUint(uint64(b.SyncID), 4)
	case "CTGR":
		w.WriteString(b.Category)
	default:
		return false
	}
	return true
}

func writeOptionalTime(w *schema.Writer, epoch int64) {
	if epoch == 0 {
		w.WriteAbsent()
		return
	}
	w.WriteTime(time.Unix(epoch, 0).UTC())
}

func readOptionalTime(f schema.Field) int64 {
	if !f.Present() {
		return 0
	}
	t, err := f.Time()
	if err != nil {
		return 0
	}
	return t.Unix()
}
