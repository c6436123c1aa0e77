package record

import (
	"github.com/zyncd/zyncd/schema"
)

// Todo is a To-Do record (§3.1).
type Todo struct {
	Base

	StartDate      int64 // epoch seconds; 0 means absent
	DueDate        int64
	CompletedDate  int64
	ProgressStatus uint8 // 0 or 1
	Priority       uint8 // 1..5
	Description    string
	Notes          string
}

func (t *Todo) Common() *Base   { return &t.Base }
func (t *Todo) Kind() Kind      { return KindTodo }

// DecodeTodo reads a Todo's fields from tape against s.
func DecodeTodo(s schema.Schema, tape []byte) (*Todo, error) {
	r := schema.NewReader(s, tape)
	t := &Todo{}
	for !r.Done() {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		abbrev := f.Descriptor.String()
		if applyCommonField(&t.Base, abbrev, f) {
			continue
		}
		switch abbrev {
		case "TITL":
			t.Description = f.String()
		case "MEM1":
			t.Notes = f.String()
		case "MARK":
			t.ProgressStatus = uint8(f.Uint())
		case "PRTY":
			t.Priority = uint8(f.Uint())
		case "ETDY":
			t.StartDate = readOptionalTime(f)
		case "LTDY":
			t.DueDate = readOptionalTime(f)
		case "FNDY":
			t.CompletedDate = readOptionalTime(f)
		}
	}
	return t, nil
}

// EncodeTodo writes t's fields as tape against s, opaque abbreviations
// included only as absent placeholders.
func EncodeTodo(t *Todo, s schema.Schema) []byte {
	w := schema.NewWriter()
	for _, d := range s.Descriptors {
		abbrev := d.String()
		if writeCommonField(&t.Base, abbrev, w) {
			continue
		}
		switch abbrev {
		case "TITL":
			w.WriteString(t.Description)
		case "MEM1":
			w.WriteString(t.Notes)
		case "MARK":
			w.WriteUint(uint64(t.ProgressStatus), 1)
		case "PRTY":
			w.WriteUint(uint64(t.Priority), 1)
		case "ETDY":
			writeOptionalTime(w, t.StartDate)
		case "LTDY":
			writeOptionalTime(w, t.DueDate)
		case "FNDY":
			writeOptionalTime(w, t.CompletedDate)
		default:
			w.WriteAbsent()
		}
	}
	return w.Bytes()
}
