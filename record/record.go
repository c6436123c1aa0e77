// Package record defines the language-neutral PIM record types (To-Do,
// Calendar, Address) and the abbreviation-table bindings that translate
// between them and a negotiated tape schema.
package record

import "github.com/zyncd/zyncd/catalog"

// Kind re-exports catalog.Kind so callers don't need to import catalog
// just to name a record kind.
type Kind = catalog.Kind

const (
	KindCalendar = catalog.KindCalendar
	KindTodo     = catalog.KindTodo
	KindAddress  = catalog.KindAddress
)

// Base holds the fields common to every record kind. Every integer and
// time field is explicitly zero-valued on construction — the source
// left these uninitialized, a defect design note §9 requires fixing.
type Base struct {
	SyncID       uint32 // device-assigned; zero means "not yet assigned"
	AppID        string // desktop adapter's local identifier
	Attribute    uint8
	CreatedTime  int64 // epoch seconds, UTC; 0 means absent
	ModifiedTime int64
	Category     string
}

// Record is satisfied by every concrete record type.
type Record interface {
	Common() *Base
	Kind() Kind
}
