// Package adapter defines the desktop-side PIM storage contract a sync
// run operates against, and a reference in-memory implementation.
package adapter

import (
	"context"
	"time"

	"github.com/zyncd/zyncd/record"
)

// Description identifies one adapter instance, the way the device's
// schema negotiation identifies one PIM kind.
type Description struct {
	Kind    record.Kind
	Name    string
	Version string
}

// Adapter is the desktop-side PIM collection a sync run reconciles
// against the device. Every method receives ctx so a long-running
// store (a real address book, a CalDAV client) can honor cancellation;
// the in-memory reference implementation ignores it beyond the
// boilerplate check, since its operations never actually block.
type Adapter interface {
	Describe() Description

	Initialize(ctx context.Context) error
	Teardown(ctx context.Context) error

	ListAll(ctx context.Context) ([]record.Record, error)
	ListNew(ctx context.Context, since time.Time) ([]record.Record, error)
	ListModified(ctx context.Context, since time.Time) ([]record.Record, error)
	ListDeletedIDs(ctx context.Context, since time.Time) ([]uint32, error)

	Add(ctx context.Context, r record.Record) (appID string, err error)
	Modify(ctx context.Context, r record.Record) error
	DeleteByIDs(ctx context.Context, ids []uint32) error

	// MapIDs binds a desktop appId to the syncId the device assigned it
	// once an Add has actually been applied there.
	MapIDs(ctx context.Context, appID string, syncID uint32) error
}
