// Package reconcile implements the three-way reconciliation engine:
// given the device's changeset and the desktop's changeset since the
// same anchor, resolve conflicts under a configured policy and emit the
// minimal command sequences to apply each side to the other.
package reconcile

import "github.com/zyncd/zyncd/record"

// Policy selects the modify/modify conflict winner (§4.H step 2).
type Policy uint8

const (
	DeviceWins Policy = iota
	DesktopWins
	KeepBoth
)

func (p Policy) String() string {
	switch p {
	case DeviceWins:
		return "zaurus"
	case DesktopWins:
		return "desktop"
	case KeepBoth:
		return "both"
	default:
		return "?"
	}
}

// Changeset groups the three kinds of record-level change one side has
// made since the last anchor. Desktop-originated New records have no
// SyncID yet; Modified and Deleted are keyed by SyncID. This mirrors
// the three-state (new/changed/deleted) tracking idiom used by
// other_examples' onedrive-go sync Item type, specialized from a single
// per-item struct to three parallel collections since this protocol's
// messages already arrive id-list-first (ASY) rather than item-first.
type Changeset struct {
	New      []record.Record
	Modified map[uint32]record.Record
	Deleted  map[uint32]bool
}

// NewChangeset returns an empty, ready-to-use Changeset.
func NewChangeset() Changeset {
	return Changeset{
		Modified: make(map[uint32]record.Record),
		Deleted:  make(map[uint32]bool),
	}
}

// IDPair binds a desktop appId to a device-allocated syncId, the result
// of applying a desktop "add" command to the device (§4.H step 4).
type IDPair struct {
	AppID  string
	SyncID uint32
}

// Actions is the ordered set of operations to apply to one side.
type Actions struct {
	Delete []uint32
	Modify []record.Record
	Add    []record.Record
}

// Commands is reconciliation's output.
type Commands struct {
	ToDevice  Actions
	ToDesktop Actions
	IDMap     []IDPair
}

// RecordIDPair appends a resolved appId/syncId binding. The reconcile
// package cannot produce these itself — a real syncId only exists once
// the session has actually sent the add to the device and read back its
// ADW — so the session executor calls this once per applied add.
func (c *Commands) RecordIDPair(appID string, syncID uint32) {
	c.IDMap = append(c.IDMap, IDPair{AppID: appID, SyncID: syncID})
}
