package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/reconcile"
)

func todo(id uint32, desc string) *record.Todo {
	return &record.Todo{Base: record.Base{SyncID: id}, Description: desc}
}

func TestParsePolicy(t *testing.T) {
	p, err := reconcile.ParsePolicy("zaurus")
	require.NoError(t, err)
	assert.Equal(t, reconcile.DeviceWins, p)

	p, err = reconcile.ParsePolicy("desktop")
	require.NoError(t, err)
	assert.Equal(t, reconcile.DesktopWins, p)

	p, err = reconcile.ParsePolicy("both")
	require.NoError(t, err)
	assert.Equal(t, reconcile.KeepBoth, p)

	_, err = reconcile.ParsePolicy("nonsense")
	assert.Error(t, err)
}

// Delete/modify: the device deleted 42, the desktop modified it. The
// modification must win on both sides — device receives an add for the
// desktop's copy, desktop receives no delete.
func TestDeleteModifyConflictDeviceDeleted(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Deleted[42] = true

	d := reconcile.NewChangeset()
	d.Modified[42] = todo(42, "kept")

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	assert.Empty(t, cmds.ToDesktop.Delete)
	require.Len(t, cmds.ToDevice.Add, 1)
	assert.Equal(t, "kept", cmds.ToDevice.Add[0].(*record.Todo).Description)
	assert.Empty(t, cmds.ToDevice.Modify)
}

// Symmetric case: the desktop deleted 7, the device modified it.
func TestDeleteModifyConflictDesktopDeleted(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Modified[7] = todo(7, "kept")

	d := reconcile.NewChangeset()
	d.Deleted[7] = true

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	assert.Empty(t, cmds.ToDevice.Delete)
	require.Len(t, cmds.ToDesktop.Add, 1)
	assert.Equal(t, "kept", cmds.ToDesktop.Add[0].(*record.Todo).Description)
	assert.Empty(t, cmds.ToDesktop.Modify)
}

func TestModifyModifyDeviceWins(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Modified[1] = todo(1, "device version")
	d := reconcile.NewChangeset()
	d.Modified[1] = todo(1, "desktop version")

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	require.Len(t, cmds.ToDesktop.Modify, 1)
	assert.Equal(t, "device version", cmds.ToDesktop.Modify[0].(*record.Todo).Description)
	assert.Empty(t, cmds.ToDevice.Modify)
}

func TestModifyModifyDesktopWins(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Modified[1] = todo(1, "device version")
	d := reconcile.NewChangeset()
	d.Modified[1] = todo(1, "desktop version")

	cmds := reconcile.Reconcile(z, d, reconcile.DesktopWins, false)

	require.Len(t, cmds.ToDevice.Modify, 1)
	assert.Equal(t, "desktop version", cmds.ToDevice.Modify[0].(*record.Todo).Description)
	assert.Empty(t, cmds.ToDesktop.Modify)
}

func TestModifyModifyKeepBoth(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Modified[1] = todo(1, "device version")
	d := reconcile.NewChangeset()
	d.Modified[1] = todo(1, "desktop version")

	cmds := reconcile.Reconcile(z, d, reconcile.KeepBoth, false)

	assert.Empty(t, cmds.ToDevice.Modify)
	assert.Empty(t, cmds.ToDesktop.Modify)
	require.Len(t, cmds.ToDevice.Add, 1)
	require.Len(t, cmds.ToDesktop.Add, 1)
	assert.Equal(t, "device version", cmds.ToDesktop.Add[0].(*record.Todo).Description)
	assert.Equal(t, "desktop version", cmds.ToDevice.Add[0].(*record.Todo).Description)
}

func TestDeleteDeleteDeduplicated(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Deleted[9] = true
	d := reconcile.NewChangeset()
	d.Deleted[9] = true

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	assert.Empty(t, cmds.ToDesktop.Delete)
	assert.Empty(t, cmds.ToDevice.Delete)
}

func TestNoOverlapPassesThroughUnchanged(t *testing.T) {
	z := reconcile.NewChangeset()
	z.New = append(z.New, todo(0, "brand new on device"))
	z.Deleted[5] = true

	d := reconcile.NewChangeset()
	d.Modified[11] = todo(11, "desktop edit")

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	require.Len(t, cmds.ToDesktop.Add, 1)
	assert.Equal(t, []uint32{5}, cmds.ToDesktop.Delete)
	require.Len(t, cmds.ToDevice.Modify, 1)
}

func TestFullSyncBypassesConflictResolutionAndDeletes(t *testing.T) {
	z := reconcile.NewChangeset()
	z.New = append(z.New, todo(0, "z-new"))
	z.Modified[1] = todo(1, "z-mod")
	z.Deleted[2] = true

	d := reconcile.NewChangeset()
	d.New = append(d.New, todo(0, "d-new"))
	d.Modified[1] = todo(1, "d-mod")
	d.Deleted[3] = true

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, true)

	assert.Empty(t, cmds.ToDevice.Delete)
	assert.Empty(t, cmds.ToDesktop.Delete)
	assert.Len(t, cmds.ToDesktop.Add, 2)
	assert.Len(t, cmds.ToDevice.Add, 2)
}

func TestNoIDAppearsInBothAddAndDeleteSameSide(t *testing.T) {
	z := reconcile.NewChangeset()
	z.Deleted[42] = true
	d := reconcile.NewChangeset()
	d.Modified[42] = todo(42, "kept")
	d.Deleted[42] = true // contradictory input; delete/modify must still win

	cmds := reconcile.Reconcile(z, d, reconcile.DeviceWins, false)

	deleted := make(map[uint32]bool)
	for _, id := range cmds.ToDevice.Delete {
		deleted[id] = true
	}
	for _, rec := range cmds.ToDevice.Add {
		assert.False(t, deleted[rec.Common().SyncID])
	}
}

func TestRecordIDPair(t *testing.T) {
	var cmds reconcile.Commands
	cmds.RecordIDPair("app-1", 99)
	require.Len(t, cmds.IDMap, 1)
	assert.Equal(t, reconcile.IDPair{AppID: "app-1", SyncID: 99}, cmds.IDMap[0])
}
