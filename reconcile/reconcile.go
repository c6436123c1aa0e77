package reconcile

import (
	"fmt"
	"sort"

	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/zyncerr"
)

// ParsePolicy maps the config file's conflict_winner values (§6.3) onto
// a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "zaurus":
		return DeviceWins, nil
	case "desktop":
		return DesktopWins, nil
	case "both":
		return KeepBoth, nil
	default:
		return 0, fmt.Errorf("%w: unknown conflict_winner %q", zyncerr.ErrConfig, s)
	}
}

// Reconcile resolves z (the device's changeset) against d (the
// desktop's changeset) under policy, following §4.H. When fullSync is
// true, steps 1-3 are bypassed entirely: every item on both sides is
// treated as new, and no deletes are emitted.
func Reconcile(z, d Changeset, policy Policy, fullSync bool) Commands {
	if fullSync {
		return fullSyncCommands(z, d)
	}

	zMod := cloneMod(z.Modified)
	zDel := cloneSet(z.Deleted)
	dMod := cloneMod(d.Modified)
	dDel := cloneSet(d.Deleted)
	zNew := append([]record.Record(nil), z.New...)
	dNew := append([]record.Record(nil), d.New...)

	// Step 1: delete/modify — a deletion never beats a concurrent
	// modification; the modified copy is re-added on the side that
	// deleted it.
	for _, id := range sortedKeysSet(zDel) {
		if rec, ok := dMod[id]; ok {
			dNew = append(dNew, rec)
			delete(dMod, id)
			delete(zDel, id)
			delete(dDel, id)
		}
	}
	for _, id := range sortedKeysSet(dDel) {
		if rec, ok := zMod[id]; ok {
			zNew = append(zNew, rec)
			delete(zMod, id)
			delete(dDel, id)
			delete(zDel, id)
		}
	}

	// Step 2: modify/modify, resolved per the configured policy.
	for _, id := range sortedKeysMod(zMod) {
		dRec, ok := dMod[id]
		if !ok {
			continue
		}
		zRec := zMod[id]
		switch policy {
		case DeviceWins:
			delete(dMod, id)
		case DesktopWins:
			delete(zMod, id)
		case KeepBoth:
			delete(zMod, id)
			delete(dMod, id)
			dNew = append(dNew, zRec)
			zNew = append(zNew, dRec)
		}
	}

	// Step 3: delete/delete, deduplicated — neither side needs telling.
	for _, id := range sortedKeysSet(zDel) {
		if dDel[id] {
			delete(zDel, id)
			delete(dDel, id)
		}
	}

	var cmds Commands
	cmds.ToDesktop.Delete = sortedKeysSet(zDel)
	cmds.ToDevice.Delete = sortedKeysSet(dDel)
	cmds.ToDesktop.Modify = valuesMod(zMod)
	cmds.ToDevice.Modify = valuesMod(dMod)
	cmds.ToDesktop.Add = zNew
	cmds.ToDevice.Add = dNew
	return cmds
}

func fullSyncCommands(z, d Changeset) Commands {
	var cmds Commands
	cmds.ToDesktop.Add = append(append([]record.Record(nil), z.New...), valuesMod(z.Modified)...)
	cmds.ToDevice.Add = append(append([]record.Record(nil), d.New...), valuesMod(d.Modified)...)
	return cmds
}

func cloneMod(m map[uint32]record.Record) map[uint32]record.Record {
	out := make(map[uint32]record.Record, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSet(m map[uint32]bool) map[uint32]bool {
	out := make(map[uint32]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func sortedKeysSet(m map[uint32]bool) []uint32 {
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sortedKeysMod(m map[uint32]record.Record) []uint32 {
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func valuesMod(m map[uint32]record.Record) []record.Record {
	out := make([]record.Record, 0, len(m))
	for _, id := range sortedKeysMod(m) {
		out = append(out, m[id])
	}
	return out
}
