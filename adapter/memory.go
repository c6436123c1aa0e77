package adapter

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/zyncerr"
)

// entry is a Memory store's latest value for one appId, mirroring the
// teacher's track.Head latest struct: one slot per identity, always
// overwritten in place rather than appended to a log.
type entry struct {
	rec       record.Record
	createdAt time.Time
	updatedAt time.Time
	syncID    uint32
	deleted   bool
}

// Memory is a reference Adapter backed by a sync.Map of the latest
// value per appId, the same "latest wins, no history" shape as the
// teacher's track.Head keeps per object address. A bounded LRU records
// recently deleted ids so ListDeletedIDs can report tombstones without
// growing without limit; the cache holds 1024 ids, so an entry ages out
// after 1024 newer deletions, at which point a full resync is the only way to discover
// that old an omission — acceptable for a reference store.
type Memory struct {
	kind record.Kind
	name string

	mu         sync.Mutex // guards tombstones; db is its own sync.Map
	db         sync.Map   // appID string -> *entry
	tombstones *lru.Cache[uint32, time.Time]
}

// NewMemory returns an empty in-memory Adapter for kind.
func NewMemory(kind record.Kind, name string) *Memory {
	tomb, _ := lru.New[uint32, time.Time](1024)
	return &Memory{kind: kind, name: name, tombstones: tomb}
}

func (m *Memory) Describe() Description {
	return Description{Kind: m.kind, Name: m.name, Version: "1"}
}

func (m *Memory) Initialize(ctx context.Context) error { return ctx.Err() }
func (m *Memory) Teardown(ctx context.Context) error    { return ctx.Err() }

func (m *Memory) ListAll(ctx context.Context) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []record.Record
	m.db.Range(func(_, v any) bool {
		e := v.(*entry)
		if !e.deleted {
			out = append(out, e.rec)
		}
		return true
	})
	return out, nil
}

func (m *Memory) ListNew(ctx context.Context, since time.Time) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []record.Record
	m.db.Range(func(_, v any) bool {
		e := v.(*entry)
		if !e.deleted && e.createdAt.After(since) {
			out = append(out, e.rec)
		}
		return true
	})
	return out, nil
}

func (m *Memory) ListModified(ctx context.Context, since time.Time) ([]record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []record.Record
	m.db.Range(func(_, v any) bool {
		e := v.(*entry)
		if !e.deleted && !e.createdAt.After(since) && e.updatedAt.After(since) {
			out = append(out, e.rec)
		}
		return true
	})
	return out, nil
}

func (m *Memory) ListDeletedIDs(ctx context.Context, since time.Time) ([]uint32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []uint32
	for _, id := range m.tombstones.Keys() {
		at, ok := m.tombstones.Peek(id)
		if ok && at.After(since) {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m *Memory) Add(ctx context.Context, r record.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	appID := uuid.NewString()
	now := time.Now().UTC()
	r.Common().AppID = appID
	m.db.Store(appID, &entry{rec: r, createdAt: now, updatedAt: now})
	return appID, nil
}

func (m *Memory) Modify(ctx context.Context, r record.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	appID := r.Common().AppID
	v, ok := m.db.Load(appID)
	if !ok {
		return zyncerr.ErrAdapter
	}
	e := v.(*entry)
	e.rec = r
	e.updatedAt = time.Now().UTC()
	return nil
}

func (m *Memory) DeleteByIDs(ctx context.Context, ids []uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	want := make(map[uint32]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	now := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db.Range(func(k, v any) bool {
		e := v.(*entry)
		if want[e.syncID] {
			e.deleted = true
			m.tombstones.Add(e.syncID, now)
		}
		return true
	})
	return nil
}

func (m *Memory) MapIDs(ctx context.Context, appID string, syncID uint32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v, ok := m.db.Load(appID)
	if !ok {
		return zyncerr.ErrAdapter
	}
	e := v.(*entry)
	e.syncID = syncID
	e.rec.Common().SyncID = syncID
	return nil
}
