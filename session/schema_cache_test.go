package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/schema"
)

func TestNegotiateSchemaCacheHitSkipsWireRound(t *testing.T) {
	cache, err := schema.NewCache()
	require.NoError(t, err)
	want := schema.Schema{Descriptors: []schema.Descriptor{{Abbrev: [4]byte{'A', 'T', 'T', 'R'}}}}
	cache.Put("zaurus-sl-c1000", record.KindTodo, want)

	s := &Session{cfg: Config{SchemaCache: cache}, deviceID: "zaurus-sl-c1000"}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// s.dlg is nil: any attempt to perform a real round would panic,
	// proving the cache hit short-circuited before touching the wire.
	got, err := s.negotiateSchema(ctx, record.KindTodo)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNegotiateSchemaCacheMissIsKeyedByDevice(t *testing.T) {
	cache, err := schema.NewCache()
	require.NoError(t, err)
	cache.Put("zaurus-sl-c1000", record.KindTodo, schema.Schema{})

	s := &Session{cfg: Config{SchemaCache: cache}, deviceID: "zaurus-sl-c760"}
	_, ok := s.cfg.SchemaCache.Get(s.deviceID, record.KindTodo)
	assert.False(t, ok)
}
