package session_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/session"
	"github.com/zyncd/zyncd/transport"
	"github.com/zyncd/zyncd/wire"
)

// fakeDevice plays the device side of one Round from the desktop: it
// grants the REQ, reads whatever the desktop sends, ACKs it, then
// answers the desktop's own REQ with reply.
type fakeDevice struct {
	dlg *transport.Dialogue
	ctx context.Context
}

func (f fakeDevice) exchange(t *testing.T, reply catalog.Message) {
	t.Helper()
	require.NoError(t, f.dlg.SendControl(f.ctx, wire.ControlReq))
	v, err := f.dlg.Recv(f.ctx)
	require.NoError(t, err)
	_, ok := v.(*wire.Frame)
	require.True(t, ok, "expected a message frame from the desktop")
	require.NoError(t, f.dlg.SendControl(f.ctx, wire.ControlAck))

	v2, err := f.dlg.Recv(f.ctx)
	require.NoError(t, err)
	require.Equal(t, wire.ControlReq, v2)

	require.NoError(t, f.dlg.SendFrame(f.ctx, wire.OriginDevice, reply.Tag(), reply.Encode()))
	v3, err := f.dlg.Recv(f.ctx)
	require.NoError(t, err)
	require.Equal(t, wire.ControlAck, v3)
}

// exchangeAbort is used for a failed password round: the device grants
// the REQ, reads the desktop's RRL, and answers with ABRT instead of the
// ACK.
func (f fakeDevice) exchangeAbort(t *testing.T) {
	t.Helper()
	require.NoError(t, f.dlg.SendControl(f.ctx, wire.ControlReq))
	_, err := f.dlg.Recv(f.ctx)
	require.NoError(t, err)
	require.NoError(t, f.dlg.SendControl(f.ctx, wire.ControlAbrt))
}

func TestRunHelloIdentifyTerminateWithNoKinds(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	device := fakeDevice{dlg: transport.New(server, nil), ctx: ctx}
	done := make(chan struct{})
	go func() {
		defer close(done)
		device.exchange(t, catalog.HelloAck{})
		device.exchange(t, catalog.Identify{AuthState: catalog.AuthOpen})
		device.exchange(t, catalog.Identify{AuthState: catalog.AuthOpen})
		device.exchange(t, catalog.ActionAck{})
		_, err := device.dlg.Recv(ctx) // drain the final Goodbye frame
		require.NoError(t, err)
	}()

	s := session.New(client, session.Config{})
	err := s.Run(ctx)
	require.NoError(t, err)
	<-done
}

func TestRunFailsAuthAfterThreeAborts(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	device := fakeDevice{dlg: transport.New(server, nil), ctx: ctx}
	done := make(chan struct{})
	go func() {
		defer close(done)
		device.exchange(t, catalog.HelloAck{})
		device.exchange(t, catalog.Identify{AuthState: catalog.AuthNeedsPassword})
		device.exchangeAbort(t)
		device.exchange(t, catalog.Identify{AuthState: catalog.AuthNeedsPassword})
		device.exchangeAbort(t)
		device.exchange(t, catalog.Identify{AuthState: catalog.AuthNeedsPassword})
		device.exchangeAbort(t)
		// session now gives up and attempts an orderly terminate
		device.exchange(t, catalog.ActionAck{})
		_, err := device.dlg.Recv(ctx) // drain the final Goodbye frame
		require.NoError(t, err)
	}()

	attempts := 0
	s := session.New(client, session.Config{
		Password: func(attempt int) (string, bool) {
			attempts++
			return "wrong", true
		},
	})
	err := s.Run(ctx)
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	<-done
}
