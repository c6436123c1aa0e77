package transport_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/transport"
	"github.com/zyncd/zyncd/wire"
)

func TestSendFrameRecvFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	a := transport.New(client, nil)
	b := transport.New(server, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var tag [3]byte
	copy(tag[:], "HLO")
	done := make(chan error, 1)
	go func() { done <- a.SendFrame(ctx, wire.OriginDesktop, tag, []byte("hi")) }()

	v, err := b.Recv(ctx)
	require.NoError(t, err)
	require.NoError(t, <-done)

	f, ok := v.(*wire.Frame)
	require.True(t, ok)
	assert.Equal(t, tag, f.Tag)
	assert.Equal(t, []byte("hi"), f.Payload)
}

func TestSendControlRecvControlRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	a := transport.New(client, nil)
	b := transport.New(server, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.SendControl(ctx, wire.ControlReq) }()

	v, err := b.Recv(ctx)
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.Equal(t, wire.ControlReq, v)
}

func TestRoundPerformsFullRequestAcknowledgeExchange(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	desktop := transport.New(client, nil)
	device := transport.New(server, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	deviceDone := make(chan error, 1)
	go func() {
		deviceDone <- func() error {
			if err := device.SendControl(ctx, wire.ControlReq); err != nil {
				return err
			}
			v, err := device.Recv(ctx)
			if err != nil {
				return err
			}
			f := v.(*wire.Frame)
			if string(f.Tag[:]) != "RAY" {
				t.Errorf("unexpected tag %q", f.Tag)
			}
			if err := device.SendControl(ctx, wire.ControlAck); err != nil {
				return err
			}
			v2, err := device.Recv(ctx)
			if err != nil {
				return err
			}
			if v2 != wire.ControlReq {
				t.Errorf("expected REQ, got %v", v2)
			}
			var aay [3]byte
			copy(aay[:], "AAY")
			if err := device.SendFrame(ctx, wire.OriginDevice, aay, nil); err != nil {
				return err
			}
			v3, err := device.Recv(ctx)
			if err != nil {
				return err
			}
			if v3 != wire.ControlAck {
				t.Errorf("expected final ACK, got %v", v3)
			}
			return nil
		}()
	}()

	reply, err := desktop.Round(ctx, wire.OriginDesktop, catalog.Hello{})
	require.NoError(t, err)
	require.NoError(t, <-deviceDone)
	_, ok := reply.(catalog.HelloAck)
	assert.True(t, ok)
}

func TestRecvHonorsCancelledContext(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	d := transport.New(server, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Recv(ctx)
	assert.Error(t, err)
}
