// Package transport carries encoded frames over one TCP connection. The
// device protocol is strictly turn-taking — one side sends, the other
// replies, never both at once — so this package is a single blocking
// Round call rather than the teacher's send/recv goroutine pair with a
// sliding window of unacknowledged frames; there is no window to track
// because at most one frame is ever in flight.
package transport

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/wire"
	"github.com/zyncd/zyncd/zyncerr"
)

// Dialogue is a turn-taking exchange of frames over conn. Deadlines are
// applied per round from ctx, the same responsibility the teacher's tcp
// session discharges with its SendUnackTimeout/RecvUnackTimeout, here
// collapsed to one timeout per full round since there's no pipelining.
type Dialogue struct {
	conn net.Conn
	log  *logrus.Entry
}

// New wraps conn. log may be nil, in which case a disabled entry is used.
func New(conn net.Conn, log *logrus.Entry) *Dialogue {
	if log == nil {
		l := logrus.New()
		l.SetOutput(logrusDiscard{})
		log = logrus.NewEntry(l)
	}
	return &Dialogue{conn: conn, log: log}
}

type logrusDiscard struct{}

func (logrusDiscard) Write(p []byte) (int, error) { return len(p), nil }

// SendFrame writes one encoded frame.
func (d *Dialogue) SendFrame(ctx context.Context, origin wire.Origin, tag [3]byte, payload []byte) error {
	if err := d.applyDeadline(ctx); err != nil {
		return err
	}
	buf, err := wire.Encode(origin, tag, payload)
	if err != nil {
		return err
	}
	d.log.WithField("tag", string(tag[:])).Debug("send frame")
	if _, err := d.conn.Write(buf); err != nil {
		return fmt.Errorf("%w: write frame: %v", zyncerr.ErrIO, err)
	}
	return nil
}

// SendControl writes a 7-byte control frame (REQ/ACK/ABRT).
func (d *Dialogue) SendControl(ctx context.Context, c wire.Control) error {
	if err := d.applyDeadline(ctx); err != nil {
		return err
	}
	d.log.WithField("control", c).Debug("send control")
	if _, err := d.conn.Write(wire.EncodeControl(c)); err != nil {
		return fmt.Errorf("%w: write control: %v", zyncerr.ErrIO, err)
	}
	return nil
}

// Recv blocks for one frame or control signal.
func (d *Dialogue) Recv(ctx context.Context) (any, error) {
	if err := d.applyDeadline(ctx); err != nil {
		return nil, err
	}
	v, err := wire.Decode(d.conn)
	if err != nil {
		return nil, err
	}
	if f, ok := v.(*wire.Frame); ok {
		d.log.WithField("tag", string(f.Tag[:])).Debug("recv frame")
	} else {
		d.log.WithField("control", v).Debug("recv control")
	}
	return v, nil
}

// Round performs one full request/acknowledge exchange per §4.D: the
// device's REQ grants the desktop permission to speak, the device's ACK
// (or ABRT) confirms receipt, then the desktop issues its own REQ and
// reads the device's reply. origin is the desktop's origin marker for
// the outbound frame.
func (d *Dialogue) Round(ctx context.Context, origin wire.Origin, out catalog.Message) (catalog.Message, error) {
	if err := d.expectControl(ctx, wire.ControlReq); err != nil {
		return nil, err
	}
	if err := d.SendFrame(ctx, origin, out.Tag(), out.Encode()); err != nil {
		return nil, err
	}
	if err := d.expectControl(ctx, wire.ControlAck); err != nil {
		return nil, err
	}
	if err := d.SendControl(ctx, wire.ControlReq); err != nil {
		return nil, err
	}
	v, err := d.Recv(ctx)
	if err != nil {
		return nil, err
	}
	f, ok := v.(*wire.Frame)
	if !ok {
		return nil, fmt.Errorf("%w: expected a message frame, got %v", zyncerr.ErrUnexpectedMessage, v)
	}
	msg, err := catalog.DecodeMessage(catalog.Tag(f.Tag), f.Payload)
	if err != nil {
		_ = d.SendControl(ctx, wire.ControlAbrt)
		return nil, err
	}
	if err := d.SendControl(ctx, wire.ControlAck); err != nil {
		return nil, err
	}
	return msg, nil
}

func (d *Dialogue) expectControl(ctx context.Context, want wire.Control) error {
	v, err := d.Recv(ctx)
	if err != nil {
		return err
	}
	c, ok := v.(wire.Control)
	if !ok {
		return fmt.Errorf("%w: expected control %v, got a message frame", zyncerr.ErrUnexpectedMessage, want)
	}
	if c == wire.ControlAbrt {
		return fmt.Errorf("%w", zyncerr.ErrAborted)
	}
	if c != want {
		return fmt.Errorf("%w: expected control %v, got %v", zyncerr.ErrUnexpectedMessage, want, c)
	}
	return nil
}

func (d *Dialogue) applyDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", zyncerr.ErrCancelled, err)
	}
	if dl, ok := ctx.Deadline(); ok {
		return d.conn.SetDeadline(dl)
	}
	return d.conn.SetDeadline(time.Time{})
}

// Close closes the underlying connection.
func (d *Dialogue) Close() error { return d.conn.Close() }
