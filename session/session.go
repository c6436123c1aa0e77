// Package session drives one full sync dialogue with a connected
// device: hello, identify, authenticate, then one pass of
// log-check/anchor/schema/changeset/apply/done per configured record
// kind, finishing with a second identify and an orderly terminate.
package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/zyncd/zyncd/adapter"
	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/reconcile"
	"github.com/zyncd/zyncd/record"
	"github.com/zyncd/zyncd/schema"
	"github.com/zyncd/zyncd/transport"
	"github.com/zyncd/zyncd/wire"
	"github.com/zyncd/zyncd/zyncerr"
)

// KindConfig binds one record kind to the adapter that stores it.
type KindConfig struct {
	Kind    record.Kind
	Adapter adapter.Adapter
}

// PasswordFunc supplies the device password on demand; ok is false when
// the caller has no password to offer (the session then fails auth
// immediately rather than retrying with an empty secret).
type PasswordFunc func(attempt int) (secret string, ok bool)

// Config parameterizes one Session run.
type Config struct {
	Kinds       []KindConfig
	Policy      reconcile.Policy
	FullSync    bool // force a full sync regardless of the device's AMG bits
	Password    PasswordFunc
	Listener    Listener
	Log         *logrus.Entry
	RoundDelay  time.Duration // read/write deadline per round; 0 = 30s default
	SchemaCache *schema.Cache // shared across sessions against the same daemon; nil disables memoization
}

// Session is one sync dialogue over one TCP connection.
type Session struct {
	id       string
	dlg      *transport.Dialogue
	cfg      Config
	state    State
	deviceID string // device's reported Model, learned from the first Identify
}

// New wraps conn and prepares a Session that hasn't started yet.
func New(conn net.Conn, cfg Config) *Session {
	id := uuid.NewString()
	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.New())
	}
	log = log.WithField("session", id)
	if cfg.Listener == nil {
		cfg.Listener = NewLogListener(log)
	}
	return &Session{
		id:  id,
		dlg: transport.New(conn, log),
		cfg: cfg,
	}
}

func (s *Session) setState(to State) {
	notify(s.cfg.Listener, func(l Listener) { l.OnStateChange(s.state, to) })
	s.state = to
}

func (s *Session) roundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	d := s.cfg.RoundDelay
	if d == 0 {
		d = 30 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Run drives the session to completion or failure.
func (s *Session) Run(ctx context.Context) error {
	if err := s.run(ctx); err != nil {
		notify(s.cfg.Listener, func(l Listener) { l.OnError(err) })
		if !errors.Is(err, zyncerr.ErrAuthFailed) {
			s.setState(StateFailed)
		}
		return err
	}
	return nil
}

func (s *Session) run(ctx context.Context) error {
	s.setState(StateHelloDevice)
	if _, err := s.round(ctx, catalog.Hello{}); err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	s.setState(StateIdentify)
	id, err := s.identify(ctx)
	if err != nil {
		return err
	}

	s.setState(StateAuthCheck)
	if id.RequiresPassword() {
		s.setState(StateAuthenticating)
		if err := s.authenticate(ctx); err != nil {
			s.setState(StateTerminate)
			_ = s.terminate(ctx)
			return err
		}
	}

	for _, kc := range s.cfg.Kinds {
		if err := s.syncKind(ctx, kc); err != nil {
			return err
		}
	}

	s.setState(StateIdentify2)
	if _, err := s.identify(ctx); err != nil {
		return err
	}

	s.setState(StateTerminate)
	if err := s.terminate(ctx); err != nil {
		return err
	}
	s.setState(StateDone)
	return nil
}

func (s *Session) identify(ctx context.Context) (catalog.Identify, error) {
	msg, err := s.round(ctx, catalog.IdentifyRequest{})
	if err != nil {
		return catalog.Identify{}, fmt.Errorf("identify: %w", err)
	}
	id, ok := msg.(catalog.Identify)
	if !ok {
		return catalog.Identify{}, fmt.Errorf("%w: expected AIG", zyncerr.ErrUnexpectedMessage)
	}
	s.deviceID = id.Model
	notify(s.cfg.Listener, func(l Listener) { l.OnIdentify(id) })
	return id, nil
}

func (s *Session) terminate(ctx context.Context) error {
	if _, err := s.round(ctx, catalog.EndSession{}); err != nil {
		return fmt.Errorf("terminate: %w", err)
	}
	rctx, cancel := s.roundCtx(ctx)
	defer cancel()
	if err := s.dlg.SendFrame(rctx, wire.OriginDesktop, catalog.Goodbye{}.Tag(), catalog.Goodbye{}.Encode()); err != nil {
		return fmt.Errorf("goodbye: %w", err)
	}
	return s.dlg.Close()
}

// round applies the per-round timeout and delegates to the dialogue.
func (s *Session) round(ctx context.Context, out catalog.Message) (catalog.Message, error) {
	rctx, cancel := s.roundCtx(ctx)
	defer cancel()
	return s.dlg.Round(rctx, wire.OriginDesktop, out)
}

func (s *Session) syncKind(ctx context.Context, kc KindConfig) error {
	s.setState(StateFetchLog)
	logMsg, err := s.round(ctx, catalog.SyncLogRequest{Kind: kc.Kind})
	if err != nil {
		return fmt.Errorf("sync log status: %w", err)
	}
	status, ok := logMsg.(catalog.SyncLogStatus)
	if !ok {
		return fmt.Errorf("%w: expected AMG", zyncerr.ErrUnexpectedMessage)
	}
	fullSync := s.cfg.FullSync || status.NeedsFullSync(kc.Kind)

	s.setState(StateFetchAnchor)
	anchorMsg, err := s.round(ctx, catalog.AnchorRequest{})
	if err != nil {
		return fmt.Errorf("fetch anchor: %w", err)
	}
	anchor, ok := anchorMsg.(catalog.Anchor)
	if !ok {
		return fmt.Errorf("%w: expected ATG", zyncerr.ErrUnexpectedMessage)
	}

	s.setState(StateSetAnchor)
	newAnchor := time.Now().UTC()
	if _, err := s.round(ctx, catalog.SetAnchor{Time: newAnchor}); err != nil {
		return fmt.Errorf("set anchor: %w", err)
	}

	if fullSync {
		s.setState(StateResetLog)
		if err := s.resetLog(ctx); err != nil {
			return err
		}
	}

	s.setState(StateSendKindStart)
	if _, err := s.round(ctx, catalog.KindStart{Kind: kc.Kind}); err != nil {
		return fmt.Errorf("kind start: %w", err)
	}
	notify(s.cfg.Listener, func(l Listener) { l.OnKindStart(kc.Kind, fullSync) })

	s.setState(StateSchema)
	sch, err := s.negotiateSchema(ctx, kc.Kind)
	if err != nil {
		return err
	}

	s.setState(StateFetchChanges)
	deviceChanges, err := s.fetchChanges(ctx, kc, sch)
	if err != nil {
		return err
	}

	// A full sync treats the desktop as having no anchor: every item is new.
	since := anchor.Time
	if fullSync {
		since = time.Time{}
	}
	desktopChanges, err := s.desktopChanges(ctx, kc, since)
	if err != nil {
		return err
	}

	s.setState(StateReconcile)
	cmds := reconcile.Reconcile(deviceChanges, desktopChanges, s.cfg.Policy, fullSync)

	s.setState(StateApplyDeletes)
	if err := s.applyDeletesToDevice(ctx, kc, cmds.ToDevice.Delete); err != nil {
		return err
	}
	if err := applyDeletesToDesktop(ctx, kc, cmds.ToDesktop.Delete); err != nil {
		return err
	}

	s.setState(StateApplyMods)
	if err := s.applyModifiesToDevice(ctx, kc, sch, cmds.ToDevice.Modify); err != nil {
		return err
	}
	if err := applyModifiesToDesktop(ctx, kc, cmds.ToDesktop.Modify); err != nil {
		return err
	}

	s.setState(StateApplyAdds)
	pairs, err := s.applyAddsToDevice(ctx, kc, sch, cmds.ToDevice.Add)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		cmds.RecordIDPair(p.AppID, p.SyncID)
	}
	if err := applyAddsToDesktop(ctx, kc, cmds.ToDesktop.Add); err != nil {
		return err
	}
	for _, p := range cmds.IDMap {
		if err := kc.Adapter.MapIDs(ctx, p.AppID, p.SyncID); err != nil {
			return fmt.Errorf("%w: map ids: %v", zyncerr.ErrAdapter, err)
		}
	}

	notify(s.cfg.Listener, func(l Listener) {
		l.OnApply(kc.Kind, len(cmds.ToDevice.Delete)+len(cmds.ToDesktop.Delete),
			len(cmds.ToDevice.Modify)+len(cmds.ToDesktop.Modify),
			len(cmds.ToDevice.Add)+len(cmds.ToDesktop.Add))
	})

	s.setState(StateKindDone)
	if _, err := s.round(ctx, catalog.KindDone{Kind: kc.Kind}); err != nil {
		return fmt.Errorf("kind done: %w", err)
	}
	notify(s.cfg.Listener, func(l Listener) { l.OnKindDone(kc.Kind) })
	return nil
}

func (s *Session) resetLog(ctx context.Context) error {
	probe, err := s.round(ctx, catalog.LogReset{})
	if err != nil {
		return fmt.Errorf("log reset probe: %w", err)
	}
	if _, ok := probe.(catalog.NegativeAck); !ok {
		return nil
	}
	if _, err := s.round(ctx, catalog.LogReset{Body: make([]byte, 38)}); err != nil {
		return fmt.Errorf("log reset: %w", err)
	}
	return nil
}

func (s *Session) negotiateSchema(ctx context.Context, kind record.Kind) (schema.Schema, error) {
	if s.cfg.SchemaCache != nil {
		if sch, ok := s.cfg.SchemaCache.Get(s.deviceID, kind); ok {
			notify(s.cfg.Listener, func(l Listener) { l.OnSchema(kind, sch.Len()) })
			return sch, nil
		}
	}

	msg, err := s.round(ctx, catalog.SchemaRequest{Kind: kind})
	if err != nil {
		return schema.Schema{}, fmt.Errorf("schema request: %w", err)
	}
	adi, ok := msg.(catalog.SchemaMsg)
	if !ok {
		return schema.Schema{}, fmt.Errorf("%w: expected ADI", zyncerr.ErrUnexpectedMessage)
	}
	sch, err := schema.FromMessage(adi)
	if err != nil {
		return schema.Schema{}, err
	}
	if s.cfg.SchemaCache != nil {
		s.cfg.SchemaCache.Put(s.deviceID, kind, sch)
	}
	notify(s.cfg.Listener, func(l Listener) { l.OnSchema(kind, sch.Len()) })
	return sch, nil
}

func (s *Session) fetchChanges(ctx context.Context, kc KindConfig, sch schema.Schema) (reconcile.Changeset, error) {
	msg, err := s.round(ctx, catalog.ChangesetRequest{Kind: kc.Kind})
	if err != nil {
		return reconcile.Changeset{}, fmt.Errorf("changeset request: %w", err)
	}
	ids, ok := msg.(catalog.ChangesetIDs)
	if !ok {
		return reconcile.Changeset{}, fmt.Errorf("%w: expected ASY", zyncerr.ErrUnexpectedMessage)
	}
	notify(s.cfg.Listener, func(l Listener) {
		l.OnChangeset(kc.Kind, len(ids.New), len(ids.Modified), len(ids.Deleted))
	})

	changes := reconcile.NewChangeset()
	for _, id := range ids.New {
		rec, err := s.fetchRecord(ctx, kc.Kind, sch, id)
		if err != nil {
			return reconcile.Changeset{}, err
		}
		changes.New = append(changes.New, rec)
	}
	for _, id := range ids.Modified {
		rec, err := s.fetchRecord(ctx, kc.Kind, sch, id)
		if err != nil {
			return reconcile.Changeset{}, err
		}
		changes.Modified[id] = rec
	}
	for _, id := range ids.Deleted {
		changes.Deleted[id] = true
	}
	return changes, nil
}

func (s *Session) fetchRecord(ctx context.Context, kind record.Kind, sch schema.Schema, id uint32) (record.Record, error) {
	msg, err := s.round(ctx, catalog.RecordGet{Kind: kind, SyncID: id})
	if err != nil {
		return nil, fmt.Errorf("record get %d: %w", id, err)
	}
	payload, ok := msg.(catalog.RecordPayload)
	if !ok {
		return nil, fmt.Errorf("%w: expected ADR", zyncerr.ErrUnexpectedMessage)
	}
	rec, err := record.Decode(kind, sch, payload.Tape)
	if err != nil {
		return nil, err
	}
	rec.Common().SyncID = id
	return rec, nil
}

func (s *Session) desktopChanges(ctx context.Context, kc KindConfig, since time.Time) (reconcile.Changeset, error) {
	changes := reconcile.NewChangeset()

	newRecs, err := kc.Adapter.ListNew(ctx, since)
	if err != nil {
		return changes, fmt.Errorf("%w: list new: %v", zyncerr.ErrAdapter, err)
	}
	changes.New = newRecs

	modRecs, err := kc.Adapter.ListModified(ctx, since)
	if err != nil {
		return changes, fmt.Errorf("%w: list modified: %v", zyncerr.ErrAdapter, err)
	}
	for _, r := range modRecs {
		changes.Modified[r.Common().SyncID] = r
	}

	delIDs, err := kc.Adapter.ListDeletedIDs(ctx, since)
	if err != nil {
		return changes, fmt.Errorf("%w: list deleted: %v", zyncerr.ErrAdapter, err)
	}
	for _, id := range delIDs {
		changes.Deleted[id] = true
	}
	return changes, nil
}

func (s *Session) applyDeletesToDevice(ctx context.Context, kc KindConfig, ids []uint32) error {
	for _, id := range ids {
		if _, err := s.round(ctx, catalog.RecordDelete{Kind: kc.Kind, SyncID: id}); err != nil {
			return fmt.Errorf("record delete %d: %w", id, err)
		}
	}
	return nil
}

func applyDeletesToDesktop(ctx context.Context, kc KindConfig, ids []uint32) error {
	if len(ids) == 0 {
		return nil
	}
	if err := kc.Adapter.DeleteByIDs(ctx, ids); err != nil {
		return fmt.Errorf("%w: delete by ids: %v", zyncerr.ErrAdapter, err)
	}
	return nil
}

func (s *Session) applyModifiesToDevice(ctx context.Context, kc KindConfig, sch schema.Schema, recs []record.Record) error {
	for _, r := range recs {
		tape, err := record.EncodeModify(r, sch)
		if err != nil {
			return err
		}
		if _, err := s.round(ctx, catalog.RecordWrite{
			Kind: kc.Kind, Variant: catalog.RecordWriteModify, SyncID: r.Common().SyncID, Tape: tape,
		}); err != nil {
			return fmt.Errorf("record write modify %d: %w", r.Common().SyncID, err)
		}
	}
	return nil
}

func applyModifiesToDesktop(ctx context.Context, kc KindConfig, recs []record.Record) error {
	for _, r := range recs {
		if err := kc.Adapter.Modify(ctx, r); err != nil {
			return fmt.Errorf("%w: modify: %v", zyncerr.ErrAdapter, err)
		}
	}
	return nil
}

// applyAddsToDevice adds each record via the two-round dance the device
// expects: ObtainID (ATTR only) allocates a syncId via ADW, then
// NewItem (the full tape, now carrying that syncId) is confirmed with
// a plain AEX (§4.C, original_source's InitAsObt then InitAsNew).
func (s *Session) applyAddsToDevice(ctx context.Context, kc KindConfig, sch schema.Schema, recs []record.Record) ([]reconcile.IDPair, error) {
	var pairs []reconcile.IDPair
	for _, r := range recs {
		obtainTape, err := record.EncodeObtainID(r, sch)
		if err != nil {
			return nil, err
		}
		msg, err := s.round(ctx, catalog.RecordWrite{Kind: kc.Kind, Variant: catalog.RecordWriteObtainID, Tape: obtainTape})
		if err != nil {
			return nil, fmt.Errorf("record write obtain id: %w", err)
		}
		assigned, ok := msg.(catalog.IDAssigned)
		if !ok {
			return nil, fmt.Errorf("%w: expected ADW", zyncerr.ErrUnexpectedMessage)
		}
		r.Common().SyncID = assigned.SyncID

		fullTape, err := record.Encode(r, sch)
		if err != nil {
			return nil, err
		}
		msg2, err := s.round(ctx, catalog.RecordWrite{Kind: kc.Kind, Variant: catalog.RecordWriteNewItem, Tape: fullTape})
		if err != nil {
			return nil, fmt.Errorf("record write new item: %w", err)
		}
		if _, ok := msg2.(catalog.ActionAck); !ok {
			return nil, fmt.Errorf("%w: expected AEX", zyncerr.ErrUnexpectedMessage)
		}

		pairs = append(pairs, reconcile.IDPair{AppID: r.Common().AppID, SyncID: assigned.SyncID})
	}
	return pairs, nil
}

func applyAddsToDesktop(ctx context.Context, kc KindConfig, recs []record.Record) error {
	for _, r := range recs {
		if _, err := kc.Adapter.Add(ctx, r); err != nil {
			return fmt.Errorf("%w: add: %v", zyncerr.ErrAdapter, err)
		}
	}
	return nil
}
