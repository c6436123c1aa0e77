package session

import (
	"github.com/sirupsen/logrus"

	"github.com/zyncd/zyncd/catalog"
)

// Listener observes a session's named transitions. A nil Listener means
// no transition is observed; a non-nil one implements every method. This
// is adapted from the teacher's
// MonitorDelegate pattern ("all fields are optional. Nil causes silent
// discards") to a flat interface, since this session has no address-
// width type parameter for a delegate struct to embed generically.
type Listener interface {
	OnIdentify(id catalog.Identify)
	OnAuthRequired(attempt int)
	OnAuthResult(ok bool)
	OnKindStart(kind catalog.Kind, fullSync bool)
	OnSchema(kind catalog.Kind, fieldCount int)
	OnChangeset(kind catalog.Kind, newCount, modCount, delCount int)
	OnApply(kind catalog.Kind, deletes, modifies, adds int)
	OnKindDone(kind catalog.Kind)
	OnStateChange(from, to State)
	OnError(err error)
}

// notify calls fn on l if l is non-nil.
func notify(l Listener, fn func(Listener)) {
	if l != nil {
		fn(l)
	}
}

// logListener is the logrus-backed default Listener.
type logListener struct {
	log *logrus.Entry
}

// NewLogListener returns a Listener that reports every transition
// through log, at Info level except schema and state-change events,
// which go to Debug, and errors, which go to Warn.
func NewLogListener(log *logrus.Entry) Listener {
	return &logListener{log: log}
}

func (l *logListener) OnIdentify(id catalog.Identify) {
	l.log.WithField("model", id.Model).Info("device identified")
}

func (l *logListener) OnAuthRequired(attempt int) {
	l.log.WithField("attempt", attempt).Info("password requested")
}

func (l *logListener) OnAuthResult(ok bool) {
	l.log.WithField("ok", ok).Info("authentication result")
}

func (l *logListener) OnKindStart(kind catalog.Kind, fullSync bool) {
	l.log.WithFields(logrus.Fields{"kind": kind, "fullSync": fullSync}).Info("kind sync starting")
}

func (l *logListener) OnSchema(kind catalog.Kind, fieldCount int) {
	l.log.WithFields(logrus.Fields{"kind": kind, "fields": fieldCount}).Debug("schema negotiated")
}

func (l *logListener) OnChangeset(kind catalog.Kind, newCount, modCount, delCount int) {
	l.log.WithFields(logrus.Fields{
		"kind": kind, "new": newCount, "modified": modCount, "deleted": delCount,
	}).Info("changeset fetched")
}

func (l *logListener) OnApply(kind catalog.Kind, deletes, modifies, adds int) {
	l.log.WithFields(logrus.Fields{
		"kind": kind, "deletes": deletes, "modifies": modifies, "adds": adds,
	}).Info("changes applied")
}

func (l *logListener) OnKindDone(kind catalog.Kind) {
	l.log.WithField("kind", kind).Info("kind sync done")
}

func (l *logListener) OnStateChange(from, to State) {
	l.log.WithFields(logrus.Fields{"from": from, "to": to}).Debug("state transition")
}

func (l *logListener) OnError(err error) {
	l.log.WithError(err).Warn("session error")
}
