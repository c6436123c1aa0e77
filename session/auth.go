package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/zyncd/zyncd/catalog"
	"github.com/zyncd/zyncd/zyncerr"
)

const maxPasswordAttempts = 3

// authenticate runs the RRL retry loop (§4.G): up to three password
// rounds, each ended by either AEX (success) or ABRT (failure, followed
// by an ANG before the next attempt). Exhausting all attempts reports
// ErrAuthFailed; the caller still performs an orderly terminate rather
// than treating it as a fatal protocol failure.
func (s *Session) authenticate(ctx context.Context) error {
	if s.cfg.Password == nil {
		return fmt.Errorf("%w: device requires a password but none was configured", zyncerr.ErrAuthFailed)
	}

	for attempt := 1; attempt <= maxPasswordAttempts; attempt++ {
		secret, ok := s.cfg.Password(attempt)
		if !ok {
			return fmt.Errorf("%w: no password available", zyncerr.ErrAuthFailed)
		}
		notify(s.cfg.Listener, func(l Listener) { l.OnAuthRequired(attempt) })

		msg, err := s.round(ctx, catalog.Password{Secret: []byte(secret)})
		if err == nil {
			if _, ok := msg.(catalog.ActionAck); ok {
				notify(s.cfg.Listener, func(l Listener) { l.OnAuthResult(true) })
				return nil
			}
			return fmt.Errorf("%w: expected AEX", zyncerr.ErrUnexpectedMessage)
		}
		if !errors.Is(err, zyncerr.ErrAborted) {
			return fmt.Errorf("password round %d: %w", attempt, err)
		}
		notify(s.cfg.Listener, func(l Listener) { l.OnAuthResult(false) })

		if attempt < maxPasswordAttempts {
			if _, err := s.round(ctx, catalog.IdentifyRequest{}); err != nil {
				return fmt.Errorf("post-abort probe: %w", err)
			}
		}
	}
	return fmt.Errorf("%w: exhausted %d attempts", zyncerr.ErrAuthFailed, maxPasswordAttempts)
}
