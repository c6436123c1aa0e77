// Package zyncerr defines the stable error kinds shared by every layer of
// the synchronization engine.
package zyncerr

import "errors"

// Error kinds. Call sites wrap these with fmt.Errorf("...: %w", ErrX) to
// add context; compare with errors.Is, never by string.
var (
	ErrIO                = errors.New("zync: i/o failure or timeout")
	ErrBadFrame          = errors.New("zync: malformed frame")
	ErrUnexpectedMessage = errors.New("zync: unexpected message for current state")
	ErrProtocolViolation = errors.New("zync: protocol violation")
	ErrAuthFailed        = errors.New("zync: authentication failed")
	ErrInvalidDateTime   = errors.New("zync: packed date-time out of range")
	ErrAdapter           = errors.New("zync: adapter error")
	ErrConfig            = errors.New("zync: configuration error")
	ErrCancelled         = errors.New("zync: cancelled")
	ErrAborted           = errors.New("zync: peer aborted the round")
)

var kinds = []struct {
	name string
	err  error
}{
	{"IoError", ErrIO},
	{"BadFrame", ErrBadFrame},
	{"UnexpectedMessage", ErrUnexpectedMessage},
	{"ProtocolViolation", ErrProtocolViolation},
	{"AuthFailed", ErrAuthFailed},
	{"InvalidDateTime", ErrInvalidDateTime},
	{"AdapterError", ErrAdapter},
	{"ConfigError", ErrConfig},
	{"Cancelled", ErrCancelled},
	{"Aborted", ErrAborted},
}

// Kind maps err back to the name of the sentinel it wraps, or "" when err
// does not wrap any known kind.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
