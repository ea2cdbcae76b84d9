package moderation

import (
	"errors"
	"fmt"
)

// Rejection is a validation or permission failure reported to the invoker
// as-is. Nothing has been mutated when one is returned.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func rejectf(format string, args ...interface{}) *Rejection {
	return &Rejection{Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err carries a user-facing rejection
func IsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

var (
	errInvalidUnit        = &Rejection{Message: "Invalid unit. Use `s`, `h`, or `d`."}
	errInvalidTimeUnit    = &Rejection{Message: "Invalid time unit. Use `s`, `h`, or `d`."}
	errNonPositiveSpan    = &Rejection{Message: "Duration must be a positive number."}
	errMissingPermissions = &Rejection{Message: "❌ You lack Manage Messages permission."}
	errPurgeRange         = &Rejection{Message: "Please choose a number between 1 and 100."}
	errNotTextChannel     = &Rejection{Message: "❌ The log channel must be a text channel."}
	errEmptyReason        = &Rejection{Message: "❌ You must provide a reason."}
	errEmptyNickname      = &Rejection{Message: "❌ You must provide a nickname."}
)
