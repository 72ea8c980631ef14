package codes

import (
	"fmt"
	"net/http"

	log "github.com/Goden-Gun/vis-server/pkg/logger"
)

// ErrorCode is the wire representation of a single fault condition: an
// HTTP-style status number, a stable machine-parseable reason token and a
// human-readable message.
//
// Values are immutable after construction and safe to copy and read from any
// number of request-handling goroutines without synchronization.
type ErrorCode struct {
	Number  uint16 `json:"number"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// New builds an ErrorCode from a numeric status and an explicit message. The
// reason is the canonical short name for the status; an unrecognized status
// yields an empty reason rather than a failure.
func New(status int, message string) ErrorCode {
	return ErrorCode{
		Number:  uint16(status),
		Reason:  http.StatusText(status),
		Message: message,
	}
}

// FromStatus builds an ErrorCode from a bare status when only a generic
// classification is available. The message is left empty.
func FromStatus(status int) ErrorCode {
	return New(status, "")
}

// FromIOError downgrades an unexpected I/O failure to a generic internal
// server error. The original cause is recorded in the server log only and is
// never exposed to the client.
func FromIOError(err error) ErrorCode {
	log.WithError(err).Warn("io failure downgraded to internal server error")
	return FromStatus(http.StatusInternalServerError)
}

// Deserialization classifies a request that could not be decoded. The VIS
// error table has no row for this case, so it maps to a bare 400.
func Deserialization() ErrorCode {
	return FromStatus(http.StatusBadRequest)
}

// Error implements the error interface so dispatch code can return catalog
// entries directly.
func (e ErrorCode) Error() string {
	return fmt.Sprintf("%d:%s", e.Number, e.Reason)
}
