// Package errs defines the errors a ledger handler can hand back to a client
// and the document they are rendered as.
package errs

import (
	"errors"
	"net/http"
)

// Response is the document sent to a client when a request fails. Fields is
// set when a submitted document failed validation.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted is an error whose message is safe to show to the client along
// with the HTTP status it maps to. Any other error is reported as a 500.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks the error as safe to return with the specified status.
func NewTrusted(err error, status int) error {
	return &Trusted{Err: err, Status: status}
}

// BadRequest is used when the client sent a document the ledger can't
// accept, such as an undecodable transaction or peer address.
func BadRequest(err error) error {
	return NewTrusted(err, http.StatusBadRequest)
}

// Conflict is used when the chain moved underneath the request, such as a
// proof that went stale while mining.
func Conflict(err error) error {
	return NewTrusted(err, http.StatusConflict)
}

// Unavailable is used when a background part of the node isn't running.
func Unavailable(err error) error {
	return NewTrusted(err, http.StatusServiceUnavailable)
}

func (t *Trusted) Error() string {
	return t.Err.Error()
}

func (t *Trusted) Unwrap() error {
	return t.Err
}

// Status returns the status of the trusted error in the chain, if any.
func Status(err error) (int, bool) {
	var t *Trusted
	if !errors.As(err, &t) {
		return 0, false
	}
	return t.Status, true
}
