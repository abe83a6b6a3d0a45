package davsdk

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/davbox/davbox/internal/dav"
	"github.com/imroc/req/v3"
)

var (
	ErrNoServerURL   = errors.New("davsdk: server url missing")
	ErrInvalidScheme = errors.New("davsdk: server url scheme must be http or https")
	ErrEmptyBody     = errors.New("davsdk: empty response body")
)

const (
	CodeNetwork  = "E_NETWORK"  // transport-layer failure, possibly after retries
	CodeAuth     = "E_AUTH"     // server rejected or demanded credentials
	CodeProtocol = "E_PROTOCOL" // HTTP status outside the operation's success set
	CodeParse    = "E_PARSE"    // structurally malformed server response
	CodeData     = "E_DATA"     // response parsed but its content is unusable
	CodeUnknown  = "E_UNKNOWN"
)

// DAVError is the failure type every client operation returns. Message is
// always suitable to show to an end user; Err preserves the underlying
// cause for errors.Is/As.
type DAVError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
	Status  int    `json:"status,omitempty"`
	Err     error  `json:"-"`
}

func (e *DAVError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("dav error: %s - %s (http %d)", e.Code, e.Message, e.Status)
	}
	return fmt.Sprintf("dav error: %s - %s", e.Code, e.Message)
}

func (e *DAVError) Unwrap() error { return e.Err }

func (e *DAVError) ErrorCode() string    { return e.Code }
func (e *DAVError) ErrorMessage() string { return e.Message }

// handleHTTPError maps a non-success HTTP response onto a DAVError. Server
// error bodies are mined for a description so the caller sees the server's
// own words when it offered any.
func handleHTTPError(resp *req.Response, op string) error {
	status := resp.GetStatusCode()

	msg := dav.ParseErrorResponse(bytes.NewReader(resp.Bytes()))
	if msg == "" {
		msg = http.StatusText(status)
	}

	code := CodeProtocol
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		code = CodeAuth
	}

	return &DAVError{
		Code:    code,
		Message: fmt.Sprintf("%s: %s", op, msg),
		Status:  status,
	}
}

// wrapTransportError wraps a transport failure. By the time this runs the
// retry policy has already exhausted its attempts, so the error is final.
func wrapTransportError(err error, op string) error {
	return &DAVError{
		Code:    CodeNetwork,
		Message: fmt.Sprintf("%s: %s", op, err.Error()),
		Err:     err,
	}
}

func wrapParseError(err error, op string) error {
	return &DAVError{
		Code:    CodeParse,
		Message: fmt.Sprintf("%s: malformed server response", op),
		Err:     err,
	}
}
