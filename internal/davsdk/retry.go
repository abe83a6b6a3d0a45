package davsdk

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/imroc/req/v3"
)

const (
	// DefaultRetryCount bounds transparent retries of one exchange.
	DefaultRetryCount = 3

	retryBaseInterval = 100 * time.Millisecond
)

// backoffInterval returns the delay before the attempt-th retry (1-based):
// 100ms, 200ms, 400ms, ... doubling per attempt already consumed.
func backoffInterval(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return retryBaseInterval << (attempt - 1)
}

func retryInterval(_ *req.Response, attempt int) time.Duration {
	return backoffInterval(attempt)
}

// retryCondition retries transport failures only. HTTP-level failures (4xx,
// 5xx) reach the caller untouched - a server that answered is not transient.
func retryCondition(_ *req.Response, err error) bool {
	return isRetryableTransportError(err)
}

// isRetryableTransportError implements the retry allow-list: connection
// timeout, cannot connect to host, connection lost. DNS failures, TLS
// failures and cancellation are never retried.
func isRetryableTransportError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return false
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return false
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return false
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return false
	}
	var hostnameErr x509.HostnameError
	if errors.As(err, &hostnameErr) {
		return false
	}

	// connection timeout
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	// cannot connect to host
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return true
	}

	// connection lost mid-exchange
	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return false
}
