package davsdk

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Config describes one remote endpoint. Username and Password are optional;
// when both are set a Basic authorization header is attached to every
// request up front, without waiting for a 401 round-trip.
type Config struct {
	// BaseURL is the endpoint root, with or without a scheme. When the
	// scheme is absent it defaults from UseTLS.
	BaseURL  string
	Username string
	Password string

	// UseTLS picks https when BaseURL carries no scheme.
	UseTLS bool

	// InsecureTLS accepts any server certificate. This reproduces the
	// permissive trust handling of legacy deployments with self-signed
	// certificates; leave it off unless you control the network path.
	InsecureTLS bool

	// Timeout bounds one whole exchange. Zero means 30s.
	Timeout time.Duration

	// RetryCount bounds transparent transport retries. Zero means
	// DefaultRetryCount; negative disables retries.
	RetryCount int
}

// ResolveURL normalizes BaseURL into an absolute http(s) URL.
func (c *Config) ResolveURL() (*url.URL, error) {
	if c.BaseURL == "" {
		return nil, ErrNoServerURL
	}

	raw := c.BaseURL
	if !strings.Contains(raw, "://") {
		scheme := "http"
		if c.UseTLS {
			scheme = "https"
		}
		raw = scheme + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("davsdk: parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrInvalidScheme
	}
	if u.Host == "" {
		return nil, ErrNoServerURL
	}

	return u, nil
}

func (c *Config) Validate() error {
	_, err := c.ResolveURL()
	return err
}

func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

func (c *Config) retryCount() int {
	if c.RetryCount == 0 {
		return DefaultRetryCount
	}
	if c.RetryCount < 0 {
		return 0
	}
	return c.RetryCount
}
