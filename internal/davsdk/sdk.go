package davsdk

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/davbox/davbox/internal/utils"
	"github.com/imroc/req/v3"
)

// Client speaks the WebDAV protocol against one endpoint. One underlying
// connection-pooling transport is shared across all calls; the client is
// safe for concurrent use and holds no per-call state.
type Client struct {
	http     *req.Client
	base     *url.URL
	username string
	password string
}

// New builds a client for the endpoint described by cfg.
func New(cfg *Config) (*Client, error) {
	base, err := cfg.ResolveURL()
	if err != nil {
		return nil, err
	}

	hc := req.C().
		SetTimeout(cfg.timeout()).
		SetUserAgent(DavBoxUserAgent).
		SetCommonHeader(HeaderAccept, "*/*").
		SetCommonHeader(HeaderAcceptEncoding, "*/*").
		SetCommonRetryCount(cfg.retryCount()).
		SetCommonRetryInterval(retryInterval).
		SetCommonRetryCondition(retryCondition).
		SetJsonMarshal(jsonMarshal).
		SetJsonUnmarshal(jsonUnmarshal)

	if cfg.InsecureTLS {
		hc.EnableInsecureSkipVerify()
	}

	if cfg.Username != "" && cfg.Password != "" {
		// eager Basic auth: the header goes on every request, no 401
		// round-trip needed
		hc.SetCommonBasicAuth(cfg.Username, cfg.Password)
	}

	slog.Debug("davsdk: client ready",
		"url", base.Redacted(),
		"user", cfg.Username,
		"password", utils.MaskSecret(cfg.Password),
		"retries", cfg.retryCount(),
		"insecure_tls", cfg.InsecureTLS)

	return &Client{
		http:     hc,
		base:     base,
		username: cfg.Username,
		password: cfg.Password,
	}, nil
}

// BaseURL returns the resolved endpoint root.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Close releases idle transport connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// urlFor resolves a server-relative path against the endpoint root. The
// path is normalized to a single leading slash before joining so callers
// can pass "dir/file" or "/dir/file" interchangeably.
func (c *Client) urlFor(remotePath string) string {
	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + normalizePath(remotePath)
	u.RawPath = ""
	return u.String()
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
