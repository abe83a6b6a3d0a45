package davsdk

import (
	"bytes"
	"context"
	"net/http"

	"github.com/davbox/davbox/internal/dav"
)

// ListContents fetches the direct children of a remote directory. The
// entries come back in server order; sorting is the caller's business.
func (c *Client) ListContents(ctx context.Context, remotePath string) ([]*dav.Entry, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderDepth, depthOne).
		SetContentType(contentTypeXML).
		SetBodyString(propfindListBody).
		Send(MethodPropfind, c.urlFor(remotePath))
	if err != nil {
		return nil, wrapTransportError(err, "list "+remotePath)
	}
	if !resp.IsSuccessState() {
		return nil, handleHTTPError(resp, "list "+remotePath)
	}

	entries, err := dav.ParseMultiStatus(bytes.NewReader(resp.Bytes()))
	if err != nil {
		return nil, wrapParseError(err, "list "+remotePath)
	}
	return entries, nil
}

// CreateDirectory issues MKCOL. Creation is idempotent: 405 means the
// collection already exists and is treated as success.
func (c *Client) CreateDirectory(ctx context.Context, remotePath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Send(MethodMkcol, c.urlFor(remotePath))
	if err != nil {
		return wrapTransportError(err, "mkdir "+remotePath)
	}
	if resp.IsSuccessState() || resp.GetStatusCode() == http.StatusMethodNotAllowed {
		return nil
	}
	return handleHTTPError(resp, "mkdir "+remotePath)
}

// GetProperties fetches the property map of a single resource with a
// Depth: 0 PROPFIND. Keys are namespace-stripped property names.
func (c *Client) GetProperties(ctx context.Context, remotePath string) (map[string]string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderDepth, depthZero).
		SetContentType(contentTypeXML).
		SetBodyString(propfindListBody).
		Send(MethodPropfind, c.urlFor(remotePath))
	if err != nil {
		return nil, wrapTransportError(err, "props "+remotePath)
	}
	if !resp.IsSuccessState() {
		return nil, handleHTTPError(resp, "props "+remotePath)
	}

	props, err := dav.ParseProperties(bytes.NewReader(resp.Bytes()))
	if err != nil {
		return nil, wrapParseError(err, "props "+remotePath)
	}
	return props, nil
}
