package davsdk

import (
	"context"
	"log/slog"
	"net/http"
)

// TestConnection probes the endpoint root with a Depth: 0 PROPFIND. Any HTTP
// answer counts as reachable; the boolean says whether the server accepted
// the request. A 401 or 404 is a logical "no" with the diagnostic logged,
// not a transport error - only a failed exchange returns a non-nil error.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderDepth, depthZero).
		SetContentType(contentTypeXML).
		Send(MethodPropfind, c.urlFor("/"))
	if err != nil {
		return false, wrapTransportError(err, "test connection")
	}

	status := resp.GetStatusCode()
	switch status {
	case http.StatusUnauthorized:
		slog.Warn("davsdk: connection test unauthorized",
			"status", status,
			"www_authenticate", resp.Header.Get("WWW-Authenticate"))
	case http.StatusNotFound:
		slog.Warn("davsdk: connection test path not found", "status", status)
	}

	return resp.IsSuccessState(), nil
}
