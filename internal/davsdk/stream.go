package davsdk

import (
	"net/url"
	"strings"
)

// StreamURL builds an absolute, directly-streamable URL for a remote file,
// for handing to a media player or download manager that speaks plain HTTP.
// When credentials are configured they are embedded as URL userinfo so the
// consumer can authenticate without knowing about this client.
func (c *Client) StreamURL(remotePath string) (*url.URL, error) {
	if remotePath == "" {
		return nil, &DAVError{Code: CodeUnknown, Message: "stream url: empty path"}
	}

	u := *c.base
	u.Path = strings.TrimSuffix(c.base.Path, "/") + normalizePath(remotePath)
	u.RawPath = ""

	if c.username != "" && c.password != "" {
		u.User = url.UserPassword(c.username, c.password)
	}

	return &u, nil
}
