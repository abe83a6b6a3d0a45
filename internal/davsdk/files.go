package davsdk

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/davbox/davbox/internal/utils"
)

// UploadFile PUTs data at the remote path, with a content type inferred
// from the path's extension.
func (c *Client) UploadFile(ctx context.Context, data []byte, remotePath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetContentType(utils.DetectContentType(remotePath)).
		SetBodyBytes(data).
		Send(http.MethodPut, c.urlFor(remotePath))
	if err != nil {
		return wrapTransportError(err, "upload "+remotePath)
	}
	if !resp.IsSuccessState() {
		return handleHTTPError(resp, "upload "+remotePath)
	}
	return nil
}

// DownloadFile GETs the remote file and returns its content. A 2xx answer
// with an empty body is a failure; zero-length downloads are never what the
// caller wanted here.
func (c *Client) DownloadFile(ctx context.Context, remotePath string) ([]byte, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Send(http.MethodGet, c.urlFor(remotePath))
	if err != nil {
		return nil, wrapTransportError(err, "download "+remotePath)
	}
	if !resp.IsSuccessState() {
		return nil, handleHTTPError(resp, "download "+remotePath)
	}

	body := resp.Bytes()
	if len(body) == 0 {
		return nil, &DAVError{
			Code:    CodeData,
			Message: fmt.Sprintf("download %s: empty response body", remotePath),
			Status:  resp.GetStatusCode(),
			Err:     ErrEmptyBody,
		}
	}
	return body, nil
}

// DeleteItem removes a remote file or directory.
func (c *Client) DeleteItem(ctx context.Context, remotePath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Send(http.MethodDelete, c.urlFor(remotePath))
	if err != nil {
		return wrapTransportError(err, "delete "+remotePath)
	}
	if !resp.IsSuccessState() {
		return handleHTTPError(resp, "delete "+remotePath)
	}
	return nil
}

// RenameItem moves a resource to a new name within its directory via MOVE.
// Existing destinations are not overwritten.
func (c *Client) RenameItem(ctx context.Context, remotePath, newName string) error {
	if newName == "" || strings.Contains(newName, "/") {
		return &DAVError{
			Code:    CodeUnknown,
			Message: fmt.Sprintf("rename %s: invalid new name %q", remotePath, newName),
		}
	}

	src := normalizePath(remotePath)
	dst := path.Join(path.Dir(strings.TrimSuffix(src, "/")), newName)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(HeaderDestination, c.urlFor(dst)).
		SetHeader(HeaderOverwrite, "F").
		Send(MethodMove, c.urlFor(remotePath))
	if err != nil {
		return wrapTransportError(err, "rename "+remotePath)
	}
	if !resp.IsSuccessState() {
		return handleHTTPError(resp, "rename "+remotePath)
	}
	return nil
}
