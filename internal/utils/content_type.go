package utils

import (
	"mime"
	"path"
	"strings"
)

// DetectContentType guesses a MIME type for a remote path by its extension.
// Used when uploading so the server stores something better than a blank type.
func DetectContentType(remotePath string) string {
	if isTextLike(remotePath) {
		return "text/plain; charset=utf-8"
	} else if mimeType := mime.TypeByExtension(path.Ext(remotePath)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

func isTextLike(remotePath string) bool {
	return strings.HasSuffix(remotePath, ".yaml") ||
		strings.HasSuffix(remotePath, ".yml") ||
		strings.HasSuffix(remotePath, ".toml") ||
		strings.HasSuffix(remotePath, ".md")
}
