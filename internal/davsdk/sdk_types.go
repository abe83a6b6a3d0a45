package davsdk

import (
	"fmt"
	"runtime"

	"github.com/davbox/davbox/internal/version"
)

const (
	HeaderAccept         = "Accept"
	HeaderAcceptEncoding = "Accept-Encoding"
	HeaderUserAgent      = "User-Agent"
	HeaderDepth          = "Depth"
	HeaderDestination    = "Destination"
	HeaderOverwrite      = "Overwrite"

	// WebDAV methods not covered by net/http constants
	MethodPropfind = "PROPFIND"
	MethodMkcol    = "MKCOL"
	MethodMove     = "MOVE"

	depthZero = "0"
	// Depth: 1 lists direct children only. Never "infinity" - unbounded
	// listings can blow up on deep trees and many servers reject them.
	depthOne = "1"

	contentTypeXML = "application/xml"
)

// DavBoxUserAgent identifies the client on every exchange.
var DavBoxUserAgent = fmt.Sprintf("DavBox/%s (%s; %s/%s)", version.Version, version.Revision, runtime.GOOS, runtime.GOARCH)

// propfindListBody requests exactly the properties a directory listing
// needs; asking for allprop drags in server-specific junk.
const propfindListBody = `<d:propfind xmlns:d="DAV:">
  <d:prop>
    <d:resourcetype/>
    <d:getcontentlength/>
    <d:getlastmodified/>
    <d:displayname/>
  </d:prop>
</d:propfind>`
