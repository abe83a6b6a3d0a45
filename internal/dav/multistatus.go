package dav

import (
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// multiStatusParser is the state machine behind ParseMultiStatus. It consumes
// start/chardata/end events from a token stream and builds one Entry per
// <response> element. Element names are matched by their namespace-stripped
// local name, so `d:`, `D:`, `lp1:` and unprefixed documents all parse the
// same. Each parse owns its own parser instance; nothing is shared.
type multiStatusParser struct {
	entries []*Entry
	seen    map[string]struct{}

	text       strings.Builder
	inResponse bool

	// response-scoped record, reset on every <response>
	name        string
	href        string
	size        *int64
	contentType string
	etag        string
	modifiedAt  *time.Time
	createdAt   *time.Time
	isDir       bool
}

// ParseMultiStatus converts a WebDAV multi-status document into directory
// entries. The parse is all-or-nothing: a structurally malformed document
// fails with the tokenizer's diagnostic and any partial results are dropped.
func ParseMultiStatus(r io.Reader) ([]*Entry, error) {
	p := &multiStatusParser{seen: make(map[string]struct{})}
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("multistatus parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			p.startElement(t.Name.Local)
		case xml.CharData:
			p.charData(string(t))
		case xml.EndElement:
			p.endElement(t.Name.Local)
		}
	}

	return p.entries, nil
}

func (p *multiStatusParser) startElement(local string) {
	p.text.Reset()

	switch {
	case local == "response":
		p.inResponse = true
		p.resetRecord()
	case p.inResponse && local == "collection":
		// presence of the marker is enough, the element carries no text
		p.isDir = true
	}
}

func (p *multiStatusParser) charData(s string) {
	p.text.WriteString(s)
}

func (p *multiStatusParser) endElement(local string) {
	if local == "response" {
		p.finalizeEntry()
		p.inResponse = false
		return
	}
	if !p.inResponse {
		return
	}

	value := p.text.String()
	switch local {
	case "href":
		p.setHref(value)
	case "displayname":
		if v := strings.TrimSpace(value); v != "" {
			p.name = v
		}
	case "getcontentlength":
		if p.isDir {
			break
		}
		if n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			p.size = &n
		}
	case "getcontenttype":
		if v := strings.TrimSpace(value); v != "" {
			p.contentType = v
		}
	case "getetag":
		if v := strings.Trim(strings.TrimSpace(value), `"`); v != "" {
			p.etag = v
		}
	case "getlastmodified":
		if t, ok := ParsePropDate(value); ok {
			p.modifiedAt = &t
		}
	case "creationdate":
		if t, ok := ParsePropDate(value); ok {
			p.createdAt = &t
		}
	}
}

// setHref URL-decodes the href, strips one trailing slash (which marks a
// collection), and derives a display name from the last path segment when the
// server sent no displayname before it.
func (p *multiStatusParser) setHref(value string) {
	href := strings.TrimSpace(value)
	if decoded, err := url.PathUnescape(href); err == nil {
		href = decoded
	}

	if strings.HasSuffix(href, "/") {
		href = strings.TrimSuffix(href, "/")
		p.isDir = true
	}
	p.href = href

	if p.name != "" {
		return
	}
	for _, segment := range reverseSegments(href) {
		if segment != "" && segment != "." && segment != ".." {
			p.name = segment
			break
		}
	}
}

func reverseSegments(path string) []string {
	segments := strings.Split(path, "/")
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

func (p *multiStatusParser) resetRecord() {
	p.name = ""
	p.href = ""
	p.size = nil
	p.contentType = ""
	p.etag = ""
	p.modifiedAt = nil
	p.createdAt = nil
	p.isDir = false
}

// finalizeEntry turns the response-scoped record into an Entry. Entries with
// no usable name are dropped, and servers that repeat the requested
// collection (or any href) only contribute one entry per path.
func (p *multiStatusParser) finalizeEntry() {
	if p.name == "" || p.name == "." || p.name == ".." {
		return
	}
	if _, dup := p.seen[p.href]; dup {
		return
	}
	p.seen[p.href] = struct{}{}

	kind := KindFile
	if p.isDir {
		kind = KindDirectory
	}

	entry := &Entry{
		ID:          uuid.NewString(),
		Name:        p.name,
		Path:        p.href,
		Kind:        kind,
		ContentType: p.contentType,
		ETag:        p.etag,
		ModifiedAt:  p.modifiedAt,
		CreatedAt:   p.createdAt,
	}
	if !p.isDir {
		entry.Size = p.size
	}

	p.entries = append(p.entries, entry)
}

// ParseProperties reads a property document (PROPFIND Depth: 0 style) into a
// name→text map. Property names are namespace-stripped. Only leaf elements
// sitting directly under a prop container are recorded; nested markers like
// resourcetype/collection carry no text and stay out of the map.
func ParseProperties(r io.Reader) (map[string]string, error) {
	props := make(map[string]string)
	dec := xml.NewDecoder(r)

	var text strings.Builder
	depth := 0
	startDepth := 0
	propDepth := -1

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("property parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			startDepth = depth
			text.Reset()
			if t.Name.Local == "prop" && propDepth < 0 {
				propDepth = depth
			}
		case xml.CharData:
			text.WriteString(string(t))
		case xml.EndElement:
			switch {
			case t.Name.Local == "prop" && depth == propDepth:
				propDepth = -1
			case propDepth > 0 && depth == propDepth+1 && depth == startDepth:
				// a leaf: no child element opened since this one started
				props[t.Name.Local] = strings.TrimSpace(text.String())
			}
			depth--
		}
	}

	return props, nil
}

// ParseErrorResponse extracts the human-readable text from a WebDAV error
// document, taken from a description or message element under error. It
// returns "" when the body has neither or is not parsable XML; error bodies
// are best-effort diagnostics only.
func ParseErrorResponse(r io.Reader) string {
	dec := xml.NewDecoder(r)

	var text strings.Builder
	inError := false
	inDescription := false
	description := ""

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "error":
				inError = true
			case "description", "message":
				if inError {
					inDescription = true
					text.Reset()
				}
			}
		case xml.CharData:
			if inDescription {
				text.WriteString(string(t))
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "error":
				inError = false
			case "description", "message":
				if inDescription {
					inDescription = false
					if v := strings.TrimSpace(text.String()); v != "" {
						description = v
					}
				}
			}
		}
	}

	return description
}
