package dav

import (
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Entry is one remote filesystem object from a multi-status listing.
// Entries are immutable once produced; a re-listing replaces them wholesale.
type Entry struct {
	ID          string
	Name        string
	Path        string
	Kind        Kind
	Size        *int64
	ModifiedAt  *time.Time
	CreatedAt   *time.Time
	ContentType string
	ETag        string
}

// Equal treats Path as the identity of an entry. Two entries naming the same
// remote resource are equal no matter how their other fields differ, so a
// refreshed listing can replace stale entries in place.
func (e *Entry) Equal(other *Entry) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Path == other.Path
}

// IsDir reports whether the entry names a collection.
func (e *Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// entryRecord is the portable wire shape. Kind and dates are RawMessage so
// decoding can fall back across the formats producers actually emit.
type entryRecord struct {
	ID          string          `json:"id,omitempty"`
	Name        string          `json:"name"`
	Path        string          `json:"path"`
	Kind        json.RawMessage `json:"kind,omitempty"`
	Size        *int64          `json:"size,omitempty"`
	ModifiedAt  json.RawMessage `json:"modifiedAt,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
	ContentType string          `json:"contentType,omitempty"`
	ETag        string          `json:"etag,omitempty"`
}

// MarshalJSON emits the canonical record format: kind as its string name,
// dates as ISO 8601 with fractional seconds.
func (e Entry) MarshalJSON() ([]byte, error) {
	rec := entryRecord{
		ID:          e.ID,
		Name:        e.Name,
		Path:        e.Path,
		Size:        e.Size,
		ContentType: e.ContentType,
		ETag:        e.ETag,
	}

	kind, err := json.Marshal(e.Kind.String())
	if err != nil {
		return nil, err
	}
	rec.Kind = kind

	if e.ModifiedAt != nil {
		if rec.ModifiedAt, err = json.Marshal(encodeDate(*e.ModifiedAt)); err != nil {
			return nil, err
		}
	}
	if e.CreatedAt != nil {
		if rec.CreatedAt, err = json.Marshal(encodeDate(*e.CreatedAt)); err != nil {
			return nil, err
		}
	}

	return json.Marshal(rec)
}

// UnmarshalJSON decodes a record leniently: a missing or malformed id gets a
// freshly generated one, kind may be a known string variant or a numeric
// enum index, and dates may arrive in any supported format or as a unix
// timestamp. Unrecognized kinds and unparsable dates are not errors.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var rec entryRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}

	if _, err := uuid.Parse(rec.ID); err != nil {
		rec.ID = uuid.NewString()
	}

	*e = Entry{
		ID:          rec.ID,
		Name:        rec.Name,
		Path:        rec.Path,
		Kind:        decodeKind(rec.Kind),
		Size:        rec.Size,
		ModifiedAt:  decodeDate(rec.ModifiedAt),
		CreatedAt:   decodeDate(rec.CreatedAt),
		ContentType: rec.ContentType,
		ETag:        rec.ETag,
	}
	return nil
}

func decodeKind(raw json.RawMessage) Kind {
	if len(raw) == 0 {
		return KindUnknown
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return KindFromString(s)
	}
	var i int
	if err := json.Unmarshal(raw, &i); err == nil {
		return KindFromIndex(i)
	}
	return KindUnknown
}

func decodeDate(raw json.RawMessage) *time.Time {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, ok := parseRecordDate(s); ok {
			return &t
		}
		return nil
	}
	// fall back to a raw unix timestamp number
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		if secs, err := num.Int64(); err == nil {
			t := time.Unix(secs, 0).UTC()
			return &t
		}
		if secs, err := strconv.ParseFloat(num.String(), 64); err == nil {
			whole, frac := int64(secs), secs-float64(int64(secs))
			t := time.Unix(whole, int64(frac*float64(time.Second))).UTC()
			return &t
		}
	}
	return nil
}
