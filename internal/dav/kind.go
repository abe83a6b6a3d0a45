package dav

import "strings"

// Kind classifies a remote filesystem object.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
	KindUnknown   Kind = "unknown"
)

// kindOrder fixes the numeric index some producers use instead of a string.
var kindOrder = []Kind{KindFile, KindDirectory, KindUnknown}

// KindFromString maps a wire value onto a Kind, accepting the common
// variants servers and older records use. Anything unrecognized is unknown.
func KindFromString(s string) Kind {
	switch strings.ToLower(s) {
	case "file", "document", "item":
		return KindFile
	case "dir", "directory", "folder", "collection":
		return KindDirectory
	default:
		return KindUnknown
	}
}

// KindFromIndex maps a numeric enum index onto a Kind.
func KindFromIndex(i int) Kind {
	if i < 0 || i >= len(kindOrder) {
		return KindUnknown
	}
	return kindOrder[i]
}

func (k Kind) String() string {
	switch k {
	case KindFile, KindDirectory:
		return string(k)
	default:
		return string(KindUnknown)
	}
}
