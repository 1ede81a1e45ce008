package models

import "strings"

// MediaKind is the catalog category a user searches in.
type MediaKind int

const (
	MediaKindUnknown MediaKind = iota
	MediaKindMovie
	MediaKindTV
	MediaKindOther
)

// String returns the provider path segment for the kind
func (k MediaKind) String() string {
	switch k {
	case MediaKindMovie:
		return "movie"
	case MediaKindTV:
		return "tv"
	case MediaKindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Emoji returns the marker shown next to a result of this kind
func (k MediaKind) Emoji() string {
	if k == MediaKindMovie {
		return "🎬"
	}
	return "📺"
}

// ParseMediaKind converts a kind string to MediaKind enum
func ParseMediaKind(s string) MediaKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies", "film":
		return MediaKindMovie
	case "tv", "series", "show":
		return MediaKindTV
	case "other", "multi":
		return MediaKindOther
	default:
		return MediaKindUnknown
	}
}

// MarshalJSON implements json.Marshaler interface
func (k MediaKind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler interface
func (k *MediaKind) UnmarshalJSON(data []byte) error {
	*k = ParseMediaKind(strings.Trim(string(data), `"`))
	return nil
}
