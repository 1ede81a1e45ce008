package models

// AssetKind distinguishes catalog image types
type AssetKind int

const (
	AssetKindPoster AssetKind = iota
	AssetKindBackdrop
)

// String returns the string representation of the asset kind
func (k AssetKind) String() string {
	switch k {
	case AssetKindPoster:
		return "poster"
	case AssetKindBackdrop:
		return "backdrop"
	default:
		return "unknown"
	}
}

// MediaAsset references a single remote image. It only lives for one
// download-and-deliver cycle.
type MediaAsset struct {
	RemoteURL   string
	Kind        AssetKind
	LanguageTag *string // nil when the provider marks the image as language-neutral
}

// HasLanguage reports whether the asset carries a non-null language tag.
func (a MediaAsset) HasLanguage() bool {
	return a.LanguageTag != nil
}

// ImageRefs is the ordered image listing for one catalog entry.
type ImageRefs struct {
	Posters   []MediaAsset
	Backdrops []MediaAsset
}
