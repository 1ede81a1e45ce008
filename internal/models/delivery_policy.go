package models

// PosterLimit selects how many posters a delivery sends
type PosterLimit int

const (
	PosterLimitPreview PosterLimit = iota
	PosterLimitAll
)

// String returns the string representation of the poster limit
func (p PosterLimit) String() string {
	if p == PosterLimitAll {
		return "all"
	}
	return "preview"
}

// DeliveryPolicy is the caller-chosen filter for a media delivery.
type DeliveryPolicy struct {
	PosterLimit PosterLimit
}

// DefaultPreviewPosterCount is how many posters a preview delivery sends.
const DefaultPreviewPosterCount = 3

// PosterCount returns how many of total posters the policy allows.
func (p DeliveryPolicy) PosterCount(total, preview int) int {
	if p.PosterLimit == PosterLimitAll {
		return total
	}
	if preview <= 0 {
		preview = DefaultPreviewPosterCount
	}
	return min(preview, total)
}
