package models

// PageMeta holds the Open Graph tags of a post page.
type PageMeta struct {
	VideoURL    string
	ImageURL    string
	Title       string
	Description string
}

// HasMedia reports whether the page exposes a direct media reference.
func (m PageMeta) HasMedia() bool {
	return m.VideoURL != "" || m.ImageURL != ""
}

// ProfilePayload holds the fields scraped from a profile page's embedded JSON.
type ProfilePayload struct {
	ProfilePicURL string
	FullName      string
	Biography     string
	IsPrivate     bool
	NotFound      bool // the page rendered the "page isn't available" template
}
