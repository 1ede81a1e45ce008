package models

// UnknownYear is used when the provider record carries no release or air date.
const UnknownYear = "Unknown"

// MaxSearchResults bounds how many ranked results are kept per search.
const MaxSearchResults = 10

// SearchResult is a normalized catalog match. Values are never mutated after the
// catalog client produces them.
type SearchResult struct {
	ID           int64     `json:"id"`
	DisplayTitle string    `json:"displayTitle"`
	Year         string    `json:"year"`
	MediaKind    MediaKind `json:"mediaKind"`
}

// Label renders the result the way it is offered to the user.
func (r SearchResult) Label() string {
	label := r.MediaKind.Emoji() + " " + r.DisplayTitle
	if r.Year != "" && r.Year != UnknownYear {
		label += " (" + r.Year + ")"
	}
	return label
}

// SelectedItem is the search result a user picked. It keys the image lookup.
type SelectedItem struct {
	ID           int64     `json:"id"`
	DisplayTitle string    `json:"displayTitle"`
	Year         string    `json:"year"`
	MediaKind    MediaKind `json:"mediaKind"`
}

// Select copies a SearchResult into a SelectedItem.
func (r SearchResult) Select() SelectedItem {
	return SelectedItem{
		ID:           r.ID,
		DisplayTitle: r.DisplayTitle,
		Year:         r.Year,
		MediaKind:    r.MediaKind,
	}
}
