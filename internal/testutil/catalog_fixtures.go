package testutil

import (
	"encoding/json"
	"fmt"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// StringPtr is a helper for creating *string values in tests
func StringPtr(v string) *string {
	return &v
}

// CatalogSearchInceptionJSON is a movie search payload with a single match.
const CatalogSearchInceptionJSON = `{
  "page": 1,
  "results": [
    {"id": 27205, "title": "Inception", "release_date": "2010-07-15", "original_language": "en"}
  ],
  "total_pages": 1,
  "total_results": 1
}`

// CatalogSearchMixedTVJSON is a series search payload with a dated match, an
// undated match and a record without any title.
const CatalogSearchMixedTVJSON = `{
  "page": 1,
  "results": [
    {"id": 70523, "name": "Dark", "first_air_date": "2017-12-01"},
    {"id": 999, "name": "", "first_air_date": "2020-01-01"},
    {"id": 1001, "name": "Dark Matter", "first_air_date": ""}
  ],
  "total_results": 3
}`

// CatalogSearchMultiJSON is a multi-search payload mixing series, people and movies.
const CatalogSearchMultiJSON = `{
  "page": 1,
  "results": [
    {"id": 19885, "media_type": "tv", "name": "Sherlock", "first_air_date": "2010-07-25"},
    {"id": 71580, "media_type": "person", "name": "Sherlock Holmes"},
    {"id": 10528, "media_type": "movie", "title": "Sherlock Holmes", "release_date": "2009-12-23"}
  ],
  "total_results": 3
}`

// CatalogImagesJSON lists two posters and three backdrops, the first of which
// is language-neutral.
const CatalogImagesJSON = `{
  "id": 27205,
  "posters": [
    {"file_path": "/poster-en.jpg", "iso_639_1": "en", "width": 2000, "height": 3000},
    {"file_path": "/poster-null.jpg", "iso_639_1": null, "width": 2000, "height": 3000}
  ],
  "backdrops": [
    {"file_path": "/backdrop-null.jpg", "iso_639_1": null, "width": 3840, "height": 2160},
    {"file_path": "/backdrop-en.jpg", "iso_639_1": "en", "width": 3840, "height": 2160},
    {"file_path": "/backdrop-fr.jpg", "iso_639_1": "fr", "width": 3840, "height": 2160}
  ]
}`

// CatalogSearchManyJSON builds a movie search payload with n matches whose
// IDs run from 1 to n in rank order.
func CatalogSearchManyJSON(n int) string {
	type record struct {
		ID          int    `json:"id"`
		Title       string `json:"title"`
		ReleaseDate string `json:"release_date"`
	}
	results := make([]record, 0, n)
	for i := 1; i <= n; i++ {
		results = append(results, record{ID: i, Title: fmt.Sprintf("Star %d", i), ReleaseDate: fmt.Sprintf("%d-01-01", 1990+i)})
	}
	data, _ := json.Marshal(map[string]any{"page": 1, "results": results, "total_results": n})
	return string(data)
}

// CatalogImagesPayload builds an image listing with the given poster count and
// backdrop language tags; an empty tag produces a language-neutral backdrop.
func CatalogImagesPayload(posters int, backdropLanguages ...string) string {
	type image struct {
		FilePath string  `json:"file_path"`
		Language *string `json:"iso_639_1"`
	}
	p := make([]image, 0, posters)
	for i := range posters {
		p = append(p, image{FilePath: fmt.Sprintf("/poster-%d.jpg", i)})
	}
	b := make([]image, 0, len(backdropLanguages))
	for i, lang := range backdropLanguages {
		img := image{FilePath: fmt.Sprintf("/backdrop-%d.jpg", i)}
		if lang != "" {
			img.Language = StringPtr(lang)
		}
		b = append(b, img)
	}
	data, _ := json.Marshal(map[string]any{"id": 1, "posters": p, "backdrops": b})
	return string(data)
}
