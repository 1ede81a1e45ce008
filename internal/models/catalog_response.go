package models

// CatalogSearchResponse is the raw search payload returned by the catalog provider
type CatalogSearchResponse struct {
	Page         int                   `json:"page"`
	Results      []CatalogSearchRecord `json:"results"`
	TotalResults int                   `json:"total_results"`
}

// CatalogSearchRecord is one raw search match. Movies carry title/release_date,
// series carry name/first_air_date; multi-search adds media_type.
type CatalogSearchRecord struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
	MediaType    string `json:"media_type"`
}

// CatalogImage is one raw entry of the image listing
type CatalogImage struct {
	FilePath    string  `json:"file_path"`
	LanguageTag *string `json:"iso_639_1"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

// CatalogImagesResponse is the raw image listing payload
type CatalogImagesResponse struct {
	ID        int64          `json:"id"`
	Posters   []CatalogImage `json:"posters"`
	Backdrops []CatalogImage `json:"backdrops"`
}

// CatalogErrorResponse is the error body the provider sends with non-2xx statuses
type CatalogErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
