package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/testutil"
)

func newTestClient(t *testing.T, serverURL string) Client {
	t.Helper()
	cfg := &config.Config{ClientTimeout: "5s", UserAgent: "mediafinder-test"}
	cfg.Catalog.BaseURL = serverURL
	cfg.Catalog.ImageBaseURL = "https://images.example.test/original"
	cfg.Catalog.APIKey = "test-key"
	cfg.Catalog.Language = "en-US"
	cfg.Cache.Provider = "memory"
	cfg.Cache.Size = 50
	cfg.Cache.TTL = "1m"
	c := NewClient(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClient_Search_Movie(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" || q.Get("query") != "Inception" || q.Get("language") != "en-US" || q.Get("include_adult") != "false" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.CatalogSearchInceptionJSON))
	}))
	defer server.Close()

	results, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindMovie, "Inception", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := models.SearchResult{ID: 27205, DisplayTitle: "Inception", Year: "2010", MediaKind: models.MediaKindMovie}
	if len(results) != 1 || results[0] != want {
		t.Errorf("Search() = %+v, want [%+v]", results, want)
	}
}

func TestClient_Search_NormalizesRecords(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testutil.CatalogSearchMixedTVJSON))
	}))
	defer server.Close()

	results, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindTV, "Dark", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	want := []models.SearchResult{
		{ID: 70523, DisplayTitle: "Dark", Year: "2017", MediaKind: models.MediaKindTV},
		{ID: 1001, DisplayTitle: "Dark Matter", Year: models.UnknownYear, MediaKind: models.MediaKindTV},
	}
	if len(results) != len(want) {
		t.Fatalf("Expected %d results, got %d: %+v", len(want), len(results), results)
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestClient_Search_CapsAtTenResults(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(testutil.CatalogSearchManyJSON(15)))
	}))
	defer server.Close()

	results, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindMovie, "Star", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != models.MaxSearchResults {
		t.Fatalf("Expected %d results, got %d", models.MaxSearchResults, len(results))
	}
	for i, r := range results {
		if r.ID != int64(i+1) {
			t.Errorf("Expected provider order, results[%d].ID = %d", i, r.ID)
		}
	}
}

func TestClient_Search_Multi(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/multi" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(testutil.CatalogSearchMultiJSON))
	}))
	defer server.Close()

	results, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindOther, "Sherlock", nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected person to be excluded, got %+v", results)
	}
	if results[0].MediaKind != models.MediaKindTV || results[1].MediaKind != models.MediaKindMovie {
		t.Errorf("Expected per-result kinds tv then movie, got %v and %v", results[0].MediaKind, results[1].MediaKind)
	}
}

func TestClient_Search_NoResults(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"page":1,"results":[],"total_results":0}`))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindMovie, "zzzqqqnonexistent", nil)
	if !errors.Is(err, &apperrors.ErrNotFound{}) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestClient_Search_YearHintFallback(t *testing.T) {
	t.Parallel()
	var mu sync.Mutex
	var sent []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		mu.Lock()
		sent = append(sent, q.Get("query")+"|year="+q.Get("year"))
		mu.Unlock()
		if q.Get("year") == "1999" {
			_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
			return
		}
		_, _ = w.Write([]byte(testutil.CatalogSearchInceptionJSON))
	}))
	defer server.Close()

	year := 1999
	results, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindMovie, "Inception", &year)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected fallback search to return 1 result, got %d", len(results))
	}
	want := []string{"Inception|year=1999", "Inception|year="}
	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(sent, want) {
		t.Errorf("queries sent = %v, want %v", sent, want)
	}
}

func TestClient_Search_UsesCache(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(testutil.CatalogSearchInceptionJSON))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	for range 3 {
		if _, err := c.Search(context.Background(), models.MediaKindMovie, "Inception", nil); err != nil {
			t.Fatalf("Search failed: %v", err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("Expected cached searches to hit the provider once, got %d", calls.Load())
	}
}

func TestClient_Search_Validation(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, "http://127.0.0.1:1")
	tests := []struct {
		name string
		kind models.MediaKind
		text string
	}{
		{"empty name", models.MediaKindMovie, "   "},
		{"unknown kind", models.MediaKindUnknown, "Inception"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Search(context.Background(), tt.kind, tt.text, nil)
			if apperrors.KindOf(err) != apperrors.KindValidation {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestClient_Search_ProviderErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind apperrors.Kind
		wantMsg  string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"status_code":7,"status_message":"Invalid API key: You must be granted a valid key."}`, apperrors.KindProvider, "Invalid API key"},
		{"server error with huge body", http.StatusInternalServerError, strings.Repeat("E", 10000), apperrors.KindProvider, "EEE"},
		{"rate limited", http.StatusTooManyRequests, `{"status_message":"slow down"}`, apperrors.KindRateLimited, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestClient(t, server.URL).Search(context.Background(), models.MediaKindMovie, "Inception", nil)
			if got := apperrors.KindOf(err); got != tt.wantKind {
				t.Fatalf("KindOf(%v) = %v, want %v", err, got, tt.wantKind)
			}
			var pe *apperrors.ErrProvider
			if errors.As(err, &pe) {
				if pe.StatusCode != tt.status {
					t.Errorf("StatusCode = %d, want %d", pe.StatusCode, tt.status)
				}
				if !strings.Contains(pe.Message, tt.wantMsg) {
					t.Errorf("Message %q does not contain %q", pe.Message, tt.wantMsg)
				}
				if len([]rune(pe.Message)) > apperrors.DefaultExcerptLength+3 {
					t.Errorf("Message not bounded: %d runes", len([]rune(pe.Message)))
				}
			}
		})
	}
}

func TestClient_Search_TransportErrorHidesAPIKey(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(t, url).Search(context.Background(), models.MediaKindMovie, "Inception", nil)
	if apperrors.KindOf(err) != apperrors.KindProvider {
		t.Fatalf("Expected provider error, got %v", err)
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Errorf("Error leaks API key: %v", err)
	}
}

func TestClient_FetchImageRefs(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(testutil.CatalogImagesJSON))
	}))
	defer server.Close()

	refs, err := newTestClient(t, server.URL).FetchImageRefs(context.Background(), models.MediaKindMovie, 27205)
	if err != nil {
		t.Fatalf("FetchImageRefs failed: %v", err)
	}
	if len(refs.Posters) != 2 || len(refs.Backdrops) != 3 {
		t.Fatalf("Expected 2 posters and 3 backdrops, got %d and %d", len(refs.Posters), len(refs.Backdrops))
	}
	if refs.Posters[0].RemoteURL != "https://images.example.test/original/poster-en.jpg" {
		t.Errorf("unexpected poster URL %q", refs.Posters[0].RemoteURL)
	}
	if refs.Backdrops[0].HasLanguage() {
		t.Error("Expected first backdrop to be language-neutral")
	}
	if !refs.Backdrops[1].HasLanguage() || *refs.Backdrops[1].LanguageTag != "en" {
		t.Error("Expected second backdrop tagged en")
	}
}

func TestClient_FetchImageRefs_RejectsOther(t *testing.T) {
	t.Parallel()
	_, err := newTestClient(t, "http://127.0.0.1:1").FetchImageRefs(context.Background(), models.MediaKindOther, 1)
	if apperrors.KindOf(err) != apperrors.KindValidation {
		t.Errorf("Expected validation error, got %v", err)
	}
}
