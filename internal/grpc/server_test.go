package grpc

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/testutil"
)

// fakeCatalog implements Catalog for testing
type fakeCatalog struct {
	mu       sync.Mutex
	results  []models.SearchResult
	refs     *models.ImageRefs
	err      error
	lastKind models.MediaKind
	lastName string
	lastYear *int
	lastID   int64
}

func (f *fakeCatalog) Search(_ context.Context, kind models.MediaKind, name string, yearHint *int) ([]models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastKind, f.lastName, f.lastYear = kind, name, yearHint
	return f.results, f.err
}

func (f *fakeCatalog) FetchImageRefs(_ context.Context, kind models.MediaKind, id int64) (*models.ImageRefs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastKind, f.lastID = kind, id
	return f.refs, f.err
}

func asset(kind models.AssetKind, url string, lang *string) models.MediaAsset {
	return models.MediaAsset{RemoteURL: url, Kind: kind, LanguageTag: lang}
}

func newRefs(posters int) *models.ImageRefs {
	refs := &models.ImageRefs{}
	for i := range posters {
		refs.Posters = append(refs.Posters, asset(models.AssetKindPoster, "https://img/p"+string(rune('a'+i))+".jpg", nil))
	}
	refs.Backdrops = []models.MediaAsset{
		asset(models.AssetKindBackdrop, "https://img/b-en.jpg", testutil.StringPtr("en")),
		asset(models.AssetKindBackdrop, "https://img/b-none.jpg", nil),
		asset(models.AssetKindBackdrop, "https://img/b-fr.jpg", testutil.StringPtr("fr")),
	}
	return refs
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	return s
}

func TestSearch(t *testing.T) {
	t.Parallel()
	catalog := &fakeCatalog{results: []models.SearchResult{
		{ID: 27205, DisplayTitle: "Inception", Year: "2010", MediaKind: models.MediaKindMovie},
		{ID: 1, DisplayTitle: "Inception: The Cobol Job", Year: models.UnknownYear, MediaKind: models.MediaKindMovie},
	}}
	srv := NewServer(catalog, 3)

	resp, err := srv.Search(context.Background(), mustStruct(t, map[string]any{
		"kind": "movie",
		"name": "  Inception ",
		"year": 2010,
	}))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if catalog.lastKind != models.MediaKindMovie || catalog.lastName != "Inception" {
		t.Errorf("catalog called with kind=%v name=%q", catalog.lastKind, catalog.lastName)
	}
	if catalog.lastYear == nil || *catalog.lastYear != 2010 {
		t.Errorf("Expected year hint 2010, got %v", catalog.lastYear)
	}

	results := resp.GetFields()["results"].GetListValue().GetValues()
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	first := results[0].GetStructValue().GetFields()
	if got := first["id"].GetNumberValue(); got != 27205 {
		t.Errorf("Expected id 27205, got %v", got)
	}
	if got := first["label"].GetStringValue(); got != "🎬 Inception (2010)" {
		t.Errorf("Expected label with year, got %q", got)
	}
	if got := results[1].GetStructValue().GetFields()["year"].GetStringValue(); got != models.UnknownYear {
		t.Errorf("Expected unknown year, got %q", got)
	}
}

func TestSearch_WithoutYear(t *testing.T) {
	t.Parallel()
	catalog := &fakeCatalog{results: []models.SearchResult{{ID: 1, DisplayTitle: "Dark", Year: "2017", MediaKind: models.MediaKindTV}}}
	srv := NewServer(catalog, 3)

	if _, err := srv.Search(context.Background(), mustStruct(t, map[string]any{"kind": "tv", "name": "Dark"})); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if catalog.lastYear != nil {
		t.Errorf("Expected no year hint, got %d", *catalog.lastYear)
	}
}

func TestSearch_InvalidRequests(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		req  map[string]any
	}{
		{"unknown kind", map[string]any{"kind": "music", "name": "Abbey Road"}},
		{"missing kind", map[string]any{"name": "Abbey Road"}},
		{"blank name", map[string]any{"kind": "movie", "name": "   "}},
		{"fractional year", map[string]any{"kind": "movie", "name": "Heat", "year": 1995.5}},
		{"string year", map[string]any{"kind": "movie", "name": "Heat", "year": "1995"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			catalog := &fakeCatalog{}
			_, err := NewServer(catalog, 3).Search(context.Background(), mustStruct(t, tt.req))
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("Expected InvalidArgument, got %v", err)
			}
			if reason := ReasonOf(err); reason != "validation" {
				t.Errorf("Expected validation reason, got %q", reason)
			}
			if catalog.lastName != "" {
				t.Error("Catalog should not be called for an invalid request")
			}
		})
	}
}

func TestListImages(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		allPosters  bool
		wantPosters int
	}{
		{"preview", false, 3},
		{"all posters", true, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			catalog := &fakeCatalog{refs: newRefs(7)}
			resp, err := NewServer(catalog, 3).ListImages(context.Background(), mustStruct(t, map[string]any{
				"kind":        "movie",
				"id":          27205,
				"all_posters": tt.allPosters,
			}))
			if err != nil {
				t.Fatalf("ListImages failed: %v", err)
			}
			if catalog.lastID != 27205 || catalog.lastKind != models.MediaKindMovie {
				t.Errorf("catalog called with kind=%v id=%d", catalog.lastKind, catalog.lastID)
			}

			posters := resp.GetFields()["posters"].GetListValue().GetValues()
			if len(posters) != tt.wantPosters {
				t.Errorf("Expected %d posters, got %d", tt.wantPosters, len(posters))
			}
			backdrops := resp.GetFields()["backdrops"].GetListValue().GetValues()
			if len(backdrops) != 2 {
				t.Fatalf("Expected 2 language backdrops, got %d", len(backdrops))
			}
			if lang := backdrops[1].GetStructValue().GetFields()["language"].GetStringValue(); lang != "fr" {
				t.Errorf("Expected second backdrop language fr, got %q", lang)
			}
		})
	}
}

func TestListImages_InvalidID(t *testing.T) {
	t.Parallel()
	for _, req := range []map[string]any{
		{"kind": "movie"},
		{"kind": "movie", "id": 0},
		{"kind": "movie", "id": -4},
	} {
		_, err := NewServer(&fakeCatalog{}, 3).ListImages(context.Background(), mustStruct(t, req))
		if status.Code(err) != codes.InvalidArgument {
			t.Errorf("request %v: expected InvalidArgument, got %v", req, err)
		}
	}
}

func TestToStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		err        error
		wantCode   codes.Code
		wantReason string
	}{
		{"not found", apperrors.NewNotFoundError("movie", "Nothing"), codes.NotFound, "not_found"},
		{"rate limited", &apperrors.ErrRateLimited{Source: "catalog"}, codes.ResourceExhausted, "rate_limited"},
		{"private", &apperrors.ErrPrivateContent{Owner: "alice"}, codes.PermissionDenied, "private_content"},
		{"provider", apperrors.NewProviderError(503, "down", nil), codes.Unavailable, "provider"},
		{"internal", errors.New("boom"), codes.Internal, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := toStatus(tt.err)
			if status.Code(err) != tt.wantCode {
				t.Errorf("Expected code %v, got %v", tt.wantCode, status.Code(err))
			}
			if reason := ReasonOf(err); reason != tt.wantReason {
				t.Errorf("Expected reason %q, got %q", tt.wantReason, reason)
			}
		})
	}

	if toStatus(nil) != nil {
		t.Error("Expected nil for nil error")
	}
	if st := status.Convert(toStatus(errors.New("secret detail"))); st.Message() != "internal error" {
		t.Errorf("Internal errors should not leak details, got %q", st.Message())
	}
	existing := status.Error(codes.Canceled, "gone")
	if toStatus(existing) != existing {
		t.Error("Existing status errors should pass through")
	}
}

func TestCatalogService_OverTheWire(t *testing.T) {
	t.Parallel()
	catalog := &fakeCatalog{
		results: []models.SearchResult{{ID: 42, DisplayTitle: "Solaris", Year: "1972", MediaKind: models.MediaKindMovie}},
		refs:    newRefs(1),
	}
	srv := NewGRPCServer(catalog, 3)

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	defer srv.GracefulStop()

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()
	client := NewCatalogClient(conn)

	resp, err := client.Search(context.Background(), mustStruct(t, map[string]any{"kind": "movie", "name": "Solaris"}))
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if n := len(resp.GetFields()["results"].GetListValue().GetValues()); n != 1 {
		t.Errorf("Expected 1 result, got %d", n)
	}

	images, err := client.ListImages(context.Background(), mustStruct(t, map[string]any{"kind": "movie", "id": 42}))
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if n := len(images.GetFields()["posters"].GetListValue().GetValues()); n != 1 {
		t.Errorf("Expected 1 poster, got %d", n)
	}

	_, err = client.Search(context.Background(), mustStruct(t, map[string]any{"kind": "books", "name": "Solaris"}))
	if status.Code(err) != codes.InvalidArgument || ReasonOf(err) != "validation" {
		t.Errorf("Expected validation status over the wire, got %v (reason %q)", err, ReasonOf(err))
	}
}
