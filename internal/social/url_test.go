package social

import (
	"testing"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
)

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"handle", "@nasa", "https://www.instagram.com/nasa/", false},
		{"handle with dot", "@natgeo.travel", "https://www.instagram.com/natgeo.travel/", false},
		{"bare shortcode", "ABC123", "https://www.instagram.com/p/ABC123/", false},
		{"bare dotted username", "natgeo.travel", "https://www.instagram.com/natgeo.travel/", false},
		{"missing scheme", "instagram.com/p/ABC123/", "https://instagram.com/p/ABC123/", false},
		{"full url untouched", "https://www.instagram.com/reel/Xyz789/", "https://www.instagram.com/reel/Xyz789/", false},
		{"padded", "  https://www.instagram.com/nasa  ", "https://www.instagram.com/nasa", false},
		{"empty", "   ", "", true},
		{"bad handle", "@not a handle", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		in        string
		wantKind  TargetKind
		shortcode string
		username  string
		wantErr   bool
	}{
		{name: "post", in: "https://www.instagram.com/p/ABC123/", wantKind: TargetPost, shortcode: "ABC123"},
		{name: "post with query", in: "https://www.instagram.com/p/ABC-12_3/?igsh=xyz", wantKind: TargetPost, shortcode: "ABC-12_3"},
		{name: "reel", in: "https://www.instagram.com/reel/Xyz789/", wantKind: TargetReel, shortcode: "Xyz789"},
		{name: "reels alias", in: "https://instagram.com/reels/Xyz789", wantKind: TargetReel, shortcode: "Xyz789"},
		{name: "profile", in: "https://www.instagram.com/nasa", wantKind: TargetProfile, username: "nasa"},
		{name: "other host", in: "https://example.com/p/ABC123/", wantKind: TargetPost, shortcode: "ABC123"},
		{name: "profile subpage", in: "https://www.instagram.com/nasa/tagged/", wantErr: true},
		{name: "reserved path", in: "https://www.instagram.com/explore/", wantErr: true},
		{name: "root", in: "https://www.instagram.com/", wantErr: true},
		{name: "ftp scheme", in: "ftp://www.instagram.com/p/ABC123/", wantErr: true},
		{name: "garbage", in: "not a url at all", wantErr: true},
		{name: "bad shortcode", in: "https://www.instagram.com/p/ab$cd/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Classify(tt.in)
			if tt.wantErr {
				if apperrors.KindOf(err) != apperrors.KindInvalidURL {
					t.Fatalf("Classify(%q) error = %v, want invalid URL", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Classify(%q) failed: %v", tt.in, err)
			}
			if got.Kind != tt.wantKind || got.Shortcode != tt.shortcode || got.Username != tt.username {
				t.Errorf("Classify(%q) = %+v", tt.in, got)
			}
		})
	}
}

func TestTarget_Path(t *testing.T) {
	t.Parallel()
	tests := []struct {
		target Target
		want   string
	}{
		{Target{Kind: TargetPost, Shortcode: "ABC"}, "/p/ABC/"},
		{Target{Kind: TargetReel, Shortcode: "XYZ"}, "/reel/XYZ/"},
		{Target{Kind: TargetProfile, Username: "nasa"}, "/nasa/"},
	}
	for _, tt := range tests {
		if got := tt.target.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
}
