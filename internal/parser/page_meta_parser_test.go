package parser

import (
	"strings"
	"testing"

	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/testutil"
)

func TestPageMetaParser_Parse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		html string
		want models.PageMeta
	}{
		{
			name: "video post",
			html: testutil.PostPageHTML("https://cdn.example.test/v.mp4?a=1&b=2", "https://cdn.example.test/cover.jpg", "NASA on Instagram: \"Launch day\""),
			want: models.PageMeta{
				VideoURL: "https://cdn.example.test/v.mp4?a=1&b=2",
				ImageURL: "https://cdn.example.test/cover.jpg",
				Title:    "NASA on Instagram: \"Launch day\"",
			},
		},
		{
			name: "photo post",
			html: testutil.PostPageHTML("", "https://cdn.example.test/p.jpg", "Sunset"),
			want: models.PageMeta{ImageURL: "https://cdn.example.test/p.jpg", Title: "Sunset"},
		},
		{
			name: "secure url fallback",
			html: `<html><head><meta property="og:video:secure_url" content="https://cdn.example.test/s.mp4"><meta property="og:description" content="desc"></head></html>`,
			want: models.PageMeta{VideoURL: "https://cdn.example.test/s.mp4", Description: "desc"},
		},
		{
			name: "login wall without tags",
			html: `<html><head><title>Login • Instagram</title></head><body></body></html>`,
			want: models.PageMeta{},
		},
		{
			name: "empty content is skipped",
			html: `<html><head><meta property="og:image" content=""><meta property="og:image" content="https://cdn.example.test/second.jpg"></head></html>`,
			want: models.PageMeta{ImageURL: "https://cdn.example.test/second.jpg"},
		},
	}

	p := NewPageMetaParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := p.Parse(strings.NewReader(tt.html))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
			if got.HasMedia() != (tt.want.VideoURL != "" || tt.want.ImageURL != "") {
				t.Errorf("HasMedia() = %v", got.HasMedia())
			}
		})
	}
}
