package parser

import (
	"strings"
	"testing"

	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/testutil"
)

func TestProfilePayloadParser_Parse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		html string
		want models.ProfilePayload
	}{
		{
			name: "public profile with escaped url",
			html: testutil.ProfilePageHTML(testutil.ProfilePageOptions{
				Username:      "nasa",
				FullName:      "NASA",
				Biography:     "Exploring the universe\nand our home planet",
				ProfilePicURL: "https://cdn.example.test/nasa.jpg?stp=dst&_nc_ht=x",
			}),
			want: models.ProfilePayload{
				ProfilePicURL: "https://cdn.example.test/nasa.jpg?stp=dst&_nc_ht=x",
				FullName:      "NASA",
				Biography:     "Exploring the universe\nand our home planet",
			},
		},
		{
			name: "private profile still exposes picture",
			html: testutil.ProfilePageHTML(testutil.ProfilePageOptions{
				Username:      "secret",
				FullName:      "Secret Account",
				ProfilePicURL: "https://cdn.example.test/secret.jpg",
				Private:       true,
			}),
			want: models.ProfilePayload{
				ProfilePicURL: "https://cdn.example.test/secret.jpg",
				FullName:      "Secret Account",
				IsPrivate:     true,
			},
		},
		{
			name: "not found page",
			html: testutil.ProfileNotFoundHTML,
			want: models.ProfilePayload{NotFound: true},
		},
		{
			name: "raw escapes in page source",
			html: `<script>{"full_name":"Café \"Bar\"","profile_pic_url_hd":"https:\/\/cdn.example.test\/a.jpg?x=1\u0026y=2"}</script>`,
			want: models.ProfilePayload{
				ProfilePicURL: "https://cdn.example.test/a.jpg?x=1&y=2",
				FullName:      `Café "Bar"`,
			},
		},
		{
			name: "unrelated page",
			html: `<html><body>Log in to see photos</body></html>`,
			want: models.ProfilePayload{},
		},
	}

	p := NewProfilePayloadParser()
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
		})
	}
}
