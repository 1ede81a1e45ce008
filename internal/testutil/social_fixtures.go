package testutil

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
)

// PostPageHTML renders a post page carrying the given Open Graph tags; empty
// values are omitted.
func PostPageHTML(videoURL, imageURL, title string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
	writeMeta := func(prop, value string) {
		if value != "" {
			fmt.Fprintf(&sb, `<meta property="%s" content="%s" />`, prop, html.EscapeString(value))
		}
	}
	writeMeta("og:type", "video.other")
	writeMeta("og:image", imageURL)
	writeMeta("og:video", videoURL)
	writeMeta("og:title", title)
	sb.WriteString(`<title>Instagram</title></head><body><div id="root"></div></body></html>`)
	return sb.String()
}

// ProfilePageOptions controls ProfilePageHTML.
type ProfilePageOptions struct {
	Username      string
	FullName      string
	Biography     string
	ProfilePicURL string
	Private       bool
}

// ProfilePageHTML renders a profile page whose script embeds the user JSON the
// way the source does, with & escaped as \u0026.
func ProfilePageHTML(opts ProfilePageOptions) string {
	user := map[string]any{
		"username":   opts.Username,
		"full_name":  opts.FullName,
		"biography":  opts.Biography,
		"is_private": opts.Private,
	}
	if opts.ProfilePicURL != "" {
		user["profile_pic_url_hd"] = opts.ProfilePicURL
	}
	data, _ := json.Marshal(map[string]any{"graphql": map[string]any{"user": user}})
	return `<!DOCTYPE html><html><head><meta charset="utf-8"><title>@` + opts.Username +
		`</title></head><body><script type="application/json">` + string(data) + `</script></body></html>`
}

// ProfileNotFoundHTML is the page served for a profile that does not exist.
const ProfileNotFoundHTML = `<!DOCTYPE html><html><head><title>Page Not Found • Instagram</title></head>
<body><h2>Sorry, this page isn't available.</h2><p>The link you followed may be broken, or the page may have been removed.</p></body></html>`

// LoginRequiredJSON is the body the structured endpoints return when access needs a login.
const LoginRequiredJSON = `{"message":"login_required","require_login":true,"status":"fail"}`

// WebProfileJSON renders the structured profile lookup response.
func WebProfileJSON(opts ProfilePageOptions) string {
	data, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			"user": map[string]any{
				"username":           opts.Username,
				"full_name":          opts.FullName,
				"biography":          opts.Biography,
				"is_private":         opts.Private,
				"profile_pic_url_hd": opts.ProfilePicURL,
			},
		},
		"status": "ok",
	})
	return string(data)
}

// PostInfoOptions controls PostInfoJSON.
type PostInfoOptions struct {
	Code         string
	Owner        string
	OwnerPrivate bool
	VideoURL     string   // set for video posts
	ImageURL     string   // cover or photo
	CarouselURLs []string // extra image items of a sidecar post
	Caption      string
}

// PostInfoJSON renders the structured post lookup response.
func PostInfoJSON(opts PostInfoOptions) string {
	item := map[string]any{
		"code":       opts.Code,
		"media_type": 1,
		"user": map[string]any{
			"username":        opts.Owner,
			"is_private":      opts.OwnerPrivate,
			"profile_pic_url": "https://cdn.example.test/" + opts.Owner + "_pic.jpg",
		},
	}
	if opts.ImageURL != "" {
		item["image_versions2"] = map[string]any{"candidates": []map[string]any{{"url": opts.ImageURL, "width": 1080}}}
	}
	if opts.VideoURL != "" {
		item["media_type"] = 2
		item["video_versions"] = []map[string]any{{"url": opts.VideoURL, "type": 101}}
	}
	if len(opts.CarouselURLs) > 0 {
		item["media_type"] = 8
		carousel := make([]map[string]any, 0, len(opts.CarouselURLs))
		for _, u := range opts.CarouselURLs {
			carousel = append(carousel, map[string]any{
				"media_type":      1,
				"image_versions2": map[string]any{"candidates": []map[string]any{{"url": u}}},
			})
		}
		item["carousel_media"] = carousel
	}
	if opts.Caption != "" {
		item["caption"] = map[string]any{"text": opts.Caption}
	}
	data, _ := json.Marshal(map[string]any{"items": []any{item}, "num_results": 1, "status": "ok"})
	return string(data)
}
