package social

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
	"github.com/Belphemur/MediaFinder/internal/parser"
)

// Strategy names, also used as metric labels.
const (
	StrategyPageMeta   = "page_meta"
	StrategyStructured = "structured_api"
)

// captionLimit bounds user captions and biographies in artifact captions.
const captionLimit = 100

// pageMetaStrategy scrapes the public page: Open Graph tags for posts and
// reels, the embedded user JSON for profiles.
func (e *Extractor) pageMetaStrategy(ctx context.Context, in *Input) (*models.ExtractionResult, error) {
	resource, id := "post", in.Target.Shortcode
	if in.Target.IsProfile() {
		resource, id = "profile", in.Target.Username
	}
	resp, err := e.fetchPage(ctx, e.opts.BaseURL+in.Target.Path(), resource, id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if strings.Contains(resp.Request.URL.Path, "/accounts/login") {
		// only the structured layer's refusal counts as private content
		if in.Target.IsProfile() {
			in.WarnPrivate(fmt.Sprintf("⚠️ The profile @%s appears to be private.\nI'll try to get the profile picture anyway...", id))
		}
		return nil, nil
	}

	body, err := parser.NewUTF8Reader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	if in.Target.IsProfile() {
		payload, err := e.profileParser.Parse(body)
		if err != nil {
			return nil, err
		}
		return e.deliverProfilePayload(ctx, in, payload)
	}

	meta, err := e.pageParser.Parse(body)
	if err != nil {
		return nil, err
	}
	if !meta.HasMedia() {
		return nil, nil
	}

	mediaURL, mime, ext := meta.ImageURL, models.MimeKindImage, ".jpg"
	if meta.VideoURL != "" {
		mediaURL, mime, ext = meta.VideoURL, models.MimeKindVideo, ".mp4"
	}
	caption := mediaCaption(mime, "Caption: "+orDefault(apperrors.Excerpt(meta.Title, captionLimit), "No caption"))
	return e.download(ctx, in, mediaURL, "post_"+in.Target.Shortcode+ext, mime, caption)
}

func (e *Extractor) deliverProfilePayload(ctx context.Context, in *Input, payload models.ProfilePayload) (*models.ExtractionResult, error) {
	username := in.Target.Username
	if payload.IsPrivate {
		in.WarnPrivate(fmt.Sprintf("⚠️ The profile @%s appears to be private.\nI'll try to get the profile picture anyway...", username))
	}
	if payload.ProfilePicURL == "" {
		if payload.NotFound {
			return nil, apperrors.NewNotFoundError("profile", username)
		}
		return nil, nil
	}
	caption := profileCaption(username, payload.FullName, payload.Biography)
	return e.download(ctx, in, payload.ProfilePicURL, username+"_profile.jpg", models.MimeKindImage, caption)
}

// structuredStrategy resolves the target through the structured access layer,
// downloading the primary media directly and falling back to the layer's own
// post download.
func (e *Extractor) structuredStrategy(ctx context.Context, in *Input) (*models.ExtractionResult, error) {
	if in.Target.IsProfile() {
		profile, err := e.structured.ProfileByUsername(ctx, in.Target.Username)
		if err != nil {
			return nil, err
		}
		return e.deliverProfilePayload(ctx, in, models.ProfilePayload{
			ProfilePicURL: profile.ProfilePicURL,
			FullName:      profile.FullName,
			Biography:     profile.Biography,
			IsPrivate:     profile.IsPrivate,
		})
	}

	logger := config.GetLogger()
	post, err := e.structured.PostByShortcode(ctx, in.Target.Shortcode)
	if err != nil {
		return nil, err
	}
	if post.OwnerPrivate {
		in.WarnPrivate(fmt.Sprintf("⚠️ Note: The post is from a private account (@%s).\nBut we'll try to download it anyway since we found it...", post.OwnerUsername))
	}
	from := "From: " + post.OwnerUsername

	if mediaURL, isVideo := post.PrimaryURL(); mediaURL != "" {
		mime, ext := models.MimeKindImage, ".jpg"
		if isVideo {
			mime, ext = models.MimeKindVideo, ".mp4"
		}
		result, err := e.download(ctx, in, mediaURL, post.Shortcode+ext, mime, mediaCaption(mime, from))
		if err == nil {
			return result, nil
		}
		logger.Warn().Err(err).Str("shortcode", post.Shortcode).Msg("Direct media download failed, downloading post files")
	}

	return e.fromPostFiles(ctx, in, post, from)
}

// fromPostFiles downloads every file of the post and keeps the first media
// file that is not an owner thumbnail. The remaining files are released.
func (e *Extractor) fromPostFiles(ctx context.Context, in *Input, post *Post, from string) (*models.ExtractionResult, error) {
	dir := filepath.Join(in.Scope.Dir(), "post-"+post.Shortcode)
	files, err := e.structured.DownloadPost(ctx, post, dir)
	for _, f := range files {
		_ = in.Scope.Track(f)
	}
	if err != nil {
		return nil, err
	}
	slices.Sort(files)

	var chosen string
	var chosenKind models.MimeKind
	for _, f := range files {
		if chosen != "" || strings.HasSuffix(f, ProfilePicSuffix) {
			_ = in.Scope.Release(f)
			continue
		}
		kind, ok := models.MimeKindFromPath(f)
		if !ok {
			_ = in.Scope.Release(f)
			continue
		}
		chosen, chosenKind = f, kind
	}
	if chosen == "" {
		return nil, nil
	}

	caption := mediaCaption(chosenKind, from)
	return &models.ExtractionResult{LocalFilePath: chosen, MimeKind: chosenKind, CaptionText: &caption}, nil
}

// download writes mediaURL into a new scope file. The file is released when
// the download fails.
func (e *Extractor) download(ctx context.Context, in *Input, mediaURL, name string, mime models.MimeKind, caption string) (*models.ExtractionResult, error) {
	path, err := in.Scope.NewFile(name)
	if err != nil {
		return nil, err
	}
	if _, err := e.downloader.DownloadToFile(ctx, mediaURL, path); err != nil {
		_ = in.Scope.Release(path)
		return nil, err
	}
	return &models.ExtractionResult{LocalFilePath: path, MimeKind: mime, CaptionText: &caption}, nil
}

// fetchPage GETs a public page with a browser-like header set.
func (e *Extractor) fetchPage(ctx context.Context, pageURL, resource, id string) (*http.Response, error) {
	policy := client.NewRetryPolicy(e.opts.Retries, 0)
	resp, err := client.Do(ctx, e.httpClient, policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", e.opts.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")
		req.Header.Set("Upgrade-Insecure-Requests", "1")
		req.Header.Set("Cache-Control", "max-age=0")
		return req, nil
	})
	if err != nil {
		return nil, classifySourceError(err, resource, id)
	}
	return resp, nil
}

func mediaCaption(mime models.MimeKind, detail string) string {
	if mime == models.MimeKindVideo {
		return "🎥 Instagram Video\n" + detail
	}
	return "📸 Instagram Photo\n" + detail
}

func profileCaption(username, fullName, bio string) string {
	return fmt.Sprintf("👤 Profile Picture of @%s\nFull name: %s\nBio: %s",
		username,
		orDefault(fullName, username),
		orDefault(apperrors.Excerpt(bio, captionLimit), "No bio available"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
