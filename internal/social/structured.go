package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/failsafe-go/failsafe-go/retrypolicy"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/client"
	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/parser"
)

// webAppID identifies the public web client to the structured endpoints.
const webAppID = "936619743392459"

// ProfilePicSuffix marks owner thumbnails written by DownloadPost.
const ProfilePicSuffix = "_profile_pic.jpg"

// Post is a resolved post or reel.
type Post struct {
	Shortcode     string
	OwnerUsername string
	OwnerPrivate  bool
	OwnerPicURL   string
	IsVideo       bool
	VideoURL      string
	ImageURL      string
	Caption       string
	Items         []PostMedia // carousel items, empty for single-media posts
}

// PostMedia is one item of a carousel post.
type PostMedia struct {
	IsVideo  bool
	VideoURL string
	ImageURL string
}

// PrimaryURL is the video stream for video posts, else the image.
func (p *Post) PrimaryURL() (string, bool) {
	if p.IsVideo && p.VideoURL != "" {
		return p.VideoURL, true
	}
	if p.ImageURL != "" {
		return p.ImageURL, false
	}
	if len(p.Items) > 0 {
		first := p.Items[0]
		if first.IsVideo && first.VideoURL != "" {
			return first.VideoURL, true
		}
		return first.ImageURL, false
	}
	return "", false
}

// Profile is a resolved profile.
type Profile struct {
	Username      string
	FullName      string
	Biography     string
	IsPrivate     bool
	ProfilePicURL string
}

// StructuredClient is the structured access layer for the social source.
type StructuredClient interface {
	PostByShortcode(ctx context.Context, shortcode string) (*Post, error)
	ProfileByUsername(ctx context.Context, username string) (*Profile, error)
	// DownloadPost writes every media file of post, the owner's thumbnail and
	// a caption file into dir and returns the written paths.
	DownloadPost(ctx context.Context, post *Post, dir string) ([]string, error)
}

type webClient struct {
	httpClient *http.Client
	policy     retrypolicy.RetryPolicy[*http.Response]
	downloader client.Downloader
	baseURL    string
	userAgent  string
}

// NewStructuredClient creates the structured access layer against baseURL.
func NewStructuredClient(httpClient *http.Client, downloader client.Downloader, baseURL, userAgent string, retries int) StructuredClient {
	return &webClient{
		httpClient: httpClient,
		policy:     client.NewRetryPolicy(retries, 0),
		downloader: downloader,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

type apiMediaItem struct {
	Code          string `json:"code"`
	MediaType     int    `json:"media_type"`
	VideoVersions []struct {
		URL string `json:"url"`
	} `json:"video_versions"`
	ImageVersions2 struct {
		Candidates []struct {
			URL string `json:"url"`
		} `json:"candidates"`
	} `json:"image_versions2"`
	Caption *struct {
		Text string `json:"text"`
	} `json:"caption"`
	User struct {
		Username      string `json:"username"`
		IsPrivate     bool   `json:"is_private"`
		ProfilePicURL string `json:"profile_pic_url"`
	} `json:"user"`
	CarouselMedia []apiMediaItem `json:"carousel_media"`
}

const (
	mediaTypeVideo    = 2
	mediaTypeCarousel = 8
)

func (m apiMediaItem) videoURL() string {
	if len(m.VideoVersions) == 0 {
		return ""
	}
	return m.VideoVersions[0].URL
}

func (m apiMediaItem) imageURL() string {
	if len(m.ImageVersions2.Candidates) == 0 {
		return ""
	}
	return m.ImageVersions2.Candidates[0].URL
}

type apiPostResponse struct {
	Items []apiMediaItem `json:"items"`
}

type apiProfileResponse struct {
	Data struct {
		User *struct {
			Username      string `json:"username"`
			FullName      string `json:"full_name"`
			Biography     string `json:"biography"`
			IsPrivate     bool   `json:"is_private"`
			ProfilePicURL string `json:"profile_pic_url_hd"`
		} `json:"user"`
	} `json:"data"`
}

type apiFailure struct {
	Message      string `json:"message"`
	RequireLogin bool   `json:"require_login"`
}

func (c *webClient) PostByShortcode(ctx context.Context, shortcode string) (*Post, error) {
	var payload apiPostResponse
	endpoint := c.baseURL + "/p/" + url.PathEscape(shortcode) + "/?__a=1&__d=dis"
	if err := c.getJSON(ctx, endpoint, "post", shortcode, &payload); err != nil {
		return nil, err
	}
	if len(payload.Items) == 0 {
		return nil, apperrors.NewNotFoundError("post", shortcode)
	}

	item := payload.Items[0]
	post := &Post{
		Shortcode:     shortcode,
		OwnerUsername: item.User.Username,
		OwnerPrivate:  item.User.IsPrivate,
		OwnerPicURL:   item.User.ProfilePicURL,
		IsVideo:       item.MediaType == mediaTypeVideo,
		VideoURL:      item.videoURL(),
		ImageURL:      item.imageURL(),
	}
	if item.Caption != nil {
		post.Caption = item.Caption.Text
	}
	if item.MediaType == mediaTypeCarousel {
		for _, child := range item.CarouselMedia {
			post.Items = append(post.Items, PostMedia{
				IsVideo:  child.MediaType == mediaTypeVideo,
				VideoURL: child.videoURL(),
				ImageURL: child.imageURL(),
			})
		}
	}
	return post, nil
}

func (c *webClient) ProfileByUsername(ctx context.Context, username string) (*Profile, error) {
	var payload apiProfileResponse
	endpoint := c.baseURL + "/api/v1/users/web_profile_info/?username=" + url.QueryEscape(username)
	if err := c.getJSON(ctx, endpoint, "profile", username, &payload); err != nil {
		return nil, err
	}
	user := payload.Data.User
	if user == nil {
		return nil, apperrors.NewNotFoundError("profile", username)
	}
	return &Profile{
		Username:      user.Username,
		FullName:      user.FullName,
		Biography:     user.Biography,
		IsPrivate:     user.IsPrivate,
		ProfilePicURL: user.ProfilePicURL,
	}, nil
}

func (c *webClient) DownloadPost(ctx context.Context, post *Post, dir string) ([]string, error) {
	logger := config.GetLogger()
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &apperrors.ErrInternal{Op: "create post directory", Err: err}
	}

	type entry struct {
		url  string
		name string
	}
	var entries []entry
	media := post.Items
	if len(media) == 0 {
		media = []PostMedia{{IsVideo: post.IsVideo, VideoURL: post.VideoURL, ImageURL: post.ImageURL}}
	}
	for i, m := range media {
		base := fmt.Sprintf("%s_%d", post.Shortcode, i+1)
		if m.IsVideo && m.VideoURL != "" {
			entries = append(entries, entry{m.VideoURL, base + ".mp4"})
		} else if m.ImageURL != "" {
			entries = append(entries, entry{m.ImageURL, base + ".jpg"})
		}
	}
	if post.OwnerPicURL != "" && post.OwnerUsername != "" {
		entries = append(entries, entry{post.OwnerPicURL, post.OwnerUsername + ProfilePicSuffix})
	}

	var written []string
	var errs []error
	for _, e := range entries {
		path := filepath.Join(dir, e.name)
		if _, err := c.downloader.DownloadToFile(ctx, e.url, path); err != nil {
			logger.Warn().Err(err).Str("file", e.name).Msg("Failed to download post file")
			_ = os.Remove(path)
			errs = append(errs, err)
			continue
		}
		written = append(written, path)
	}

	if post.Caption != "" {
		path := filepath.Join(dir, post.Shortcode+".txt")
		if err := os.WriteFile(path, []byte(post.Caption), 0o600); err == nil {
			written = append(written, path)
		}
	}

	if len(written) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return written, nil
}

// getJSON fetches a structured endpoint and maps refusals onto the error taxonomy.
func (c *webClient) getJSON(ctx context.Context, endpoint, resource, id string, out any) error {
	resp, err := client.Do(ctx, c.httpClient, c.policy, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "*/*")
		req.Header.Set("X-IG-App-ID", webAppID)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Referer", c.baseURL+"/")
		return req, nil
	})
	if err != nil {
		return classifySourceError(err, resource, id)
	}
	defer resp.Body.Close()

	if strings.Contains(resp.Request.URL.Path, "/accounts/login") {
		return &apperrors.ErrPrivateContent{Owner: ownerFor(resource, id)}
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(io.LimitReader(resp.Body, parser.MaxPageSize)); err != nil {
		return apperrors.NewProviderError(resp.StatusCode, "failed to read "+resource, err)
	}

	var failure apiFailure
	if json.Unmarshal(buf.Bytes(), &failure) == nil && (failure.RequireLogin || failure.Message == "login_required") {
		return &apperrors.ErrPrivateContent{Owner: ownerFor(resource, id)}
	}
	if err := json.Unmarshal(buf.Bytes(), out); err != nil {
		return apperrors.NewProviderError(resp.StatusCode, "unexpected "+resource+" payload", err)
	}
	return nil
}

func ownerFor(resource, id string) string {
	if resource == "profile" {
		return id
	}
	return ""
}

// classifySourceError maps a failed social request onto the error taxonomy.
func classifySourceError(err error, resource, id string) error {
	var se *client.StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return apperrors.NewProviderError(0, resource+" request failed", err)
	}

	body := string(se.Body)
	switch {
	case se.StatusCode == http.StatusTooManyRequests || strings.Contains(body, "Please wait a few minutes"):
		return &apperrors.ErrRateLimited{Source: "instagram"}
	case se.StatusCode == http.StatusNotFound:
		return apperrors.NewNotFoundError(resource, id)
	case (se.StatusCode == http.StatusUnauthorized || se.StatusCode == http.StatusForbidden) &&
		(strings.Contains(body, "login_required") || strings.Contains(body, "require_login")):
		return &apperrors.ErrPrivateContent{Owner: ownerFor(resource, id)}
	default:
		return apperrors.NewProviderError(se.StatusCode, body, nil)
	}
}
