package social

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
)

// DefaultBaseURL is the canonical origin bare handles and short-codes are expanded against.
const DefaultBaseURL = "https://www.instagram.com"

// TargetKind is the shape of a recognised source URL.
type TargetKind int

const (
	TargetPost TargetKind = iota
	TargetReel
	TargetProfile
)

// String returns the string representation of the target kind
func (k TargetKind) String() string {
	switch k {
	case TargetPost:
		return "post"
	case TargetReel:
		return "reel"
	case TargetProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Target is a classified source URL.
type Target struct {
	Kind      TargetKind
	URL       string // normalised input URL
	Host      string
	Shortcode string // posts and reels
	Username  string // profiles
}

// IsProfile reports whether the target is a bare profile handle.
func (t Target) IsProfile() bool {
	return t.Kind == TargetProfile
}

// Path is the page path of the target on the source, with a trailing slash.
func (t Target) Path() string {
	switch t.Kind {
	case TargetPost:
		return "/p/" + t.Shortcode + "/"
	case TargetReel:
		return "/reel/" + t.Shortcode + "/"
	default:
		return "/" + t.Username + "/"
	}
}

var (
	shortcodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	usernamePattern  = regexp.MustCompile(`^[A-Za-z0-9_.]+$`)
	bareTokenPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

// reservedPaths are first path segments that are never usernames.
var reservedPaths = map[string]bool{
	"p": true, "reel": true, "reels": true, "tv": true, "explore": true,
	"accounts": true, "stories": true, "direct": true, "about": true, "legal": true,
}

// Normalize canonicalises user input into a fully qualified URL:
// "@handle" becomes a profile URL, a bare alphanumeric token becomes a post
// URL, a bare dotted username becomes a profile URL, and a scheme-less URL
// gets https://.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &apperrors.ErrInvalidURL{URL: raw}
	}

	switch {
	case strings.HasPrefix(s, "@"):
		handle := strings.TrimSuffix(strings.TrimPrefix(s, "@"), "/")
		if !usernamePattern.MatchString(handle) {
			return "", &apperrors.ErrInvalidURL{URL: raw}
		}
		return DefaultBaseURL + "/" + handle + "/", nil
	case bareTokenPattern.MatchString(s):
		return DefaultBaseURL + "/p/" + s + "/", nil
	case usernamePattern.MatchString(s) && !strings.Contains(strings.ToLower(s), "instagram.com") && !strings.Contains(strings.ToLower(s), "instagr.am"):
		return DefaultBaseURL + "/" + s + "/", nil
	}

	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	return s, nil
}

// Classify matches a normalised URL against the post, reel and profile
// grammar. The host is not checked here; the Extractor applies its allowlist.
func Classify(rawURL string) (Target, error) {
	invalid := &apperrors.ErrInvalidURL{URL: rawURL}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Target{}, invalid
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	target := Target{URL: rawURL, Host: strings.ToLower(u.Hostname())}

	switch {
	case len(segments) == 2 && segments[0] == "p":
		target.Kind = TargetPost
		target.Shortcode = segments[1]
	case len(segments) == 2 && (segments[0] == "reel" || segments[0] == "reels"):
		target.Kind = TargetReel
		target.Shortcode = segments[1]
	case len(segments) == 1 && !reservedPaths[strings.ToLower(segments[0])]:
		target.Kind = TargetProfile
		target.Username = segments[0]
		if !usernamePattern.MatchString(target.Username) {
			return Target{}, invalid
		}
		return target, nil
	default:
		return Target{}, invalid
	}

	if !shortcodePattern.MatchString(target.Shortcode) {
		return Target{}, invalid
	}
	return target, nil
}
