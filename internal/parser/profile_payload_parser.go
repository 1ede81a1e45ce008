package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/config"
	"github.com/Belphemur/MediaFinder/internal/models"
)

var (
	profilePicPattern = regexp.MustCompile(`"profile_pic_url_hd"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	fullNamePattern   = regexp.MustCompile(`"full_name"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	biographyPattern  = regexp.MustCompile(`"biography"\s*:\s*"((?:[^"\\]|\\.)*)"`)
	privatePattern    = regexp.MustCompile(`"is_private"\s*:\s*true`)
)

// notFoundMarkers are the phrases the source renders for missing profiles.
var notFoundMarkers = []string{"Page Not Found", "Sorry, this page isn't available"}

// ProfilePayloadParser scrapes the JSON a profile page embeds in its scripts.
type ProfilePayloadParser struct{}

// NewProfilePayloadParser creates a new profile payload parser instance
func NewProfilePayloadParser() PageParser[models.ProfilePayload] {
	return &ProfilePayloadParser{}
}

func (p *ProfilePayloadParser) Parse(body io.Reader) (models.ProfilePayload, error) {
	logger := config.GetLogger()

	raw, err := io.ReadAll(body)
	if err != nil {
		return models.ProfilePayload{}, fmt.Errorf("failed to read profile page: %w", err)
	}
	page := string(raw)

	payload := models.ProfilePayload{
		ProfilePicURL: matchJSONString(profilePicPattern, page),
		FullName:      matchJSONString(fullNamePattern, page),
		Biography:     matchJSONString(biographyPattern, page),
		IsPrivate:     privatePattern.MatchString(page),
	}
	if payload.ProfilePicURL == "" {
		for _, marker := range notFoundMarkers {
			if strings.Contains(page, marker) {
				payload.NotFound = true
				break
			}
		}
	}

	logger.Debug().
		Bool("picture", payload.ProfilePicURL != "").
		Bool("private", payload.IsPrivate).
		Bool("notFound", payload.NotFound).
		Msg("Parsed profile payload")
	return payload, nil
}

// matchJSONString returns the first capture of pattern decoded as a JSON string
// literal, so escapes such as \u0026 and \/ come out as plain characters.
func matchJSONString(pattern *regexp.Regexp, page string) string {
	m := pattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	var decoded string
	if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &decoded); err != nil {
		return strings.ReplaceAll(m[1], `\u0026`, "&")
	}
	return decoded
}
