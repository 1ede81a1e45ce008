package dialogue

import (
	"strconv"
	"strings"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// Choice tokens carried back in EventChoice payloads.
const (
	TokenMovie   = "kind:movie"
	TokenTV      = "kind:tv"
	TokenOther   = "kind:other"
	TokenSocial  = "kind:social"
	TokenCancel  = "cancel"
	TokenPreview = "policy:preview"
	TokenAll     = "policy:all"

	resultTokenPrefix = "result:"
)

// StartCommand opens a fresh session from any state.
const StartCommand = "/start"

var cancelKeywords = []string{"cancel", "/cancel", "/start"}

func typeChoices() []models.Choice {
	return []models.Choice{
		{Token: TokenMovie, Label: "🎬 Movie"},
		{Token: TokenTV, Label: "📺 TV Series"},
		{Token: TokenOther, Label: "🔍 Other"},
		{Token: TokenSocial, Label: "📷 Instagram"},
	}
}

func policyChoices() []models.Choice {
	return []models.Choice{
		{Token: TokenPreview, Label: "🖼 Preview (3 posters)"},
		{Token: TokenAll, Label: "🗂 All posters"},
		{Token: TokenCancel, Label: "❌ Cancel"},
	}
}

func resultChoices(results []models.SearchResult) []models.Choice {
	choices := make([]models.Choice, 0, len(results)+1)
	for i, r := range results {
		choices = append(choices, models.Choice{Token: ResultToken(i), Label: r.Label()})
	}
	return append(choices, models.Choice{Token: TokenCancel, Label: "❌ Cancel"})
}

// ResultToken is the token of the result at index.
func ResultToken(index int) string {
	return resultTokenPrefix + strconv.Itoa(index)
}

// parseResultToken returns the index carried by a result token.
func parseResultToken(token string) (int, bool) {
	raw, ok := strings.CutPrefix(token, resultTokenPrefix)
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return i, true
}

func kindForToken(token string) (models.MediaKind, bool) {
	switch token {
	case TokenMovie:
		return models.MediaKindMovie, true
	case TokenTV:
		return models.MediaKindTV, true
	case TokenOther:
		return models.MediaKindOther, true
	default:
		return models.MediaKindUnknown, false
	}
}

func isCancelKeyword(text string) bool {
	text = strings.ToLower(strings.TrimSpace(text))
	for _, k := range cancelKeywords {
		if text == k {
			return true
		}
	}
	return false
}
