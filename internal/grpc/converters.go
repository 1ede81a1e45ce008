package grpc

import (
	"math"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Belphemur/MediaFinder/internal/apperrors"
	"github.com/Belphemur/MediaFinder/internal/models"
)

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

func boolField(req *structpb.Struct, name string) bool {
	return req.GetFields()[name].GetBoolValue()
}

// intField reads a whole number. ok is false when the field is absent.
func intField(req *structpb.Struct, name string) (int64, bool, error) {
	v, present := req.GetFields()[name]
	if !present {
		return 0, false, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, false, apperrors.NewValidationError(name, "must be a whole number")
	}
	return int64(n.NumberValue), true, nil
}

func kindField(req *structpb.Struct) (models.MediaKind, error) {
	kind := models.ParseMediaKind(stringField(req, "kind"))
	if kind == models.MediaKindUnknown {
		return kind, apperrors.NewValidationError("kind", "must be movie, tv or other")
	}
	return kind, nil
}

func searchResultsToStruct(results []models.SearchResult) (*structpb.Struct, error) {
	list := make([]any, 0, len(results))
	for _, r := range results {
		list = append(list, map[string]any{
			"id":    r.ID,
			"title": r.DisplayTitle,
			"year":  r.Year,
			"kind":  r.MediaKind.String(),
			"label": r.Label(),
		})
	}
	return structpb.NewStruct(map[string]any{"results": list})
}

func assetsToList(assets []models.MediaAsset) []any {
	list := make([]any, 0, len(assets))
	for _, a := range assets {
		item := map[string]any{"url": a.RemoteURL, "kind": a.Kind.String()}
		if a.HasLanguage() {
			item["language"] = *a.LanguageTag
		}
		list = append(list, item)
	}
	return list
}

func imagesToStruct(posters, backdrops []models.MediaAsset) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"posters":   assetsToList(posters),
		"backdrops": assetsToList(backdrops),
	})
}
