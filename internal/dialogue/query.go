package dialogue

import (
	"regexp"
	"strconv"
	"strings"
)

var yearSuffix = regexp.MustCompile(`^(.*?)\s*\((\d{4})\)$`)

const (
	minYear = 1874
	maxYear = 2100
)

// parseQuery splits a trailing "(YYYY)" year hint off a title. A bare
// trailing number is part of the title, as in "Blade Runner 2049".
func parseQuery(text string) (string, *int) {
	text = strings.Join(strings.Fields(text), " ")
	m := yearSuffix.FindStringSubmatch(text)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return text, nil
	}
	year, err := strconv.Atoi(m[2])
	if err != nil || year < minYear || year > maxYear {
		return text, nil
	}
	return strings.TrimSpace(m[1]), &year
}
