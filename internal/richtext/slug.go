package richtext

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlphanumericRuns = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL-safe identifier from a title: accents folded,
// lowercased, every run of non-alphanumeric characters collapsed to a single
// hyphen, leading and trailing hyphens stripped.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(folded)
	slug = nonAlphanumericRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
