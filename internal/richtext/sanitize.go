package richtext

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var displayPolicy = buildDisplayPolicy()

func buildDisplayPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Keep the syntax-highlighting contract produced by the code-block
	// conversion intact.
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[a-zA-Z0-9+#-]+$`)).OnElements("code")
	p.AllowAttrs(attrLanguage).Matching(regexp.MustCompile(`^[A-Z0-9+#-]+$`)).OnElements("pre")

	// Featured and inline images are embedded as base64 data URIs.
	p.AllowDataURIImages()

	return p
}

// Sanitize strips unsafe markup from stored rich text before display.
func Sanitize(content string) string {
	return displayPolicy.Sanitize(content)
}
