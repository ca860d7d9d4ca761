package richtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeEditorHTMLConvertsCodeBlocks(t *testing.T) {
	in := `<div class="ql-code-block-container">` +
		`<div class="ql-code-block" data-language="go">func main() {</div>` +
		`<div class="ql-code-block">}</div>` +
		`</div>`

	got := SerializeEditorHTML(in)
	want := "<pre data-language=\"GO\"><code class=\"language-go\">func main() {\n}</code></pre>"
	assert.Equal(t, want, got)
}

func TestSerializeEditorHTMLPlainLanguageGetsNoClass(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{
			name: "explicit plain",
			in:   `<div class="ql-code-block-container"><div class="ql-code-block" data-language="plain">x := 1</div></div>`,
		},
		{
			name: "no language attribute",
			in:   `<div class="ql-code-block-container"><div class="ql-code-block">x := 1</div></div>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SerializeEditorHTML(tt.in)
			assert.Equal(t, "<pre><code>x := 1</code></pre>", got)
		})
	}
}

func TestSerializeEditorHTMLStripsEditorUI(t *testing.T) {
	in := `<ol><li data-list="bullet"><span class="ql-ui" contenteditable="false"></span>item</li></ol>`
	got := SerializeEditorHTML(in)
	assert.NotContains(t, got, "ql-ui")
	assert.Contains(t, got, "item")
}

func TestSerializeEditorHTMLLeavesOrdinaryMarkup(t *testing.T) {
	in := `<p>hello <strong>world</strong></p>`
	assert.Equal(t, in, SerializeEditorHTML(in))
}

func TestRenderDisplayHTMLPromotesLegacySyntaxBlocks(t *testing.T) {
	in := `<pre class="ql-syntax">fmt.Println(1)</pre>`
	got := RenderDisplayHTML(in)
	assert.Equal(t, "<pre><code>fmt.Println(1)</code></pre>", got)
}

func TestRenderDisplayHTMLLeavesPreWithCodeAlone(t *testing.T) {
	in := `<pre data-language="GO"><code class="language-go">a := 1</code></pre>`
	got := RenderDisplayHTML(in)
	assert.Equal(t, in, got)
}

func TestRenderDisplayHTMLIsIdempotent(t *testing.T) {
	in := `<div class="ql-code-block-container"><div class="ql-code-block" data-language="go">a := 1</div></div>` +
		`<p>text</p><pre class="ql-syntax">raw</pre>`

	once := RenderDisplayHTML(in)
	twice := RenderDisplayHTML(once)
	assert.Equal(t, once, twice)
}

func TestRenderDisplayHTMLSanitizes(t *testing.T) {
	in := `<p>ok</p><script>alert(1)</script><p onclick="x()">click</p>`
	got := RenderDisplayHTML(in)
	assert.NotContains(t, got, "script")
	assert.NotContains(t, got, "onclick")
	assert.Contains(t, got, "<p>ok</p>")
}

func TestSanitizeKeepsHighlightingContract(t *testing.T) {
	in := `<pre data-language="GO"><code class="language-go">a := 1</code></pre>`
	assert.Equal(t, in, Sanitize(in))
}

func TestSanitizeKeepsDataURIImages(t *testing.T) {
	in := `<img src="data:image/jpeg;base64,AAAA">`
	got := Sanitize(in)
	assert.Contains(t, got, "data:image/jpeg;base64,AAAA")
}

func TestPlainTextBreaksAtBlocks(t *testing.T) {
	in := `<p>hello world</p><p>again</p>`
	assert.Equal(t, "hello world\nagain\n", PlainText(in))
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		name  string
		words int
		want  int
	}{
		{"empty floors to one", 0, 1},
		{"single word", 1, 1},
		{"exactly one minute", 200, 1},
		{"just over one minute", 201, 2},
		{"two minutes", 400, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.TrimSpace(strings.Repeat("word ", tt.words))
			assert.Equal(t, tt.want, ReadTime(text))
		})
	}
}

func TestReadTimeHTMLIgnoresMarkup(t *testing.T) {
	in := "<p>" + strings.TrimSpace(strings.Repeat("word ", 201)) + "</p>"
	assert.Equal(t, 2, ReadTimeHTML(in))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My First Post!!", "my-first-post"},
		{"Crème Brûlée Café", "creme-brulee-cafe"},
		{"Über Go", "uber-go"},
		{"--already--hyphenated--", "already-hyphenated"},
		{"  spaces   everywhere  ", "spaces-everywhere"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugifyStable(t *testing.T) {
	require.Equal(t, Slugify("Go: Channels & Goroutines"), Slugify("Go: Channels & Goroutines"))
	assert.Equal(t, "go-channels-goroutines", Slugify("Go: Channels & Goroutines"))
}
