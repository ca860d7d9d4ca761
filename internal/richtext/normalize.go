// Package richtext bridges the tree-shaped editable course/post model and
// the flat HTML persisted in the document store. All transforms run on a
// parsed HTML tree, never on the raw string, so the output is deterministic
// and the package needs no browser DOM.
package richtext

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	classEditorUI           = "ql-ui"
	classCodeBlockContainer = "ql-code-block-container"
	classCodeBlock          = "ql-code-block"
	classLegacySyntax       = "ql-syntax"
	attrLanguage            = "data-language"
)

// SerializeEditorHTML converts the editor's internal markup into the stored
// representation: editor-only UI nodes are stripped and the editor's
// code-block containers become semantic <pre><code class="language-x">
// blocks with the display language recorded uppercased on the pre element.
func SerializeEditorHTML(content string) string {
	root, err := parseFragment(content)
	if err != nil {
		return content
	}
	stripEditorUI(root)
	convertCodeBlocks(root)
	return renderChildren(root)
}

// RenderDisplayHTML prepares stored content for public display. Stored
// content may originate from either editor generation, so the code-block
// conversion is re-run and bare <pre class="ql-syntax"> blocks from the old
// editor are promoted to carry an inner <code>. The result is sanitized.
func RenderDisplayHTML(content string) string {
	root, err := parseFragment(content)
	if err != nil {
		return Sanitize(content)
	}
	stripEditorUI(root)
	convertCodeBlocks(root)
	promoteLegacySyntaxBlocks(root)
	return Sanitize(renderChildren(root))
}

// PlainText extracts the text content of an HTML fragment, inserting line
// breaks at block boundaries. Used for read-time estimation.
func PlainText(content string) string {
	root, err := parseFragment(content)
	if err != nil {
		return content
	}

	var b strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if n.Type == html.ElementNode && isBlockElement(n.Data) {
			b.WriteByte('\n')
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		visit(c)
	}
	return b.String()
}

func parseFragment(content string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, err
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func renderChildren(root *html.Node) string {
	var b strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&b, c)
	}
	return b.String()
}

func stripEditorUI(root *html.Node) {
	for _, n := range findAll(root, func(n *html.Node) bool {
		return hasClass(n, classEditorUI)
	}) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

func convertCodeBlocks(root *html.Node) {
	for _, container := range findAll(root, func(n *html.Node) bool {
		return hasClass(n, classCodeBlockContainer)
	}) {
		blocks := findAll(container, func(n *html.Node) bool {
			return hasClass(n, classCodeBlock)
		})
		if len(blocks) == 0 {
			continue
		}

		lines := make([]string, len(blocks))
		for i, block := range blocks {
			lines[i] = textContent(block)
		}

		// The first block carrying a language attribute names the language
		// for the whole run.
		language := ""
		for _, block := range blocks {
			if lang := getAttr(block, attrLanguage); lang != "" {
				language = lang
				break
			}
		}

		pre := &html.Node{Type: html.ElementNode, Data: "pre", DataAtom: atom.Pre}
		code := &html.Node{Type: html.ElementNode, Data: "code", DataAtom: atom.Code}
		if language != "" && language != "plain" {
			code.Attr = append(code.Attr, html.Attribute{Key: "class", Val: "language-" + language})
			pre.Attr = append(pre.Attr, html.Attribute{Key: attrLanguage, Val: strings.ToUpper(language)})
		}
		code.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(lines, "\n")})
		pre.AppendChild(code)

		replaceNode(container, pre)
	}
}

func promoteLegacySyntaxBlocks(root *html.Node) {
	for _, pre := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "pre" && hasClass(n, classLegacySyntax)
	}) {
		if hasChildElement(pre, "code") {
			continue
		}

		text := textContent(pre)
		for pre.FirstChild != nil {
			pre.RemoveChild(pre.FirstChild)
		}
		code := &html.Node{Type: html.ElementNode, Data: "code", DataAtom: atom.Code}
		code.AppendChild(&html.Node{Type: html.TextNode, Data: text})
		pre.AppendChild(code)
		removeClass(pre, classLegacySyntax)
	}
}

func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var matched []*html.Node
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n != root && pred(n) {
			matched = append(matched, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return matched
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func removeClass(n *html.Node, class string) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		var kept []string
		for _, c := range strings.Fields(a.Val) {
			if c != class {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
		} else {
			n.Attr[i].Val = strings.Join(kept, " ")
		}
		return
	}
}

func hasChildElement(n *html.Node, tag string) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			return true
		}
	}
	return false
}

func replaceNode(old, replacement *html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
}

func isBlockElement(tag string) bool {
	switch tag {
	case "p", "div", "li", "ul", "ol", "pre", "br", "blockquote",
		"h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}
