package extract

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor strips markup from HTML documents, such as e-ticket or
// invoice pages saved from a browser.
type HTMLExtractor struct{}

// NewHTMLExtractor creates an HTML extractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Supports reports whether the media type is HTML.
func (e *HTMLExtractor) Supports(mimeType string) bool {
	return mimeType == "text/html" || strings.HasPrefix(mimeType, "text/html;")
}

// Extract walks the parse tree and collects visible text nodes.
func (e *HTMLExtractor) Extract(filename string, data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML %s: %w", filename, err)
	}

	var b strings.Builder
	collectText(doc, &b)

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", nil
	}
	return fmt.Sprintf("[HTML Content from %s]\n%s", filename, text), nil
}

func collectText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
		return
	}
	if n.Type == html.TextNode {
		if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
			b.WriteString(trimmed)
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}
}
