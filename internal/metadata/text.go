package metadata

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[a-zA-Z/][^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// cleanTitle reduces markup and entities in a title to a single line of
// plain text.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !htmlTagRegex.MatchString(s) && !strings.Contains(s, "&") {
		return collapseWhitespace(s)
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return collapseWhitespace(html.UnescapeString(htmlTagRegex.ReplaceAllString(s, " ")))
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return collapseWhitespace(buf.String())
}

func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "br", "p", "div", "span", "li":
			buf.WriteString(" ")
		}
	}
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// cleanDescription converts an HTML description to Markdown. Plain text is
// returned trimmed.
func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !htmlTagRegex.MatchString(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return collapseWhitespace(htmlTagRegex.ReplaceAllString(s, " "))
	}
	return strings.TrimSpace(md)
}
