package scrape

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// extractNodeBySelector finds the first element matching a simple selector:
// "#id", ".class" or a tag name
func extractNodeBySelector(doc *html.Node, selector string) (*html.Node, error) {
	var match func(*html.Node) bool
	var kind, value string
	switch {
	case strings.HasPrefix(selector, "#"):
		kind, value = "id", strings.TrimPrefix(selector, "#")
		match = func(n *html.Node) bool { return attr(n, "id") == value }
	case strings.HasPrefix(selector, "."):
		kind, value = "class", strings.TrimPrefix(selector, ".")
		match = func(n *html.Node) bool { return slices.Contains(strings.Fields(attr(n, "class")), value) }
	default:
		kind, value = "tag", selector
		match = func(n *html.Node) bool { return n.Data == value }
	}
	if node := findElement(doc, match); node != nil {
		return node, nil
	}
	return nil, fmt.Errorf("element with %s '%s' not found", kind, value)
}

// findElement returns the first element node in document order accepted by match
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, match); result != nil {
			return result
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// extractTitle extracts the title from the HTML document
func extractTitle(doc *html.Node) string {
	n := findElement(doc, func(n *html.Node) bool { return n.Data == "title" })
	if n != nil && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
		return strings.TrimSpace(n.FirstChild.Data)
	}
	return ""
}

// extractMeta returns the content of the first <meta name="..."> with a non empty content
func extractMeta(doc *html.Node, name string) string {
	n := findElement(doc, func(n *html.Node) bool {
		return n.Data == "meta" && strings.EqualFold(attr(n, "name"), name) && attr(n, "content") != ""
	})
	if n == nil {
		return ""
	}
	return attr(n, "content")
}

func extractMetaDescription(doc *html.Node) string {
	return extractMeta(doc, "description")
}

// extractMetaKeywords splits the meta keywords by comma
func extractMetaKeywords(doc *html.Node) []string {
	var keywords []string
	for _, keyword := range strings.Split(extractMeta(doc, "keywords"), ",") {
		if trimmed := strings.TrimSpace(keyword); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
