// Package htmltext cleans vendor HTML and parses loosely formatted
// salary strings. Every source adapter funnels description markup
// through Sanitize before a job record is stored.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Tags removed together with their subtrees
var blockedTags = []string{
	"script", "style", "iframe", "form", "input", "button",
	"textarea", "select", "object", "embed", "applet", "noscript",
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Sanitize reduces arbitrary vendor HTML to markup safe to embed in a
// detail view: blocked tags and comments are removed, all attributes are
// stripped except href on links and src/alt on images, and surviving
// links open in a new tab. Falls back to a regex tag strip when the
// input cannot be parsed.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return tagPattern.ReplaceAllString(raw, "")
	}

	for _, tag := range blockedTags {
		doc.Find(tag).Remove()
	}

	body := doc.Find("body")
	for _, node := range body.Nodes {
		removeComments(node)
	}

	body.Find("*").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Nodes[0]
		switch node.Data {
		case "a":
			href, ok := sel.Attr("href")
			node.Attr = nil
			if ok && href != "" {
				node.Attr = []html.Attribute{
					{Key: "href", Val: href},
					{Key: "target", Val: "_blank"},
					{Key: "rel", Val: "noopener noreferrer"},
				}
			}
		case "img":
			src, hasSrc := sel.Attr("src")
			alt, hasAlt := sel.Attr("alt")
			node.Attr = nil
			if hasSrc {
				node.Attr = append(node.Attr, html.Attribute{Key: "src", Val: src})
			}
			if hasAlt {
				node.Attr = append(node.Attr, html.Attribute{Key: "alt", Val: alt})
			}
		default:
			node.Attr = nil
		}
	})

	out, err := body.Html()
	if err != nil {
		return tagPattern.ReplaceAllString(raw, "")
	}
	return strings.TrimSpace(out)
}

// StripTags returns only the text content of the input, joined by single spaces
func StripTags(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.TrimSpace(tagPattern.ReplaceAllString(raw, ""))
	}

	for _, tag := range blockedTags {
		doc.Find(tag).Remove()
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

func removeComments(node *html.Node) {
	child := node.FirstChild
	for child != nil {
		next := child.NextSibling
		if child.Type == html.CommentNode {
			node.RemoveChild(child)
		} else {
			removeComments(child)
		}
		child = next
	}
}
