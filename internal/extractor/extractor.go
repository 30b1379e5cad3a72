// Package extractor turns raw HTML into cleaned page content using goquery.
package extractor

import (
	"bytes"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/corpuskit/harvester/internal/crawler"
)

// blockTags are the elements treated as line boundaries when flattening the
// document into body text.
var blockTags = map[string]struct{}{
	"address": {}, "article": {}, "aside": {}, "blockquote": {}, "br": {},
	"dd": {}, "div": {}, "dl": {}, "dt": {}, "fieldset": {}, "figcaption": {},
	"figure": {}, "footer": {}, "form": {}, "h1": {}, "h2": {}, "h3": {},
	"h4": {}, "h5": {}, "h6": {}, "header": {}, "hr": {}, "li": {}, "main": {},
	"nav": {}, "ol": {}, "p": {}, "pre": {}, "section": {}, "table": {},
	"td": {}, "th": {}, "tr": {}, "ul": {},
}

// skippedLinkPrefixes are href schemes that never produce crawl tasks.
var skippedLinkPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// Extractor implements crawler.Extractor on top of goquery.
type Extractor struct {
	heuristics Heuristics
}

// New constructs an Extractor with the given heuristics.
func New(heuristics Heuristics) *Extractor {
	return &Extractor{heuristics: heuristics}
}

// Extract parses the page and returns its cleaned content. It never fails:
// malformed HTML degrades to a best-effort page with whatever title and text
// could be recovered, because partial content must not abort a crawl.
func (e *Extractor) Extract(pageURL string, body []byte) crawler.ExtractedPage {
	page := crawler.ExtractedPage{
		Headings:    []crawler.Heading{},
		Links:       []string{},
		ContentType: e.heuristics.DefaultContentType,
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return page
	}

	// Links come from the full document, before chrome removal, so
	// navigation links still drive traversal.
	page.Links = e.collectLinks(doc, pageURL)

	doc.Find("script, style, noscript").Remove()

	page.Title = extractTitle(doc)

	e.removeChrome(doc)

	page.Headings = e.collectHeadings(doc)
	page.BodyText = extractBodyText(doc)
	page.ContentType = e.classify(page.Title, page.Headings)

	return page
}

// collectLinks returns every <a href> of the document resolved against the
// page URL. Unresolvable and non-navigational hrefs are skipped.
func (e *Extractor) collectLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		base = nil
	}
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" {
			return
		}
		for _, prefix := range skippedLinkPrefixes {
			if strings.HasPrefix(href, prefix) {
				return
			}
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if !ref.IsAbs() {
			return
		}
		links = append(links, ref.String())
	})
	return links
}

// removeChrome drops every element whose class or id contains one of the
// configured chrome tokens. These are structurally assumed to be navigation,
// not content.
func (e *Extractor) removeChrome(doc *goquery.Document) {
	doc.Find("[class], [id]").Each(func(_ int, sel *goquery.Selection) {
		attrs := strings.ToLower(sel.AttrOr("class", "") + " " + sel.AttrOr("id", ""))
		for _, token := range e.heuristics.ChromeTokens {
			if strings.Contains(attrs, token) {
				sel.Remove()
				return
			}
		}
	})
}

// extractTitle prefers the first non-empty <title>, then the first <h1>.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return collapseWhitespace(title)
	}
	return collapseWhitespace(strings.TrimSpace(doc.Find("h1").First().Text()))
}

// collectHeadings gathers h1-h6 remaining after chrome removal, dropping
// short headings, configured boilerplate phrases, and all-caps nav labels.
func (e *Extractor) collectHeadings(doc *goquery.Document) []crawler.Heading {
	headings := []crawler.Heading{}
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		text := collapseWhitespace(strings.TrimSpace(sel.Text()))
		if text == "" {
			return
		}
		if utf8.RuneCountInString(text) <= e.heuristics.MinHeadingLength {
			return
		}
		if e.isBoilerplateHeading(text) {
			return
		}
		if e.isNavLabel(text) {
			return
		}
		headings = append(headings, crawler.Heading{
			Level: headingLevel(goquery.NodeName(sel)),
			Text:  text,
		})
	})
	return headings
}

func (e *Extractor) isBoilerplateHeading(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range e.heuristics.BoilerplateHeadings {
		if lower == strings.ToLower(phrase) {
			return true
		}
	}
	return false
}

// isNavLabel treats short all-caps headings ("PRODUCTS", "MENU") as
// navigation labels. A heading counts as all-caps when it contains letters
// and none of them are lowercase.
func (e *Extractor) isNavLabel(text string) bool {
	if utf8.RuneCountInString(text) > e.heuristics.NavLabelMaxLength {
		return false
	}
	hasLetter := false
	for _, r := range text {
		if unicode.IsLetter(r) {
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		}
	}
	return hasLetter
}

func headingLevel(nodeName string) int {
	if len(nodeName) == 2 && nodeName[0] == 'h' {
		return int(nodeName[1] - '0')
	}
	return 0
}

// extractBodyText flattens the document body into plain text: text nodes in
// document order, block elements as line boundaries, whitespace collapsed
// per line, empty lines dropped.
func extractBodyText(doc *goquery.Document) string {
	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	var builder strings.Builder
	for _, node := range root.Nodes {
		flattenNode(&builder, node)
	}

	lines := []string{}
	for _, line := range strings.Split(builder.String(), "\n") {
		if cleaned := collapseWhitespace(strings.TrimSpace(line)); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return strings.Join(lines, "\n")
}

func flattenNode(builder *strings.Builder, node *html.Node) {
	switch node.Type {
	case html.TextNode:
		builder.WriteString(node.Data)
	case html.ElementNode:
		_, block := blockTags[node.Data]
		if block {
			builder.WriteByte('\n')
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			flattenNode(builder, child)
		}
		if block {
			builder.WriteByte('\n')
		}
	default:
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			flattenNode(builder, child)
		}
	}
}

// classify labels the page by keyword presence in title and heading text.
// Rules are checked in order; the first hit wins.
func (e *Extractor) classify(title string, headings []crawler.Heading) string {
	var haystack strings.Builder
	haystack.WriteString(strings.ToLower(title))
	for _, h := range headings {
		haystack.WriteByte('\n')
		haystack.WriteString(strings.ToLower(h.Text))
	}
	text := haystack.String()

	for _, rule := range e.heuristics.ContentTypeRules {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
				return rule.Label
			}
		}
	}
	return e.heuristics.DefaultContentType
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
