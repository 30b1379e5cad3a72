package extractor

// Heuristics holds the keyword tables and thresholds that steer extraction.
// They are injected configuration, not hard-coded branches, so they can be
// tuned and tested independently of the traversal logic.
type Heuristics struct {
	// ChromeTokens are substrings of class/id attributes that mark an
	// element as page chrome (navigation, footers, sidebars) rather than
	// content. Matching is case-insensitive.
	ChromeTokens []string

	// BoilerplateHeadings are heading texts dropped regardless of length,
	// compared case-insensitively and exactly.
	BoilerplateHeadings []string

	// MinHeadingLength is the minimum rune count for a heading to be
	// considered real content.
	MinHeadingLength int

	// NavLabelMaxLength bounds the all-caps nav-label heuristic: an
	// all-caps heading at or under this length is treated as a navigation
	// label and dropped.
	NavLabelMaxLength int

	// ContentTypeRules classify a page by keyword presence in its title
	// and headings. Rules are evaluated in order; the first hit wins and
	// DefaultContentType applies when none match.
	ContentTypeRules   []ContentTypeRule
	DefaultContentType string
}

// ContentTypeRule maps a coarse content-type label to its trigger keywords.
type ContentTypeRule struct {
	Label    string
	Keywords []string
}

// DefaultHeuristics returns the extraction defaults. The chrome token set
// and boilerplate phrases follow the structure of consumer-finance help
// sites, which this pipeline was originally tuned against.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		ChromeTokens: []string{
			"nav", "menu", "footer", "sidebar", "related", "breadcrumb",
		},
		BoilerplateHeadings: []string{
			"home", "search", "about", "about us", "contact", "contact us",
			"legal", "legal disclaimer", "more", "resources", "help",
		},
		MinHeadingLength:  8,
		NavLabelMaxLength: 12,
		ContentTypeRules: []ContentTypeRule{
			{Label: "qa", Keywords: []string{"faq", "q:", "frequently asked"}},
			{Label: "legal", Keywords: []string{"policy", "notice", "terms of", "privacy", "disclaimer"}},
		},
		DefaultContentType: "article",
	}
}
