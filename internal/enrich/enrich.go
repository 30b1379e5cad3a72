// Package enrich derives heuristic metadata from extracted page content.
package enrich

import (
	"strings"

	"github.com/corpuskit/harvester/internal/crawler"
)

// Config holds the enrichment tuning knobs. All values have documented
// defaults; see DefaultConfig.
type Config struct {
	// ReadingWordsPerMinute divides word count into reading minutes.
	ReadingWordsPerMinute int

	// StopwordRatioThreshold is the minimum fraction of tokens that must
	// be English stopwords for the page to be labeled "en".
	StopwordRatioThreshold float64

	Stopwords    map[string]struct{}
	TopicBuckets []TopicBucket
}

// DefaultConfig returns the enrichment defaults: 200 words per minute and a
// stopword-ratio cutoff of 0.18.
func DefaultConfig() Config {
	return Config{
		ReadingWordsPerMinute:  200,
		StopwordRatioThreshold: 0.18,
		Stopwords:              DefaultStopwords(),
		TopicBuckets:           DefaultTopicBuckets(),
	}
}

// Enricher implements crawler.Enricher. It is pure: every field is derived
// deterministically from the ExtractedPage with no side effects.
type Enricher struct {
	cfg    Config
	hasher crawler.Hasher
}

// New constructs an Enricher. The hasher provides the content digest used
// both as document ID and dedup key.
func New(cfg Config, hasher crawler.Hasher) *Enricher {
	if cfg.ReadingWordsPerMinute <= 0 {
		cfg.ReadingWordsPerMinute = 200
	}
	return &Enricher{cfg: cfg, hasher: hasher}
}

// Enrich computes all heuristic fields for one page.
func (e *Enricher) Enrich(page crawler.ExtractedPage) crawler.EnrichedFields {
	tokens := strings.Fields(page.BodyText)

	fields := crawler.EnrichedFields{
		WordCount:     len(tokens),
		CharCount:     len(page.BodyText),
		Language:      e.detectLanguage(tokens),
		TopicalTags:   e.topicalTags(page.Title, page.BodyText),
		ContentHash:   e.contentHash(page.BodyText),
		ExtraMetadata: map[string]any{},
	}
	fields.ReadingTimeMin = readingTime(fields.WordCount, e.cfg.ReadingWordsPerMinute)
	return fields
}

// readingTime is ceil(words/wpm), with a minimum of one minute for any
// non-empty page.
func readingTime(wordCount, wpm int) int {
	if wordCount == 0 {
		return 0
	}
	minutes := (wordCount + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// detectLanguage labels the page "en" when enough of its tokens are English
// stopwords, "unknown" otherwise.
func (e *Enricher) detectLanguage(tokens []string) string {
	if len(tokens) == 0 {
		return "unknown"
	}
	hits := 0
	for _, token := range tokens {
		word := strings.Trim(strings.ToLower(token), ".,;:!?\"'()[]")
		if _, ok := e.cfg.Stopwords[word]; ok {
			hits++
		}
	}
	if float64(hits)/float64(len(tokens)) >= e.cfg.StopwordRatioThreshold {
		return "en"
	}
	return "unknown"
}

// topicalTags includes a bucket's tag when any of its keywords appears in
// the title or body. Bucket order is preserved; duplicates are impossible
// by construction.
func (e *Enricher) topicalTags(title, body string) []string {
	text := strings.ToLower(title + "\n" + body)
	tags := []string{}
	for _, bucket := range e.cfg.TopicBuckets {
		for _, keyword := range bucket.Keywords {
			if keyword != "" && strings.Contains(text, keyword) {
				tags = append(tags, bucket.Tag)
				break
			}
		}
	}
	return tags
}

// contentHash digests the whitespace-normalized body text, so formatting
// differences never defeat dedup.
func (e *Enricher) contentHash(body string) string {
	normalized := strings.Join(strings.Fields(body), " ")
	digest, err := e.hasher.Hash([]byte(normalized))
	if err != nil {
		return ""
	}
	return digest
}
