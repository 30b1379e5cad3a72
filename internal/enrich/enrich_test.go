package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpuskit/harvester/internal/crawler"
	"github.com/corpuskit/harvester/internal/hash/sha256"
)

func newTestEnricher() *Enricher {
	return New(DefaultConfig(), sha256.New())
}

func enrichBody(body string) crawler.EnrichedFields {
	return newTestEnricher().Enrich(crawler.ExtractedPage{BodyText: body})
}

func TestEnrichCounts(t *testing.T) {
	fields := enrichBody("one two three four five")
	assert.Equal(t, 5, fields.WordCount)
	assert.Equal(t, len("one two three four five"), fields.CharCount)
}

func TestEnrichReadingTime(t *testing.T) {
	cases := []struct {
		name  string
		words int
		want  int
	}{
		{"empty page", 0, 0},
		{"one word rounds up", 1, 1},
		{"exactly one minute", 200, 1},
		{"just over one minute", 201, 2},
		{"several minutes", 999, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body := strings.TrimSpace(strings.Repeat("word ", tc.words))
			fields := enrichBody(body)
			require.Equal(t, tc.words, fields.WordCount)
			assert.Equal(t, tc.want, fields.ReadingTimeMin)
		})
	}
}

func TestEnrichLanguage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"english prose",
			"The fee is added to your balance and it will appear on the next statement.",
			"en",
		},
		{
			"no stopwords",
			"lorem ipsum dolor amet consectetur adipiscing elit eiusmod tempor incididunt",
			"unknown",
		},
		{"empty body", "", "unknown"},
		{
			"punctuation stripped before lookup",
			"The, fee. And! The? It; Was: all of the time",
			"en",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, enrichBody(tc.body).Language)
		})
	}
}

func TestEnrichTopicalTags(t *testing.T) {
	page := crawler.ExtractedPage{
		Title:    "Late fees explained",
		BodyText: "Your payment is past due. A hardship program may offer payment relief.",
	}
	fields := newTestEnricher().Enrich(page)

	// Tags come out in bucket order, one tag per bucket at most.
	assert.Equal(t, []string{"payments", "late_fees", "hardship", "fees"}, fields.TopicalTags)
}

func TestEnrichTopicalTagsMatchTitleOnly(t *testing.T) {
	page := crawler.ExtractedPage{
		Title:    "How to refinance a student loan",
		BodyText: "Nothing topical in here.",
	}
	fields := newTestEnricher().Enrich(page)
	assert.Equal(t, []string{"student_loans", "refinance"}, fields.TopicalTags)
}

func TestEnrichNoTags(t *testing.T) {
	fields := enrichBody("Completely unrelated gardening advice about tomato plants.")
	assert.Empty(t, fields.TopicalTags)
	assert.NotNil(t, fields.TopicalTags)
}

func TestEnrichContentHashNormalizesWhitespace(t *testing.T) {
	a := enrichBody("Some body text\nacross   lines")
	b := enrichBody("Some body text across lines")
	c := enrichBody("Entirely different body text")

	require.NotEmpty(t, a.ContentHash)
	assert.Equal(t, a.ContentHash, b.ContentHash,
		"formatting differences must not defeat dedup")
	assert.NotEqual(t, a.ContentHash, c.ContentHash)
	assert.Len(t, a.ContentHash, 64)
}

func TestEnrichExtraMetadataAlwaysPresent(t *testing.T) {
	fields := enrichBody("any text")
	assert.NotNil(t, fields.ExtraMetadata)
	assert.Empty(t, fields.ExtraMetadata)
}

func TestNewDefaultsZeroWordsPerMinute(t *testing.T) {
	e := New(Config{Stopwords: DefaultStopwords()}, sha256.New())
	fields := e.Enrich(crawler.ExtractedPage{BodyText: "just a few words here"})
	assert.Equal(t, 1, fields.ReadingTimeMin)
}
