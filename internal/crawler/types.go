// Package crawler defines core types shared across subsystems.
package crawler

import (
	"fmt"
	"time"
)

// RunState represents the lifecycle state of a single crawl run.
type RunState string

// Run state values reported by the engine.
const (
	RunStateReady     RunState = "ready"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateAborted   RunState = "aborted"
)

// CrawlTask is a single unit of pending work: one URL at a known depth.
// Tasks are created when a link passes filtering and are consumed exactly
// once when dequeued.
type CrawlTask struct {
	URL       string
	Depth     int
	ParentURL string
}

// Limits is the read-only resource policy for one run. Violating a limit
// prevents enqueue or emission; it is never a hard error.
type Limits struct {
	AllowedDomain          string
	AllowedPathPrefixes    []string
	DisallowedPathPrefixes []string
	MaxPages               int
	MaxDepth               int
}

// Heading is one retained document heading with its level (1-6).
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ExtractedPage is the cleaned view of one fetched page. It is produced
// once per successful fetch and never mutated afterward.
type ExtractedPage struct {
	Title       string
	BodyText    string
	Headings    []Heading
	ContentType string

	// Links holds every hyperlink of the page resolved to absolute form.
	// They come from the full document, before chrome removal, so that
	// navigation links still drive traversal.
	Links []string
}

// EnrichedFields are heuristic signals derived purely from an ExtractedPage.
type EnrichedFields struct {
	Language       string
	WordCount      int
	CharCount      int
	ReadingTimeMin int
	TopicalTags    []string
	ContentHash    string
	ExtraMetadata  map[string]any
}

// Document is the final output unit: one normalized record per unique page.
// No field is optional; absent heuristics populate typed defaults rather
// than omitting the key, and slices/maps are always non-nil so JSON output
// never contains null.
type Document struct {
	ID                      string         `json:"id"`
	URL                     string         `json:"url"`
	SourceDomain            string         `json:"source_domain"`
	CrawlDepth              int            `json:"crawl_depth"`
	ParentURL               string         `json:"parent_url"`
	Title                   string         `json:"title"`
	BodyText                string         `json:"body_text"`
	ContentType             string         `json:"content_type"`
	Language                string         `json:"language"`
	WordCount               int            `json:"word_count"`
	CharCount               int            `json:"char_count"`
	EstimatedReadingTimeMin int            `json:"estimated_reading_time_min"`
	Headings                []Heading      `json:"headings"`
	NumHeadings             int            `json:"num_headings"`
	TopicalTags             []string       `json:"topical_tags"`
	ExtraMetadata           map[string]any `json:"extra_metadata"`
	FetchedAt               time.Time      `json:"fetched_at"`
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Duration    time.Duration
}

// FetchErrorKind classifies a fetch failure.
type FetchErrorKind string

// Fetch failure kinds. All of them are transient from the engine's point
// of view: the task is dropped and the run continues.
const (
	FetchErrTimeout FetchErrorKind = "timeout"
	FetchErrNon200  FetchErrorKind = "non_200"
	FetchErrNetwork FetchErrorKind = "network"
)

// FetchError describes a failed fetch attempt.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchErrNon200 {
		return fmt.Sprintf("fetch %s: http status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Kind, e.Err)
}

// Unwrap exposes the underlying transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// RunStats aggregates counters for one crawl run.
type RunStats struct {
	PagesVisited  int
	FetchErrors   int
	Duplicates    int
	LinksSeen     int
	LinksFiltered int
	Duration      time.Duration
}
