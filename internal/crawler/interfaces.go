package crawler

import (
	"context"
	"time"
)

// Fetcher fetches a single URL and returns the body plus metadata.
// Implementations map transport failures and non-200 responses to *FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResponse, error)
}

// Extractor turns raw HTML into a cleaned ExtractedPage. Malformed HTML must
// degrade to a best-effort page, never an error: partial content is more
// useful than aborting a crawl.
type Extractor interface {
	Extract(pageURL string, body []byte) ExtractedPage
}

// Enricher derives heuristic metadata from an ExtractedPage. It must be
// deterministic and side-effect-free.
type Enricher interface {
	Enrich(page ExtractedPage) EnrichedFields
}

// Sink accepts finished documents for persistence. A sink error is fatal to
// the run and is surfaced to the caller, not retried.
type Sink interface {
	Emit(ctx context.Context, doc Document) error
	Close() error
}

// Hasher computes digests for deduplication.
type Hasher interface {
	Hash(data []byte) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
