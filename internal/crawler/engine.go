// Package crawler implements the BFS crawl engine and its scope policy.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/corpuskit/harvester/internal/metrics"
)

// Engine drives one crawl run: it owns the pending queue, the visited set,
// and the emitted-hash set, and pushes every dequeued task through
// fetch -> extract -> enrich -> dedup -> emit -> discover.
//
// All shared mutable state is scoped to the Engine instance, so concurrent
// runs (and tests) never interfere. The loop is strictly sequential: crawl
// politeness and deterministic dedup ordering matter more than throughput.
type Engine struct {
	limits  Limits
	delay   time.Duration
	fetcher Fetcher
	extract Extractor
	enrich  Enricher
	sink    Sink
	clock   Clock
	logger  *zap.Logger
	runID   string
	state   RunState
	queue   []CrawlTask
	visited map[string]struct{}
	emitted map[string]struct{}
	stats   RunStats
}

// ErrRunConsumed is returned when Run is called on an engine that already ran.
var ErrRunConsumed = errors.New("engine has already run")

// NewEngine validates the limits and constructs a ready engine. A validation
// failure here is the only way a run ends up ABORTED: bad configuration is
// surfaced before RUNNING ever starts.
func NewEngine(
	limits Limits,
	delay time.Duration,
	fetcher Fetcher,
	extractor Extractor,
	enricher Enricher,
	sink Sink,
	clock Clock,
	idGen IDGenerator,
	logger *zap.Logger,
) (*Engine, error) {
	e := &Engine{
		limits:  limits,
		delay:   delay,
		fetcher: fetcher,
		extract: extractor,
		enrich:  enricher,
		sink:    sink,
		clock:   clock,
		logger:  logger,
		state:   RunStateAborted,
		visited: make(map[string]struct{}),
		emitted: make(map[string]struct{}),
	}
	if err := validateLimits(limits); err != nil {
		return nil, err
	}
	runID, err := idGen.NewID()
	if err != nil {
		return nil, fmt.Errorf("generate run id: %w", err)
	}
	metrics.Init()
	e.runID = runID
	e.state = RunStateReady
	return e, nil
}

func validateLimits(limits Limits) error {
	if limits.AllowedDomain == "" {
		return errors.New("allowed domain must not be empty")
	}
	if limits.MaxPages <= 0 {
		return fmt.Errorf("max pages must be > 0, got %d", limits.MaxPages)
	}
	if limits.MaxDepth < 0 {
		return fmt.Errorf("max depth must be >= 0, got %d", limits.MaxDepth)
	}
	for _, allowed := range limits.AllowedPathPrefixes {
		for _, disallowed := range limits.DisallowedPathPrefixes {
			if disallowed != "" && pathHasPrefix(allowed, disallowed) {
				return fmt.Errorf(
					"allowed path prefix %q is nested under disallowed prefix %q",
					allowed, disallowed,
				)
			}
		}
	}
	return nil
}

// State reports the engine's lifecycle state.
func (e *Engine) State() RunState {
	return e.state
}

// RunID returns the unique identifier assigned to this run.
func (e *Engine) RunID() string {
	return e.runID
}

// Run executes the BFS crawl from the given seeds until the queue empties,
// the page cap is reached, or the context is canceled. Cancellation takes
// effect only at task boundaries, never mid-page.
func (e *Engine) Run(ctx context.Context, seeds []string) (RunStats, error) {
	if e.state != RunStateReady {
		return e.stats, ErrRunConsumed
	}
	if len(seeds) == 0 {
		e.state = RunStateAborted
		return e.stats, errors.New("no seed urls configured")
	}

	start := e.clock.Now()
	defer func() {
		e.stats.Duration = e.clock.Now().Sub(start)
	}()

	e.enqueueSeeds(seeds)
	e.state = RunStateRunning
	e.logger.Info("crawl started",
		zap.String("run_id", e.runID),
		zap.String("domain", e.limits.AllowedDomain),
		zap.Int("seeds", len(seeds)),
		zap.Int("max_pages", e.limits.MaxPages),
		zap.Int("max_depth", e.limits.MaxDepth),
	)

	for len(e.queue) > 0 && e.stats.PagesVisited < e.limits.MaxPages {
		if err := ctx.Err(); err != nil {
			e.state = RunStateCompleted
			return e.stats, err
		}
		task := e.queue[0]
		e.queue = e.queue[1:]
		metrics.SetQueueDepth(len(e.queue))

		if task.Depth > e.limits.MaxDepth {
			continue
		}
		if err := e.visit(ctx, task); err != nil {
			return e.stats, err
		}
	}

	e.state = RunStateCompleted
	e.logger.Info("crawl completed",
		zap.String("run_id", e.runID),
		zap.Int("pages_visited", e.stats.PagesVisited),
		zap.Int("fetch_errors", e.stats.FetchErrors),
		zap.Int("duplicates", e.stats.Duplicates),
		zap.Int("links_filtered", e.stats.LinksFiltered),
	)
	return e.stats, nil
}

// enqueueSeeds admits seed URLs at depth zero. Seeds pass the same scope
// filter as discovered links; out-of-scope seeds are logged and skipped.
func (e *Engine) enqueueSeeds(seeds []string) {
	for _, seed := range seeds {
		canonical, err := CanonicalizeURL(seed)
		if err != nil {
			e.logger.Warn("skipping unparsable seed", zap.String("url", seed), zap.Error(err))
			continue
		}
		if !AllowURL(canonical, e.limits) {
			e.logger.Warn("skipping out-of-scope seed", zap.String("url", canonical))
			continue
		}
		if _, seen := e.visited[canonical]; seen {
			continue
		}
		e.visited[canonical] = struct{}{}
		e.queue = append(e.queue, CrawlTask{URL: canonical, Depth: 0})
	}
}

// visit runs the per-task pipeline. Fetch failures are transient: they are
// logged, counted, and never abort the run. A sink failure is fatal and is
// returned to the caller.
func (e *Engine) visit(ctx context.Context, task CrawlTask) error {
	resp, err := e.fetcher.Fetch(ctx, task.URL)
	e.politenessPause(ctx)
	if err != nil {
		e.stats.FetchErrors++
		metrics.ObserveFetchError(fetchErrorKind(err))
		e.logger.Warn("fetch failed",
			zap.String("run_id", e.runID),
			zap.String("url", task.URL),
			zap.Int("depth", task.Depth),
			zap.Error(err),
		)
		return nil
	}
	metrics.ObserveFetch(resp.StatusCode, len(resp.Body), resp.Duration)

	page := e.extract.Extract(task.URL, resp.Body)
	fields := e.enrich.Enrich(page)

	if _, dup := e.emitted[fields.ContentHash]; dup {
		// Duplicate content: drop the document and its links. The links
		// from the first page with this content are already enqueued.
		e.stats.Duplicates++
		metrics.ObserveDuplicate()
		e.logger.Debug("duplicate content dropped",
			zap.String("url", task.URL),
			zap.String("content_hash", fields.ContentHash),
		)
		return nil
	}
	e.emitted[fields.ContentHash] = struct{}{}

	doc := e.assemble(task, page, fields)
	if err := e.sink.Emit(ctx, doc); err != nil {
		return fmt.Errorf("emit document for %s: %w", task.URL, err)
	}
	e.stats.PagesVisited++
	metrics.ObserveDocumentEmitted()
	e.logger.Info("page emitted",
		zap.String("run_id", e.runID),
		zap.String("url", task.URL),
		zap.Int("depth", task.Depth),
		zap.String("content_type", doc.ContentType),
		zap.Int("word_count", doc.WordCount),
	)

	e.discover(task, page.Links)
	return nil
}

// discover filters the page's links and enqueues the survivors at depth+1.
// Membership check and insertion into the visited set happen together,
// before enqueue, so a URL can never be enqueued twice.
func (e *Engine) discover(task CrawlTask, links []string) {
	for _, link := range links {
		e.stats.LinksSeen++
		canonical, err := CanonicalizeURL(link)
		if err != nil {
			e.stats.LinksFiltered++
			continue
		}
		if !AllowURL(canonical, e.limits) {
			e.stats.LinksFiltered++
			metrics.ObserveLinkFiltered()
			continue
		}
		if _, seen := e.visited[canonical]; seen {
			continue
		}
		e.visited[canonical] = struct{}{}
		e.queue = append(e.queue, CrawlTask{
			URL:       canonical,
			Depth:     task.Depth + 1,
			ParentURL: task.URL,
		})
	}
	metrics.SetQueueDepth(len(e.queue))
}

// assemble combines the task, extraction, and enrichment into a Document.
func (e *Engine) assemble(task CrawlTask, page ExtractedPage, fields EnrichedFields) Document {
	headings := page.Headings
	if headings == nil {
		headings = []Heading{}
	}
	tags := fields.TopicalTags
	if tags == nil {
		tags = []string{}
	}
	extra := fields.ExtraMetadata
	if extra == nil {
		extra = map[string]any{}
	}
	return Document{
		ID:                      fields.ContentHash,
		URL:                     task.URL,
		SourceDomain:            SourceDomain(task.URL),
		CrawlDepth:              task.Depth,
		ParentURL:               task.ParentURL,
		Title:                   page.Title,
		BodyText:                page.BodyText,
		ContentType:             page.ContentType,
		Language:                fields.Language,
		WordCount:               fields.WordCount,
		CharCount:               fields.CharCount,
		EstimatedReadingTimeMin: fields.ReadingTimeMin,
		Headings:                headings,
		NumHeadings:             len(headings),
		TopicalTags:             tags,
		ExtraMetadata:           extra,
		FetchedAt:               e.clock.Now(),
	}
}

// politenessPause waits the configured delay between requests, returning
// early if the context ends.
func (e *Engine) politenessPause(ctx context.Context) {
	if e.delay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(e.delay):
	}
}

func fetchErrorKind(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	return string(FetchErrNetwork)
}
