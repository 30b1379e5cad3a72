// Package collyfetcher implements the crawl engine's Fetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/corpuskit/harvester/internal/crawler"
)

// Config controls collector behavior.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int
}

// Fetcher implements crawler.Fetcher using the Colly collector. It performs
// single-URL fetches only; traversal order belongs to the engine.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET. Non-2xx responses, timeouts, and
// transport failures are returned as *crawler.FetchError so the engine can
// treat them as skip-and-continue.
func (f *Fetcher) Fetch(ctx context.Context, url string) (crawler.FetchResponse, error) {
	var (
		result     crawler.FetchResponse
		statusCode int
		fetchErr   error
	)
	start := time.Now()

	collector := f.baseCollector.Clone()
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collector.SetRequestTimeout(timeout)
	if f.cfg.MaxBodyBytes > 0 {
		collector.MaxBodySize = f.cfg.MaxBodyBytes
	}

	collector.OnResponse(func(r *colly.Response) {
		result = crawler.FetchResponse{
			URL:         r.Request.URL.String(),
			StatusCode:  r.StatusCode,
			ContentType: r.Headers.Get("Content-Type"),
			Body:        append([]byte(nil), r.Body...),
			Duration:    time.Since(start),
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return crawler.FetchResponse{}, &crawler.FetchError{
			Kind: crawler.FetchErrNetwork,
			URL:  url,
			Err:  ctx.Err(),
		}
	case err := <-done:
		if err == nil {
			err = fetchErr
		}
		if err != nil {
			return crawler.FetchResponse{}, classifyError(url, statusCode, err)
		}
		return result, nil
	}
}

// classifyError maps a colly failure to the engine's error taxonomy.
func classifyError(url string, statusCode int, err error) *crawler.FetchError {
	if statusCode != 0 && (statusCode < 200 || statusCode >= 300) {
		return &crawler.FetchError{
			Kind:       crawler.FetchErrNon200,
			URL:        url,
			StatusCode: statusCode,
			Err:        err,
		}
	}
	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return &crawler.FetchError{Kind: crawler.FetchErrTimeout, URL: url, Err: err}
	}
	return &crawler.FetchError{Kind: crawler.FetchErrNetwork, URL: url, Err: err}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
