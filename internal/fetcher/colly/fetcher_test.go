package collyfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/corpuskit/harvester/internal/crawler"
)

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer srv.Close()

	f := New(Config{UserAgent: "harvester-test", Timeout: 5 * time.Second})
	resp, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "hello") {
		t.Fatalf("unexpected body %q", resp.Body)
	}
	if !strings.HasPrefix(resp.ContentType, "text/html") {
		t.Fatalf("content type = %q, want text/html", resp.ContentType)
	}
	if resp.Duration <= 0 {
		t.Fatal("expected a positive fetch duration")
	}
}

func TestFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(Config{Timeout: 5 * time.Second})
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected an error for a 404 response")
	}
	var fe *crawler.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *crawler.FetchError, got %T", err)
	}
	if fe.Kind != crawler.FetchErrNon200 {
		t.Fatalf("kind = %q, want %q", fe.Kind, crawler.FetchErrNon200)
	}
	if fe.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", fe.StatusCode)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too late"))
	}))
	defer srv.Close()

	f := New(Config{Timeout: 10 * time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := f.Fetch(ctx, srv.URL)
	var fe *crawler.FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *crawler.FetchError, got %v", err)
	}
	if fe.Kind != crawler.FetchErrNetwork {
		t.Fatalf("kind = %q, want %q", fe.Kind, crawler.FetchErrNetwork)
	}
}

type fakeTimeoutError struct{}

func (fakeTimeoutError) Error() string   { return "i/o timeout" }
func (fakeTimeoutError) Timeout() bool   { return true }
func (fakeTimeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name       string
		statusCode int
		err        error
		want       crawler.FetchErrorKind
	}{
		{"http status", 500, errors.New("internal server error"), crawler.FetchErrNon200},
		{"net timeout", 0, fakeTimeoutError{}, crawler.FetchErrTimeout},
		{"deadline exceeded", 0, context.DeadlineExceeded, crawler.FetchErrTimeout},
		{"connection refused", 0, errors.New("connection refused"), crawler.FetchErrNetwork},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fe := classifyError("https://example.org/", tc.statusCode, tc.err)
			if fe.Kind != tc.want {
				t.Fatalf("kind = %q, want %q", fe.Kind, tc.want)
			}
		})
	}
}
