package probe

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jaxxstorm/netcheck/internal/model"
)

const defaultUserAgent = "netcheck/1.0"

type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *zap.Logger
}

// HTTPProbe times one HTTP(S) request end to end, following redirects, and
// reports cumulative per-phase latencies plus status and throughput.
type HTTPProbe struct {
	opts   HTTPOptions
	client *http.Client
}

func NewHTTPProbe(opts HTTPOptions) *HTTPProbe {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &HTTPProbe{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
				// Fresh connections per run so the phase timings are real.
				DisableKeepAlives: true,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// timings records elapsed-since-start marks from httptrace callbacks. The
// first connection establishes dns/connect/tls; the first byte mark tracks
// the latest request in a redirect chain, matching cumulative semantics.
type timings struct {
	mu      sync.Mutex
	start   time.Time
	dns     float64
	connect float64
	tlsDone float64
	ttfb    float64
}

func (t *timings) mark(field *float64, firstOnly bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if firstOnly && *field != 0 {
		return
	}
	*field = float64(time.Since(t.start).Microseconds()) / 1000
}

func (p *HTTPProbe) TimeConnection(ctx context.Context, url string) (*model.Transport, error) {
	marks := &timings{start: time.Now()}
	trace := &httptrace.ClientTrace{
		DNSDone: func(httptrace.DNSDoneInfo) {
			marks.mark(&marks.dns, true)
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				marks.mark(&marks.connect, true)
			}
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				marks.mark(&marks.tlsDone, true)
			}
		},
		GotFirstResponseByte: func() {
			marks.mark(&marks.ttfb, false)
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bytes, err := io.Copy(io.Discard, resp.Body)
	if err != nil {
		p.opts.Logger.Debug("body read truncated", zap.String("url", url), zap.Error(err))
	}

	total := float64(time.Since(marks.start).Microseconds()) / 1000

	marks.mu.Lock()
	result := &model.Transport{
		DNSTimeMs:     marks.dns,
		ConnectTimeMs: marks.connect,
		TLSTimeMs:     marks.tlsDone,
		TTFBMs:        marks.ttfb,
		TotalTimeMs:   total,
		StatusCode:    resp.StatusCode,
	}
	marks.mu.Unlock()

	// A plain-http request has no TLS phase; pin the cumulative mark to the
	// connect mark so derived durations stay non-negative.
	if result.TLSTimeMs == 0 {
		result.TLSTimeMs = result.ConnectTimeMs
	}

	if total > 0 {
		result.DownloadKBps = float64(bytes) / (total / 1000) / 1024
	}

	return result, nil
}
