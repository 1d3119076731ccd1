package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func tlsProbe(ts *httptest.Server) *HTTPProbe {
	return &HTTPProbe{
		opts:   HTTPOptions{Timeout: 5 * time.Second, UserAgent: defaultUserAgent},
		client: ts.Client(),
	}
}

func TestTimeConnectionTimingsAreCumulative(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 16*1024))
	}))
	defer ts.Close()

	result, err := tlsProbe(ts).TimeConnection(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if result.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", result.StatusCode)
	}
	if result.ConnectTimeMs <= 0 {
		t.Fatalf("expected positive connect time, got %f", result.ConnectTimeMs)
	}
	if result.TLSTimeMs < result.ConnectTimeMs {
		t.Fatalf("tls mark %f before connect mark %f", result.TLSTimeMs, result.ConnectTimeMs)
	}
	if result.TTFBMs < result.TLSTimeMs {
		t.Fatalf("first byte mark %f before tls mark %f", result.TTFBMs, result.TLSTimeMs)
	}
	if result.TotalTimeMs < result.TTFBMs {
		t.Fatalf("total %f below first byte mark %f", result.TotalTimeMs, result.TTFBMs)
	}
	if result.DownloadKBps <= 0 {
		t.Fatalf("expected positive throughput, got %f", result.DownloadKBps)
	}
}

func TestTimeConnectionReportsServerError(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	result, err := tlsProbe(ts).TimeConnection(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("an error response is still a response: %v", err)
	}
	if result.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", result.StatusCode)
	}
}

func TestTimeConnectionUnreachableIsError(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	probe := tlsProbe(ts)
	ts.Close()

	if _, err := probe.TimeConnection(context.Background(), url); err == nil {
		t.Fatalf("expected error for unreachable target")
	}
}

func TestPlainHTTPPinsTLSMarkToConnect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	probe := NewHTTPProbe(HTTPOptions{Timeout: 5 * time.Second})
	result, err := probe.TimeConnection(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if result.TLSTimeMs != result.ConnectTimeMs {
		t.Fatalf("expected tls mark pinned to connect mark, got %f vs %f", result.TLSTimeMs, result.ConnectTimeMs)
	}
}
