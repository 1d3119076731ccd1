// Package probe contains the executors behind the diagnostic engine: name
// resolution, connection timing, path tracing and stability sampling. Each
// executor is independently constructed and configured; Set bundles them
// behind the single capability surface the scheduler consumes.
package probe

import (
	"context"

	"github.com/jaxxstorm/netcheck/internal/model"
)

type Set struct {
	DNS       *DNSProbe
	HTTP      *HTTPProbe
	Trace     *TraceProbe
	Stability *StabilityProbe
}

func (s *Set) Resolve(ctx context.Context, host string) (*model.Resolution, error) {
	return s.DNS.Resolve(ctx, host)
}

func (s *Set) TimeConnection(ctx context.Context, url string) (*model.Transport, error) {
	return s.HTTP.TimeConnection(ctx, url)
}

func (s *Set) TracePath(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error) {
	return s.Trace.TracePath(ctx, host, targetAddr)
}

func (s *Set) SampleStability(ctx context.Context, host string, samples int) (*model.Stability, error) {
	return s.Stability.SampleStability(ctx, host, samples)
}
