package probe

import (
	"context"
	"errors"

	"github.com/jaxxstorm/netcheck/internal/model"
)

// Mock satisfies the scheduler's prober interface with canned responders.
// Unset responders fail, which the scheduler treats as an absent outcome.
type Mock struct {
	ResolveFunc         func(ctx context.Context, host string) (*model.Resolution, error)
	TimeConnectionFunc  func(ctx context.Context, url string) (*model.Transport, error)
	TracePathFunc       func(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error)
	SampleStabilityFunc func(ctx context.Context, host string, samples int) (*model.Stability, error)
}

var errNoResponder = errors.New("no responder configured")

func (m *Mock) Resolve(ctx context.Context, host string) (*model.Resolution, error) {
	if m.ResolveFunc == nil {
		return nil, errNoResponder
	}
	return m.ResolveFunc(ctx, host)
}

func (m *Mock) TimeConnection(ctx context.Context, url string) (*model.Transport, error) {
	if m.TimeConnectionFunc == nil {
		return nil, errNoResponder
	}
	return m.TimeConnectionFunc(ctx, url)
}

func (m *Mock) TracePath(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error) {
	if m.TracePathFunc == nil {
		return nil, errNoResponder
	}
	return m.TracePathFunc(ctx, host, targetAddr)
}

func (m *Mock) SampleStability(ctx context.Context, host string, samples int) (*model.Stability, error) {
	if m.SampleStabilityFunc == nil {
		return nil, errNoResponder
	}
	return m.SampleStabilityFunc(ctx, host, samples)
}
