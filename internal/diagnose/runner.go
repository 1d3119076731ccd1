// Package diagnose drives the probe battery for one target: a sequential
// resolution phase, then a parallel fan-out of the remaining probes, each
// under its own timeout. Probe failures degrade to absent outcomes; the run
// itself only fails when no hostname can be extracted from the target.
package diagnose

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jaxxstorm/netcheck/internal/analyze"
	"github.com/jaxxstorm/netcheck/internal/model"
)

// Prober is the capability set the scheduler drives. Implementations may
// block and may fail; the scheduler bounds every call.
type Prober interface {
	Resolve(ctx context.Context, host string) (*model.Resolution, error)
	TimeConnection(ctx context.Context, url string) (*model.Transport, error)
	TracePath(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error)
	SampleStability(ctx context.Context, host string, samples int) (*model.Stability, error)
}

// Progress receives step transitions. Delivery is fire and forget; a
// panicking sink never affects the run.
type Progress func(step string, status model.StepStatus, message string)

// ErrTimeout marks a probe whose bounded wait elapsed before it returned.
var ErrTimeout = errors.New("probe timed out")

const timestampLayout = "2006-01-02 15:04:05 UTC"

type Config struct {
	ResolveTimeout time.Duration
	ProbeTimeout   time.Duration
	SampleCount    int
	Logger         *zap.Logger
	Progress       Progress
}

type Runner struct {
	prober Prober
	config Config
}

func NewRunner(prober Prober, cfg Config) *Runner {
	if cfg.ResolveTimeout == 0 {
		cfg.ResolveTimeout = 10 * time.Second
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = 30 * time.Second
	}
	if cfg.SampleCount == 0 {
		cfg.SampleCount = 10
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Runner{prober: prober, config: cfg}
}

// Run executes both phases against the target and returns the assembled
// report. A single attempt is made per probe; there are no retries.
func (r *Runner) Run(ctx context.Context, target string) (model.Report, error) {
	host, url, err := SplitTarget(target)
	if err != nil {
		return model.Report{}, fmt.Errorf("invalid target %q: %w", target, err)
	}

	// The full step vocabulary goes out before anything runs so consumers
	// can render a fixed step list from the first event.
	for _, step := range model.AllSteps {
		r.emit(step, model.StepPending, "waiting")
	}

	// Phase 1: resolution gates the rest; its first address feeds the
	// path trace.
	r.emit(model.StepResolution, model.StepRunning, "resolving "+host)
	resolution := r.resolve(ctx, host)

	targetAddr := ""
	if resolution != nil && len(resolution.Addresses) > 0 {
		targetAddr = resolution.Addresses[0]
	}

	r.emit(model.StepTransport, model.StepRunning, "timing connection")
	r.emit(model.StepPath, model.StepRunning, "tracing route")
	r.emit(model.StepStability, model.StepRunning, "sampling connection stability")

	// Phase 2: three independent probes, each under its own deadline. Every
	// snapshot slot has exactly one writer and is read only after Wait.
	snapshot := model.Snapshot{Resolution: resolution}

	group := &errgroup.Group{}
	group.Go(func() error {
		snapshot.Transport = r.timeConnection(ctx, url)
		return nil
	})
	group.Go(func() error {
		snapshot.Path = r.tracePath(ctx, host, targetAddr)
		return nil
	})
	group.Go(func() error {
		snapshot.Stability = r.sampleStability(ctx, host)
		return nil
	})
	group.Wait()

	analysis := analyze.Run(snapshot)

	r.config.Logger.Info("diagnostic complete",
		zap.String("target", url),
		zap.Int("score", analysis.Score),
		zap.String("status", string(analysis.Status)),
		zap.Int("issues", len(analysis.Issues)),
	)

	return model.Report{
		ID:              uuid.NewString(),
		Target:          url,
		GeneratedAt:     time.Now().UTC().Format(timestampLayout),
		Resolution:      snapshot.Resolution,
		Transport:       snapshot.Transport,
		Path:            snapshot.Path,
		Stability:       snapshot.Stability,
		Status:          analysis.Status,
		Issues:          analysis.Issues,
		Recommendations: analysis.Recommendations,
	}, nil
}

func (r *Runner) resolve(ctx context.Context, host string) *model.Resolution {
	result, err := bounded(ctx, r.config.ResolveTimeout, func(ctx context.Context) (*model.Resolution, error) {
		return r.prober.Resolve(ctx, host)
	})
	if err != nil {
		r.emit(model.StepResolution, model.StepError, failureMessage(err, r.config.ResolveTimeout))
		return nil
	}

	status := model.StepSuccess
	switch {
	case len(result.Addresses) == 0:
		status = model.StepError
	case result.LookupTimeMs > 200:
		status = model.StepWarning
	}
	r.emit(model.StepResolution, status,
		fmt.Sprintf("resolved %d addresses in %.0fms", len(result.Addresses), result.LookupTimeMs))
	return result
}

func (r *Runner) timeConnection(ctx context.Context, url string) *model.Transport {
	result, err := bounded(ctx, r.config.ProbeTimeout, func(ctx context.Context) (*model.Transport, error) {
		return r.prober.TimeConnection(ctx, url)
	})
	if err != nil {
		message := failureMessage(err, r.config.ProbeTimeout)
		r.emit(model.StepTransport, model.StepError, message)
		r.emit(model.StepSecureChannel, model.StepError, "no transport measurement")
		r.emit(model.StepHTTP, model.StepError, "no transport measurement")
		return nil
	}

	// The secure-channel and http steps are views over the one transport
	// measurement, not separate probes.
	tlsOnly := result.TLSTimeMs - result.ConnectTimeMs
	tlsStatus := model.StepSuccess
	switch {
	case result.TLSTimeMs == 0:
		tlsStatus = model.StepError
	case tlsOnly > 500:
		tlsStatus = model.StepWarning
	}
	r.emit(model.StepSecureChannel, tlsStatus, fmt.Sprintf("TLS handshake: %.0fms", tlsOnly))

	httpStatus := model.StepError
	switch {
	case result.StatusCode >= 200 && result.StatusCode < 400:
		httpStatus = model.StepSuccess
	case result.StatusCode >= 400:
		httpStatus = model.StepWarning
	}
	r.emit(model.StepHTTP, httpStatus,
		fmt.Sprintf("HTTP %d, total %.0fms", result.StatusCode, result.TotalTimeMs))

	transportStatus := model.StepSuccess
	if result.TotalTimeMs > 3000 {
		transportStatus = model.StepWarning
	}
	r.emit(model.StepTransport, transportStatus,
		fmt.Sprintf("connect %.0fms, first byte %.0fms", result.ConnectTimeMs, result.TTFBMs))
	return result
}

func (r *Runner) tracePath(ctx context.Context, host string, targetAddr string) *model.PathTrace {
	result, err := bounded(ctx, r.config.ProbeTimeout, func(ctx context.Context) (*model.PathTrace, error) {
		return r.prober.TracePath(ctx, host, targetAddr)
	})
	if err != nil {
		r.emit(model.StepPath, model.StepWarning, failureMessage(err, r.config.ProbeTimeout))
		return nil
	}

	failed := 0
	for _, hop := range result.Hops {
		if hop.Address == model.NoResponseAddr {
			failed++
		}
	}
	total := len(result.Hops)
	if total < 1 {
		total = 1
	}
	status := model.StepSuccess
	if float64(failed)/float64(total) > 0.5 {
		status = model.StepWarning
	}
	r.emit(model.StepPath, status,
		fmt.Sprintf("%d hops in %.0fms", result.TotalHops, result.TotalTimeMs))
	return result
}

func (r *Runner) sampleStability(ctx context.Context, host string) *model.Stability {
	result, err := bounded(ctx, r.config.ProbeTimeout, func(ctx context.Context) (*model.Stability, error) {
		return r.prober.SampleStability(ctx, host, r.config.SampleCount)
	})
	if err != nil {
		r.emit(model.StepStability, model.StepWarning, failureMessage(err, r.config.ProbeTimeout))
		return nil
	}

	status := model.StepSuccess
	switch {
	case result.SuccessRate < 80:
		status = model.StepError
	case result.SuccessRate < 100:
		status = model.StepWarning
	}
	r.emit(model.StepStability, status,
		fmt.Sprintf("%.0f%% success, avg %.0fms, jitter %.0fms",
			result.SuccessRate, result.AvgTimeMs, result.JitterMs))
	return result
}

// emit is fire and forget: a missing or panicking sink never affects the run.
func (r *Runner) emit(step string, status model.StepStatus, message string) {
	if r.config.Progress == nil {
		return
	}
	defer func() {
		if v := recover(); v != nil {
			r.config.Logger.Debug("progress sink panicked", zap.Any("panic", v))
		}
	}()
	r.config.Progress(step, status, message)
}

func failureMessage(err error, limit time.Duration) string {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("timed out after %s", limit)
	}
	return "failed: " + err.Error()
}

type outcome[T any] struct {
	value T
	err   error
}

// bounded wraps one probe attempt in its own deadline. The result channel is
// buffered so a probe that outlives the deadline can still finish without
// blocking anyone. Sibling probes are unaffected; there is no shared deadline.
func bounded[T any](ctx context.Context, limit time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	ch := make(chan outcome[T], 1)
	go func() {
		value, err := fn(ctx)
		ch <- outcome[T]{value: value, err: err}
	}()

	select {
	case out := <-ch:
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		return zero, ErrTimeout
	}
}
