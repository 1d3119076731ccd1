package diagnose

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jaxxstorm/netcheck/internal/model"
	"github.com/jaxxstorm/netcheck/internal/probe"
)

type progressEvent struct {
	step    string
	status  model.StepStatus
	message string
}

type progressLog struct {
	mu     sync.Mutex
	events []progressEvent
}

func (l *progressLog) sink(step string, status model.StepStatus, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, progressEvent{step: step, status: status, message: message})
}

func (l *progressLog) byStep(step string) []progressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []progressEvent{}
	for _, e := range l.events {
		if e.step == step {
			out = append(out, e)
		}
	}
	return out
}

func healthyMock() *probe.Mock {
	return &probe.Mock{
		ResolveFunc: func(ctx context.Context, host string) (*model.Resolution, error) {
			return &model.Resolution{Host: host, Addresses: []string{"203.0.113.10"}, LookupTimeMs: 30}, nil
		},
		TimeConnectionFunc: func(ctx context.Context, url string) (*model.Transport, error) {
			return &model.Transport{DNSTimeMs: 30, ConnectTimeMs: 60, TLSTimeMs: 120, TTFBMs: 200, TotalTimeMs: 400, StatusCode: 200}, nil
		},
		TracePathFunc: func(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error) {
			return &model.PathTrace{
				TargetAddr:  targetAddr,
				Hops:        []model.PathHop{{Number: 1, Address: "192.0.2.1", RTTMs: 3}},
				TotalHops:   1,
				TotalTimeMs: 50,
			}, nil
		},
		SampleStabilityFunc: func(ctx context.Context, host string, samples int) (*model.Stability, error) {
			return &model.Stability{TotalSamples: samples, SuccessfulSamples: samples, SuccessRate: 100, MinTimeMs: 40, AvgTimeMs: 50, MaxTimeMs: 70, JitterMs: 8}, nil
		},
	}
}

func TestRunEmitsPendingForEveryStepFirst(t *testing.T) {
	log := &progressLog{}
	runner := NewRunner(healthyMock(), Config{Progress: log.sink})

	report, err := runner.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	log.mu.Lock()
	events := append([]progressEvent{}, log.events...)
	log.mu.Unlock()
	if len(events) < len(model.AllSteps) {
		t.Fatalf("expected at least %d events, got %d", len(model.AllSteps), len(events))
	}
	for i, step := range model.AllSteps {
		if events[i].step != step || events[i].status != model.StepPending {
			t.Fatalf("event %d: expected pending %s, got %+v", i, step, events[i])
		}
	}

	if report.Status != model.StatusExcellent {
		t.Fatalf("expected excellent, got %s", report.Status)
	}
	if report.Resolution == nil || report.Transport == nil || report.Path == nil || report.Stability == nil {
		t.Fatalf("expected all outcomes present: %+v", report)
	}
	if report.ID == "" || report.Target != "https://example.com" {
		t.Fatalf("unexpected report identity: %+v", report)
	}
	if _, err := time.Parse(timestampLayout, report.GeneratedAt); err != nil {
		t.Fatalf("bad timestamp %q: %v", report.GeneratedAt, err)
	}
}

func TestDerivedStepsReportedFromTransport(t *testing.T) {
	log := &progressLog{}
	runner := NewRunner(healthyMock(), Config{Progress: log.sink})
	if _, err := runner.Run(context.Background(), "example.com"); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, step := range []string{model.StepSecureChannel, model.StepHTTP} {
		events := log.byStep(step)
		last := events[len(events)-1]
		if last.status != model.StepSuccess {
			t.Fatalf("%s: expected success, got %+v", step, last)
		}
	}
}

func TestProbeErrorDegradesToAbsent(t *testing.T) {
	mock := healthyMock()
	attempts := 0
	mock.ResolveFunc = func(ctx context.Context, host string) (*model.Resolution, error) {
		attempts++
		return nil, errors.New("network unreachable")
	}

	log := &progressLog{}
	runner := NewRunner(mock, Config{Progress: log.sink})
	report, err := runner.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("probe failure must not fail the run: %v", err)
	}
	if report.Resolution != nil {
		t.Fatalf("expected absent resolution, got %+v", report.Resolution)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}

	events := log.byStep(model.StepResolution)
	last := events[len(events)-1]
	if last.status != model.StepError || !strings.Contains(last.message, "network unreachable") {
		t.Fatalf("expected error event with cause, got %+v", last)
	}
}

func TestProbeTimeoutDegradesToAbsent(t *testing.T) {
	mock := healthyMock()
	mock.SampleStabilityFunc = func(ctx context.Context, host string, samples int) (*model.Stability, error) {
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return nil, ctx.Err()
	}

	log := &progressLog{}
	runner := NewRunner(mock, Config{ProbeTimeout: 50 * time.Millisecond, Progress: log.sink})
	report, err := runner.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Stability != nil {
		t.Fatalf("expected absent stability, got %+v", report.Stability)
	}
	if report.Transport == nil || report.Path == nil {
		t.Fatalf("sibling probes must be unaffected: %+v", report)
	}

	events := log.byStep(model.StepStability)
	last := events[len(events)-1]
	if last.status != model.StepWarning || !strings.Contains(last.message, "timed out") {
		t.Fatalf("expected timeout warning, got %+v", last)
	}
}

func TestPhaseTwoRunsInParallel(t *testing.T) {
	mock := healthyMock()
	delay := func(d time.Duration) {
		timer := time.NewTimer(d)
		defer timer.Stop()
		<-timer.C
	}
	inner := *mock
	mock.TimeConnectionFunc = func(ctx context.Context, url string) (*model.Transport, error) {
		delay(100 * time.Millisecond)
		return inner.TimeConnectionFunc(ctx, url)
	}
	mock.TracePathFunc = func(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error) {
		delay(150 * time.Millisecond)
		return inner.TracePathFunc(ctx, host, targetAddr)
	}
	mock.SampleStabilityFunc = func(ctx context.Context, host string, samples int) (*model.Stability, error) {
		delay(200 * time.Millisecond)
		return inner.SampleStabilityFunc(ctx, host, samples)
	}

	runner := NewRunner(mock, Config{})
	start := time.Now()
	report, err := runner.Run(context.Background(), "example.com")
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Transport == nil || report.Path == nil || report.Stability == nil {
		t.Fatalf("expected all phase-2 outcomes, got %+v", report)
	}
	if elapsed < 200*time.Millisecond {
		t.Fatalf("run finished before the slowest probe: %s", elapsed)
	}
	if elapsed > 400*time.Millisecond {
		t.Fatalf("probes appear to have run sequentially: %s", elapsed)
	}
}

func TestAllProbesAbsentStillProducesReport(t *testing.T) {
	failing := &probe.Mock{}
	runner := NewRunner(failing, Config{})
	report, err := runner.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Status != model.StatusFailed {
		t.Fatalf("expected failed verdict, got %s", report.Status)
	}
	if len(report.Issues) == 0 {
		t.Fatalf("expected issues explaining the absences")
	}
}

func TestMalformedTargetIsFatal(t *testing.T) {
	runner := NewRunner(healthyMock(), Config{})
	if _, err := runner.Run(context.Background(), "https://"); err == nil {
		t.Fatalf("expected error for malformed target")
	}
}

func TestPanickingProgressSinkIsSwallowed(t *testing.T) {
	runner := NewRunner(healthyMock(), Config{
		Progress: func(step string, status model.StepStatus, message string) {
			panic("sink gone")
		},
	})
	report, err := runner.Run(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Status != model.StatusExcellent {
		t.Fatalf("expected excellent, got %s", report.Status)
	}
}
