package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jaxxstorm/netcheck/internal/model"
)

type StabilityOptions struct {
	Interval       time.Duration
	RequestTimeout time.Duration
	UserAgent      string
	Logger         *zap.Logger
}

// StabilityProbe issues sequential requests against the target and derives
// success rate, latency spread, and jitter from the successful samples.
type StabilityProbe struct {
	opts   StabilityOptions
	client *http.Client
}

func NewStabilityProbe(opts StabilityOptions) *StabilityProbe {
	if opts.Interval == 0 {
		opts.Interval = 100 * time.Millisecond
	}
	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &StabilityProbe{
		opts:   opts,
		client: &http.Client{Timeout: opts.RequestTimeout},
	}
}

func (p *StabilityProbe) SampleStability(ctx context.Context, host string, samples int) (*model.Stability, error) {
	if samples < 1 {
		return nil, fmt.Errorf("sample count must be positive, got %d", samples)
	}

	url := p.sampleURL(host)
	times := []float64{}
	successful := 0

	for i := 0; i < samples; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.opts.Interval):
			}
		}

		elapsed, ok := p.sampleOnce(ctx, url)
		if ok {
			successful++
			times = append(times, elapsed)
		}
	}

	min, avg, max, jitter := computeStats(times)
	return &model.Stability{
		TotalSamples:      samples,
		SuccessfulSamples: successful,
		SuccessRate:       float64(successful) / float64(samples) * 100,
		MinTimeMs:         min,
		AvgTimeMs:         avg,
		MaxTimeMs:         max,
		JitterMs:          jitter,
	}, nil
}

func (p *StabilityProbe) sampleOnce(ctx context.Context, url string) (float64, bool) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, false
	}
	req.Header.Set("User-Agent", p.opts.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.opts.Logger.Debug("stability sample failed", zap.Error(err))
		return 0, false
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		return elapsed, true
	}
	return 0, false
}

func (p *StabilityProbe) sampleURL(host string) string {
	return "https://" + host
}

// computeStats returns min/avg/max and the mean absolute deviation from the
// average. An empty sample set yields all zeros, never NaN.
func computeStats(times []float64) (min, avg, max, jitter float64) {
	if len(times) == 0 {
		return 0, 0, 0, 0
	}

	min = times[0]
	max = times[0]
	sum := 0.0
	for _, t := range times {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
		sum += t
	}
	avg = sum / float64(len(times))

	deviation := 0.0
	for _, t := range times {
		d := t - avg
		if d < 0 {
			d = -d
		}
		deviation += d
	}
	jitter = deviation / float64(len(times))
	return min, avg, max, jitter
}
