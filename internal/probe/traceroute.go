package probe

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jaxxstorm/netcheck/internal/model"
)

type TraceOptions struct {
	MaxHops     int
	WaitSeconds int
	Logger      *zap.Logger
}

// TraceProbe shells out to the system traceroute in numeric single-query
// mode and parses its output into hops.
type TraceProbe struct {
	opts TraceOptions
}

func NewTraceProbe(opts TraceOptions) *TraceProbe {
	if opts.MaxHops == 0 {
		opts.MaxHops = 15
	}
	if opts.WaitSeconds == 0 {
		opts.WaitSeconds = 1
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &TraceProbe{opts: opts}
}

func (p *TraceProbe) TracePath(ctx context.Context, host string, targetAddr string) (*model.PathTrace, error) {
	args := []string{
		"-n",
		"-m", strconv.Itoa(p.opts.MaxHops),
		"-w", strconv.Itoa(p.opts.WaitSeconds),
		"-q", "1",
		host,
	}

	start := time.Now()
	out, err := exec.CommandContext(ctx, "traceroute", args...).Output()
	elapsed := float64(time.Since(start).Microseconds()) / 1000

	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("traceroute failed: %w", err)
	}
	if err != nil {
		// Partial output is still usable; some hops simply never answered.
		p.opts.Logger.Debug("traceroute exited non-zero", zap.String("host", host), zap.Error(err))
	}

	hops := ParseTracerouteOutput(string(out))
	return &model.PathTrace{
		TargetAddr:  targetAddr,
		Hops:        hops,
		TotalHops:   len(hops),
		TotalTimeMs: elapsed,
	}, nil
}

var hopPattern = regexp.MustCompile(`^\s*(\d+)\s+(?:(\d+\.\d+\.\d+\.\d+)|(\*))(?:\s+(\d+\.?\d*)\s*ms)?`)

// ParseTracerouteOutput reads numeric traceroute output, one probe per hop.
// The first line is the header and is skipped.
func ParseTracerouteOutput(out string) []model.PathHop {
	hops := []model.PathHop{}
	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			continue
		}
		match := hopPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		number, _ := strconv.Atoi(match[1])
		address := match[2]
		if address == "" {
			address = model.NoResponseAddr
		}
		rtt := 0.0
		if match[4] != "" {
			rtt, _ = strconv.ParseFloat(match[4], 64)
		}
		loss := 0.0
		if address == model.NoResponseAddr {
			loss = 100
		}
		hops = append(hops, model.PathHop{
			Number:      number,
			Address:     address,
			RTTMs:       rtt,
			LossPercent: loss,
		})
	}
	return hops
}
