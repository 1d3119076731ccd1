package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jaxxstorm/netcheck/internal/config"
	"github.com/jaxxstorm/netcheck/internal/diagnose"
	"github.com/jaxxstorm/netcheck/internal/model"
	"github.com/jaxxstorm/netcheck/internal/output"
	"github.com/jaxxstorm/netcheck/internal/probe"
	"go.uber.org/zap"
)

var Version = "dev"

type CLI struct {
	Check   CheckCmd   `cmd:"" default:"withargs" help:"Run a full diagnostic against a target (default)."`
	Version VersionCmd `cmd:"version" help:"Print version."`
}

type CheckCmd struct {
	Target         string        `arg:"" name:"target" help:"Hostname or URL to diagnose."`
	Output         string        `enum:"pretty,json," default:"" help:"Output format (pretty or json)."`
	Config         string        `name:"config" type:"existingfile" optional:"" help:"Path to a netcheck.yaml config file."`
	ResolveTimeout time.Duration `default:"0" help:"Time budget for name resolution (overrides config)."`
	ProbeTimeout   time.Duration `default:"0" help:"Time budget per probe (overrides config)."`
	Samples        int           `default:"0" help:"Stability sample count (overrides config)."`
	Resolver       string        `help:"Resolver IP to query. If not set, uses the system resolver."`
	Quiet          bool          `help:"Suppress live progress output."`
	Verbose        bool          `help:"Enable verbose logging."`
	Debug          bool          `help:"Enable debug logging."`
}

type VersionCmd struct{}

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("netcheck"),
		kong.Description("Diagnose network reachability, latency and stability for a target."),
	)

	if ctx.Selected() != nil && ctx.Selected().Name == "version" {
		fmt.Println(Version)
		return
	}

	logger, err := newLogger(cli.Check.Verbose, cli.Check.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	runCheck(cli.Check, logger)
}

func runCheck(cmd CheckCmd, logger *zap.Logger) {
	cfg, err := config.Load(cmd.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cmd.ResolveTimeout > 0 {
		cfg.ResolveTimeout = cmd.ResolveTimeout
	}
	if cmd.ProbeTimeout > 0 {
		cfg.ProbeTimeout = cmd.ProbeTimeout
	}
	if cmd.Samples > 0 {
		cfg.SampleCount = cmd.Samples
	}
	if cmd.Resolver != "" {
		cfg.Resolver = cmd.Resolver
	}
	if cmd.Output != "" {
		cfg.Output = cmd.Output
	}

	probes := &probe.Set{
		DNS:       probe.NewDNSProbe(probe.DNSOptions{Server: cfg.Resolver, Logger: logger}),
		HTTP:      probe.NewHTTPProbe(probe.HTTPOptions{Timeout: cfg.ProbeTimeout, Logger: logger}),
		Trace:     probe.NewTraceProbe(probe.TraceOptions{Logger: logger}),
		Stability: probe.NewStabilityProbe(probe.StabilityOptions{Logger: logger}),
	}

	var progress diagnose.Progress
	if cfg.Output == "pretty" && !cmd.Quiet {
		progress = func(step string, status model.StepStatus, message string) {
			fmt.Fprintln(os.Stderr, output.RenderStep(step, status, message))
		}
	}

	runner := diagnose.NewRunner(probes, diagnose.Config{
		ResolveTimeout: cfg.ResolveTimeout,
		ProbeTimeout:   cfg.ProbeTimeout,
		SampleCount:    cfg.SampleCount,
		Logger:         logger,
		Progress:       progress,
	})

	report, err := runner.Run(context.Background(), cmd.Target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var rendered string
	if cfg.Output == "json" {
		rendered, err = output.RenderJSON(report)
	} else {
		rendered = output.RenderPretty(report)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(rendered)
	if report.Status == model.StatusFailed {
		os.Exit(2)
	}
}

func newLogger(verbose bool, debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}
