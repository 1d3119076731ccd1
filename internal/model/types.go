package model

// StepStatus is the lifecycle state of a single diagnostic step as surfaced
// through the progress sink.
type StepStatus string

const (
	StepPending StepStatus = "pending"
	StepRunning StepStatus = "running"
	StepSuccess StepStatus = "success"
	StepWarning StepStatus = "warning"
	StepError   StepStatus = "error"
)

// Step names form a fixed vocabulary: consumers can render the full step list
// from the very first progress event.
const (
	StepResolution    = "resolution"
	StepTransport     = "transport"
	StepSecureChannel = "secure-channel"
	StepHTTP          = "http"
	StepPath          = "path"
	StepStability     = "stability"
)

// AllSteps lists the step vocabulary in display order.
var AllSteps = []string{
	StepResolution,
	StepTransport,
	StepSecureChannel,
	StepHTTP,
	StepPath,
	StepStability,
}

// Resolution is the outcome of the name resolution probe. An empty Addresses
// slice means the lookup failed for analysis purposes regardless of latency.
type Resolution struct {
	Host         string   `json:"host"`
	Addresses    []string `json:"addresses"`
	LookupTimeMs float64  `json:"lookup_time_ms"`
	TTL          *uint32  `json:"ttl,omitempty"`
	Nameservers  []string `json:"nameservers,omitempty"`
	CDN          string   `json:"cdn,omitempty"`
}

// Transport carries cumulative per-phase latencies for one instrumented
// HTTP(S) request. Each later phase includes the earlier ones; analysis
// derives phase-exclusive durations by subtraction. StatusCode 0 means no
// response was received at all.
type Transport struct {
	DNSTimeMs     float64 `json:"dns_time_ms"`
	ConnectTimeMs float64 `json:"connect_time_ms"`
	TLSTimeMs     float64 `json:"tls_time_ms"`
	TTFBMs        float64 `json:"ttfb_ms"`
	TotalTimeMs   float64 `json:"total_time_ms"`
	StatusCode    int     `json:"status_code"`
	DownloadKBps  float64 `json:"download_kbps"`
}

// NoResponseAddr is the sentinel hop address for routers that did not answer.
const NoResponseAddr = "*"

// PathHop is one hop in the traced route. A hop that never answered carries
// the NoResponseAddr sentinel, zero RTT and 100% loss.
type PathHop struct {
	Number      int     `json:"number"`
	Address     string  `json:"address"`
	Hostname    string  `json:"hostname,omitempty"`
	RTTMs       float64 `json:"rtt_ms"`
	LossPercent float64 `json:"loss_percent"`
}

// PathTrace is the outcome of the route tracing probe.
type PathTrace struct {
	TargetAddr  string    `json:"target_addr"`
	Hops        []PathHop `json:"hops"`
	TotalHops   int       `json:"total_hops"`
	TotalTimeMs float64   `json:"total_time_ms"`
}

// Stability summarizes repeated-connection sampling. Timing fields cover
// successful samples only and are all exactly 0 when no sample succeeded.
type Stability struct {
	TotalSamples      int     `json:"total_samples"`
	SuccessfulSamples int     `json:"successful_samples"`
	SuccessRate       float64 `json:"success_rate"`
	MinTimeMs         float64 `json:"min_time_ms"`
	AvgTimeMs         float64 `json:"avg_time_ms"`
	MaxTimeMs         float64 `json:"max_time_ms"`
	JitterMs          float64 `json:"jitter_ms"`
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type Category string

const (
	CategoryResolution    Category = "resolution"
	CategoryTransport     Category = "transport"
	CategorySecureChannel Category = "secure-channel"
	CategoryPath          Category = "path"
	CategoryStability     Category = "stability"
	CategoryHTTPStatus    Category = "http-status"
)

// Issue is one detected problem, with static remediation text keyed by the
// rule that produced it.
type Issue struct {
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PossibleCauses []string `json:"possible_causes"`
	Solutions      []string `json:"solutions"`
}

// Snapshot is the frozen set of probe outcomes for one run. A nil field means
// the probe failed or timed out, never a zero-valued struct.
type Snapshot struct {
	Resolution *Resolution `json:"resolution,omitempty"`
	Transport  *Transport  `json:"transport,omitempty"`
	Path       *PathTrace  `json:"path,omitempty"`
	Stability  *Stability  `json:"stability,omitempty"`
}

// OverallStatus is the five-level health verdict.
type OverallStatus string

const (
	StatusExcellent  OverallStatus = "excellent"
	StatusGood       OverallStatus = "good"
	StatusAcceptable OverallStatus = "acceptable"
	StatusPoor       OverallStatus = "poor"
	StatusFailed     OverallStatus = "failed"
)

// Report is the final diagnostic report, assembled once and never mutated.
type Report struct {
	ID              string        `json:"id"`
	Target          string        `json:"target"`
	GeneratedAt     string        `json:"generated_at"`
	Resolution      *Resolution   `json:"resolution,omitempty"`
	Transport       *Transport    `json:"transport,omitempty"`
	Path            *PathTrace    `json:"path,omitempty"`
	Stability       *Stability    `json:"stability,omitempty"`
	Status          OverallStatus `json:"status"`
	Issues          []Issue       `json:"issues"`
	Recommendations []string      `json:"recommendations"`
}
