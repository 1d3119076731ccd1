package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jaxxstorm/netcheck/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	goodStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	badStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
)

func statusStyle(status model.OverallStatus) lipgloss.Style {
	switch status {
	case model.StatusExcellent, model.StatusGood:
		return goodStyle
	case model.StatusAcceptable:
		return warnStyle
	default:
		return badStyle
	}
}

func severityStyle(severity model.Severity) lipgloss.Style {
	switch severity {
	case model.SeverityError:
		return badStyle
	case model.SeverityWarning:
		return warnStyle
	default:
		return detailStyle
	}
}

func RenderPretty(report model.Report) string {
	lines := []string{titleStyle.Render("netcheck"), ""}
	lines = append(lines, fmt.Sprintf("%s %s", sectionStyle.Render("Target:"), report.Target))
	lines = append(lines, fmt.Sprintf("%s %s", sectionStyle.Render("Generated:"), report.GeneratedAt))
	lines = append(lines, fmt.Sprintf("%s %s", sectionStyle.Render("Verdict:"),
		statusStyle(report.Status).Render(strings.ToUpper(string(report.Status)))))
	lines = append(lines, "")

	lines = append(lines, renderResolution(report.Resolution)...)
	lines = append(lines, renderTransport(report.Transport)...)
	lines = append(lines, renderPath(report.Path)...)
	lines = append(lines, renderStability(report.Stability)...)

	if len(report.Issues) > 0 {
		lines = append(lines, sectionStyle.Render("Issues:"))
		for _, issue := range report.Issues {
			label := severityStyle(issue.Severity).Render(strings.ToUpper(string(issue.Severity)))
			lines = append(lines, fmt.Sprintf("  %s %s: %s", label, issue.Title, issue.Description))
			for _, cause := range issue.PossibleCauses {
				lines = append(lines, detailStyle.Render("      cause: "+cause))
			}
			for _, solution := range issue.Solutions {
				lines = append(lines, detailStyle.Render("      try:   "+solution))
			}
		}
		lines = append(lines, "")
	}

	if len(report.Recommendations) > 0 {
		lines = append(lines, sectionStyle.Render("Recommendations:"))
		for _, rec := range report.Recommendations {
			lines = append(lines, "  - "+rec)
		}
	}

	return strings.Join(lines, "\n")
}

func renderResolution(r *model.Resolution) []string {
	if r == nil {
		return []string{sectionStyle.Render("Resolution:"), detailStyle.Render("  no data"), ""}
	}
	lines := []string{sectionStyle.Render("Resolution:")}
	lines = append(lines, fmt.Sprintf("  %d addresses in %.0fms: %s",
		len(r.Addresses), r.LookupTimeMs, strings.Join(r.Addresses, ", ")))
	if r.TTL != nil {
		lines = append(lines, detailStyle.Render(fmt.Sprintf("  ttl=%ds", *r.TTL)))
	}
	if len(r.Nameservers) > 0 {
		lines = append(lines, detailStyle.Render("  ns="+strings.Join(r.Nameservers, " ")))
	}
	if r.CDN != "" {
		lines = append(lines, detailStyle.Render("  cdn="+r.CDN))
	}
	return append(lines, "")
}

func renderTransport(t *model.Transport) []string {
	if t == nil {
		return []string{sectionStyle.Render("Transport:"), detailStyle.Render("  no data"), ""}
	}
	return []string{
		sectionStyle.Render("Transport:"),
		fmt.Sprintf("  dns=%.0fms connect=%.0fms tls=%.0fms ttfb=%.0fms total=%.0fms",
			t.DNSTimeMs, t.ConnectTimeMs, t.TLSTimeMs, t.TTFBMs, t.TotalTimeMs),
		fmt.Sprintf("  http=%d throughput=%.0f KB/s", t.StatusCode, t.DownloadKBps),
		"",
	}
}

func renderPath(p *model.PathTrace) []string {
	if p == nil {
		return []string{sectionStyle.Render("Path:"), detailStyle.Render("  no data"), ""}
	}
	lines := []string{sectionStyle.Render(fmt.Sprintf("Path: %d hops in %.0fms", p.TotalHops, p.TotalTimeMs))}
	for _, hop := range p.Hops {
		if hop.Address == model.NoResponseAddr {
			lines = append(lines, detailStyle.Render(fmt.Sprintf("  %2d  *", hop.Number)))
			continue
		}
		lines = append(lines, detailStyle.Render(fmt.Sprintf("  %2d  %-15s %.1fms", hop.Number, hop.Address, hop.RTTMs)))
	}
	return append(lines, "")
}

func renderStability(s *model.Stability) []string {
	if s == nil {
		return []string{sectionStyle.Render("Stability:"), detailStyle.Render("  no data"), ""}
	}
	return []string{
		sectionStyle.Render("Stability:"),
		fmt.Sprintf("  %d/%d ok (%.0f%%) min=%.0fms avg=%.0fms max=%.0fms jitter=%.0fms",
			s.SuccessfulSamples, s.TotalSamples, s.SuccessRate,
			s.MinTimeMs, s.AvgTimeMs, s.MaxTimeMs, s.JitterMs),
		"",
	}
}

// RenderStep formats one live progress transition for the terminal.
func RenderStep(step string, status model.StepStatus, message string) string {
	var label string
	switch status {
	case model.StepPending:
		label = detailStyle.Render("WAIT")
	case model.StepRunning:
		label = sectionStyle.Render("RUN ")
	case model.StepSuccess:
		label = goodStyle.Render("OK  ")
	case model.StepWarning:
		label = warnStyle.Render("WARN")
	default:
		label = badStyle.Render("FAIL")
	}
	return fmt.Sprintf("%s %-14s %s", label, step, message)
}
