package analyze

import (
	"fmt"

	"github.com/jaxxstorm/netcheck/internal/model"
)

// Result is the full output of one analysis pass over a frozen snapshot.
type Result struct {
	Issues          []model.Issue
	Recommendations []string
	Score           int
	Status          model.OverallStatus
}

// Run inspects a frozen snapshot and produces issues, recommendations and the
// overall verdict. It is pure: the same snapshot always yields the same
// result, and the snapshot is never mutated.
func Run(s model.Snapshot) Result {
	issues := []model.Issue{}
	recommendations := []string{}
	score := 100

	if r := s.Resolution; r == nil {
		issues = append(issues, resolutionAbsent())
		score -= 50
	} else {
		if len(r.Addresses) == 0 {
			issues = append(issues, resolutionFailed(r.Host))
			score -= 50
		} else if r.LookupTimeMs > 200 {
			issues = append(issues, slowLookup(r.LookupTimeMs))
			score -= 10
		}
		if r.CDN != "" {
			recommendations = append(recommendations, fmt.Sprintf(recCDNTemplate, r.CDN))
		}
	}

	if t := s.Transport; t == nil {
		issues = append(issues, transportAbsent())
		score -= 50
	} else {
		if t.StatusCode == 0 {
			issues = append(issues, connectionFailed())
			score -= 50
		} else {
			if connectOnly := t.ConnectTimeMs - t.DNSTimeMs; connectOnly < 0 {
				issues = append(issues, inconsistentTiming("connect"))
			} else if connectOnly > 500 {
				issues = append(issues, slowConnect(connectOnly))
				score -= 15
			}

			if tlsOnly := t.TLSTimeMs - t.ConnectTimeMs; tlsOnly < 0 {
				issues = append(issues, inconsistentTiming("tls"))
			} else if tlsOnly > 500 {
				issues = append(issues, slowHandshake(tlsOnly))
				score -= 10
			}

			if t.TotalTimeMs > 3000 {
				issues = append(issues, slowTotal(t.TotalTimeMs))
				score -= 15
			} else if t.TotalTimeMs > 1000 {
				// Deliberate asymmetry inherited from the original rule set:
				// a silent deduction with no issue entry.
				score -= 5
			}

			if t.StatusCode >= 500 {
				issues = append(issues, httpServerError(t.StatusCode))
				score -= 20
			} else if t.StatusCode >= 400 {
				issues = append(issues, httpClientError(t.StatusCode))
			}
		}
	}

	if p := s.Path; p != nil {
		failed := 0
		for _, hop := range p.Hops {
			if hop.Address == model.NoResponseAddr {
				failed++
			}
		}
		total := len(p.Hops)
		if total < 1 {
			total = 1
		}
		failedPercent := float64(failed) / float64(total) * 100
		if failedPercent > 30 {
			issues = append(issues, unresponsiveHops(failedPercent))
		}
		if p.TotalHops > 20 {
			issues = append(issues, longRoute(p.TotalHops))
			score -= 5
		}
	}

	if st := s.Stability; st != nil {
		if st.SuccessRate < 100 {
			if st.SuccessRate < 80 {
				issues = append(issues, unstableConnection(st.SuccessRate))
				score -= 30
			} else {
				issues = append(issues, packetLoss(st.SuccessRate))
				score -= 10
			}
		}
		if st.JitterMs > 100 {
			issues = append(issues, highJitter(st.JitterMs))
			score -= 5
		}
	}

	recommendations = append(recommendations, summarize(issues, score)...)

	return Result{
		Issues:          issues,
		Recommendations: recommendations,
		Score:           score,
		Status:          StatusForScore(score),
	}
}

// summarize appends at most one general recommendation per fired category
// group, plus an escalation when the score dropped below 50.
func summarize(issues []model.Issue, score int) []string {
	if len(issues) == 0 {
		return []string{recHealthy}
	}

	counts := map[model.Category]int{}
	for _, issue := range issues {
		counts[issue.Category]++
	}

	out := []string{}
	if counts[model.CategoryResolution] > 0 {
		out = append(out, recResolution)
	}
	if counts[model.CategoryTransport] > 0 || counts[model.CategoryStability] > 0 {
		out = append(out, recConnection)
	}
	if score < 50 {
		out = append(out, recEscalation)
	}
	return out
}

// StatusForScore maps a raw score to the five-level verdict. The score is
// never clamped; values below zero or above 100 still map correctly.
func StatusForScore(score int) model.OverallStatus {
	switch {
	case score >= 90:
		return model.StatusExcellent
	case score >= 75:
		return model.StatusGood
	case score >= 50:
		return model.StatusAcceptable
	case score >= 25:
		return model.StatusPoor
	default:
		return model.StatusFailed
	}
}
