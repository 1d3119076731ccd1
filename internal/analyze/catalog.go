package analyze

import (
	"fmt"

	"github.com/jaxxstorm/netcheck/internal/model"
)

// Issue titles, causes and solutions are static per rule so downstream
// consumers can key on them. Only descriptions interpolate measured values.

func resolutionFailed(host string) model.Issue {
	return model.Issue{
		Category:    model.CategoryResolution,
		Severity:    model.SeverityError,
		Title:       "DNS resolution failed",
		Description: fmt.Sprintf("no IP addresses found for host %s", host),
		PossibleCauses: []string{
			"domain does not exist or is not registered",
			"DNS server is not responding",
			"DNS queries are blocked by a firewall",
		},
		Solutions: []string{
			"double-check the domain name",
			"try switching DNS to 8.8.8.8 or 1.1.1.1",
			"verify your internet connection",
		},
	}
}

func slowLookup(lookupMs float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryResolution,
		Severity:    model.SeverityWarning,
		Title:       "Slow DNS lookup",
		Description: fmt.Sprintf("DNS lookup took %.0fms (should be < 200ms)", lookupMs),
		PossibleCauses: []string{
			"DNS server is geographically distant",
			"DNS server is overloaded",
			"no DNS cache available",
		},
		Solutions: []string{
			"switch to a faster resolver such as Cloudflare (1.1.1.1) or Google (8.8.8.8)",
			"pin the host in /etc/hosts to skip the lookup",
		},
	}
}

func resolutionAbsent() model.Issue {
	return model.Issue{
		Category:    model.CategoryResolution,
		Severity:    model.SeverityError,
		Title:       "No DNS measurement",
		Description: "the resolution probe produced no result; it failed or timed out",
		PossibleCauses: []string{
			"no network connectivity",
			"DNS server unreachable",
		},
		Solutions: []string{
			"verify your internet connection",
			"re-run the diagnostic",
		},
	}
}

func transportAbsent() model.Issue {
	return model.Issue{
		Category:    model.CategoryTransport,
		Severity:    model.SeverityError,
		Title:       "No connection measurement",
		Description: "the connection probe produced no result; it failed or timed out",
		PossibleCauses: []string{
			"target host unreachable",
			"request blocked before any response",
		},
		Solutions: []string{
			"check whether the site loads in a browser",
			"re-run the diagnostic",
		},
	}
}

func connectionFailed() model.Issue {
	return model.Issue{
		Category:    model.CategoryTransport,
		Severity:    model.SeverityError,
		Title:       "TCP connection failed",
		Description: "no HTTP response was received at all",
		PossibleCauses: []string{
			"target host is down",
			"port 443 is blocked",
			"a firewall is dropping the connection",
			"routing problem on the path",
		},
		Solutions: []string{
			"check whether the site loads in a browser",
			"try again through a VPN",
			"contact your ISP if the problem persists",
		},
	}
}

func slowConnect(connectOnlyMs float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryTransport,
		Severity:    model.SeverityWarning,
		Title:       "TCP connect slow",
		Description: fmt.Sprintf("TCP connect took %.0fms (should be < 500ms)", connectOnlyMs),
		PossibleCauses: []string{
			"server is far away, possibly on another continent",
			"poor routing from your ISP",
			"network congestion",
		},
		Solutions: []string{
			"geographic distance is hard to improve",
			"try a VPN exit closer to the target",
		},
	}
}

func slowHandshake(tlsOnlyMs float64) model.Issue {
	return model.Issue{
		Category:    model.CategorySecureChannel,
		Severity:    model.SeverityWarning,
		Title:       "TLS handshake slow",
		Description: fmt.Sprintf("TLS handshake took %.0fms (should be < 500ms)", tlsOnlyMs),
		PossibleCauses: []string{
			"long certificate chain",
			"OCSP stapling not enabled on the server",
			"high latency to the server",
		},
		Solutions: []string{
			"this is usually a server-side issue",
			"verify the connection is not being intercepted",
		},
	}
}

func slowTotal(totalMs float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryTransport,
		Severity:    model.SeverityWarning,
		Title:       "Total time slow",
		Description: fmt.Sprintf("total request time was %.0fms (should be < 3000ms)", totalMs),
		PossibleCauses: []string{
			"server responds slowly",
			"unstable network connection",
			"many redirects",
		},
		Solutions: []string{
			"check your connection speed",
			"try again at a different time of day",
		},
	}
}

func httpClientError(code int) model.Issue {
	return model.Issue{
		Category:    model.CategoryHTTPStatus,
		Severity:    model.SeverityWarning,
		Title:       "HTTP client error",
		Description: fmt.Sprintf("server returned status %d", code),
		PossibleCauses: []string{
			"malformed request",
			"authentication required",
			"page does not exist",
		},
		Solutions: []string{
			"verify the URL is correct",
		},
	}
}

func httpServerError(code int) model.Issue {
	return model.Issue{
		Category:    model.CategoryHTTPStatus,
		Severity:    model.SeverityError,
		Title:       "HTTP server error",
		Description: fmt.Sprintf("server returned status %d", code),
		PossibleCauses: []string{
			"server is under maintenance",
			"server is overloaded",
			"application error on the server side",
		},
		Solutions: []string{
			"wait and retry later",
			"check the service status page",
		},
	}
}

func inconsistentTiming(phase string) model.Issue {
	return model.Issue{
		Category:    model.CategoryTransport,
		Severity:    model.SeverityInfo,
		Title:       "Inconsistent timing data",
		Description: fmt.Sprintf("derived %s duration was negative; the measurement is unreliable", phase),
		PossibleCauses: []string{
			"instrumentation recorded phases out of order",
			"connection was reused across redirects",
		},
		Solutions: []string{
			"re-run the diagnostic",
		},
	}
}

func unresponsiveHops(failedPercent float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryPath,
		Severity:    model.SeverityWarning,
		Title:       "Unresponsive hops",
		Description: fmt.Sprintf("%.0f%% of hops on the route did not respond", failedPercent),
		PossibleCauses: []string{
			"routers dropping ICMP (often normal)",
			"firewall blocking traceroute",
			"routing problem",
		},
		Solutions: []string{
			"this can be normal if the site itself works",
			"try tcptraceroute for more detail",
		},
	}
}

func longRoute(totalHops int) model.Issue {
	return model.Issue{
		Category:    model.CategoryPath,
		Severity:    model.SeverityInfo,
		Title:       "Long route",
		Description: fmt.Sprintf("%d hops to the target (more than usual)", totalHops),
		PossibleCauses: []string{
			"server is far away",
			"suboptimal routing",
		},
		Solutions: []string{
			"a VPN may shorten the route",
		},
	}
}

func unstableConnection(successRate float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryStability,
		Severity:    model.SeverityError,
		Title:       "Unstable connection",
		Description: fmt.Sprintf("only %.0f%% of requests succeeded", successRate),
		PossibleCauses: []string{
			"unstable network",
			"weak Wi-Fi signal",
			"ISP problems",
			"server overload",
		},
		Solutions: []string{
			"move closer to the router or use a wired connection",
			"restart your modem or router",
			"contact your ISP if the problem persists",
		},
	}
}

func packetLoss(successRate float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryStability,
		Severity:    model.SeverityWarning,
		Title:       "Packet loss detected",
		Description: fmt.Sprintf("success rate: %.0f%%", successRate),
		PossibleCauses: []string{
			"temporary network congestion",
			"unstable Wi-Fi signal",
		},
		Solutions: []string{
			"check your Wi-Fi signal",
			"retry in a few minutes",
		},
	}
}

func highJitter(jitterMs float64) model.Issue {
	return model.Issue{
		Category:    model.CategoryStability,
		Severity:    model.SeverityWarning,
		Title:       "High jitter",
		Description: fmt.Sprintf("response time varies by %.0fms on average", jitterMs),
		PossibleCauses: []string{
			"unstable network",
			"other devices saturating the link",
		},
		Solutions: []string{
			"reduce the number of devices using the network",
			"use a wired connection instead of Wi-Fi",
		},
	}
}

const (
	recHealthy     = "Connection to the target is healthy, no issues detected."
	recResolution  = "Consider switching DNS to 1.1.1.1 (Cloudflare) or 8.8.8.8 (Google)."
	recConnection  = "Check your Wi-Fi signal and consider using a wired connection."
	recEscalation  = "The connection has multiple problems - consider a VPN or contact your ISP."
	recCDNTemplate = "Target is served through %s - a good sign for performance."
)
