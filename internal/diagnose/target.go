package diagnose

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// SplitTarget extracts the bare hostname from a raw target and returns it
// together with the normalized URL later phases request. Targets without a
// scheme are assumed https.
func SplitTarget(target string) (string, string, error) {
	trimmed := strings.TrimSpace(target)
	if trimmed == "" {
		return "", "", errors.New("empty target")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", err
	}
	host := parsed.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("cannot extract hostname from %q", target)
	}
	return host, trimmed, nil
}
