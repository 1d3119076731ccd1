package probe

import (
	"bufio"
	"net"
	"os"
	"strings"
)

// DefaultPublicResolvers are queried when no system resolver is available.
var DefaultPublicResolvers = []string{
	"1.1.1.1",
	"8.8.8.8",
	"9.9.9.9",
}

func SystemResolvers() ([]string, error) {
	return loadResolvers("/etc/resolv.conf")
}

func loadResolvers(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	resolvers := []string{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if strings.ToLower(fields[0]) == "nameserver" {
			resolvers = append(resolvers, fields[1])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return resolvers, nil
}

// NormalizeServer appends the default DNS port when the resolver address
// carries none, handling bracketed and bare IPv6 forms.
func NormalizeServer(server string) string {
	if server == "" {
		return server
	}
	if strings.HasPrefix(server, "[") {
		if strings.Contains(server, "]:") {
			return server
		}
		return server + ":53"
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	if strings.Contains(server, ":") {
		return "[" + server + "]:53"
	}
	return server + ":53"
}
