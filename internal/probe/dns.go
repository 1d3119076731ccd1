package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/jaxxstorm/netcheck/internal/model"
)

type DNSOptions struct {
	Server  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// DNSProbe resolves a hostname through a single recursive resolver and
// collects addresses, TTL, nameservers and a CDN guess.
type DNSProbe struct {
	opts DNSOptions
}

func NewDNSProbe(opts DNSOptions) *DNSProbe {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Server == "" {
		if resolvers, err := SystemResolvers(); err == nil && len(resolvers) > 0 {
			opts.Server = resolvers[0]
		} else {
			opts.Server = DefaultPublicResolvers[0]
		}
	}
	opts.Server = NormalizeServer(opts.Server)
	return &DNSProbe{opts: opts}
}

func (p *DNSProbe) Resolve(ctx context.Context, host string) (*model.Resolution, error) {
	client := &dns.Client{Timeout: p.opts.Timeout}

	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	resp, rtt, err := client.ExchangeContext(ctx, msg, p.opts.Server)
	if err != nil {
		return nil, fmt.Errorf("dns query failed: %w", err)
	}
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return nil, fmt.Errorf("dns error: %s", dns.RcodeToString[resp.Rcode])
	}

	// NXDOMAIN is reported as an empty address list, not an error, so the
	// analysis engine can attribute it.
	addresses := []string{}
	var minTTL *uint32
	for _, rr := range resp.Answer {
		a, ok := rr.(*dns.A)
		if !ok {
			continue
		}
		addresses = append(addresses, a.A.String())
		ttl := a.Hdr.Ttl
		if minTTL == nil || ttl < *minTTL {
			minTTL = &ttl
		}
	}

	result := &model.Resolution{
		Host:         host,
		Addresses:    addresses,
		LookupTimeMs: float64(rtt.Microseconds()) / 1000,
		TTL:          minTTL,
	}

	// Nameserver lookup is best effort; failures leave the field absent.
	if nameservers, err := p.lookupNS(ctx, client, host); err == nil && len(nameservers) > 0 {
		result.Nameservers = nameservers
		result.CDN = DetectCDN(nameservers)
	} else if err != nil {
		p.opts.Logger.Debug("ns lookup failed", zap.String("host", host), zap.Error(err))
	}

	return result, nil
}

func (p *DNSProbe) lookupNS(ctx context.Context, client *dns.Client, host string) ([]string, error) {
	msg := &dns.Msg{}
	msg.SetQuestion(dns.Fqdn(host), dns.TypeNS)
	msg.RecursionDesired = true

	resp, _, err := client.ExchangeContext(ctx, msg, p.opts.Server)
	if err != nil {
		return nil, err
	}

	nameservers := []string{}
	for _, rr := range resp.Answer {
		if ns, ok := rr.(*dns.NS); ok {
			nameservers = append(nameservers, strings.TrimSuffix(ns.Ns, "."))
		}
	}
	return nameservers, nil
}

// cdnMarkers maps nameserver substrings to provider labels, checked in order.
var cdnMarkers = []struct {
	marker string
	label  string
}{
	{"cloudflare", "Cloudflare"},
	{"awsdns", "AWS Route53"},
	{"akamai", "Akamai"},
	{"fastly", "Fastly"},
	{"azure", "Azure"},
	{"google", "Google Cloud"},
}

// DetectCDN infers a content-delivery-network label from nameserver names.
// Returns an empty string when nothing matches.
func DetectCDN(nameservers []string) string {
	joined := strings.ToLower(strings.Join(nameservers, " "))
	for _, entry := range cdnMarkers {
		if strings.Contains(joined, entry.marker) {
			return entry.label
		}
	}
	return ""
}
