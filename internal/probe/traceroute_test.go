package probe

import (
	"testing"

	"github.com/jaxxstorm/netcheck/internal/model"
)

const sampleTraceroute = `traceroute to example.com (203.0.113.10), 15 hops max, 60 byte packets
 1  192.168.1.1  1.234 ms
 2  10.0.0.1  5.678 ms
 3  *
 4  203.0.113.10  12.5 ms
`

func TestParseTracerouteOutput(t *testing.T) {
	hops := ParseTracerouteOutput(sampleTraceroute)
	if len(hops) != 4 {
		t.Fatalf("expected 4 hops, got %d: %#v", len(hops), hops)
	}
	if hops[0].Number != 1 || hops[0].Address != "192.168.1.1" || hops[0].RTTMs != 1.234 {
		t.Fatalf("unexpected first hop: %+v", hops[0])
	}
	if hops[2].Address != model.NoResponseAddr || hops[2].LossPercent != 100 || hops[2].RTTMs != 0 {
		t.Fatalf("expected no-response sentinel hop: %+v", hops[2])
	}
	if hops[3].Address != "203.0.113.10" || hops[3].LossPercent != 0 {
		t.Fatalf("unexpected final hop: %+v", hops[3])
	}
}

func TestParseTracerouteSkipsGarbage(t *testing.T) {
	hops := ParseTracerouteOutput("traceroute to x\nnot a hop line\n")
	if len(hops) != 0 {
		t.Fatalf("expected no hops, got %#v", hops)
	}
}
