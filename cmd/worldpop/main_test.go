package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"worldpop/internal/kind"
	"worldpop/internal/sim"
)

func TestPrintSummarySortsKinds(t *testing.T) {
	var buf bytes.Buffer
	s := sim.Summary{
		Ticks:      3,
		Loaded:     11,
		Spawned:    4,
		KindCounts: map[kind.Kind]int{kind.Pebble: 1, kind.Birch: 2, kind.Oak: 1},
	}
	printSummary(&buf, s, 1500*time.Millisecond)
	out := buf.String()

	if !strings.Contains(out, "ticks=3 loaded=11") || !strings.Contains(out, "elapsed=1.5s") {
		t.Fatalf("unexpected header:\n%s", out)
	}
	birch := strings.Index(out, string(kind.Birch))
	oak := strings.Index(out, string(kind.Oak))
	pebble := strings.Index(out, string(kind.Pebble))
	if birch < 0 || !(birch < oak && oak < pebble) {
		t.Fatalf("kinds not sorted:\n%s", out)
	}
}
