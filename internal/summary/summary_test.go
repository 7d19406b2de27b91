package summary

import (
	"bytes"
	"strings"
	"testing"

	"idr/internal/copula"
	"idr/internal/output"
)

func TestRenderCounts(t *testing.T) {
	var buf bytes.Buffer
	stats := output.Stats{Merged: 40, Reported: 30, PassingSoft: 12}
	if err := Render(&buf, stats, 0.05, nil); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"30/40", "12/40", "75.0%", "30.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Final mu") {
		t.Errorf("parameter rows present without a fit:\n%s", out)
	}
}

func TestRenderFittedParams(t *testing.T) {
	var buf bytes.Buffer
	fit := &copula.Fit{
		Params:     copula.Params{Mu: 2.07, Sigma: 1.34, Rho: 0.81, P: 0.64},
		Iterations: 23,
	}
	if err := Render(&buf, output.Stats{Merged: 100, Reported: 100}, 0.05, fit); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2.07", "1.34", "0.81", "0.64", "23"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderEmptyRun(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, output.Stats{}, 0.05, nil); err != nil {
		t.Fatalf("render on empty stats: %v", err)
	}
	if !strings.Contains(buf.String(), "0/0") {
		t.Errorf("empty run summary:\n%s", buf.String())
	}
}
