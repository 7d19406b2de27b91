package output

import (
	"bytes"
	"strings"
	"testing"

	"idr/internal/peaks"
)

func someMerged() []peaks.MergedPeak {
	return []peaks.MergedPeak{
		{
			Chrom: "chr1", Strand: "+", Start: 100, Stop: 250,
			Signal1: 12.5, Signal2: 20,
			Rep1: []peaks.Interval{{Start: 100, Stop: 200, Signal: 12.5}},
			Rep2: []peaks.Interval{{Start: 150, Stop: 250, Signal: 20}},
		},
		{
			Chrom: "chr2", Strand: "-", Start: 10, Stop: 90,
			Signal1: 3, Signal2: 0,
			Rep1: []peaks.Interval{{Start: 10, Stop: 90, Signal: 3}},
		},
	}
}

func TestFormatRowTSV(t *testing.T) {
	rows, _ := BuildRows(someMerged(), nil, nil, 1.0, 0.05)
	got := FormatRowTSV(rows[0])
	want := "chr1\t100\t200\t12.50000\t150\t250\t20.00000\t1.00000\t1.00000\t+"
	if got != want {
		t.Fatalf("row = %q, want %q", got, want)
	}
}

func TestMissingReplicateBounds(t *testing.T) {
	rows, _ := BuildRows(someMerged(), nil, nil, 1.0, 0.05)
	r := rows[1]
	if r.Start2 != -1 || r.Stop2 != -1 {
		t.Fatalf("missing replicate bounds %d/%d, want -1/-1", r.Start2, r.Stop2)
	}
}

func TestNilIDRSkipsThresholdFilter(t *testing.T) {
	rows, stats := BuildRows(someMerged(), nil, nil, 0.05, 0.05)
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want all merged peaks kept without computed IDRs", len(rows))
	}
	if stats.Reported != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestThresholdFilterAndStats(t *testing.T) {
	local := []float64{0.01, 0.9}
	global := []float64{0.02, 0.8}
	rows, stats := BuildRows(someMerged(), local, global, 0.5, 0.05)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after filtering", len(rows))
	}
	if stats.Merged != 2 || stats.Reported != 1 || stats.PassingSoft != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if rows[0].IDR != 0.02 || rows[0].LocalIDR != 0.01 {
		t.Fatalf("wrong idr columns: %+v", rows[0])
	}
}

func TestRowWriterStreams(t *testing.T) {
	var buf bytes.Buffer
	in, errCh := StartRowWriter(&buf, 4)
	rows, _ := BuildRows(someMerged(), nil, nil, 1.0, 0.05)
	for _, r := range rows {
		in <- r
	}
	close(in)
	if err := <-errCh; err != nil {
		t.Fatalf("writer: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if got := len(strings.Split(l, "\t")); got != 10 {
			t.Fatalf("line has %d columns, want 10: %q", got, l)
		}
	}
}
