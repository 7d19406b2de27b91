// internal/output/rows.go
package output

import (
	"fmt"
	"strings"

	"idr/internal/peaks"
)

// Row is one line of the IDR results table: the merged region's chromosome
// and strand, the per-replicate source bounds and aggregated signals, and the
// fitted reproducibility values.
type Row struct {
	Chrom    string
	Start1   int
	Stop1    int
	Signal1  float64
	Start2   int
	Stop2    int
	Signal2  float64
	IDR      float64
	LocalIDR float64
	Strand   string
}

// Stats summarizes a filtered result set.
type Stats struct {
	Merged      int
	Reported    int
	PassingSoft int
}

// BuildRows filters merged peaks by global IDR and formats the survivors.
// localIDR/globalIDR may be nil (merge-only runs and the emergency write for
// tiny inputs), in which case every value reports as 1 and no peak is
// filtered. A replicate with no source interval reports -1/-1 bounds.
func BuildRows(merged []peaks.MergedPeak, localIDR, globalIDR []float64, maxIDR, softIDR float64) ([]Row, Stats) {
	stats := Stats{Merged: len(merged)}
	rows := make([]Row, 0, len(merged))
	for i, m := range merged {
		local, global := 1.0, 1.0
		if localIDR != nil {
			local = localIDR[i]
		}
		if globalIDR != nil {
			global = globalIDR[i]
		}
		if globalIDR != nil && global > maxIDR {
			continue
		}
		stats.Reported++
		if global <= softIDR {
			stats.PassingSoft++
		}
		start1, stop1 := bounds(m.Rep1)
		start2, stop2 := bounds(m.Rep2)
		rows = append(rows, Row{
			Chrom:  m.Chrom,
			Start1: start1, Stop1: stop1, Signal1: m.Signal1,
			Start2: start2, Stop2: stop2, Signal2: m.Signal2,
			IDR: global, LocalIDR: local,
			Strand: m.Strand,
		})
	}
	return rows, stats
}

func bounds(ivs []peaks.Interval) (start, stop int) {
	if len(ivs) == 0 {
		return -1, -1
	}
	start, stop = ivs[0].Start, ivs[0].Stop
	for _, iv := range ivs[1:] {
		if iv.Start < start {
			start = iv.Start
		}
		if iv.Stop > stop {
			stop = iv.Stop
		}
	}
	return start, stop
}

// FormatRowTSV renders the 10 result columns (no trailing newline).
func FormatRowTSV(r Row) string {
	cols := []string{
		r.Chrom,
		fmt.Sprintf("%d", r.Start1),
		fmt.Sprintf("%d", r.Stop1),
		fmt.Sprintf("%.5f", r.Signal1),
		fmt.Sprintf("%d", r.Start2),
		fmt.Sprintf("%d", r.Stop2),
		fmt.Sprintf("%.5f", r.Signal2),
		fmt.Sprintf("%.5f", r.IDR),
		fmt.Sprintf("%.5f", r.LocalIDR),
		r.Strand,
	}
	return strings.Join(cols, "\t")
}
