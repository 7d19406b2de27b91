// internal/peaks/merge.go
package peaks

import (
	"sort"

	"idr/internal/bed"
)

// Interval is one replicate peak that contributed to a merged region.
type Interval struct {
	Start  int
	Stop   int
	Signal float64
}

// MergedPeak is a unified region across both replicates, carrying the
// aggregated per-replicate signals and the source intervals they came from.
type MergedPeak struct {
	Chrom   string
	Strand  string
	Start   int
	Stop    int
	Signal1 float64
	Signal2 float64
	Rep1    []Interval
	Rep2    []Interval
}

const (
	sourceOracle = 0
	sourceRep1   = 1
	sourceRep2   = 2
)

type taggedInterval struct {
	start, stop int
	signal      float64
	source      int
}

// Merge builds the unified peak list across all contig/strand groups. When an
// oracle list is supplied its contigs drive the scan and merged-region
// boundaries come from oracle entries only. The result is sorted by the
// aggregated score of the two replicates, descending.
func Merge(s1, s2 map[bed.ContigKey][]bed.Peak, agg AggFunc,
	oracle map[bed.ContigKey][]bed.Peak, useNonoverlapping bool) []MergedPeak {

	var contigs []bed.ContigKey
	if oracle != nil {
		for k := range oracle {
			contigs = append(contigs, k)
		}
	} else {
		seen := make(map[bed.ContigKey]bool)
		for k := range s1 {
			seen[k] = true
		}
		for k := range s2 {
			seen[k] = true
		}
		for k := range seen {
			contigs = append(contigs, k)
		}
	}
	sort.Slice(contigs, func(i, j int) bool {
		if contigs[i].Chrom != contigs[j].Chrom {
			return contigs[i].Chrom < contigs[j].Chrom
		}
		return contigs[i].Strand < contigs[j].Strand
	})

	var merged []MergedPeak
	for _, key := range contigs {
		var oraclePeaks []bed.Peak
		if oracle != nil {
			oraclePeaks = oracle[key]
		}
		for _, mp := range mergeContig(s1[key], s2[key], oraclePeaks, oracle != nil, agg, useNonoverlapping) {
			mp.Chrom = key.Chrom
			mp.Strand = key.Strand
			merged = append(merged, mp)
		}
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return agg([]float64{merged[i].Signal1, merged[i].Signal2}) >
			agg([]float64{merged[j].Signal1, merged[j].Signal2})
	})
	return merged
}

// mergeContig merges peaks within a single contig/strand by a sweep over the
// sorted intervals: anything starting before the current group's end joins
// the group.
func mergeContig(s1, s2, oraclePeaks []bed.Peak, hasOracle bool,
	agg AggFunc, useNonoverlapping bool) []MergedPeak {

	intervals := make([]taggedInterval, 0, len(s1)+len(s2)+len(oraclePeaks))
	for _, p := range s1 {
		intervals = append(intervals, taggedInterval{p.Start, p.Stop, p.Signal, sourceRep1})
	}
	for _, p := range s2 {
		intervals = append(intervals, taggedInterval{p.Start, p.Stop, p.Signal, sourceRep2})
	}
	for _, p := range oraclePeaks {
		intervals = append(intervals, taggedInterval{p.Start, p.Stop, p.Signal, sourceOracle})
	}
	if len(intervals) == 0 {
		return nil
	}
	sort.Slice(intervals, func(i, j int) bool {
		a, b := intervals[i], intervals[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.stop != b.stop {
			return a.stop < b.stop
		}
		if a.signal != b.signal {
			return a.signal < b.signal
		}
		return a.source < b.source
	})

	var groups [][]taggedInterval
	cur := []taggedInterval{intervals[0]}
	curStop := intervals[0].stop
	for _, x := range intervals[1:] {
		if x.start < curStop {
			if x.stop > curStop {
				curStop = x.stop
			}
			cur = append(cur, x)
		} else {
			groups = append(groups, cur)
			cur = []taggedInterval{x}
			curStop = x.stop
		}
	}
	groups = append(groups, cur)

	var merged []MergedPeak
	for _, group := range groups {
		var rep1, rep2 []Interval
		pkStart, pkStop := int(^uint(0)>>1), -1
		for _, x := range group {
			// With an oracle list only its entries define the merged
			// region's boundaries.
			if !hasOracle || x.source == sourceOracle {
				if x.start < pkStart {
					pkStart = x.start
				}
				if x.stop > pkStop {
					pkStop = x.stop
				}
			}
			switch x.source {
			case sourceRep1:
				rep1 = append(rep1, Interval{x.start, x.stop, x.signal})
			case sourceRep2:
				rep2 = append(rep2, Interval{x.start, x.stop, x.signal})
			}
		}
		// No oracle entry overlapped this group.
		if pkStop == -1 {
			continue
		}
		if !useNonoverlapping && (len(rep1) == 0 || len(rep2) == 0) {
			continue
		}
		merged = append(merged, MergedPeak{
			Start:   pkStart,
			Stop:    pkStop,
			Signal1: agg(signals(rep1)),
			Signal2: agg(signals(rep2)),
			Rep1:    rep1,
			Rep2:    rep2,
		})
	}
	return merged
}

func signals(ivs []Interval) []float64 {
	if len(ivs) == 0 {
		return nil
	}
	out := make([]float64, len(ivs))
	for i, iv := range ivs {
		out[i] = iv.Signal
	}
	return out
}
