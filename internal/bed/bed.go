// internal/bed/bed.go
package bed

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Peak is one scored interval from a replicate's peak file.
type Peak struct {
	Chrom  string
	Strand string
	Start  int
	Stop   int
	Signal float64
}

// ContigKey groups peaks that may overlap: same chromosome, same strand.
type ContigKey struct {
	Chrom  string
	Strand string
}

// SignalColumn resolves the 0-based column holding the ranking signal for a
// peak file type. rank may be empty (type default), a named column, or for
// plain BED a numeric column index.
func SignalColumn(fileType, rank string) (int, error) {
	switch fileType {
	case "narrowPeak", "broadPeak":
		if rank == "" {
			rank = "signal.value"
		}
		switch rank {
		case "score":
			return 4, nil
		case "signal.value":
			return 6, nil
		case "p.value":
			return 7, nil
		case "q.value":
			return 8, nil
		default:
			return 0, fmt.Errorf("unrecognized signal type for %s filetype: %q", fileType, rank)
		}
	case "bed":
		if rank == "" || rank == "score" {
			return 4, nil
		}
		idx, err := strconv.Atoi(rank)
		if err != nil {
			return 0, fmt.Errorf("for bed files --rank must be 'score' or a column index, got %q", rank)
		}
		if idx < 0 {
			return 0, fmt.Errorf("--rank column index must be >= 0, got %d", idx)
		}
		return idx, nil
	default:
		return 0, fmt.Errorf("unrecognized file type: %q", fileType)
	}
}

// Load parses a BED-family peak file and groups peaks by (chrom, strand).
// Comment and track lines are skipped; negative signals are rejected.
func Load(r io.Reader, signalIndex int) (map[ContigKey][]Peak, error) {
	grouped := make(map[ContigKey][]Peak)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) <= signalIndex || len(fields) < 6 {
			return nil, fmt.Errorf("line %d: need at least %d columns, found %d", lineNo, max(signalIndex+1, 6), len(fields))
		}
		signal, err := strconv.ParseFloat(fields[signalIndex], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad signal %q: %w", lineNo, fields[signalIndex], err)
		}
		if signal < 0 {
			return nil, fmt.Errorf("line %d: invalid signal value: %e", lineNo, signal)
		}
		start, err := parseCoord(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad start %q: %w", lineNo, fields[1], err)
		}
		stop, err := parseCoord(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad stop %q: %w", lineNo, fields[2], err)
		}
		p := Peak{Chrom: fields[0], Strand: fields[5], Start: start, Stop: stop, Signal: signal}
		key := ContigKey{p.Chrom, p.Strand}
		grouped[key] = append(grouped[key], p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return grouped, nil
}

// Coordinates occasionally arrive in scientific notation from upstream
// tools, so parse through float like the columns they ride with.
func parseCoord(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// LoadPath opens path (gzip and "-" aware) and loads it.
func LoadPath(path string, signalIndex int) (map[ContigKey][]Peak, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	grouped, err := Load(rc, signalIndex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grouped, nil
}
