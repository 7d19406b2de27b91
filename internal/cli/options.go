// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"idr/internal/config"
	"idr/internal/version"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	Samples       []string
	PeakList      string
	InputFileType string
	Rank          string

	// Output
	OutputFile string
	LogFile    string
	Plot       bool

	// Thresholds
	IDRThreshold     float64
	SoftIDRThreshold float64

	// Merging
	PeakMergeMethod   string
	UseNonoverlapping bool

	// Model
	InitialMu       float64
	InitialSigma    float64
	InitialRho      float64
	InitialMixParam float64
	FixMu           bool
	FixSigma        bool
	MaxIter         int
	ConvergenceEps  float64
	OnlyMergePeaks  bool
	RandomSeed      int64

	// Reporting
	Verbose bool
	Quiet   bool
	Version bool
}

// UsageError marks a failure the user can fix on the command line; the shim
// maps it to exit code 2.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

// NewFlagSet returns a clean FlagSet with ContinueOnError. Help output goes
// through Usage so the caller decides where it lands.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {}
	return fs
}

// Usage writes the full help text to w.
func Usage(w io.Writer, fs *pflag.FlagSet) {
	fmt.Fprintf(w,
		`%s: Irreproducible Discovery Rate (IDR)

Measures consistency between scored peak calls from replicate experiments.
Version: %s

Usage of %s:
%s`, fs.Name(), version.Version, fs.Name(), fs.FlagUsages())
}

// ParseArgs registers and parses all flags, returns an Options struct.
// Defaults for the tunable thresholds come from the config layer.
func ParseArgs(fs *pflag.FlagSet, argv []string, d config.Defaults) (Options, error) {
	var opt Options
	var help bool

	// Input
	fs.StringSliceVarP(&opt.Samples, "samples", "s", nil, "two files containing peaks and scores (required)")
	fs.StringVarP(&opt.PeakList, "peak-list", "p", "", "unified peak list; all reported peaks are taken from it")
	fs.StringVar(&opt.InputFileType, "input-file-type", "narrowPeak", "file type of --samples and --peak-list: narrowPeak | broadPeak | bed")
	fs.StringVar(&opt.Rank, "rank", "", "ranking column: signal.value | p.value | q.value | score | column index (default: signal.value, bed: score)")

	// Output
	fs.StringVarP(&opt.OutputFile, "output-file", "o", "idrValues.txt", "file to write results to ('-' = stdout)")
	fs.StringVarP(&opt.LogFile, "log-output-file", "l", "", "file to write status output to (default: stderr)")
	fs.BoolVar(&opt.Plot, "plot", false, "write a rank scatter to [output-file].png")

	// Thresholds
	fs.Float64VarP(&opt.IDRThreshold, "idr-threshold", "i", d.IDRThreshold, "only report peaks with a global IDR below this value")
	fs.Float64Var(&opt.SoftIDRThreshold, "soft-idr-threshold", d.SoftIDRThreshold, "report statistics for peaks below this global IDR but keep all peaks")

	// Merging
	fs.StringVar(&opt.PeakMergeMethod, "peak-merge-method", "", "signal aggregation for merged peaks: sum | avg | min | max (default: sum for score/signal, avg for p/q)")
	fs.BoolVar(&opt.UseNonoverlapping, "use-nonoverlapping-peaks", false, "keep peaks without an overlapping match, scoring the absent replicate 0")

	// Model
	fs.Float64Var(&opt.InitialMu, "initial-mu", 0.1, "initial value of mu")
	fs.Float64Var(&opt.InitialSigma, "initial-sigma", 1.0, "initial value of sigma")
	fs.Float64Var(&opt.InitialRho, "initial-rho", 0.2, "initial value of rho")
	fs.Float64Var(&opt.InitialMixParam, "initial-mix-param", 0.5, "initial value of the mixture weight")
	fs.BoolVar(&opt.FixMu, "fix-mu", false, "fix mu to the starting point and do not let it vary")
	fs.BoolVar(&opt.FixSigma, "fix-sigma", false, "fix sigma to the starting point and do not let it vary")
	fs.IntVar(&opt.MaxIter, "max-iter", d.MaxIter, "maximum number of optimization iterations")
	fs.Float64Var(&opt.ConvergenceEps, "convergence-eps", d.ConvergenceEps, "maximum parameter change for convergence")
	fs.BoolVar(&opt.OnlyMergePeaks, "only-merge-peaks", false, "only write the merged peak list")
	fs.Int64Var(&opt.RandomSeed, "random-seed", d.RandomSeed, "seed for the rank tie-break PRNG")

	// Reporting
	fs.BoolVar(&opt.Verbose, "verbose", false, "print additional debug information")
	fs.BoolVar(&opt.Quiet, "quiet", false, "don't print any status messages")
	fs.BoolVarP(&opt.Version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&help, "help", "h", false, "show this help message")

	if err := fs.Parse(argv); err != nil {
		return opt, err
	}
	if help {
		return opt, pflag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}

	// The soft threshold defaults to the hard threshold when only the
	// latter was given.
	if !fs.Changed("soft-idr-threshold") && fs.Changed("idr-threshold") {
		opt.SoftIDRThreshold = opt.IDRThreshold
	}

	// Validation
	switch {
	case len(opt.Samples) != 2:
		return opt, errors.New("--samples requires exactly two peak files")
	case opt.InputFileType != "narrowPeak" && opt.InputFileType != "broadPeak" && opt.InputFileType != "bed":
		return opt, fmt.Errorf("invalid --input-file-type %q", opt.InputFileType)
	case opt.IDRThreshold < 0 || opt.IDRThreshold > 1:
		return opt, errors.New("--idr-threshold must be within [0, 1]")
	case opt.SoftIDRThreshold < 0 || opt.SoftIDRThreshold > 1:
		return opt, errors.New("--soft-idr-threshold must be within [0, 1]")
	case opt.MaxIter <= 0:
		return opt, errors.New("--max-iter must be >= 1")
	case opt.ConvergenceEps <= 0:
		return opt, errors.New("--convergence-eps must be > 0")
	case opt.InitialSigma <= 0:
		return opt, errors.New("--initial-sigma must be > 0")
	case opt.InitialRho < -1 || opt.InitialRho > 1:
		return opt, errors.New("--initial-rho must be within [-1, 1]")
	case opt.InitialMixParam <= 0 || opt.InitialMixParam >= 1:
		return opt, errors.New("--initial-mix-param must be within (0, 1)")
	case opt.Verbose && opt.Quiet:
		return opt, errors.New("--verbose conflicts with --quiet")
	}
	if opt.PeakMergeMethod != "" {
		switch opt.PeakMergeMethod {
		case "sum", "avg", "min", "max":
		default:
			return opt, fmt.Errorf("invalid --peak-merge-method %q", opt.PeakMergeMethod)
		}
	}
	return opt, nil
}
