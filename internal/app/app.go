// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"idr/internal/bed"
	"idr/internal/cli"
	"idr/internal/config"
	"idr/internal/copula"
	"idr/internal/logging"
	"idr/internal/logsink"
	"idr/internal/output"
	"idr/internal/peaks"
	"idr/internal/plotting"
	"idr/internal/ranks"
	"idr/internal/summary"
	"idr/internal/version"
)

// Main runs the full IDR pipeline: parse flags, establish the log sink, load
// and merge the replicates, fit the copula mixture, write the thresholded
// results. It reports failure as an error; exit-code mapping and invocation
// echo belong to the launcher.
func Main(ctx context.Context, argv []string, stdout, stderr io.Writer, sink *logsink.Sink) error {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	fs := cli.NewFlagSet("idr")
	fs.SetOutput(io.Discard)

	opts, err := cli.ParseArgs(fs, argv, config.Load())
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			cli.Usage(outw, fs)
			return nil
		}
		return &cli.UsageError{Err: err}
	}
	if opts.Version {
		_, _ = fmt.Fprintf(outw, "idr version %s\n", version.Version)
		return nil
	}

	if opts.LogFile != "" {
		f, err := os.Create(opts.LogFile)
		if err != nil {
			return fmt.Errorf("open log output: %w", err)
		}
		sink.Set(f)
	}
	log := logging.New(sink.Current(), opts.Verbose, opts.Quiet)
	defer func() { _ = log.Sync() }()

	signalIndex, err := bed.SignalColumn(opts.InputFileType, opts.Rank)
	if err != nil {
		return &cli.UsageError{Err: err}
	}
	agg := peaks.DefaultAggregator(signalIndex)
	if opts.PeakMergeMethod != "" {
		if agg, err = peaks.Aggregator(opts.PeakMergeMethod); err != nil {
			return &cli.UsageError{Err: err}
		}
	}

	log.Debug("loading the peak files", zap.Strings("samples", opts.Samples))
	s1, err := bed.LoadPath(opts.Samples[0], signalIndex)
	if err != nil {
		return err
	}
	s2, err := bed.LoadPath(opts.Samples[1], signalIndex)
	if err != nil {
		return err
	}
	var oracle map[bed.ContigKey][]bed.Peak
	if opts.PeakList != "" {
		if oracle, err = bed.LoadPath(opts.PeakList, signalIndex); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Debug("merging peaks")
	merged := peaks.Merge(s1, s2, agg, oracle, opts.UseNonoverlapping)
	if len(merged) == 0 {
		return errors.New("no merged peaks: the replicates share no overlapping peaks")
	}

	log.Debug("ranking peaks", zap.Int("merged", len(merged)))
	r1, r2 := ranks.Vectors(merged, opts.RandomSeed)
	if err := ctx.Err(); err != nil {
		return err
	}

	var local, global []float64
	var fit *copula.Fit
	if !opts.OnlyMergePeaks {
		if len(merged) < 20 {
			rows, _ := output.BuildRows(merged, nil, nil, opts.IDRThreshold, opts.SoftIDRThreshold)
			if werr := writeResults(ctx, outw, opts.OutputFile, rows); werr != nil {
				log.Warn("writing merged peaks", zap.Error(werr))
			}
			return errors.New("peak files must contain at least 20 peaks post-merge (the merged peaks were written to the output file)")
		}
		cfg := copula.Config{
			Start: copula.Params{
				Mu:    opts.InitialMu,
				Sigma: opts.InitialSigma,
				Rho:   opts.InitialRho,
				P:     opts.InitialMixParam,
			},
			MaxIter:  opts.MaxIter,
			Eps:      opts.ConvergenceEps,
			FixMu:    opts.FixMu,
			FixSigma: opts.FixSigma,
		}
		var f copula.Fit
		local, global, f, err = copula.FitAndComputeIDR(cfg, r1, r2, true, log)
		if err != nil {
			return err
		}
		fit = &f
	}

	rows, stats := output.BuildRows(merged, local, global, opts.IDRThreshold, opts.SoftIDRThreshold)
	if err := writeResults(ctx, outw, opts.OutputFile, rows); err != nil {
		if output.IsBrokenPipe(err) {
			return nil
		}
		return err
	}

	log.Info("finished",
		zap.Int("merged", stats.Merged),
		zap.Int("reported", stats.Reported),
		zap.Int("passing_soft_threshold", stats.PassingSoft),
	)
	if !opts.Quiet {
		if serr := summary.Render(sink.Current(), stats, opts.SoftIDRThreshold, fit); serr != nil {
			log.Warn("rendering summary", zap.Error(serr))
		}
	}

	if opts.Plot && global != nil {
		png := plotPath(opts.OutputFile)
		if perr := plotting.RankScatter(png, r1, r2, global, opts.SoftIDRThreshold); perr != nil {
			log.Warn("plotting failed", zap.Error(perr))
		} else {
			log.Info("wrote rank plot", zap.String("path", png))
		}
	}
	return nil
}

// writeResults streams rows to the output file, or to stdout when path is "-".
func writeResults(ctx context.Context, stdout io.Writer, path string, rows []output.Row) error {
	var w io.Writer
	if path == "-" {
		w = stdout
	} else {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		bw := bufio.NewWriter(f)
		defer func() { _ = bw.Flush() }()
		w = bw
	}

	in, errCh := output.StartRowWriter(w, 64)
	for _, r := range rows {
		select {
		case in <- r:
		case <-ctx.Done():
			close(in)
			<-errCh
			return ctx.Err()
		}
	}
	close(in)
	return <-errCh
}

func plotPath(outputFile string) string {
	if outputFile == "-" {
		return "idrValues.png"
	}
	return outputFile + ".png"
}

// ExitCode maps a pipeline error to the process exit code, writing the
// diagnostic to stderr: 0 success, 2 usage, 130 cancellation, 1 otherwise.
func ExitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	_, _ = fmt.Fprintln(stderr, err)
	var ue *cli.UsageError
	if errors.As(err, &ue) {
		return 2
	}
	return 1
}

// RunContext is the test entry point: it owns a log sink scoped to the call
// and returns the process exit code.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	sink := logsink.New(stderr)
	err := Main(parent, argv, stdout, stderr, sink)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return ExitCode(err, stderr)
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}
