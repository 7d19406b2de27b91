package cli

import (
	"testing"

	"github.com/spf13/pflag"

	"idr/internal/config"
)

func newFS() *pflag.FlagSet { return NewFlagSet("test") }

func mustParse(t *testing.T, args ...string) Options {
	t.Helper()
	opts, err := ParseArgs(newFS(), args, config.Builtin())
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	return opts
}

func TestTwoSamplesOK(t *testing.T) {
	o := mustParse(t, "--samples", "a.narrowPeak", "--samples", "b.narrowPeak")
	if len(o.Samples) != 2 || o.Samples[0] != "a.narrowPeak" {
		t.Errorf("bad samples parse %+v", o.Samples)
	}
	if o.InputFileType != "narrowPeak" {
		t.Errorf("default file type %q", o.InputFileType)
	}
	if o.OutputFile != "idrValues.txt" {
		t.Errorf("default output file %q", o.OutputFile)
	}
}

func TestSamplesShorthandCommaForm(t *testing.T) {
	o := mustParse(t, "-s", "a.bed,b.bed", "--input-file-type", "bed")
	if len(o.Samples) != 2 || o.Samples[1] != "b.bed" {
		t.Errorf("comma form parse %+v", o.Samples)
	}
}

func TestErrorOneSample(t *testing.T) {
	if _, err := ParseArgs(newFS(), []string{"--samples", "a.narrowPeak"}, config.Builtin()); err == nil {
		t.Fatalf("expected error with a single sample")
	}
}

func TestErrorNoSamples(t *testing.T) {
	if _, err := ParseArgs(newFS(), nil, config.Builtin()); err == nil {
		t.Fatalf("expected error with no samples")
	}
}

func TestErrorBadFileType(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-s", "a,b", "--input-file-type", "gff"}, config.Builtin())
	if err == nil {
		t.Fatalf("expected error for unknown file type")
	}
}

func TestErrorBadMergeMethod(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-s", "a,b", "--peak-merge-method", "median"}, config.Builtin())
	if err == nil {
		t.Fatalf("expected error for unknown merge method")
	}
}

func TestErrorVerboseQuietConflict(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-s", "a,b", "--verbose", "--quiet"}, config.Builtin())
	if err == nil {
		t.Fatalf("expected mutual-exclusion error")
	}
}

func TestSoftThresholdFollowsHardThreshold(t *testing.T) {
	o := mustParse(t, "-s", "a,b", "--idr-threshold", "0.02")
	if o.SoftIDRThreshold != 0.02 {
		t.Errorf("soft threshold = %v, want hard threshold 0.02", o.SoftIDRThreshold)
	}

	o = mustParse(t, "-s", "a,b", "--idr-threshold", "0.02", "--soft-idr-threshold", "0.1")
	if o.SoftIDRThreshold != 0.1 {
		t.Errorf("explicit soft threshold overridden: %v", o.SoftIDRThreshold)
	}

	o = mustParse(t, "-s", "a,b")
	if o.SoftIDRThreshold != 0.05 {
		t.Errorf("default soft threshold = %v, want 0.05", o.SoftIDRThreshold)
	}
}

func TestErrorThresholdRange(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-s", "a,b", "--idr-threshold", "1.5"}, config.Builtin())
	if err == nil {
		t.Fatalf("expected range error for --idr-threshold")
	}
}

func TestVersionFlagShortCircuitsValidation(t *testing.T) {
	o, err := ParseArgs(newFS(), []string{"--version"}, config.Builtin())
	if err != nil {
		t.Fatalf("parse err: %v", err)
	}
	if !o.Version {
		t.Fatalf("version flag not set")
	}
}

func TestHelpReturnsErrHelp(t *testing.T) {
	_, err := ParseArgs(newFS(), []string{"-h"}, config.Builtin())
	if err != pflag.ErrHelp {
		t.Fatalf("err = %v, want pflag.ErrHelp", err)
	}
}

func TestModelFlagDefaults(t *testing.T) {
	o := mustParse(t, "-s", "a,b")
	if o.InitialMu != 0.1 || o.InitialSigma != 1.0 || o.InitialRho != 0.2 || o.InitialMixParam != 0.5 {
		t.Errorf("model starting point %+v", o)
	}
	if o.MaxIter != 100 || o.ConvergenceEps != 1e-6 {
		t.Errorf("optimizer defaults %d/%v", o.MaxIter, o.ConvergenceEps)
	}
}
