// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Defaults seeds the flag defaults that users most often want to pin
// per-machine. Precedence: flags > IDR_* environment > ~/.idr/config.yaml >
// built-ins.
type Defaults struct {
	IDRThreshold     float64
	SoftIDRThreshold float64
	MaxIter          int
	ConvergenceEps   float64
	RandomSeed       int64
}

// Builtin returns the compiled-in defaults, bypassing any config file or
// environment. Tests parse flags against these.
func Builtin() Defaults {
	return Defaults{
		IDRThreshold:     1.0,
		SoftIDRThreshold: 0.05,
		MaxIter:          100,
		ConvergenceEps:   1e-6,
		RandomSeed:       0,
	}
}

// Load overlays ~/.idr/config.yaml and IDR_* environment variables onto the
// built-in defaults. A missing or unreadable config file is not an error.
func Load() Defaults {
	b := Builtin()

	v := viper.New()
	v.SetDefault("idr-threshold", b.IDRThreshold)
	v.SetDefault("soft-idr-threshold", b.SoftIDRThreshold)
	v.SetDefault("max-iter", b.MaxIter)
	v.SetDefault("convergence-eps", b.ConvergenceEps)
	v.SetDefault("random-seed", b.RandomSeed)

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".idr"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix("IDR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return Defaults{
		IDRThreshold:     v.GetFloat64("idr-threshold"),
		SoftIDRThreshold: v.GetFloat64("soft-idr-threshold"),
		MaxIter:          v.GetInt("max-iter"),
		ConvergenceEps:   v.GetFloat64("convergence-eps"),
		RandomSeed:       v.GetInt64("random-seed"),
	}
}
