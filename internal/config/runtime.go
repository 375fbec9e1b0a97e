package config

import (
	"strings"

	"github.com/spf13/viper"
)

// RuntimeOptions are the handful of knobs cmd/hexturn exposes beyond
// the compiled-in Default snapshot: how many houses to seed, how large
// a galaxy to generate, and which master RNG seed to resolve turns
// with.
type RuntimeOptions struct {
	Houses []string
	Rings  int
	Seed   int64
}

// defaultRuntimeOptions holds sane values that let the CLI run with
// zero configuration.
func defaultRuntimeOptions() RuntimeOptions {
	return RuntimeOptions{
		Houses: []string{"Sol Dominion", "Krell Ascendancy"},
		Rings:  3,
		Seed:   1,
	}
}

// ParseRuntime loads RuntimeOptions from an optional configuration file
// (name without extension) layered over environment variables under
// the HEXDOMINION_ prefix, layered over defaults.
func ParseRuntime(configFile string) RuntimeOptions {
	viper.SetEnvPrefix("HEXDOMINION")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.AutomaticEnv()

	opts := defaultRuntimeOptions()

	if len(configFile) > 0 {
		viper.SetConfigName(configFile)
		viper.AddConfigPath(".")
		viper.AddConfigPath("data/config")
		// No config file is the common case for a local game; a missing
		// game config isn't fatal here, and the environment still applies.
		_ = viper.ReadInConfig()
	}

	if viper.IsSet("Game.Houses") {
		opts.Houses = viper.GetStringSlice("Game.Houses")
	}
	if viper.IsSet("Game.Rings") {
		opts.Rings = viper.GetInt("Game.Rings")
	}
	if viper.IsSet("Game.Seed") {
		opts.Seed = int64(viper.GetInt64("Game.Seed"))
	}

	return opts
}
