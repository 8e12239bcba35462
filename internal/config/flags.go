package config

import (
	"flag"
	"fmt"
)

// Flags are the command line settings shared by the commands. A flag given on
// the command line wins over the config file.
type Flags struct {
	fs *flag.FlagSet

	Path       string
	Population int
	Seed       uint64
	Listen     string
	Stdin      bool
	Grid       bool
	LogLevel   string
}

// BindFlags registers the flags on fs.
func BindFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	def := Default()
	fs.StringVar(&f.Path, "config", "", "config file (.json, .yaml, .yml or .toml)")
	fs.IntVar(&f.Population, "population", def.Flock.Population, "number of boids")
	fs.Uint64Var(&f.Seed, "seed", 0, "random seed of the initial layout, 0 picks one from the clock")
	fs.StringVar(&f.Listen, "listen", def.Pose.Listen, "pose websocket listen address, empty to disable")
	fs.BoolVar(&f.Stdin, "stdin", false, "read line-delimited JSON pose frames from stdin")
	fs.BoolVar(&f.Grid, "grid", false, "use the spatial grid for neighbor search")
	fs.StringVar(&f.LogLevel, "log-level", def.LogLevel, "debug, info, warn or error")
	return f
}

// Config loads the config file, if any, then applies the flags that were set.
// Call it after fs.Parse.
func (f *Flags) Config() (Config, error) {
	cfg := Default()
	if f.Path != "" {
		var err error
		if cfg, err = Load(f.Path); err != nil {
			return Config{}, err
		}
	}
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "population":
			cfg.Flock.Population = f.Population
		case "seed":
			cfg.Flock.Seed = f.Seed
		case "listen":
			cfg.Pose.Listen = f.Listen
		case "stdin":
			cfg.Pose.Stdin = f.Stdin
		case "grid":
			cfg.Flock.SpatialGrid = f.Grid
		case "log-level":
			cfg.LogLevel = f.LogLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}
