package config

import "flag"

// Flags are the command-line overrides. Only flags given explicitly override
// file values.
type Flags struct {
	fs *flag.FlagSet

	config   *string
	debug    *bool
	strict   *bool
	workers  *int
	nbThread *int
	outDir   *string
	prefix   *string
	noPNG    *bool
	logFile  *string
}

// RegisterFlags defines the shared flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs:       fs,
		config:   fs.String("config", "", "path to config file"),
		debug:    fs.Bool("debug", false, "enable debug logging"),
		strict:   fs.Bool("strict", false, "reject non-conforming streams"),
		workers:  fs.Int("workers", 0, "frames decoded concurrently"),
		nbThread: fs.Int("nb-thread", 0, "threads for point cloud reconstruction"),
		outDir:   fs.String("out", "", "output directory"),
		prefix:   fs.String("prefix", "", "output file prefix"),
		noPNG:    fs.Bool("no-png", false, "do not write occupancy PNGs"),
		logFile:  fs.String("log-file", "", "also log to this rotating file"),
	}
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

func (f *Flags) apply(cfg *Config) {
	f.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "strict":
			cfg.Decoder.Strict = *f.strict
		case "workers":
			cfg.Decoder.Workers = *f.workers
		case "nb-thread":
			cfg.Decoder.NbThread = *f.nbThread
		case "out":
			cfg.Output.Dir = *f.outDir
		case "prefix":
			cfg.Output.Prefix = *f.prefix
		case "no-png":
			cfg.Output.WritePNG = !*f.noPNG
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		}
	})
}
