// Package config loads the settings shared by the command-line tools.
package config

// Config holds all tool settings.
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// DecoderConfig holds occupancy decoding settings.
type DecoderConfig struct {
	Strict   bool `yaml:"strict"`
	Workers  int  `yaml:"workers"`   // frames decoded concurrently, <= 1 is sequential
	NbThread int  `yaml:"nb_thread"` // forwarded to reconstruction
}

// OutputConfig controls what the decoder tool writes.
type OutputConfig struct {
	Dir      string `yaml:"dir"`
	Prefix   string `yaml:"prefix"`
	WritePNG bool   `yaml:"write_png"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config for lenient sequential decoding.
func Default() *Config {
	return &Config{
		Decoder: DecoderConfig{
			Strict:   false,
			Workers:  1,
			NbThread: 1,
		},
		Output: OutputConfig{
			Dir:      ".",
			Prefix:   "occupancy",
			WritePNG: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
