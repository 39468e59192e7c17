package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// NOTE: frame pixels are packed left to right, top to bottom, MSB first
const (
	DefaultFPS       = 60
	DefaultThreshold = 128

	// full clear once per second at the default rate
	DefaultClearEvery = 60

	// zstd level the container is written at, mapped onto the klauspost encoder levels
	CompressionLevel = 19

	// dictionary training
	DictMaxSize     = 112640
	DictSampleLimit = 512

	// Path
	PathConfig     = "dotreel.toml"
	PathFramesDir  = "output/frame"
	PathAudio      = "output/audio/output.mp3"
	PathContainer  = "movie.zst"
	PathDictionary = "dict.zstd"

	envPrefix = "DOTREEL_"
)

type Config struct {
	FramesDir   string `toml:"frames_dir"`
	Audio       string `toml:"audio"`
	Container   string `toml:"container"`
	Dictionary  string `toml:"dictionary"`
	FPS         int    `toml:"fps"`
	Threshold   int    `toml:"threshold"`
	Invert      bool   `toml:"invert"`
	ClearEvery  int    `toml:"clear_every"`
	Workers     int    `toml:"workers"`
	AllowLegacy bool   `toml:"allow_legacy"`
	ShowStats   bool   `toml:"show_stats"`
	MetricsAddr string `toml:"metrics_addr"`
	LogLevel    string `toml:"log_level"`
}

func Default() Config {
	return Config{
		FramesDir:  PathFramesDir,
		Audio:      PathAudio,
		Container:  PathContainer,
		Dictionary: PathDictionary,
		FPS:        DefaultFPS,
		Threshold:  DefaultThreshold,
		ClearEvery: DefaultClearEvery,
		ShowStats:  true,
	}
}

// Load applies the TOML file at path (if it exists) and then DOTREEL_* environment
// variables on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"FRAMES_DIR":   &c.FramesDir,
		"AUDIO":        &c.Audio,
		"CONTAINER":    &c.Container,
		"DICTIONARY":   &c.Dictionary,
		"METRICS_ADDR": &c.MetricsAddr,
		"LOG_LEVEL":    &c.LogLevel,
	}
	for key, dst := range strs {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"FPS":         &c.FPS,
		"THRESHOLD":   &c.Threshold,
		"CLEAR_EVERY": &c.ClearEvery,
		"WORKERS":     &c.Workers,
	}
	for key, dst := range ints {
		if v, ok := lookup(envPrefix + key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, key, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"INVERT":       &c.Invert,
		"ALLOW_LEGACY": &c.AllowLegacy,
		"SHOW_STATS":   &c.ShowStats,
	}
	for key, dst := range bools {
		if v, ok := lookup(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, key, err)
			}
			*dst = b
		}
	}
	return nil
}

func (c Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("threshold must be within 0..255, got %d", c.Threshold)
	}
	if c.ClearEvery < 0 {
		return fmt.Errorf("clear_every must not be negative, got %d", c.ClearEvery)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	return nil
}

// FramePeriod is the wall time one frame is shown for.
func (c Config) FramePeriod() time.Duration {
	return time.Second / time.Duration(c.FPS)
}
