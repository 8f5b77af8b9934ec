package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/oscwire/internal/logging"
	"github.com/danmuck/oscwire/internal/protocol/frame"
)

// Config is the oscctl runtime configuration.
type Config struct {
	MaxPacketBytes    int
	MaxBundleDepth    int
	EncodeBufferBytes int
	LogLevel          string
	Metrics           bool
}

type fileConfig struct {
	MaxPacketBytes    int    `toml:"max_packet_bytes"`
	MaxBundleDepth    int    `toml:"max_bundle_depth"`
	EncodeBufferBytes int    `toml:"encode_buffer_bytes"`
	LogLevel          string `toml:"log_level"`
	Metrics           bool   `toml:"metrics"`
}

func Default() Config {
	limits := frame.DefaultLimits()
	return Config{
		MaxPacketBytes:    limits.MaxPacketBytes,
		MaxBundleDepth:    limits.MaxBundleDepth,
		EncodeBufferBytes: 1024,
		LogLevel:          "info",
	}
}

// Load reads path and applies every defined key on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("max_packet_bytes") {
		cfg.MaxPacketBytes = raw.MaxPacketBytes
	}
	if meta.IsDefined("max_bundle_depth") {
		cfg.MaxBundleDepth = raw.MaxBundleDepth
	}
	if meta.IsDefined("encode_buffer_bytes") {
		cfg.EncodeBufferBytes = raw.EncodeBufferBytes
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("metrics") {
		cfg.Metrics = raw.Metrics
	}

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if cfg.MaxPacketBytes < 0 {
		return fmt.Errorf("max_packet_bytes must not be negative")
	}
	if cfg.MaxBundleDepth < 0 {
		return fmt.Errorf("max_bundle_depth must not be negative")
	}
	if cfg.EncodeBufferBytes < 8 {
		return fmt.Errorf("encode_buffer_bytes must be at least 8")
	}
	if cfg.EncodeBufferBytes%4 != 0 {
		return fmt.Errorf("encode_buffer_bytes must be a multiple of 4")
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	return nil
}

// Limits returns the tokenizer limits. Zero means unlimited.
func (c Config) Limits() frame.Limits {
	return frame.Limits{
		MaxPacketBytes: c.MaxPacketBytes,
		MaxBundleDepth: c.MaxBundleDepth,
	}
}
