package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kpfaulkner/annotiff/layer"
	"github.com/kpfaulkner/annotiff/options"
	"github.com/kpfaulkner/annotiff/tiffio"
	"github.com/spf13/viper"
)

// Config holds command line tool settings.
type Config struct {
	Render RenderConfig
	Encode EncodeConfig
	Log    LogConfig
}

// RenderConfig holds compositing defaults.
type RenderConfig struct {
	Alpha float64
}

// EncodeConfig holds container writing settings.
type EncodeConfig struct {
	Compression string
	FillColor   string `mapstructure:"fill_color"`
}

type LogConfig struct {
	Level string
}

// Load reads configuration from file and env. An explicit path wins over
// ANNOTIFF_CONFIG, which wins over ~/.config/annotiff/config.toml. Env var
// overrides use prefix ANNOTIFF_.
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("render.alpha", 1.0)
	v.SetDefault("encode.compression", "default")
	v.SetDefault("encode.fill_color", "255,255,255")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("ANNOTIFF_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "annotiff"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ANNOTIFF")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// a missing default file is fine, a named one is not
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// CodecOptions converts the encode section into codec options.
func (c Config) CodecOptions() (*options.CodecOptions, error) {
	level, err := ParseCompression(c.Encode.Compression)
	if err != nil {
		return nil, err
	}
	fill, err := ParseColor(c.Encode.FillColor)
	if err != nil {
		return nil, fmt.Errorf("encode.fill_color: %w", err)
	}
	opts := options.CodecOptions{CompressionLevel: level}.WithFillColor(fill)
	return &opts, nil
}

func ParseCompression(s string) (tiffio.CompressionLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return tiffio.DefaultCompression, nil
	case "none":
		return tiffio.NoCompression, nil
	case "speed":
		return tiffio.BestSpeed, nil
	case "best":
		return tiffio.BestCompression, nil
	}
	return 0, fmt.Errorf("unknown compression %q (want default, none, speed or best)", s)
}

// ParseColor reads "R,G,B" with each channel in 0..255.
func ParseColor(s string) (layer.Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return layer.Color{}, fmt.Errorf("colour %q is not R,G,B", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return layer.Color{}, fmt.Errorf("colour %q: %w", s, err)
		}
		rgb[i] = uint8(v)
	}
	return layer.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}
