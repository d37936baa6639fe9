// Package config loads page rendering settings.
//
// Priority (highest to lowest):
//  1. Environment variables with PNP_ prefix (e.g., PNP_COLORS_PAD)
//  2. The config file given with --config, or pnp.{yaml,toml} in the
//     working directory
//  3. Built-in defaults (assembly.DefaultConfig)
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"github.com/spf13/viper"

	"github.com/OpenTraceLab/OpenTracePnP/pkg/assembly"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PNP"

// Load reads the rendering configuration. An empty path searches the
// working directory for a "pnp" config file and tolerates its absence;
// an explicit path must exist.
func Load(path string) (assembly.Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return assembly.Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("pnp")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return assembly.Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	d := assembly.DefaultConfig()

	v.SetDefault("colors.pad", "lightgray")
	v.SetDefault("colors.pad_highlight", "#AA0000")
	v.SetDefault("colors.box", "none")
	v.SetDefault("colors.box_highlight", "#E9AFAF")
	v.SetDefault("colors.box_border", "#AA0000")
	v.SetDefault("colors.edge", "black")
	v.SetDefault("colors.text", "black")
	v.SetDefault("line.edge_width", d.EdgeLineWidth)
	v.SetDefault("line.box_border_width", d.BoxHighlightLineWidth)
	v.SetDefault("pad_scale", d.PadScale)
	v.SetDefault("text_gap", d.TextGap)
	v.SetDefault("page.width", d.PageWidth)
	v.SetDefault("page.height", d.PageHeight)
	v.SetDefault("page.margin", d.PageMargin)
	v.SetDefault("font.size", d.FontSize)
	v.SetDefault("allow_padless", d.AllowPadless)
}

func fromViper(v *viper.Viper) (assembly.Config, error) {
	cfg := assembly.Config{
		EdgeLineWidth:         v.GetFloat64("line.edge_width"),
		BoxHighlightLineWidth: v.GetFloat64("line.box_border_width"),
		PadScale:              v.GetFloat64("pad_scale"),
		TextGap:               v.GetFloat64("text_gap"),
		PageWidth:             v.GetFloat64("page.width"),
		PageHeight:            v.GetFloat64("page.height"),
		PageMargin:            v.GetFloat64("page.margin"),
		FontSize:              v.GetFloat64("font.size"),
		AllowPadless:          v.GetBool("allow_padless"),
	}

	colors := []struct {
		key string
		dst *color.Color
	}{
		{"colors.pad", &cfg.PadColor},
		{"colors.pad_highlight", &cfg.PadHighlightColor},
		{"colors.box", &cfg.BoxColor},
		{"colors.box_highlight", &cfg.BoxHighlightColor},
		{"colors.box_border", &cfg.BoxHighlightStroke},
		{"colors.edge", &cfg.EdgeColor},
		{"colors.text", &cfg.TextColor},
	}
	for _, c := range colors {
		parsed, err := assembly.ParseColor(v.GetString(c.key))
		if err != nil {
			return assembly.Config{}, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return assembly.Config{}, err
	}
	return cfg, nil
}
