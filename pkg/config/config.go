// Package config loads routegen.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name without extension.
const FileName = "routegen"

// EnvPrefix is the prefix of environment overrides (ROUTEGEN_PAGES, ...).
const EnvPrefix = "ROUTEGEN"

// Config represents routegen.yaml.
type Config struct {
	// Pages is the directory holding page components
	Pages string `mapstructure:"pages" yaml:"pages" json:"pages"`
	// Pattern selects page files inside Pages
	Pattern string `mapstructure:"pattern" yaml:"pattern" json:"pattern"`
	// Ignore lists globs of files that never become routes
	Ignore []string `mapstructure:"ignore" yaml:"ignore,omitempty" json:"ignore,omitempty"`
	// ImportPrefix is prepended to component import paths
	ImportPrefix string `mapstructure:"importPrefix" yaml:"importPrefix" json:"importPrefix"`
	// DynamicImport emits lazy import() calls instead of static imports
	DynamicImport bool `mapstructure:"dynamicImport" yaml:"dynamicImport" json:"dynamicImport"`
	// ChunkNamePrefix is prepended to every chunk name
	ChunkNamePrefix string `mapstructure:"chunkNamePrefix" yaml:"chunkNamePrefix,omitempty" json:"chunkNamePrefix,omitempty"`
	// Nested makes top-level route paths relative
	Nested bool `mapstructure:"nested" yaml:"nested" json:"nested"`
	// InlineRouteBlock merges <route> blocks at generation time; when false
	// the block is imported from the component and spread at runtime
	InlineRouteBlock bool `mapstructure:"inlineRouteBlock" yaml:"inlineRouteBlock" json:"inlineRouteBlock"`
	// OptionalParams marks trailing params without an index sibling optional
	OptionalParams bool `mapstructure:"optionalParams" yaml:"optionalParams" json:"optionalParams"`
	// OutFile is where the route module is written
	OutFile string `mapstructure:"outFile" yaml:"outFile" json:"outFile"`
	// ValidateOutput syntax-checks the generated module before writing it
	ValidateOutput bool `mapstructure:"validate" yaml:"validate" json:"validate"`
	// Dev configures the dev server
	Dev DevConfig `mapstructure:"dev" yaml:"dev" json:"dev"`
}

// DevConfig represents the dev section of routegen.yaml.
type DevConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr" json:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pages:            "src/pages",
		Pattern:          "**/*.vue",
		ImportPrefix:     "@/pages/",
		DynamicImport:    true,
		InlineRouteBlock: true,
		OutFile:          "src/router/routes.js",
		ValidateOutput:   true,
		Dev:              DevConfig{Addr: "127.0.0.1:4321"},
	}
}

// Load reads the config file from dir, or the explicit path when file is
// set. A missing config file is not an error: defaults and environment
// overrides apply. A .env file in dir is loaded first when present.
func Load(dir, file string) (*Config, string, error) {
	if err := loadDotEnv(dir); err != nil {
		return nil, "", err
	}

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
	}

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, "", fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, used, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("pages", d.Pages)
	v.SetDefault("pattern", d.Pattern)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("importPrefix", d.ImportPrefix)
	v.SetDefault("dynamicImport", d.DynamicImport)
	v.SetDefault("chunkNamePrefix", d.ChunkNamePrefix)
	v.SetDefault("nested", d.Nested)
	v.SetDefault("inlineRouteBlock", d.InlineRouteBlock)
	v.SetDefault("optionalParams", d.OptionalParams)
	v.SetDefault("outFile", d.OutFile)
	v.SetDefault("validate", d.ValidateOutput)
	v.SetDefault("dev.addr", d.Dev.Addr)
}

func loadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Pages) == "" {
		missing = append(missing, "pages")
	}
	if strings.TrimSpace(c.Pattern) == "" {
		missing = append(missing, "pattern")
	}
	if strings.TrimSpace(c.OutFile) == "" {
		missing = append(missing, "outFile")
	}
	if len(missing) > 0 {
		return fmt.Errorf("invalid config: %s must not be empty", strings.Join(missing, ", "))
	}
	return nil
}

// Resolve makes relative paths absolute against dir.
func (c *Config) Resolve(dir string) *Config {
	out := *c
	if !filepath.IsAbs(out.Pages) {
		out.Pages = filepath.Join(dir, out.Pages)
	}
	if !filepath.IsAbs(out.OutFile) {
		out.OutFile = filepath.Join(dir, out.OutFile)
	}
	return &out
}

// Write saves the config as YAML.
func (c *Config) Write(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
