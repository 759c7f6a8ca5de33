// Package config resolves hostfetch settings from flags, the config file and the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// FileName is the optional settings file inside the config directory
const FileName = "config.yaml"

// Config holds the settings of one run
type Config struct {
	// AsciiDistro forces the logo of the named distribution.
	AsciiDistro string
	// Logo prints only the art.
	Logo bool
	// JSON prints the snapshot and run report instead of rendering.
	JSON bool
	// LogLevel is the most verbose severity written to stderr.
	LogLevel string
	// ConfigDir holds config.yaml and the template overrides.
	ConfigDir string
	// Root makes every probe read files below this directory instead of /.
	Root string
	// Disable lists probes that are not run.
	Disable []string

	Help    bool
	Version bool
	// Usage is the flag help text.
	Usage string
}

// fileConfig is the shape of config.yaml. Nil fields are not set by the file.
type fileConfig struct {
	AsciiDistro *string  `yaml:"ascii_distro"`
	Logo        *bool    `yaml:"logo"`
	LogLevel    *string  `yaml:"log_level"`
	Root        *string  `yaml:"root"`
	Disable     []string `yaml:"disable"`
}

// Load returns the defaults, taken from environment variables where set
func Load() *Config {
	return &Config{
		LogLevel:  getEnv("HOSTFETCH_LOG_LEVEL", "warn"),
		ConfigDir: getEnv("HOSTFETCH_CONFIG_DIR", defaultConfigDir()),
		Root:      getEnv("HOSTFETCH_ROOT", ""),
	}
}

// LoadFromFlags parses args on top of the config file, which is applied on top of Load.
func LoadFromFlags(args []string) (*Config, error) {
	cfg := Load()

	var flagCfg Config
	var verbose bool
	flagSet := pflag.NewFlagSet("hostfetch", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVarP(&flagCfg.AsciiDistro, "ascii_distro", "a", "", "use the logo of another distribution")
	flagSet.BoolVarP(&flagCfg.Logo, "logo", "l", false, "print only the logo")
	flagSet.BoolVar(&flagCfg.JSON, "json", false, "print collected data as JSON instead of rendering")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log debug messages to stderr")
	flagSet.StringVar(&flagCfg.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flagSet.StringVar(&flagCfg.ConfigDir, "config-dir", "", "directory holding config.yaml and template overrides")
	flagSet.StringVar(&flagCfg.Root, "root", "", "read host files below this directory; commands are not run")
	flagSet.StringSliceVar(&flagCfg.Disable, "disable", nil, "comma-separated probes to skip")
	flagSet.BoolVarP(&cfg.Help, "help", "h", false, "show help")
	flagSet.BoolVar(&cfg.Version, "version", false, "print the version")

	cfg.Usage = flagSet.FlagUsages()
	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", rest[0])
	}

	if flagSet.Changed("config-dir") {
		cfg.ConfigDir = flagCfg.ConfigDir
	}
	if err := cfg.applyFile(); err != nil {
		return nil, err
	}

	if flagSet.Changed("ascii_distro") {
		cfg.AsciiDistro = flagCfg.AsciiDistro
	}
	if flagSet.Changed("logo") {
		cfg.Logo = flagCfg.Logo
	}
	cfg.JSON = flagCfg.JSON
	if flagSet.Changed("log-level") {
		cfg.LogLevel = flagCfg.LogLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if flagSet.Changed("root") {
		cfg.Root = flagCfg.Root
	}
	if flagSet.Changed("disable") {
		cfg.Disable = flagCfg.Disable
	}

	return cfg, nil
}

// applyFile overlays config.yaml from the config directory when it exists
func (c *Config) applyFile() error {
	if c.ConfigDir == "" {
		return nil
	}
	path := filepath.Join(c.ConfigDir, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if file.AsciiDistro != nil {
		c.AsciiDistro = *file.AsciiDistro
	}
	if file.Logo != nil {
		c.Logo = *file.Logo
	}
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
	}
	if file.Root != nil {
		c.Root = *file.Root
	}
	if file.Disable != nil {
		c.Disable = file.Disable
	}
	return nil
}

// ArtPath is the art template override
func (c *Config) ArtPath() string { return c.templatePath("art.lua") }

// InfoPath is the info template override
func (c *Config) InfoPath() string { return c.templatePath("info.lua") }

// LayoutPath is the layout template override
func (c *Config) LayoutPath() string { return c.templatePath("layout.lua") }

func (c *Config) templatePath(name string) string {
	if c.ConfigDir == "" {
		return ""
	}
	return filepath.Join(c.ConfigDir, name)
}

func defaultConfigDir() string {
	if dir := getEnv("XDG_CONFIG_HOME", ""); dir != "" {
		return filepath.Join(dir, "hostfetch")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hostfetch")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
