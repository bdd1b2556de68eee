// Package config loads the stackreport TOML configuration file.
//
// The file is looked up at the path given with --config, otherwise at
// $XDG_CONFIG_HOME/stackreport/config.toml (~/.config/... when unset).
// A missing default file is not an error; every field has a default.
//
//	[render]
//	template_dir = "./templates"
//	graph_engine = "embedded"
//
//	[[shortcut]]
//	name = "summary"
//	key  = "s"
//
//	[cache]
//	redis_url = "${REDIS_URL}"
//	ttl       = "24h"
//
// ${VAR} and ${VAR:-default} references are expanded from the environment
// before parsing.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/report"
)

// Graph layout engines.
const (
	EngineExec     = "exec"
	EngineEmbedded = "embedded"
)

const (
	appName         = "stackreport"
	defaultFileName = "config.toml"
)

// Config is the whole configuration file.
type Config struct {
	Render    RenderConfig     `toml:"render"`
	Shortcuts []ShortcutConfig `toml:"shortcut"`
	Cache     CacheConfig      `toml:"cache"`
	Serve     ServeConfig      `toml:"serve"`
}

// RenderConfig controls the render engine.
type RenderConfig struct {
	TemplateDir string `toml:"template_dir"` // empty means built-in templates
	KeepTemp    bool   `toml:"keep_temp"`
	TempRoot    string `toml:"temp_root"` // empty means os.TempDir()
	PlotTool    string `toml:"plot_tool"`
	GraphTool   string `toml:"graph_tool"`
	GraphEngine string `toml:"graph_engine"` // "exec" or "embedded"
}

// ShortcutConfig is one entry of the page's shortcut table.
type ShortcutConfig struct {
	Name string `toml:"name"`
	Key  string `toml:"key"`
}

// CacheConfig selects and tunes the document cache.
type CacheConfig struct {
	Disabled bool          `toml:"disabled"`
	Dir      string        `toml:"dir"`       // empty means $XDG_CACHE_HOME/stackreport
	RedisURL string        `toml:"redis_url"` // takes precedence over Dir
	Prefix   string        `toml:"prefix"`    // redis key prefix
	Scope    string        `toml:"scope"`     // namespace shared by projects on one backend
	TTL      time.Duration `toml:"ttl"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			PlotTool:    "gnuplot",
			GraphTool:   "dot",
			GraphEngine: EngineExec,
		},
		Cache: CacheConfig{
			Prefix: appName + ":",
			TTL:    7 * 24 * time.Hour,
		},
		Serve: ServeConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, defaultFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, defaultFileName), nil
}

// Resolve loads the file at path, or the default file when path is empty.
// Only an explicitly named file has to exist.
func Resolve(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), "", nil
		}
		path = p
	}

	cfg, err := Load(path)
	if errors.Is(err, errors.ErrCodeFileNotFound) && !explicit {
		return Default(), "", nil
	}
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Load reads and validates the file at path on top of [Default].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read config %s", path)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML from r on top of [Default] and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read config")
	}

	cfg := Default()
	md, err := toml.Decode(expandEnvVars(string(data)), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that TOML typing cannot.
func (c *Config) Validate() error {
	switch c.Render.GraphEngine {
	case EngineExec, EngineEmbedded:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "render.graph_engine must be %q or %q, got %q",
			EngineExec, EngineEmbedded, c.Render.GraphEngine)
	}

	for _, p := range []struct{ name, value string }{
		{"render.template_dir", c.Render.TemplateDir},
		{"render.temp_root", c.Render.TempRoot},
		{"cache.dir", c.Cache.Dir},
	} {
		if p.value == "" {
			continue
		}
		if err := errors.ValidatePath(p.value); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPath, err, "%s", p.name)
		}
	}

	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}

	_, err := c.ShortcutList()
	return err
}

// ShortcutList converts the [[shortcut]] tables into report shortcuts.
func (c *Config) ShortcutList() ([]report.Shortcut, error) {
	out := make([]report.Shortcut, 0, len(c.Shortcuts))
	for i, s := range c.Shortcuts {
		if err := errors.ValidateShortcutName(s.Name); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "shortcut %d", i)
		}
		r, size := utf8.DecodeRuneInString(s.Key)
		if size == 0 || size != len(s.Key) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "shortcut %q: key must be a single letter, got %q", s.Name, s.Key)
		}
		if _, err := report.KeyCode(r); err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnsupportedShortcutKey, err, "shortcut %q", s.Name)
		}
		out = append(out, report.Shortcut{Name: s.Name, Key: r})
	}
	return out, nil
}

// Write encodes c as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(content string) string {
	return envRef.ReplaceAllStringFunc(content, func(match string) string {
		name, def, _ := strings.Cut(match[2:len(match)-1], ":-")
		if v := os.Getenv(name); v != "" {
			return v
		}
		return def
	})
}
