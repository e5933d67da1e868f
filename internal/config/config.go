package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"agentui/internal/render"
	"agentui/internal/sessionlog"
	"agentui/internal/stream"
	"agentui/internal/theme"
)

// Config is the persisted config file schema.
type Config struct {
	Theme           string `toml:"theme"`
	TypingSpeedMS   int    `toml:"typing_speed_ms"`
	ShowThinking    bool   `toml:"show_thinking"`
	ShowToolDetails bool   `toml:"show_tool_details"`
	ShowToolContent bool   `toml:"show_tool_content"`
	ShowTokenUsage  bool   `toml:"show_token_usage"`
	MaxOutputLines  int    `toml:"max_output_lines"`
	MaxWidth        int    `toml:"max_width"`
	LogDir          string `toml:"log_dir"`
	LogEnabled      bool   `toml:"log_enabled"`
	Verbose         bool   `toml:"verbose"`
	Source          string `toml:"-"`
}

func Default() Config {
	o := render.DefaultOptions()
	return Config{
		Theme:           string(o.Theme),
		TypingSpeedMS:   int(stream.DefaultTypingSpeed / time.Millisecond),
		ShowToolDetails: o.ShowToolDetails,
		MaxOutputLines:  o.MaxOutputLines,
		MaxWidth:        o.MaxWidth,
		LogDir:          sessionlog.DefaultDir,
		LogEnabled:      true,
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".agentui", "config.toml")
}

// Load reads path (DefaultPath when empty). A missing file yields the
// defaults; AGENTUI_* environment variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv("AGENTUI_THEME")); env != "" {
		cfg.Theme = env
	}
	if env := strings.TrimSpace(os.Getenv("AGENTUI_LOG_DIR")); env != "" {
		cfg.LogDir = env
	}
	if env := strings.TrimSpace(os.Getenv("AGENTUI_VERBOSE")); env != "" {
		if v, err := strconv.ParseBool(env); err == nil {
			cfg.Verbose = v
		} else {
			log.WithField("value", env).Warn("ignoring invalid AGENTUI_VERBOSE")
		}
	}
}

// RenderOptions maps the config onto render options. An unknown theme name
// falls back to the default with a warning.
func (c Config) RenderOptions() render.Options {
	o := render.DefaultOptions()
	if name, err := theme.Parse(c.Theme); err == nil {
		o.Theme = name
	} else {
		log.WithError(err).Warn("config theme ignored")
	}
	if c.TypingSpeedMS > 0 {
		o.TypingSpeed = time.Duration(c.TypingSpeedMS) * time.Millisecond
	}
	o.ShowThinking = c.ShowThinking
	o.ShowToolDetails = c.ShowToolDetails
	o.ShowToolContent = c.ShowToolContent
	o.ShowTokenUsage = c.ShowTokenUsage
	if c.MaxOutputLines > 0 {
		o.MaxOutputLines = c.MaxOutputLines
	}
	if c.MaxWidth > 0 {
		o.MaxWidth = c.MaxWidth
	}
	o.Log.Enabled = c.LogEnabled
	if c.LogDir != "" {
		o.Log.Dir = c.LogDir
	}
	o.Log.Verbose = c.Verbose
	return o
}
