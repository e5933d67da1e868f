package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable values are skipped with a warning.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			log.WithField("override", raw).Warn("override is not key=value")
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		if !applyKV(&cfg, key, val) {
			log.WithField("override", raw).Warn("ignoring config override")
		}
	}
	return cfg
}

func applyKV(cfg *Config, key, val string) bool {
	switch key {
	case "theme":
		cfg.Theme = val
	case "log_dir":
		cfg.LogDir = val
	case "typing_speed_ms":
		return setInt(&cfg.TypingSpeedMS, val)
	case "max_output_lines":
		return setInt(&cfg.MaxOutputLines, val)
	case "max_width":
		return setInt(&cfg.MaxWidth, val)
	case "show_thinking":
		return setBool(&cfg.ShowThinking, val)
	case "show_tool_details":
		return setBool(&cfg.ShowToolDetails, val)
	case "show_tool_content":
		return setBool(&cfg.ShowToolContent, val)
	case "show_token_usage":
		return setBool(&cfg.ShowTokenUsage, val)
	case "log_enabled":
		return setBool(&cfg.LogEnabled, val)
	case "verbose":
		return setBool(&cfg.Verbose, val)
	default:
		return false
	}
	return true
}

func setInt(dst *int, val string) bool {
	n, err := strconv.Atoi(val)
	if err != nil {
		return false
	}
	*dst = n
	return true
}

func setBool(dst *bool, val string) bool {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	*dst = b
	return true
}
