package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the export document name used when none is configured.
const DefaultFileName = "Rainbow-Alliance-Tier-List.pdf"

type Config struct {
	Board   BoardConfig    `toml:"board"`
	Columns []ColumnConfig `toml:"columns"`
	Export  ExportConfig   `toml:"export"`
	Logging LoggingConfig  `toml:"logging"`
	Keys    KeyConfig      `toml:"keys"`
}

type BoardConfig struct {
	Title string `toml:"title"`
	Topic string `toml:"topic"`
}

type ColumnConfig struct {
	ID       string `toml:"id"`
	Title    string `toml:"title"`
	Color    string `toml:"color"`
	Meaning  string `toml:"meaning"`
	Strategy string `toml:"strategy"`
}

type ExportConfig struct {
	Dir      string `toml:"dir"`
	FileName string `toml:"file_name"`
	Scale    int    `toml:"scale"`
	// Fonts are tried before the bundled fonts. Entries are file paths or
	// file names found in the system font directories.
	Fonts []string `toml:"fonts"`
}

// KeyConfig holds optional key overrides for the board view.
type KeyConfig struct {
	Drag     string `toml:"drag"`
	Topic    string `toml:"topic"`
	AddItems string `toml:"add_items"`
	Export   string `toml:"export"`
	Info     string `toml:"info"`
	Copy     string `toml:"copy"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

func defaultColumns() []ColumnConfig {
	return []ColumnConfig{
		{
			ID:       "red",
			Title:    "Red - Champions",
			Color:    "#ef4444",
			Meaning:  "Already leading on the issue and publicly committed.",
			Strategy: "Give them the microphone. Ask them to recruit and co-sign.",
		},
		{
			ID:       "orange",
			Title:    "Orange - Active allies",
			Color:    "#f97316",
			Meaning:  "Agree with the goal and show up when asked.",
			Strategy: "Hand out concrete tasks and keep them in the loop.",
		},
		{
			ID:       "yellow",
			Title:    "Yellow - Passive allies",
			Color:    "#eab308",
			Meaning:  "Sympathetic but not yet acting.",
			Strategy: "Lower the cost of joining with one small, visible ask.",
		},
		{
			ID:       "green",
			Title:    "Green - Neutral",
			Color:    "#22c55e",
			Meaning:  "Undecided or unaware of the issue.",
			Strategy: "Lead with shared values and local stories.",
		},
		{
			ID:       "blue",
			Title:    "Blue - Passive opposition",
			Color:    "#3b82f6",
			Meaning:  "Lean against but are not organizing.",
			Strategy: "Address their concerns directly and avoid escalation.",
		},
		{
			ID:       "purple",
			Title:    "Purple - Active opposition",
			Color:    "#a855f7",
			Meaning:  "Organizing against the campaign.",
			Strategy: "Track their moves and keep allies ready to respond.",
		},
	}
}

func Default(exportDir string) Config {
	return Config{
		Board: BoardConfig{
			Title: "Rainbow Alliance Tier List",
		},
		Columns: defaultColumns(),
		Export: ExportConfig{
			Dir:      exportDir,
			FileName: DefaultFileName,
			Scale:    2,
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".tierlist/log",
			},
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	cfg.Columns = append([]ColumnConfig(nil), defaults.Columns...)
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	// A file that declares [[columns]] replaces the default set rather than merging into it.
	var present struct {
		Columns []ColumnConfig `toml:"columns"`
	}
	if err := toml.Unmarshal(content, &present); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	if len(present.Columns) > 0 {
		cfg.Columns = nil
	}
	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Columns) == 0 {
		return errors.New("columns must include at least one column")
	}
	seen := map[string]struct{}{}
	for idx, column := range c.Columns {
		id := strings.TrimSpace(column.ID)
		if id == "" {
			return fmt.Errorf("columns[%d].id is required", idx)
		}
		if strings.HasPrefix(id, "item-") {
			return fmt.Errorf("columns[%d].id must not use the reserved item- prefix: %s", idx, id)
		}
		if strings.TrimSpace(column.Title) == "" {
			return fmt.Errorf("columns[%d].title is required", idx)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("columns[%d].id is duplicated: %s", idx, id)
		}
		seen[id] = struct{}{}
		if color := strings.TrimSpace(column.Color); color != "" {
			if _, err := colorful.Hex(color); err != nil {
				return fmt.Errorf("columns[%d].color %q is not a hex color", idx, column.Color)
			}
		}
	}

	if c.Export.Scale < 1 || c.Export.Scale > 4 {
		return fmt.Errorf("export.scale must be between 1 and 4, got %d", c.Export.Scale)
	}
	if name := strings.TrimSpace(c.Export.FileName); name != "" {
		if !strings.EqualFold(filepath.Ext(name), ".pdf") {
			return fmt.Errorf("export.file_name must end with .pdf: %q", name)
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("export.file_name must not contain directories: %q", name)
		}
	}
	for idx, font := range c.Export.Fonts {
		if strings.TrimSpace(font) == "" {
			return fmt.Errorf("export.fonts[%d] is blank", idx)
		}
	}

	boundKeys := map[string]string{}
	for name, value := range map[string]string{
		"drag":      c.Keys.Drag,
		"topic":     c.Keys.Topic,
		"add_items": c.Keys.AddItems,
		"export":    c.Keys.Export,
		"info":      c.Keys.Info,
		"copy":      c.Keys.Copy,
	} {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		if other, ok := boundKeys[value]; ok {
			return fmt.Errorf("keys.%s and keys.%s share the same key %q", name, other, value)
		}
		boundKeys[value] = name
	}

	switch strings.ToLower(strings.TrimSpace(c.Logging.Level)) {
	case "", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	return nil
}

// WriteDefault writes cfg as TOML to path unless a file already exists there.
func WriteDefault(path string, cfg Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return false, fmt.Errorf("create config dir: %w", err)
	}
	encoded, err := toml.Marshal(cfg)
	if err != nil {
		return false, fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return false, fmt.Errorf("write config: %w", err)
	}
	return true, nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
