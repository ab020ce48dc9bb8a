package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/exports")
	if cfg.Export.Dir != "/tmp/exports" {
		t.Fatalf("unexpected export dir %q", cfg.Export.Dir)
	}
	if cfg.Export.FileName != "Rainbow-Alliance-Tier-List.pdf" || cfg.Export.Scale != 2 {
		t.Fatalf("unexpected export defaults %#v", cfg.Export)
	}
	if len(cfg.Columns) != 6 {
		t.Fatalf("expected six default columns, got %d", len(cfg.Columns))
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/exports")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Title != defaults.Board.Title || len(cfg.Columns) != len(defaults.Columns) {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[board]
title = "Coalition Map"
topic = "Clean air"

[[columns]]
id = "core"
title = "Core"
color = "#112233"
meaning = "Inner circle"
strategy = "Lead"

[[columns]]
id = "edge"
title = "Edge"

[export]
dir = "/custom/out"
scale = 3
fonts = ["NotoSansCJK-Regular.ttc"]

[logging]
level = "debug"

[keys]
export = "p"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/exports"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Title != "Coalition Map" || cfg.Board.Topic != "Clean air" {
		t.Fatalf("unexpected board config %#v", cfg.Board)
	}
	if len(cfg.Columns) != 2 || cfg.Columns[0].ID != "core" || cfg.Columns[1].ID != "edge" {
		t.Fatalf("expected file columns to replace defaults, got %#v", cfg.Columns)
	}
	if cfg.Export.Dir != "/custom/out" || cfg.Export.Scale != 3 {
		t.Fatalf("unexpected export config %#v", cfg.Export)
	}
	if len(cfg.Export.Fonts) != 1 || cfg.Export.Fonts[0] != "NotoSansCJK-Regular.ttc" {
		t.Fatalf("unexpected export fonts %#v", cfg.Export.Fonts)
	}
	if cfg.Export.FileName != DefaultFileName {
		t.Fatalf("expected default file name retained, got %q", cfg.Export.FileName)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level %q", cfg.Logging.Level)
	}
	if cfg.Keys.Export != "p" || cfg.Keys.Drag != "" {
		t.Fatalf("unexpected key overrides %#v", cfg.Keys)
	}
}

func TestLoadWithoutColumnsKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[board]\ntitle = \"Only title\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	cfg, err := Load(path, Default("/tmp/exports"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Columns) != 6 {
		t.Fatalf("expected default columns, got %d", len(cfg.Columns))
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"no columns":       func(c *Config) { c.Columns = nil },
		"blank id":         func(c *Config) { c.Columns[0].ID = " " },
		"reserved prefix":  func(c *Config) { c.Columns[0].ID = "item-red" },
		"blank title":      func(c *Config) { c.Columns[1].Title = "" },
		"duplicate id":     func(c *Config) { c.Columns[1].ID = c.Columns[0].ID },
		"bad color":        func(c *Config) { c.Columns[2].Color = "rainbow" },
		"scale too big":    func(c *Config) { c.Export.Scale = 9 },
		"scale zero":       func(c *Config) { c.Export.Scale = 0 },
		"not pdf":          func(c *Config) { c.Export.FileName = "board.png" },
		"nested file name": func(c *Config) { c.Export.FileName = "out/board.pdf" },
		"bad level":        func(c *Config) { c.Logging.Level = "loud" },
		"blank font":       func(c *Config) { c.Export.Fonts = []string{" "} },
		"key clash": func(c *Config) {
			c.Keys.Export = "x"
			c.Keys.Copy = "x"
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default("/tmp/exports")
			cfg.Columns = append([]ColumnConfig(nil), cfg.Columns...)
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[board\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := Load(path, Default("/tmp/exports")); err == nil || !strings.Contains(err.Error(), "decode toml") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestWriteDefaultRoundTripsAndKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	defaults := Default("/tmp/exports")
	written, err := WriteDefault(path, defaults)
	if err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}
	if !written {
		t.Fatal("expected file to be written")
	}
	cfg, err := Load(path, Config{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Columns) != len(defaults.Columns) || cfg.Columns[0].Title != defaults.Columns[0].Title {
		t.Fatalf("unexpected round-tripped columns %#v", cfg.Columns)
	}

	written, err = WriteDefault(path, Config{})
	if err != nil {
		t.Fatalf("WriteDefault() second call error = %v", err)
	}
	if written {
		t.Fatal("expected existing file to be kept")
	}
}
