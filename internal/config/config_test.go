package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tinyrange/winframe/internal/graphics"
)

func writeConfig(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Windows, 1)
	require.Equal(t, slog.LevelInfo, cfg.Level())
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty", ""))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPath_Overrides(t *testing.T) {
	path := writeConfig(t,
		"font_dir: /usr/share/fonts/truetype",
		"log_level: debug",
		`clear_color: "#102030"`,
		"pump_interval: 5ms",
		"windows:",
		"  - title: first",
		"    width: 640",
		"    height: 480",
		"    swap_interval: 0",
		"  - title: second",
		"    width: 300",
		"    height: 200",
		"    swap_interval: 2",
		"    stats_in_title: true",
		"",
	)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, "/usr/share/fonts/truetype", cfg.FontDir)
	require.Equal(t, slog.LevelDebug, cfg.Level())
	require.Equal(t, graphics.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, cfg.ClearColor)
	require.Equal(t, 5*time.Millisecond, cfg.PumpInterval)
	require.Equal(t, []Window{
		{Title: "first", Width: 640, Height: 480},
		{Title: "second", Width: 300, Height: 200, SwapInterval: 2, StatsInTitle: true},
	}, cfg.Windows)
}

func TestLoadFromPath_RejectsUnknownFields(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "colour: red", ""))
	require.ErrorContains(t, err, "failed to parse yaml")
}

func TestLoadFromPath_RejectsBadColor(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, `clear_color: "#zz0000"`, ""))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"pump interval", func(c *Config) { c.PumpInterval = -time.Second }, "pump_interval"},
		{"no windows", func(c *Config) { c.Windows = nil }, "windows"},
		{"zero width", func(c *Config) { c.Windows[0].Width = 0 }, "windows[0]"},
		{"negative swap interval", func(c *Config) { c.Windows[0].SwapInterval = -1 }, "windows[0].swap_interval"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Equal(t, tc.path, verr.Path)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Windows = append(cfg.Windows, Window{Title: "tools", Width: 200, Height: 100, StatsInTitle: true})

	require.NoError(t, cfg.Save(path))
	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
