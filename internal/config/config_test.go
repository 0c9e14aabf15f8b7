package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/timing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Practice.Mode != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[practice]
mode = "review"
words = 15
srs = false

[time]
mode = "fixed"
fixed = 8.5

[difficulty]
preset = "hard"
max-penalty-percent = 20.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != "review" {
		t.Fatalf("unexpected mode: %v", cfg.Practice.Mode)
	}
	if cfg.Practice.Words == nil || *cfg.Practice.Words != 15 {
		t.Fatalf("unexpected words: %v", cfg.Practice.Words)
	}
	if cfg.Practice.SRS == nil || *cfg.Practice.SRS {
		t.Fatalf("unexpected srs: %v", cfg.Practice.SRS)
	}
	if cfg.Time.Fixed == nil || *cfg.Time.Fixed != 8.5 {
		t.Fatalf("unexpected fixed: %v", cfg.Time.Fixed)
	}
	if cfg.Difficulty.MaxPenaltyPercent == nil || *cfg.Difficulty.MaxPenaltyPercent != 20 {
		t.Fatalf("unexpected max penalty: %v", cfg.Difficulty.MaxPenaltyPercent)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[practice]\nlang = \"en\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestResolveDifficultyPreset(t *testing.T) {
	p, err := ResolveDifficulty("expert", DifficultyConfig{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want, _ := timing.Preset(model.PresetExpert)
	if p != want {
		t.Fatalf("expected expert preset, got %+v", p)
	}
}

func TestResolveDifficultyOverrideMarksCustom(t *testing.T) {
	base := 7.0
	p, err := ResolveDifficulty("normal", DifficultyConfig{BasePenaltyPercent: &base})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.Preset != model.PresetCustom {
		t.Fatalf("expected custom preset, got %q", p.Preset)
	}
	if p.BasePenaltyPercent != 7 || p.PenaltyEscalationFactor != 1.5 {
		t.Fatalf("unexpected params: %+v", p)
	}
}

func TestResolveDifficultyInvalid(t *testing.T) {
	factor := 0.5
	_, err := ResolveDifficulty("normal", DifficultyConfig{PenaltyEscalationFactor: &factor})
	if !errors.Is(err, timing.ErrInvalidParams) {
		t.Fatalf("expected ErrInvalidParams, got %v", err)
	}
	if _, err := ResolveDifficulty("brutal", DifficultyConfig{}); !errors.Is(err, timing.ErrUnknownPreset) {
		t.Fatalf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestResolveTimeLimits(t *testing.T) {
	mode := "fixed"
	fixed := 6.0
	limits, err := ResolveTimeLimits(TimeConfig{Mode: &mode, Fixed: &fixed})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if limits.Mode != model.TimeFixed || limits.Fixed != 6 || limits.Max != timing.DefaultMaxTimeLimit {
		t.Fatalf("unexpected limits: %+v", limits)
	}
	minLimit := 30.0
	if _, err := ResolveTimeLimits(TimeConfig{Min: &minLimit}); !errors.Is(err, timing.ErrInvalidLimits) {
		t.Fatalf("expected ErrInvalidLimits, got %v", err)
	}
}

func TestLoadEnvKeepsProcessValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "KANATYPE_DB=/tmp/from-file.db\nKANATYPE_CONFIG=/tmp/from-file.toml\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvDBPath, "/tmp/from-process.db")
	t.Setenv(EnvConfigPath, "")
	if err := os.Unsetenv(EnvConfigPath); err != nil {
		t.Fatalf("unset: %v", err)
	}

	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := DBPath(); got != "/tmp/from-process.db" {
		t.Fatalf("expected process value, got %q", got)
	}
	if got := ConfigPath(); got != "/tmp/from-file.toml" {
		t.Fatalf("expected file value, got %q", got)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv(EnvDBPath, "")
	t.Setenv(EnvConfigPath, "")
	if got := DBPath(); got != filepath.Join("/data", "kanatype", "kanatype.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := ConfigPath(); got != filepath.Join("/cfg", "kanatype", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
}
