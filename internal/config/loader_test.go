package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.HideDotFiles)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.EnableAuth)

	require.Len(t, cfg.Sections, 2)
	games := cfg.Sections[0]
	assert.Equal(t, "/games", games.Key)
	require.Len(t, games.Buckets, 2)
	assert.Equal(t, "solo", games.Buckets[0].Slug)
	assert.Equal(t, "Solo", games.Buckets[0].Tag)
	assert.Empty(t, cfg.Sections[1].Buckets)
}

func TestLoadFromFile(t *testing.T) {
	content := `{
		"host": "127.0.0.1",
		"port": 9090,
		"root": "/srv/depot",
		"sections": [
			{"key": "/games", "dir": "games", "buckets": [
				{"slug": "solo", "tag": "Solo"},
				{"slug": "multi", "tag": "Multi"}
			]},
			{"key": "/docs", "dir": "docs"}
		],
		"hide_patterns": ["*.part"],
		"log_level": "debug"
	}`
	path := filepath.Join(t.TempDir(), "filedepot.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, path))

	assert.Equal(t, "127.0.0.1", cfg.Host)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/srv/depot", cfg.Root)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, []string{"*.part"}, cfg.HidePatterns)
	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, "multi", cfg.Sections[0].Buckets[1].Slug)
}

func TestLoadFromFileErrors(t *testing.T) {
	cfg := Default()
	assert.Error(t, loadFromFile(cfg, filepath.Join(t.TempDir(), "missing.json")))

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	assert.Error(t, loadFromFile(cfg, bad))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FILEDEPOT_HOST", "10.0.0.1")
	t.Setenv("FILEDEPOT_PORT", "8181")
	t.Setenv("FILEDEPOT_ROOT", "/srv/depot")
	t.Setenv("FILEDEPOT_SECTIONS", "/games=games, /docs=docs")
	t.Setenv("FILEDEPOT_HIDE_DOTFILES", "false")
	t.Setenv("FILEDEPOT_HIDE_PATTERNS", "*.part, *.tmp")
	t.Setenv("FILEDEPOT_LOG_LEVEL", "warn")
	t.Setenv("FILEDEPOT_ENABLE_AUTH", "true")
	t.Setenv("FILEDEPOT_USERNAME", "keeper")
	t.Setenv("FILEDEPOT_PASSWORD_HASH", "$2a$10$xyz")

	cfg := Default()
	loadFromEnv(cfg)

	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 8181, cfg.Port)
	assert.Equal(t, "/srv/depot", cfg.Root)
	assert.False(t, cfg.HideDotFiles)
	assert.Equal(t, []string{"*.part", "*.tmp"}, cfg.HidePatterns)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.True(t, cfg.EnableAuth)
	assert.Equal(t, "keeper", cfg.Username)
	assert.Equal(t, "$2a$10$xyz", cfg.PasswordHash)

	require.Len(t, cfg.Sections, 2)
	assert.Equal(t, "/games", cfg.Sections[0].Key)
	assert.Equal(t, "games", cfg.Sections[0].Dir)
	assert.Empty(t, cfg.Sections[0].Buckets)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("FILEDEPOT_PORT", "not-a-port")
	t.Setenv("FILEDEPOT_HIDE_DOTFILES", "maybe")

	cfg := Default()
	loadFromEnv(cfg)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.HideDotFiles)
}

func TestParseSectionPairs(t *testing.T) {
	sections, err := parseSectionPairs("/games=games,/docs=shared/docs")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, SectionConfig{Key: "/games", Dir: "games"}, sections[0])
	assert.Equal(t, SectionConfig{Key: "/docs", Dir: "shared/docs"}, sections[1])

	_, err = parseSectionPairs("/games")
	assert.Error(t, err)
	_, err = parseSectionPairs("=dir")
	assert.Error(t, err)
}

func TestMergePatterns(t *testing.T) {
	merged := mergePatterns([]string{"*.tmp", "*.part"}, []string{"*.part", "*.bak"})
	assert.Equal(t, []string{"*.tmp", "*.part", "*.bak"}, merged)
}
