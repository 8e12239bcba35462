package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lao-tseu-is-alive/go-pose-flock/pkg/flock"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, flock.DefaultConfig(), cfg.Flock)
	assert.Equal(t, 100.0, cfg.Render.SpriteSize)
	assert.Zero(t, cfg.Pose.MinScore)
}

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"JSON", ".json", `{
			"logLevel": "debug",
			"flock": {"population": 12, "maxSpeed": 4.5, "spatialGrid": true, "seed": 7},
			"camera": {"width": 1280, "height": 720},
			"pose": {"listen": ":9000", "minScore": 0.3}
		}`},
		{"YAML", "yaml", `
logLevel: debug
flock:
  population: 12
  maxSpeed: 4.5
  spatialGrid: true
  seed: 7
camera:
  width: 1280
  height: 720
pose:
  listen: ":9000"
  minScore: 0.3
`},
		{"TOML", ".toml", `
logLevel = "debug"

[flock]
population = 12
maxSpeed = 4.5
spatialGrid = true
seed = 7

[camera]
width = 1280
height = 720

[pose]
listen = ":9000"
minScore = 0.3
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.data), tt.ext)
			require.NoError(t, err)

			assert.Equal(t, "debug", cfg.LogLevel)
			assert.Equal(t, 12, cfg.Flock.Population)
			assert.Equal(t, 4.5, cfg.Flock.MaxSpeed)
			assert.True(t, cfg.Flock.SpatialGrid)
			assert.Equal(t, uint64(7), cfg.Flock.Seed)
			assert.Equal(t, 1280.0, cfg.Camera.Width)
			assert.Equal(t, ":9000", cfg.Pose.Listen)
			assert.Equal(t, 0.3, cfg.Pose.MinScore)

			// Untouched keys keep their defaults.
			assert.Equal(t, 800, cfg.Flock.Width)
			assert.Equal(t, 180.0, cfg.Flock.RepulsionRadius)
			assert.Equal(t, 100.0, cfg.Render.SpriteSize)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Unknown key", `{"flok": {}}`},
		{"Wrong type", `{"flock": {"population": "many"}}`},
		{"Negative population", `{"flock": {"population": -1}}`},
		{"Fractional population", `{"flock": {"population": 2.5}}`},
		{"Zero max speed", `{"flock": {"maxSpeed": 0}}`},
		{"Bad log level", `{"logLevel": "loud"}`},
		{"Score above one", `{"pose": {"minScore": 1.5}}`},
		{"Inverted speed range", `{"flock": {"minInitialSpeed": 3, "maxInitialSpeed": 1}}`},
		{"Broken JSON", `{"flock": `},
		{"Seed beyond exact float range", `{"flock": {"seed": 9007199254740993}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "json")
			assert.Error(t, err)
		})
	}
}

func TestParse_InvertedSpeedIsAFlockError(t *testing.T) {
	_, err := Parse([]byte(`{"flock": {"minInitialSpeed": 3, "maxInitialSpeed": 1}}`), "json")

	assert.ErrorIs(t, err, flock.ErrInvalidConfiguration)
}

func TestParse_SeedRange(t *testing.T) {
	cfg, err := Parse([]byte(`{"flock": {"seed": 9007199254740991}}`), "json")
	require.NoError(t, err)
	assert.Equal(t, uint64(9007199254740991), cfg.Flock.Seed)

	_, err = Parse([]byte("flock:\n  seed: 18446744073709551615\n"), "yaml")
	assert.Error(t, err)
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte(`population=3`), ".ini")

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flock.yml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  showPanel: false\n  tps: 30\n"), 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.False(t, cfg.Render.ShowPanel)
	assert.Equal(t, 30, cfg.Render.TPS)
	assert.True(t, cfg.Render.ShowKeypoints)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
