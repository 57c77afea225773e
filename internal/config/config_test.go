package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Batch: BatchConfig{
			Trials:    100,
			MaxRounds: 50,
			Seed:      0,
			Workers:   0,
			Strategies: map[string]string{
				"Red":  "aggressive",
				"Blue": "balanced",
			},
		},
		Scenario: ScenarioConfig{
			GridWidth:  20,
			GridHeight: 10,
			TimeOfDay:  "day",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
batch:
  trials: 500
  max_rounds: 30
  seed: 42
  workers: 4
  strategies:
    Red: defensive
    Blue: random
scenario:
  grid_width: 16
  grid_height: 8
  time_of_day: night
  underwater: true
content:
  items_dir: ./content/items
logging:
  level: debug
  format: console
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Batch.Trials)
	assert.Equal(t, int64(42), cfg.Batch.Seed)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, "defensive", cfg.Batch.Strategies["Red"])
	assert.Equal(t, 16, cfg.Scenario.GridWidth)
	assert.Equal(t, "night", cfg.Scenario.TimeOfDay)
	assert.True(t, cfg.Scenario.Underwater)
	assert.Equal(t, "./content/items", cfg.Content.ItemsDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: warn\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Batch.Trials)
	assert.Equal(t, 50, cfg.Batch.MaxRounds)
	assert.Equal(t, "day", cfg.Scenario.TimeOfDay)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestValidateBatchTrials(t *testing.T) {
	cfg := validConfig()
	cfg.Batch.Trials = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateBatchMaxRounds(t *testing.T) {
	cfg := validConfig()
	cfg.Batch.MaxRounds = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateBatchStrategies(t *testing.T) {
	for _, s := range []string{"aggressive", "defensive", "balanced", "random"} {
		cfg := validConfig()
		cfg.Batch.Strategies = map[string]string{"Red": s}
		assert.NoError(t, cfg.Validate(), "strategy %q should be valid", s)
	}
	cfg := validConfig()
	cfg.Batch.Strategies = map[string]string{"Red": "chaotic"}
	assert.Error(t, cfg.Validate())
}

func TestValidateScenarioGrid(t *testing.T) {
	cfg := validConfig()
	cfg.Scenario.GridWidth = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Scenario.GridHeight = -1
	assert.Error(t, cfg.Validate())
}

func TestValidateScenarioTimeOfDay(t *testing.T) {
	for _, tod := range []string{"day", "night"} {
		cfg := validConfig()
		cfg.Scenario.TimeOfDay = tod
		assert.NoError(t, cfg.Validate(), "time of day %q should be valid", tod)
	}
	cfg := validConfig()
	cfg.Scenario.TimeOfDay = "dusk"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

// Property-based tests

func TestPropertyValidTrialRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		trials := rapid.IntRange(1, 1_000_000).Draw(t, "trials")
		cfg := validConfig()
		cfg.Batch.Trials = trials
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid trial count %d rejected: %v", trials, err)
		}
	})
}

func TestPropertyNonPositiveTrialsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		trials := rapid.IntRange(-1000, 0).Draw(t, "trials")
		cfg := validConfig()
		cfg.Batch.Trials = trials
		if cfg.Validate() == nil {
			t.Fatalf("invalid trial count %d accepted", trials)
		}
	})
}

func TestPropertyGridDimensions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 500).Draw(t, "width")
		h := rapid.IntRange(1, 500).Draw(t, "height")
		cfg := validConfig()
		cfg.Scenario.GridWidth = w
		cfg.Scenario.GridHeight = h
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid grid %dx%d rejected: %v", w, h, err)
		}
	})
}
