package factorconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Len(t, cfg.Factors, 6)
	assert.Equal(t, []string{
		"volatility", "volume_pressure", "price_strength",
		"futures_basis", "valuation_spread", "margin_leverage",
	}, cfg.FactorNames())

	// Canonical inversion flags
	assert.True(t, cfg.Factors[0].Invert, "volatility is inverted")
	assert.True(t, cfg.Factors[4].Invert, "valuation spread is inverted")
	assert.False(t, cfg.Factors[2].Invert, "price strength is not inverted")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
factors:
  - name: volatility
    kind: volatility
    window: 10
    invert: true
  - name: volume_pressure
    kind: volume_pressure
    window: 20
weights:
  min: 0.1
  max: 0.9
fit:
  min_samples: 8
  max_samples: 20
  max_iterations: 100
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Factors, 2)
	assert.Equal(t, 10, cfg.Factors[0].Window)
	assert.Equal(t, 0.1, cfg.Weights.Min)
	assert.Equal(t, 8, cfg.Fit.MinSamples)

	// Sections absent from the file keep the defaults
	assert.Equal(t, 14, cfg.Reconcile.LookbackDays)
	assert.Equal(t, 30, cfg.Scoring.MinObservations)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, `
factors:
  - name: volatility
    kind: volatility
    window: 20
    inverted: true
`)

	_, err := Load(path)
	assert.Error(t, err, "typo 'inverted' must not decode silently")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"default", func(c *Config) {}, true},
		{"no factors", func(c *Config) { c.Factors = nil }, false},
		{"duplicate name", func(c *Config) { c.Factors[1].Name = c.Factors[0].Name }, false},
		{"unknown kind", func(c *Config) { c.Factors[0].Kind = "sentiment" }, false},
		{"missing window", func(c *Config) { c.Factors[0].Window = 0 }, false},
		{"infeasible bounds (max too small)", func(c *Config) { c.Weights.Max = 0.1 }, false},
		{"infeasible bounds (min too large)", func(c *Config) { c.Weights.Min = 0.3 }, false},
		{"smoothing out of range", func(c *Config) { c.Bias.Smoothing = 1.0 }, false},
		{"bad lookback", func(c *Config) { c.Reconcile.LookbackDays = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Len(t, cfg.Factors, 6)

	_, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "factors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
