package planconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwhan/trademate/internal/scenario"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverridesScenario(t *testing.T) {
	path := writeTemp(t, `
scenarios:
  basic:
    - ratio: 0.4
    - ratio: 0.6
      offset: -0.05
sectors:
  "373220": "배터리"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	defs := cfg.Definitions()

	// Overridden scenario
	basic := defs[scenario.TypeBasic]
	require.Len(t, basic, 2)
	assert.Equal(t, 0.4, basic[0].Ratio)
	require.NotNil(t, basic[1].Offset)
	assert.Equal(t, -0.05, *basic[1].Offset)

	// Untouched scenario keeps its default
	assert.Len(t, defs[scenario.TypeConservative], 3)

	assert.Equal(t, "배터리", cfg.Sectors["373220"])
}

func TestLoad_UnknownFieldFails(t *testing.T) {
	path := writeTemp(t, `
scenariso:
  basic:
    - ratio: 1.0
`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{Scenarios: map[scenario.Type][]scenario.Tranche{
				"custom": {{Ratio: 0.5}, {Ratio: 0.5}},
			}},
		},
		{
			name:    "empty tranches",
			cfg:     Config{Scenarios: map[scenario.Type][]scenario.Tranche{"custom": {}}},
			wantErr: true,
		},
		{
			name: "ratio out of range",
			cfg: Config{Scenarios: map[scenario.Type][]scenario.Tranche{
				"custom": {{Ratio: 1.5}},
			}},
			wantErr: true,
		},
		{
			name: "ratios exceed total",
			cfg: Config{Scenarios: map[scenario.Type][]scenario.Tranche{
				"custom": {{Ratio: 0.8}, {Ratio: 0.8}},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
