package metricview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mvgen/pkg/core"
)

func TestResolve_InlineWinsWholeObject(t *testing.T) {
	a := &core.Artifact{
		Path: "marts.orders",
		InlineMeta: &core.MetricViewSpec{
			Enabled: true,
			Name:    "mv_orders_inline",
		},
		ExternalMeta: &core.MetricViewSpec{
			Enabled:     true,
			Name:        "mv_orders_external",
			Description: "should be ignored entirely",
			Filter:      "status = 'complete'",
		},
	}

	spec, enabled, err := Resolve(a)
	require.NoError(t, err)
	require.True(t, enabled)

	// Inline wins as a whole object, no field merge
	assert.Equal(t, "mv_orders_inline", spec.Name)
	assert.Empty(t, spec.Description)
	assert.Empty(t, spec.Filter)
}

func TestResolve_ExternalFallback(t *testing.T) {
	tests := []struct {
		name   string
		inline *core.MetricViewSpec
	}{
		{name: "inline absent", inline: nil},
		{name: "inline disabled", inline: &core.MetricViewSpec{Enabled: false, Name: "mv_disabled"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &core.Artifact{
				Path:       "marts.orders",
				InlineMeta: tt.inline,
				ExternalMeta: &core.MetricViewSpec{
					Enabled: true,
					Name:    "mv_orders",
				},
			}

			spec, enabled, err := Resolve(a)
			require.NoError(t, err)
			require.True(t, enabled)
			assert.Equal(t, "mv_orders", spec.Name)
		})
	}
}

func TestResolve_Disabled(t *testing.T) {
	tests := []struct {
		name     string
		artifact *core.Artifact
	}{
		{
			name:     "no metadata at all",
			artifact: &core.Artifact{Path: "staging.events"},
		},
		{
			name: "both present, both disabled",
			artifact: &core.Artifact{
				Path:         "staging.events",
				InlineMeta:   &core.MetricViewSpec{Name: "mv_a"},
				ExternalMeta: &core.MetricViewSpec{Name: "mv_b"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, enabled, err := Resolve(tt.artifact)
			require.NoError(t, err)
			assert.False(t, enabled)
			assert.Nil(t, spec)
		})
	}
}

func TestResolve_EnabledWithoutName(t *testing.T) {
	a := &core.Artifact{
		Path:       "marts.orders",
		InlineMeta: &core.MetricViewSpec{Enabled: true},
	}

	_, _, err := Resolve(a)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "marts.orders", cfgErr.Subject)
	assert.Equal(t, "name", cfgErr.Field)
}

func TestResolve_EnabledExternalWithoutName(t *testing.T) {
	a := &core.Artifact{
		Path:         "marts.orders",
		ExternalMeta: &core.MetricViewSpec{Enabled: true},
	}

	_, _, err := Resolve(a)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "name", cfgErr.Field)
}
