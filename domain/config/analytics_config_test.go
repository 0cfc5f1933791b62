package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "analytics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultAnalyticsConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultAnalyticsConfig().Validate())
}

func TestLoadAnalyticsConfig_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadAnalyticsConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnalyticsConfig(), cfg)
}

func TestLoadAnalyticsConfig_PartialOverrideKeepsDefaults(t *testing.T) {
	cfg, err := LoadAnalyticsConfig(writeYAML(t, "top_n: 3\nmin_conflicts: 4\n"))
	require.NoError(t, err)

	want := DefaultAnalyticsConfig()
	want.TopN = 3
	want.MinConflicts = 4
	assert.Equal(t, want, cfg)
}

func TestLoadAnalyticsConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") }},
		{"malformed yaml", func(t *testing.T) string { return writeYAML(t, "top_n: [3\n") }},
		{"wrong type", func(t *testing.T) string { return writeYAML(t, "top_n: lots\n") }},
		{"zero minimums", func(t *testing.T) string {
			return writeYAML(t, "min_weekly_rhythm_moments: 0\nmin_conflicts: 0\n")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadAnalyticsConfig(tt.path(t))
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestAnalyticsConfig_ValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *AnalyticsConfig)
		errMsg string
	}{
		{"top_n zero", func(c *AnalyticsConfig) { c.TopN = 0 }, "top_n"},
		{"weekly rhythm minimum", func(c *AnalyticsConfig) { c.MinWeeklyRhythmMoments = 0 }, "min_weekly_rhythm_moments"},
		{"momentum streak", func(c *AnalyticsConfig) { c.MomentumStreakThreshold = -1 }, "momentum_streak_threshold"},
		{"imbalance minimum", func(c *AnalyticsConfig) { c.MinImbalanceMoments = 0 }, "min_imbalance_moments"},
		{"stage connections", func(c *AnalyticsConfig) { c.MinStageConnections = 0 }, "min_stage_connections"},
		{"stage moments", func(c *AnalyticsConfig) { c.MinStageMoments = 0 }, "min_stage_moments"},
		{"trajectory total", func(c *AnalyticsConfig) { c.MinTrajectoryTotal = 0 }, "min_trajectory_total"},
		{"trajectory per connection", func(c *AnalyticsConfig) { c.MinTrajectoryPerPerson = 0 }, "min_trajectory_per_connection"},
		{"recent moments", func(c *AnalyticsConfig) { c.MinRecentMoments = 0 }, "min_recent_moments"},
		{"conflicts", func(c *AnalyticsConfig) { c.MinConflicts = 0 }, "min_conflicts"},
		{"lookahead", func(c *AnalyticsConfig) { c.ResolutionLookahead = 0 }, "resolution_lookahead"},
		{"flagged moments", func(c *AnalyticsConfig) { c.MinFlaggedMoments = 0 }, "min_flagged_moments"},
		{"cycle total", func(c *AnalyticsConfig) { c.MinCycleTotal = 0 }, "min_cycle_total"},
		{"cycle moments", func(c *AnalyticsConfig) { c.MinCycleMoments = 0 }, "min_cycle_moments"},
		{"trajectory window not above recent", func(c *AnalyticsConfig) {
			c.MinTrajectoryPerPerson = 3
			c.MinRecentMoments = 3
		}, "must exceed min_recent_moments"},
		{"base above max", func(c *AnalyticsConfig) { c.ConflictBaseConf = 95 }, "conflict confidence"},
		{"negative base", func(c *AnalyticsConfig) { c.FlagBaseConf = -1 }, "flag confidence"},
		{"max above 100", func(c *AnalyticsConfig) { c.CycleMaxConf = 101 }, "cycle confidence"},
		{"float base above max", func(c *AnalyticsConfig) { c.TrajectoryBaseConf = 99 }, "trajectory confidence"},
		{"momentum max above 100", func(c *AnalyticsConfig) { c.MomentumMaxConf = 120 }, "momentum confidence"},
		{"recent fraction", func(c *AnalyticsConfig) { c.RecentFraction = 1 }, "recent_fraction"},
		{"resolution window", func(c *AnalyticsConfig) { c.ResolutionWindowHours = 0 }, "resolution_window_hours"},
		{"share order", func(c *AnalyticsConfig) { c.DominantShare = 0.1 }, "dominant_share"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAnalyticsConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
