package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AnalyticsConfig carries the thresholds and confidence constants of the
// insight analyzers. The defaults are presentation-tuned values; they are not
// statistically derived.
type AnalyticsConfig struct {
	// Ranking
	TopN int `yaml:"top_n"`

	// Weekly rhythm
	MinWeeklyRhythmMoments int `yaml:"min_weekly_rhythm_moments"`
	WeeklyRhythmMaxConf    int `yaml:"weekly_rhythm_max_confidence"`
	WeeklyRhythmFactor     int `yaml:"weekly_rhythm_factor"`

	// Emotional momentum
	MomentumStreakThreshold int `yaml:"momentum_streak_threshold"`
	MomentumMaxConf         int `yaml:"momentum_max_confidence"`
	MomentumFactor          int `yaml:"momentum_factor"`

	// Attention imbalance
	MinImbalanceMoments  int     `yaml:"min_imbalance_moments"`
	DominantShare        float64 `yaml:"dominant_share"`
	NeglectedShare       float64 `yaml:"neglected_share"`
	ImbalanceBaseConf    int     `yaml:"imbalance_base_confidence"`
	ImbalanceMaxConf     int     `yaml:"imbalance_max_confidence"`
	ImbalanceSpreadScale float64 `yaml:"imbalance_spread_scale"`

	// Relationship stage
	MinStageConnections int     `yaml:"min_stage_connections"`
	MinStageMoments     int     `yaml:"min_stage_moments"`
	StagePositiveRatio  float64 `yaml:"stage_positive_ratio"`
	StageWarningRatio   float64 `yaml:"stage_warning_ratio"`
	StageBaseConf       int     `yaml:"stage_base_confidence"`
	StageMaxConf        int     `yaml:"stage_max_confidence"`

	// Predictive trajectory
	MinTrajectoryTotal      int     `yaml:"min_trajectory_total"`
	MinTrajectoryPerPerson  int     `yaml:"min_trajectory_per_connection"`
	RecentFraction          float64 `yaml:"recent_fraction"`
	MinRecentMoments        int     `yaml:"min_recent_moments"`
	StableThreshold         float64 `yaml:"stable_threshold"`
	StableConfidence        int     `yaml:"stable_confidence"`
	TrajectoryScale         float64 `yaml:"trajectory_scale"`
	TrajectoryBaseConf      float64 `yaml:"trajectory_base_confidence"`
	TrajectoryMaxConf       int     `yaml:"trajectory_max_confidence"`
	TrajectoryEmitThreshold int     `yaml:"trajectory_emit_threshold"`

	// Conflict resolution
	MinConflicts            int     `yaml:"min_conflicts"`
	ResolutionLookahead     int     `yaml:"resolution_lookahead"`
	ResolutionWindowHours   float64 `yaml:"resolution_window_hours"`
	ImmediateHours          float64 `yaml:"immediate_hours"`
	ReflectionHours         float64 `yaml:"reflection_hours"`
	ConflictBaseConf        int     `yaml:"conflict_base_confidence"`
	ConflictPerInstanceConf int     `yaml:"conflict_per_instance_confidence"`
	ConflictMaxConf         int     `yaml:"conflict_max_confidence"`
	ConflictSuccessRate     float64 `yaml:"conflict_success_rate"`
	ConflictCriticalRate    float64 `yaml:"conflict_critical_rate"`

	// Flag balance
	MinFlaggedMoments int `yaml:"min_flagged_moments"`
	FlagBaseConf      int `yaml:"flag_base_confidence"`
	FlagPerMomentConf int `yaml:"flag_per_moment_confidence"`
	FlagMaxConf       int `yaml:"flag_max_confidence"`

	// Cycle correlation
	MinCycleTotal   int     `yaml:"min_cycle_total"`
	MinCycleMoments int     `yaml:"min_cycle_moments"`
	CycleMinDiff    float64 `yaml:"cycle_min_difference"`
	CycleBaseConf   int     `yaml:"cycle_base_confidence"`
	CycleMaxConf    int     `yaml:"cycle_max_confidence"`
}

// DefaultAnalyticsConfig returns the tuning shipped with the product UI.
func DefaultAnalyticsConfig() *AnalyticsConfig {
	return &AnalyticsConfig{
		TopN: 8,

		MinWeeklyRhythmMoments: 10,
		WeeklyRhythmMaxConf:    90,
		WeeklyRhythmFactor:     2,

		MomentumStreakThreshold: 5,
		MomentumMaxConf:         95,
		MomentumFactor:          8,

		MinImbalanceMoments:  10,
		DominantShare:        0.6,
		NeglectedShare:       0.1,
		ImbalanceBaseConf:    50,
		ImbalanceMaxConf:     85,
		ImbalanceSpreadScale: 50,

		MinStageConnections: 2,
		MinStageMoments:     10,
		StagePositiveRatio:  0.6,
		StageWarningRatio:   0.4,
		StageBaseConf:       50,
		StageMaxConf:        85,

		MinTrajectoryTotal:      20,
		MinTrajectoryPerPerson:  8,
		RecentFraction:          0.3,
		MinRecentMoments:        3,
		StableThreshold:         0.1,
		StableConfidence:        75,
		TrajectoryScale:         300,
		TrajectoryBaseConf:      70,
		TrajectoryMaxConf:       95,
		TrajectoryEmitThreshold: 70,

		MinConflicts:            3,
		ResolutionLookahead:     5,
		ResolutionWindowHours:   48,
		ImmediateHours:          2,
		ReflectionHours:         24,
		ConflictBaseConf:        60,
		ConflictPerInstanceConf: 5,
		ConflictMaxConf:         90,
		ConflictSuccessRate:     0.7,
		ConflictCriticalRate:    0.3,

		MinFlaggedMoments: 5,
		FlagBaseConf:      55,
		FlagPerMomentConf: 3,
		FlagMaxConf:       85,

		MinCycleTotal:   10,
		MinCycleMoments: 5,
		CycleMinDiff:    0.15,
		CycleBaseConf:   60,
		CycleMaxConf:    85,
	}
}

// LoadAnalyticsConfig reads overrides from a YAML file on top of the defaults.
// An empty path returns the defaults.
func LoadAnalyticsConfig(path string) (*AnalyticsConfig, error) {
	cfg := DefaultAnalyticsConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read analytics config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse analytics config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the tuning for values that would disable or break analyzers.
// Minimum sample sizes must be at least 1 so that no analyzer runs on empty
// data, and confidence constants must satisfy 0 <= base <= max <= 100.
func (c *AnalyticsConfig) Validate() error {
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}

	minimums := []struct {
		name  string
		value int
	}{
		{"min_weekly_rhythm_moments", c.MinWeeklyRhythmMoments},
		{"momentum_streak_threshold", c.MomentumStreakThreshold},
		{"min_imbalance_moments", c.MinImbalanceMoments},
		{"min_stage_connections", c.MinStageConnections},
		{"min_stage_moments", c.MinStageMoments},
		{"min_trajectory_total", c.MinTrajectoryTotal},
		{"min_trajectory_per_connection", c.MinTrajectoryPerPerson},
		{"min_recent_moments", c.MinRecentMoments},
		{"min_conflicts", c.MinConflicts},
		{"resolution_lookahead", c.ResolutionLookahead},
		{"min_flagged_moments", c.MinFlaggedMoments},
		{"min_cycle_total", c.MinCycleTotal},
		{"min_cycle_moments", c.MinCycleMoments},
	}
	for _, m := range minimums {
		if m.value < 1 {
			return fmt.Errorf("%s must be at least 1, got %d", m.name, m.value)
		}
	}
	if c.MinTrajectoryPerPerson <= c.MinRecentMoments {
		return fmt.Errorf("min_trajectory_per_connection (%d) must exceed min_recent_moments (%d)",
			c.MinTrajectoryPerPerson, c.MinRecentMoments)
	}

	confidences := []struct {
		name      string
		base, max float64
	}{
		{"weekly_rhythm", 0, float64(c.WeeklyRhythmMaxConf)},
		{"momentum", 0, float64(c.MomentumMaxConf)},
		{"imbalance", float64(c.ImbalanceBaseConf), float64(c.ImbalanceMaxConf)},
		{"stage", float64(c.StageBaseConf), float64(c.StageMaxConf)},
		{"stable", 0, float64(c.StableConfidence)},
		{"trajectory", c.TrajectoryBaseConf, float64(c.TrajectoryMaxConf)},
		{"trajectory_emit", 0, float64(c.TrajectoryEmitThreshold)},
		{"conflict", float64(c.ConflictBaseConf), float64(c.ConflictMaxConf)},
		{"flag", float64(c.FlagBaseConf), float64(c.FlagMaxConf)},
		{"cycle", float64(c.CycleBaseConf), float64(c.CycleMaxConf)},
	}
	for _, cf := range confidences {
		if cf.base < 0 || cf.base > cf.max || cf.max > 100 {
			return fmt.Errorf("%s confidence must satisfy 0 <= base <= max <= 100, got base %v max %v", cf.name, cf.base, cf.max)
		}
	}

	if c.RecentFraction <= 0 || c.RecentFraction >= 1 {
		return fmt.Errorf("recent_fraction must be in (0,1), got %v", c.RecentFraction)
	}
	if c.ResolutionWindowHours <= 0 {
		return fmt.Errorf("resolution_window_hours must be positive, got %v", c.ResolutionWindowHours)
	}
	if c.DominantShare <= c.NeglectedShare {
		return fmt.Errorf("dominant_share must exceed neglected_share")
	}
	return nil
}
