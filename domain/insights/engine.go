package insights

import (
	"sort"
	"time"

	"kindra/domain/config"
	"kindra/domain/core/entities"
)

// analysis is the per-call working set shared by the analyzers. It is built
// once from the caller's snapshot and never mutated afterwards.
type analysis struct {
	cfg *config.AnalyticsConfig
	now time.Time

	// moments in chronological order, oldest first
	moments     []entities.MomentSnapshot
	connections []entities.ConnectionSnapshot

	byConnection map[string][]entities.MomentSnapshot
	names        map[string]string
}

func newAnalysis(cfg *config.AnalyticsConfig, now time.Time, moments []entities.MomentSnapshot, connections []entities.ConnectionSnapshot) *analysis {
	sorted := make([]entities.MomentSnapshot, len(moments))
	copy(sorted, moments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	a := &analysis{
		cfg:          cfg,
		now:          now,
		moments:      sorted,
		connections:  connections,
		byConnection: make(map[string][]entities.MomentSnapshot, len(connections)),
		names:        make(map[string]string, len(connections)),
	}
	for _, c := range connections {
		a.names[c.ID] = c.Name
	}
	for _, m := range sorted {
		a.byConnection[m.ConnectionID] = append(a.byConnection[m.ConnectionID], m)
	}
	return a
}

// nameOf falls back to a neutral label for moments whose connection is unknown
func (a *analysis) nameOf(connectionID string) string {
	if name, ok := a.names[connectionID]; ok && name != "" {
		return name
	}
	return "someone"
}

type analyzer struct {
	name string
	run  func(*analysis) []Insight
}

// Engine runs the registered analyzers over a snapshot and ranks the output
type Engine struct {
	cfg       *config.AnalyticsConfig
	now       func() time.Time
	analyzers []analyzer
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces the wall clock used for elapsed-time statistics
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine. A nil config uses the defaults.
func NewEngine(cfg *config.AnalyticsConfig, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.DefaultAnalyticsConfig()
	}
	e := &Engine{
		cfg: cfg,
		now: time.Now,
		// Registration order is the tie-break order after ranking.
		analyzers: []analyzer{
			{name: "weekly_rhythm", run: analyzeWeeklyRhythm},
			{name: "emotional_momentum", run: analyzeMomentum},
			{name: "attention_imbalance", run: analyzeImbalance},
			{name: "relationship_stage", run: analyzeStages},
			{name: "predictive_trajectory", run: analyzeTrajectories},
			{name: "conflict_resolution", run: analyzeConflicts},
			{name: "flag_balance", run: analyzeFlags},
			{name: "cycle_correlation", run: analyzeCycle},
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// AnalyzerNames lists the analyzers in registration order
func (e *Engine) AnalyzerNames() []string {
	names := make([]string, len(e.analyzers))
	for i, a := range e.analyzers {
		names[i] = a.name
	}
	return names
}

// Generate returns at most TopN insights, highest confidence first
func (e *Engine) Generate(moments []entities.MomentSnapshot, connections []entities.ConnectionSnapshot) []Insight {
	return rank(e.GenerateAll(moments, connections), e.cfg.TopN)
}

// GenerateAll returns every insight in registration order, unranked
func (e *Engine) GenerateAll(moments []entities.MomentSnapshot, connections []entities.ConnectionSnapshot) []Insight {
	if len(moments) == 0 {
		return []Insight{}
	}
	a := newAnalysis(e.cfg, e.now(), moments, connections)

	out := make([]Insight, 0, len(e.analyzers))
	for _, an := range e.analyzers {
		for _, raw := range an.run(a) {
			if in, ok := finalize(raw); ok {
				out = append(out, in)
			}
		}
	}
	return out
}

var defaultEngine = NewEngine(nil)

// GenerateAdvancedInsights runs the default engine against the wall clock
func GenerateAdvancedInsights(moments []entities.MomentSnapshot, connections []entities.ConnectionSnapshot) []Insight {
	return defaultEngine.Generate(moments, connections)
}
