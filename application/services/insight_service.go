package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"kindra/application/ports"
	"kindra/domain/advice"
	"kindra/domain/config"
	"kindra/domain/core/entities"
	"kindra/domain/events"
	"kindra/domain/insights"
	pkgerrors "kindra/pkg/errors"
	"kindra/pkg/observability"
)

// Snapshot is everything the engine and responder read for one user
type Snapshot struct {
	Moments     []entities.MomentSnapshot
	Connections []entities.ConnectionSnapshot
	Profile     entities.ProfileSnapshot
}

// InsightReport is one generated insight list with the size of its input
type InsightReport struct {
	Insights        []insights.Insight `json:"insights"`
	MomentCount     int                `json:"momentCount"`
	ConnectionCount int                `json:"connectionCount"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

// AdviceAnswer is the responder's reply to one question
type AdviceAnswer struct {
	Question string `json:"question"`
	Topic    string `json:"topic,omitempty"`
	Answer   string `json:"answer"`
}

// ConnectionStats is the per-connection summary behind the stats endpoint
type ConnectionStats struct {
	insights.CommunicationStats
	RelationshipStage string   `json:"relationshipStage"`
	Recommendations   []string `json:"recommendations"`
}

// InsightService loads a user's history and runs the insight engine and the
// advice responder over it. The API and the insight-refresh Lambda both use
// it directly, without the buses.
type InsightService struct {
	momentRepo     ports.MomentRepository
	connectionRepo ports.ConnectionRepository
	profileRepo    ports.ProfileRepository
	publisher      ports.EventPublisher
	notifier       ports.InsightNotifier
	engine         *insights.Engine
	responder      *advice.Responder
	cfg            *config.DomainConfig
	tracer         *observability.Tracer
	metrics        *observability.Metrics
	logger         *zap.Logger
}

// NewInsightService creates a new insight service. publisher, notifier,
// tracer and metrics may be nil.
func NewInsightService(
	momentRepo ports.MomentRepository,
	connectionRepo ports.ConnectionRepository,
	profileRepo ports.ProfileRepository,
	publisher ports.EventPublisher,
	notifier ports.InsightNotifier,
	engine *insights.Engine,
	responder *advice.Responder,
	cfg *config.DomainConfig,
	tracer *observability.Tracer,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *InsightService {
	return &InsightService{
		momentRepo:     momentRepo,
		connectionRepo: connectionRepo,
		profileRepo:    profileRepo,
		publisher:      publisher,
		notifier:       notifier,
		engine:         engine,
		responder:      responder,
		cfg:            cfg,
		tracer:         tracer,
		metrics:        metrics,
		logger:         logger,
	}
}

// LoadSnapshot reads moments, connections and profile concurrently. The
// first failure cancels the other loads.
func (s *InsightService) LoadSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	var (
		moments     []*entities.Moment
		connections []*entities.Connection
		profile     entities.ProfileSnapshot
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		moments, err = s.momentRepo.ListByUser(gctx, userID, ports.MomentFilter{Limit: s.cfg.MaxMomentsPerQuery})
		if err != nil {
			return fmt.Errorf("failed to load moments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		connections, err = s.connectionRepo.ListByUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("failed to load connections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		p, err := s.profileRepo.Get(gctx, userID)
		switch {
		case pkgerrors.IsNotFound(err):
			profile = entities.ProfileSnapshot{UserID: userID}
		case err != nil:
			return fmt.Errorf("failed to load profile: %w", err)
		default:
			profile = p.Snapshot()
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Moments:     make([]entities.MomentSnapshot, 0, len(moments)),
		Connections: make([]entities.ConnectionSnapshot, 0, len(connections)),
		Profile:     profile,
	}
	for _, m := range moments {
		snap.Moments = append(snap.Moments, m.Snapshot())
	}
	for _, c := range connections {
		snap.Connections = append(snap.Connections, c.Snapshot())
	}
	return snap, nil
}

// Generate produces the user's ranked insights
func (s *InsightService) Generate(ctx context.Context, userID string) (*InsightReport, error) {
	var report *InsightReport
	err := s.tracer.TraceFunction(ctx, "GenerateInsights", func(ctx context.Context) error {
		s.tracer.AddAnnotation(ctx, "userID", userID)

		snap, err := s.LoadSnapshot(ctx, userID)
		if err != nil {
			return err
		}

		start := time.Now()
		items := s.engine.Generate(snap.Moments, snap.Connections)
		s.metrics.RecordInsightGeneration(ctx, time.Since(start), len(items))
		s.tracer.AddMetadata(ctx, "insightCount", len(items))

		report = &InsightReport{
			Insights:        items,
			MomentCount:     len(snap.Moments),
			ConnectionCount: len(snap.Connections),
			GeneratedAt:     time.Now().UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Insights generated",
		zap.String("userID", userID),
		zap.Int("insights", len(report.Insights)),
		zap.Int("moments", report.MomentCount),
	)
	return report, nil
}

// Ask answers a free-text question from the user's own history
func (s *InsightService) Ask(ctx context.Context, userID, question string) (*AdviceAnswer, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &AdviceAnswer{
		Question: question,
		Topic:    s.responder.Classify(question),
		Answer:   s.responder.Respond(question, snap.Connections, snap.Moments, snap.Profile),
	}, nil
}

// ConnectionStats summarizes one of the user's connections
func (s *InsightService) ConnectionStats(ctx context.Context, userID, connectionID string) (*ConnectionStats, error) {
	snap, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	for _, c := range snap.Connections {
		if c.ID != connectionID {
			continue
		}
		stats := s.engine.CommunicationStats(snap.Moments, []entities.ConnectionSnapshot{c})
		return &ConnectionStats{
			CommunicationStats: stats[0],
			RelationshipStage:  string(c.RelationshipStage),
			Recommendations:    insights.StageRecommendations(c.RelationshipStage),
		}, nil
	}
	return nil, pkgerrors.ErrConnectionNotFound(connectionID)
}

// Refresh regenerates the user's insights and pushes them out: an
// insights.refreshed event on the bus and a digest to open websockets.
// Delivery failures are logged and do not fail the refresh.
func (s *InsightService) Refresh(ctx context.Context, userID string) (*InsightReport, error) {
	report, err := s.Generate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		digests := make([]events.InsightDigest, 0, len(report.Insights))
		for _, in := range report.Insights {
			digests = append(digests, events.InsightDigest{
				Title:      in.Title,
				Type:       string(in.Type),
				Category:   string(in.Category),
				Confidence: in.Confidence,
			})
		}
		event := events.NewInsightsRefreshed(userID, digests, report.GeneratedAt)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish insights refresh", zap.String("userID", userID), zap.Error(err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, userID, report.Insights); err != nil {
			s.logger.Warn("Failed to notify live sessions", zap.String("userID", userID), zap.Error(err))
		}
	}

	return report, nil
}
