package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindra/application/ports"
	"kindra/application/services"
	"kindra/domain/advice"
	"kindra/domain/config"
	"kindra/domain/core/entities"
	"kindra/domain/events"
	"kindra/domain/insights"
	"kindra/infrastructure/persistence/memory"
	pkgerrors "kindra/pkg/errors"
)

var now = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

type fixture struct {
	moments     *memory.MomentRepository
	connections *memory.ConnectionRepository
	profiles    *memory.ProfileRepository
}

func newFixture() *fixture {
	return &fixture{
		moments:     memory.NewMomentRepository(),
		connections: memory.NewConnectionRepository(),
		profiles:    memory.NewProfileRepository(),
	}
}

func (f *fixture) connection(t *testing.T, userID, name string) *entities.Connection {
	t.Helper()
	c, err := entities.NewConnection(userID, entities.ConnectionInput{Name: name, RelationshipStage: "dating"})
	require.NoError(t, err)
	require.NoError(t, f.connections.Save(context.Background(), c))
	return c
}

func (f *fixture) moment(t *testing.T, userID string, c *entities.Connection, emoji string, at time.Time, tags ...string) {
	t.Helper()
	m, err := entities.NewMoment(userID, entities.MomentInput{ConnectionID: c.ID(), Emoji: emoji, Tags: tags, CreatedAt: at})
	require.NoError(t, err)
	require.NoError(t, f.moments.Save(context.Background(), m))
}

func (f *fixture) service(publisher ports.EventPublisher, notifier ports.InsightNotifier) *services.InsightService {
	clock := func() time.Time { return now }
	return services.NewInsightService(
		f.moments, f.connections, f.profiles,
		publisher, notifier,
		insights.NewEngine(nil, insights.WithClock(clock)),
		advice.NewResponder(advice.WithClock(clock)),
		config.DefaultDomainConfig(),
		nil, nil,
		zap.NewNop(),
	)
}

type recordingPublisher struct {
	published []events.DomainEvent
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.DomainEvent) error {
	p.published = append(p.published, e)
	return p.err
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, e := range evts {
		_ = p.Publish(ctx, e)
	}
	return p.err
}

type recordingNotifier struct {
	users []string
	count int
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, userID string, items []insights.Insight) error {
	n.users = append(n.users, userID)
	n.count = len(items)
	return n.err
}

func TestInsightService_LoadSnapshot(t *testing.T) {
	f := newFixture()
	alex := f.connection(t, "u1", "Alex")
	f.connection(t, "u2", "Kai")
	f.moment(t, "u1", alex, "😊", now.Add(-2*time.Hour))
	f.moment(t, "u1", alex, "😢", now.Add(-3*time.Hour))

	snap, err := f.service(nil, nil).LoadSnapshot(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, snap.Connections, 1)
	assert.Equal(t, "Alex", snap.Connections[0].Name)
	require.Len(t, snap.Moments, 2)
	assert.True(t, snap.Moments[0].CreatedAt.Before(snap.Moments[1].CreatedAt))
	// A user without a saved profile still gets an empty one
	assert.Equal(t, "u1", snap.Profile.UserID)
}

func TestInsightService_GenerateAndRefresh(t *testing.T) {
	f := newFixture()
	alex := f.connection(t, "u1", "Alex")
	// Six positive moments in a row on consecutive days
	for i := 0; i < 6; i++ {
		f.moment(t, "u1", alex, "😊", now.AddDate(0, 0, -6+i))
	}

	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	svc := f.service(publisher, notifier)

	report, err := svc.Refresh(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, report.Insights)
	assert.Equal(t, 6, report.MomentCount)
	assert.Equal(t, 1, report.ConnectionCount)

	titles := make([]string, 0, len(report.Insights))
	for _, in := range report.Insights {
		titles = append(titles, in.Title)
	}
	assert.Contains(t, titles, "Positive Emotional Momentum")

	require.Len(t, publisher.published, 1)
	refreshed, ok := publisher.published[0].(events.InsightsRefreshed)
	require.True(t, ok)
	assert.Equal(t, len(report.Insights), refreshed.Count)
	assert.Equal(t, []string{"u1"}, notifier.users)
	assert.Equal(t, len(report.Insights), notifier.count)
}

func TestInsightService_RefreshSurvivesDeliveryFailures(t *testing.T) {
	f := newFixture()
	svc := f.service(&recordingPublisher{err: errors.New("bus down")}, &recordingNotifier{err: errors.New("gone")})

	report, err := svc.Refresh(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, report.Insights)
}

func TestInsightService_Ask(t *testing.T) {
	f := newFixture()
	alex := f.connection(t, "u1", "Alex")
	f.moment(t, "u1", alex, "😊", now.Add(-time.Hour), "deep talk")

	answer, err := f.service(nil, nil).Ask(context.Background(), "u1", "How can I communicate better with Alex?")
	require.NoError(t, err)
	assert.Equal(t, "communication", answer.Topic)
	assert.Contains(t, answer.Answer, "Alex")
}

func TestInsightService_ConnectionStats(t *testing.T) {
	f := newFixture()
	alex := f.connection(t, "u1", "Alex")
	foreign := f.connection(t, "u2", "Kai")
	f.moment(t, "u1", alex, "😊", now.Add(-time.Hour))
	f.moment(t, "u1", alex, "😢", now.Add(-2*time.Hour))
	f.moment(t, "u1", alex, "😍", now.Add(-3*time.Hour))

	svc := f.service(nil, nil)
	stats, err := svc.ConnectionStats(context.Background(), "u1", alex.ID().String())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.MomentCount)
	assert.Equal(t, 2, stats.PositiveCount)
	assert.Equal(t, 1, stats.NegativeCount)
	assert.Equal(t, "dating", stats.RelationshipStage)
	assert.NotEmpty(t, stats.Recommendations)

	_, err = svc.ConnectionStats(context.Background(), "u1", foreign.ID().String())
	assert.True(t, pkgerrors.IsNotFound(err))
}
