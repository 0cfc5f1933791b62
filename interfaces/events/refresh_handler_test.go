package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kindra/application/services"
	domainevents "kindra/domain/events"
	"kindra/domain/insights"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRefresher struct {
	calls []string
	err   error
}

func (f *fakeRefresher) Refresh(_ context.Context, userID string) (*services.InsightReport, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return nil, f.err
	}
	return &services.InsightReport{Insights: make([]insights.Insight, 2)}, nil
}

func event(detailType, userID string) awsevents.CloudWatchEvent {
	detail, _ := json.Marshal(map[string]string{"user_id": userID})
	return awsevents.CloudWatchEvent{
		ID:         "evt-1",
		Source:     domainevents.SourceBackend,
		DetailType: detailType,
		Detail:     detail,
	}
}

func TestRefreshHandler_RefreshesOnWrites(t *testing.T) {
	refresher := &fakeRefresher{}
	released := 0
	lock := func(_ context.Context, userID, owner string, ttl time.Duration) (func(context.Context) error, error) {
		assert.Equal(t, "user-1", userID)
		assert.Equal(t, "evt-1", owner)
		return func(context.Context) error { released++; return nil }, nil
	}
	h := NewRefreshHandler(refresher, lock, time.Minute, nil)

	result, err := h.Handle(context.Background(), event(domainevents.TypeMomentLogged, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Insights)
	assert.Equal(t, []string{"user-1"}, refresher.calls)
	assert.Equal(t, 1, released)
}

func TestRefreshHandler_IgnoresOwnOutput(t *testing.T) {
	refresher := &fakeRefresher{}
	h := NewRefreshHandler(refresher, nil, 0, nil)

	result, err := h.Handle(context.Background(), event(domainevents.TypeInsightsRefreshed, "user-1"))
	require.NoError(t, err)
	assert.NotEmpty(t, result.Skipped)
	assert.Empty(t, refresher.calls)

	foreign := event(domainevents.TypeMomentLogged, "user-1")
	foreign.Source = "someone.else"
	result, err = h.Handle(context.Background(), foreign)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Skipped)
	assert.Empty(t, refresher.calls)
}

func TestRefreshHandler_SkipsWhenLocked(t *testing.T) {
	refresher := &fakeRefresher{}
	lock := func(context.Context, string, string, time.Duration) (func(context.Context) error, error) {
		return nil, ErrLocked
	}
	h := NewRefreshHandler(refresher, lock, time.Minute, nil)

	result, err := h.Handle(context.Background(), event(domainevents.TypeConnectionAdded, "user-1"))
	require.NoError(t, err)
	assert.Equal(t, "locked", result.Skipped)
	assert.Empty(t, refresher.calls)
}

func TestRefreshHandler_Errors(t *testing.T) {
	refresher := &fakeRefresher{err: errors.New("boom")}
	h := NewRefreshHandler(refresher, nil, 0, nil)

	_, err := h.Handle(context.Background(), event(domainevents.TypeMomentDeleted, "user-1"))
	assert.Error(t, err)

	_, err = h.Handle(context.Background(), event(domainevents.TypeMomentDeleted, ""))
	assert.Error(t, err)
}
