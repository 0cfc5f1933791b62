// Package events turns EventBridge notifications into insight refreshes.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kindra/application/services"
	domainevents "kindra/domain/events"

	awsevents "github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// ErrLocked is returned by a LockFunc when another worker holds the lock
var ErrLocked = errors.New("refresh already in progress")

// Refresher regenerates and pushes out one user's insights
type Refresher interface {
	Refresh(ctx context.Context, userID string) (*services.InsightReport, error)
}

// LockFunc takes the per-user refresh lock. The returned func releases it.
type LockFunc func(ctx context.Context, userID, owner string, ttl time.Duration) (release func(context.Context) error, err error)

// RefreshResult summarizes one handled notification
type RefreshResult struct {
	UserID   string `json:"user_id,omitempty"`
	Skipped  string `json:"skipped,omitempty"`
	Insights int    `json:"insights"`
}

// RefreshHandler reacts to write events by refreshing the author's insights
type RefreshHandler struct {
	refresher Refresher
	lock      LockFunc
	lockTTL   time.Duration
	logger    *zap.Logger
}

// NewRefreshHandler creates a handler. lock may be nil to run without locking.
func NewRefreshHandler(refresher Refresher, lock LockFunc, lockTTL time.Duration, logger *zap.Logger) *RefreshHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lockTTL <= 0 {
		lockTTL = 30 * time.Second
	}
	return &RefreshHandler{refresher: refresher, lock: lock, lockTTL: lockTTL, logger: logger}
}

// triggers lists the detail types that change what the engine sees
var triggers = map[string]bool{
	domainevents.TypeMomentLogged:    true,
	domainevents.TypeMomentResolved:  true,
	domainevents.TypeMomentDeleted:   true,
	domainevents.TypeConnectionAdded: true,
}

// Handle processes one EventBridge event. Events this service does not
// refresh on are acknowledged and skipped.
//
// A held lock also acknowledges the event. If the running refresh loaded its
// snapshot before this write landed, the insights.refreshed push for the write
// is not sent until the next write for the same user. REST reads are not
// affected because writes invalidate the insight cache.
func (h *RefreshHandler) Handle(ctx context.Context, event awsevents.CloudWatchEvent) (*RefreshResult, error) {
	if event.Source != domainevents.SourceBackend || !triggers[event.DetailType] {
		return &RefreshResult{Skipped: "ignored event " + event.DetailType}, nil
	}

	var detail struct {
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(event.Detail, &detail); err != nil {
		return nil, fmt.Errorf("invalid event detail: %w", err)
	}
	if detail.UserID == "" {
		return nil, errors.New("event detail has no user_id")
	}

	logger := h.logger.With(zap.String("userID", detail.UserID), zap.String("trigger", event.DetailType))

	if h.lock != nil {
		release, err := h.lock(ctx, detail.UserID, event.ID, h.lockTTL)
		if errors.Is(err, ErrLocked) {
			logger.Info("Refresh already running, skipping")
			return &RefreshResult{UserID: detail.UserID, Skipped: "locked"}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to take refresh lock: %w", err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("Failed to release refresh lock", zap.Error(err))
			}
		}()
	}

	report, err := h.refresher.Refresh(ctx, detail.UserID)
	if err != nil {
		return nil, err
	}

	logger.Info("Insights refreshed", zap.Int("insights", len(report.Insights)))
	return &RefreshResult{UserID: detail.UserID, Insights: len(report.Insights)}, nil
}
