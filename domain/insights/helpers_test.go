package insights

import (
	"fmt"
	"testing"
	"time"

	"kindra/domain/config"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
)

const (
	happy    = "😊"
	sad      = "😢"
	angry    = "😠"
	makeUp   = "🤝"
	neutral  = "📝"
	heart    = "❤️"
	unknownC = "conn-unknown"
)

// sunday is 2026-03-01, a Sunday
var sunday = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	t           *testing.T
	seq         int
	moments     []entities.MomentSnapshot
	connections []entities.ConnectionSnapshot
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return &fixture{t: t}
}

func (f *fixture) connection(name string, stage valueobjects.RelationshipStage) string {
	id := fmt.Sprintf("conn-%s", name)
	f.connections = append(f.connections, entities.ConnectionSnapshot{
		ID:                id,
		Name:              name,
		RelationshipStage: stage,
	})
	return id
}

func (f *fixture) moment(connectionID, emoji string, at time.Time, tags ...string) *entities.MomentSnapshot {
	f.seq++
	f.moments = append(f.moments, entities.MomentSnapshot{
		ID:           fmt.Sprintf("m-%03d", f.seq),
		ConnectionID: connectionID,
		Emoji:        emoji,
		Tags:         tags,
		CreatedAt:    at,
	})
	return &f.moments[len(f.moments)-1]
}

// series logs one moment per hour starting at from, one per emoji
func (f *fixture) series(connectionID string, from time.Time, emojis ...string) time.Time {
	at := from
	for _, e := range emojis {
		f.moment(connectionID, e, at)
		at = at.Add(time.Hour)
	}
	return at
}

func (f *fixture) analysis() *analysis {
	return newAnalysis(config.DefaultAnalyticsConfig(), sunday.AddDate(0, 1, 0), f.moments, f.connections)
}

func repeat(emoji string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = emoji
	}
	return out
}

func concat(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
