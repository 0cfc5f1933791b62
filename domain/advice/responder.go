// Package advice answers free-text relationship questions with templated
// paragraphs, personalized from the user's own moments when the question
// names one of their connections.
package advice

import (
	"sort"
	"strings"
	"time"

	"kindra/domain/core/entities"
)

// DefaultResponse is returned when no topic matches the question
const DefaultResponse = "Every relationship has its own rhythm. Keep logging moments as they happen, " +
	"good and hard alike, and patterns will start to show. Ask me about communication, distance, " +
	"conflict, intimacy, compatibility, love languages or how to make things better, and I will " +
	"answer from what you have shared so far."

// topic pairs a keyword predicate with the handler that answers it
type topic struct {
	name     string
	keywords []string
	respond  func(*request) string
}

func (t topic) matches(question string) bool {
	for _, k := range t.keywords {
		if strings.Contains(question, k) {
			return true
		}
	}
	return false
}

// Responder evaluates topics in order; the first match answers
type Responder struct {
	topics []topic
	now    func() time.Time
}

// Option configures a Responder
type Option func(*Responder)

// WithClock replaces the wall clock used for "days since" phrasing
func WithClock(now func() time.Time) Option {
	return func(r *Responder) {
		if now != nil {
			r.now = now
		}
	}
}

// NewResponder builds the responder with its fixed topic order
func NewResponder(opts ...Option) *Responder {
	r := &Responder{
		now: time.Now,
		topics: []topic{
			{name: "communication", keywords: []string{"communicat", "talk", "listen", "conversation", "express"}, respond: respondCommunication},
			{name: "distance", keywords: []string{"distance", "distant", "disconnect", "drift", "apart", "far away"}, respond: respondDistance},
			{name: "conflict", keywords: []string{"fight", "argu", "conflict", "disagree", "angry", "upset"}, respond: respondConflict},
			{name: "intimacy", keywords: []string{"intima", "romance", "romantic", "spark", "passion", "closeness"}, respond: respondIntimacy},
			{name: "compatibility", keywords: []string{"compatib", "zodiac", "astrolog", "match", "right for me"}, respond: respondCompatibility},
			{name: "love language", keywords: []string{"love language", "appreciat", "feel loved", "show love"}, respond: respondLoveLanguage},
			{name: "general improvement", keywords: []string{"improve", "better", "stronger", "help", "advice", "work on"}, respond: respondGeneral},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Topics lists topic names in evaluation order
func (r *Responder) Topics() []string {
	names := make([]string, len(r.topics))
	for i, t := range r.topics {
		names[i] = t.name
	}
	return names
}

// Classify returns the name of the topic that would answer the question,
// or "" when none matches
func (r *Responder) Classify(question string) string {
	q := strings.ToLower(question)
	for _, t := range r.topics {
		if t.matches(q) {
			return t.name
		}
	}
	return ""
}

// Respond answers the question. It never fails; blank questions should be
// rejected by the caller.
func (r *Responder) Respond(question string, connections []entities.ConnectionSnapshot, moments []entities.MomentSnapshot, profile entities.ProfileSnapshot) string {
	req := newRequest(question, connections, moments, profile, r.now())
	for _, t := range r.topics {
		if t.matches(req.question) {
			return t.respond(req)
		}
	}
	return DefaultResponse
}

var defaultResponder = NewResponder()

// GeneratePersonalizedResponse answers with the default responder
func GeneratePersonalizedResponse(question string, connections []entities.ConnectionSnapshot, moments []entities.MomentSnapshot, profile entities.ProfileSnapshot) string {
	return defaultResponder.Respond(question, connections, moments, profile)
}

// request is the per-question working set handed to topic handlers
type request struct {
	question    string
	connections []entities.ConnectionSnapshot
	moments     []entities.MomentSnapshot
	profile     entities.ProfileSnapshot
	now         time.Time
}

func newRequest(question string, connections []entities.ConnectionSnapshot, moments []entities.MomentSnapshot, profile entities.ProfileSnapshot, now time.Time) *request {
	sorted := make([]entities.MomentSnapshot, len(moments))
	copy(sorted, moments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return &request{
		question:    strings.ToLower(question),
		connections: connections,
		moments:     sorted,
		profile:     profile,
		now:         now,
	}
}

// mentioned returns the first connection, in input order, whose name
// appears in the question
func (r *request) mentioned() (entities.ConnectionSnapshot, bool) {
	for _, c := range r.connections {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name != "" && strings.Contains(r.question, name) {
			return c, true
		}
	}
	return entities.ConnectionSnapshot{}, false
}

// momentsWith returns a connection's moments, oldest first
func (r *request) momentsWith(connectionID string) []entities.MomentSnapshot {
	var out []entities.MomentSnapshot
	for _, m := range r.moments {
		if m.ConnectionID == connectionID {
			out = append(out, m)
		}
	}
	return out
}
