package handlers

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	"kindra/domain/events"
)

type mockMomentRepo struct{ mock.Mock }

func (m *mockMomentRepo) Save(ctx context.Context, moment *entities.Moment) error {
	return m.Called(ctx, moment).Error(0)
}

func (m *mockMomentRepo) GetByID(ctx context.Context, userID string, id valueobjects.MomentID) (*entities.Moment, error) {
	args := m.Called(ctx, userID, id)
	if mo, ok := args.Get(0).(*entities.Moment); ok {
		return mo, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMomentRepo) ListByUser(ctx context.Context, userID string, filter ports.MomentFilter) ([]*entities.Moment, error) {
	args := m.Called(ctx, userID, filter)
	list, _ := args.Get(0).([]*entities.Moment)
	return list, args.Error(1)
}

func (m *mockMomentRepo) Delete(ctx context.Context, userID string, id valueobjects.MomentID) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockConnectionRepo struct{ mock.Mock }

func (m *mockConnectionRepo) Save(ctx context.Context, c *entities.Connection) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockConnectionRepo) GetByID(ctx context.Context, id valueobjects.ConnectionID) (*entities.Connection, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*entities.Connection); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockConnectionRepo) ListByUser(ctx context.Context, userID string) ([]*entities.Connection, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]*entities.Connection)
	return list, args.Error(1)
}

func (m *mockConnectionRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockProfileRepo struct{ mock.Mock }

func (m *mockProfileRepo) Get(ctx context.Context, userID string) (*entities.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*entities.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockProfileRepo) Save(ctx context.Context, p *entities.Profile) error {
	return m.Called(ctx, p).Error(0)
}

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	return m.Called(ctx, evts).Error(0)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, key string) (interface{}, bool) {
	args := m.Called(ctx, key)
	return args.Get(0), args.Bool(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	m.Called(ctx, key, value, ttl)
}

func (m *mockCache) Delete(ctx context.Context, key string) {
	m.Called(ctx, key)
}

func (m *mockCache) DeletePrefix(ctx context.Context, prefix string) {
	m.Called(ctx, prefix)
}
