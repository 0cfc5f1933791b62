// Package memory holds process-local repositories used by tests, the CLI and
// STORAGE_DRIVER=memory. Entities are stored as snapshots so callers never
// share mutable state with the store.
package memory

import (
	"context"
	"sort"
	"sync"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

// MomentRepository is an in-memory ports.MomentRepository
type MomentRepository struct {
	mu      sync.RWMutex
	moments map[string]entities.MomentSnapshot
}

// NewMomentRepository creates an empty moment store
func NewMomentRepository() *MomentRepository {
	return &MomentRepository{moments: make(map[string]entities.MomentSnapshot)}
}

func (r *MomentRepository) Save(_ context.Context, moment *entities.Moment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moments[moment.ID().String()] = moment.Snapshot()
	return nil
}

func (r *MomentRepository) GetByID(_ context.Context, userID string, id valueobjects.MomentID) (*entities.Moment, error) {
	r.mu.RLock()
	s, ok := r.moments[id.String()]
	r.mu.RUnlock()

	if !ok || s.UserID != userID {
		return nil, pkgerrors.ErrMomentNotFound(id.String())
	}
	return entities.ReconstructMoment(s)
}

func (r *MomentRepository) ListByUser(_ context.Context, userID string, filter ports.MomentFilter) ([]*entities.Moment, error) {
	r.mu.RLock()
	var matched []entities.MomentSnapshot
	for _, s := range r.moments {
		if s.UserID != userID {
			continue
		}
		if filter.ConnectionID != "" && s.ConnectionID != filter.ConnectionID {
			continue
		}
		if !filter.Since.IsZero() && s.CreatedAt.Before(filter.Since) {
			continue
		}
		matched = append(matched, s)
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[len(matched)-filter.Limit:]
	}

	out := make([]*entities.Moment, 0, len(matched))
	for _, s := range matched {
		m, err := entities.ReconstructMoment(s)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *MomentRepository) Delete(_ context.Context, userID string, id valueobjects.MomentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.moments[id.String()]
	if !ok || s.UserID != userID {
		return pkgerrors.ErrMomentNotFound(id.String())
	}
	delete(r.moments, id.String())
	return nil
}

// ConnectionRepository is an in-memory ports.ConnectionRepository
type ConnectionRepository struct {
	mu          sync.RWMutex
	connections map[string]entities.ConnectionSnapshot
	order       []string
}

// NewConnectionRepository creates an empty connection store
func NewConnectionRepository() *ConnectionRepository {
	return &ConnectionRepository{connections: make(map[string]entities.ConnectionSnapshot)}
}

func (r *ConnectionRepository) Save(_ context.Context, connection *entities.Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := connection.ID().String()
	if _, exists := r.connections[id]; !exists {
		r.order = append(r.order, id)
	}
	r.connections[id] = connection.Snapshot()
	return nil
}

func (r *ConnectionRepository) GetByID(_ context.Context, id valueobjects.ConnectionID) (*entities.Connection, error) {
	r.mu.RLock()
	s, ok := r.connections[id.String()]
	r.mu.RUnlock()

	if !ok {
		return nil, pkgerrors.ErrConnectionNotFound(id.String())
	}
	return entities.ReconstructConnection(s)
}

func (r *ConnectionRepository) ListByUser(_ context.Context, userID string) ([]*entities.Connection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entities.Connection
	for _, id := range r.order {
		s := r.connections[id]
		if s.UserID != userID {
			continue
		}
		c, err := entities.ReconstructConnection(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ConnectionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	list, err := r.ListByUser(ctx, userID)
	return len(list), err
}

// ProfileRepository is an in-memory ports.ProfileRepository
type ProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]entities.ProfileSnapshot
}

// NewProfileRepository creates an empty profile store
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{profiles: make(map[string]entities.ProfileSnapshot)}
}

func (r *ProfileRepository) Get(_ context.Context, userID string) (*entities.Profile, error) {
	r.mu.RLock()
	s, ok := r.profiles[userID]
	r.mu.RUnlock()

	if !ok {
		return nil, pkgerrors.NewNotFoundError("profile")
	}
	return entities.ReconstructProfile(s), nil
}

func (r *ProfileRepository) Save(_ context.Context, profile *entities.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID()] = profile.Snapshot()
	return nil
}

// SocketStore is an in-memory ports.SocketStore
type SocketStore struct {
	mu      sync.RWMutex
	sockets map[string]string
}

// NewSocketStore creates an empty socket registry
func NewSocketStore() *SocketStore {
	return &SocketStore{sockets: make(map[string]string)}
}

func (s *SocketStore) Add(_ context.Context, socketID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets[socketID] = userID
	return nil
}

func (s *SocketStore) Remove(_ context.Context, socketID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sockets, socketID)
	return nil
}

func (s *SocketStore) ListByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for id, owner := range s.sockets {
		if owner == userID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

var (
	_ ports.MomentRepository     = (*MomentRepository)(nil)
	_ ports.ConnectionRepository = (*ConnectionRepository)(nil)
	_ ports.ProfileRepository    = (*ProfileRepository)(nil)
	_ ports.SocketStore          = (*SocketStore)(nil)
)
