package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kindra/application/ports"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	pkgerrors "kindra/pkg/errors"
)

func saveMoment(t *testing.T, repo *MomentRepository, userID string, conn valueobjects.ConnectionID, at time.Time) *entities.Moment {
	t.Helper()
	m, err := entities.NewMoment(userID, entities.MomentInput{ConnectionID: conn, Emoji: "😊", CreatedAt: at})
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), m))
	return m
}

func TestMomentRepository_ListsChronologically(t *testing.T) {
	ctx := context.Background()
	repo := NewMomentRepository()
	conn := valueobjects.NewConnectionID()
	other := valueobjects.NewConnectionID()
	base := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	third := saveMoment(t, repo, "u1", conn, base.Add(2*time.Hour))
	first := saveMoment(t, repo, "u1", conn, base)
	second := saveMoment(t, repo, "u1", other, base.Add(time.Hour))
	saveMoment(t, repo, "u2", conn, base)

	all, err := repo.ListByUser(ctx, "u1", ports.MomentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, first.ID(), all[0].ID())
	assert.Equal(t, second.ID(), all[1].ID())
	assert.Equal(t, third.ID(), all[2].ID())

	byConn, err := repo.ListByUser(ctx, "u1", ports.MomentFilter{ConnectionID: conn.String()})
	require.NoError(t, err)
	assert.Len(t, byConn, 2)

	newest, err := repo.ListByUser(ctx, "u1", ports.MomentFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, second.ID(), newest[0].ID())

	since, err := repo.ListByUser(ctx, "u1", ports.MomentFilter{Since: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, since, 1)
	assert.Equal(t, third.ID(), since[0].ID())
}

func TestMomentRepository_ScopesByUser(t *testing.T) {
	ctx := context.Background()
	repo := NewMomentRepository()
	m := saveMoment(t, repo, "u1", valueobjects.NewConnectionID(), time.Now().Add(-time.Hour))

	_, err := repo.GetByID(ctx, "u2", m.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.True(t, pkgerrors.IsNotFound(repo.Delete(ctx, "u2", m.ID())))

	got, err := repo.GetByID(ctx, "u1", m.ID())
	require.NoError(t, err)
	assert.Equal(t, m.Snapshot(), got.Snapshot())

	require.NoError(t, repo.Delete(ctx, "u1", m.ID()))
	_, err = repo.GetByID(ctx, "u1", m.ID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestMomentRepository_StoredCopyIsIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewMomentRepository()
	m := saveMoment(t, repo, "u1", valueobjects.NewConnectionID(), time.Now().Add(-time.Hour))

	require.NoError(t, m.Resolve("done"))
	stored, err := repo.GetByID(ctx, "u1", m.ID())
	require.NoError(t, err)
	assert.False(t, stored.IsResolved())
}

func TestConnectionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewConnectionRepository()

	names := []string{"Alex", "Sam", "Jordan"}
	for _, n := range names {
		c, err := entities.NewConnection("u1", entities.ConnectionInput{Name: n, RelationshipStage: "dating"})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, c))
	}
	foreign, err := entities.NewConnection("u2", entities.ConnectionInput{Name: "Kai", RelationshipStage: "married"})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, foreign))

	list, err := repo.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, c := range list {
		assert.Equal(t, names[i], c.Name())
	}

	count, err := repo.CountByUser(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := repo.GetByID(ctx, foreign.ID())
	require.NoError(t, err)
	assert.False(t, got.IsOwnedBy("u1"))

	_, err = repo.GetByID(ctx, valueobjects.NewConnectionID())
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestProfileRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewProfileRepository()

	_, err := repo.Get(ctx, "u1")
	assert.True(t, pkgerrors.IsNotFound(err))

	p, err := entities.NewProfile("u1")
	require.NoError(t, err)
	require.NoError(t, p.Update("libra", "physical touch"))
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, valueobjects.ZodiacLibra, got.ZodiacSign())
	assert.Equal(t, valueobjects.LovePhysicalTouch, got.LoveLanguage())
}

func TestSocketStore(t *testing.T) {
	ctx := context.Background()
	store := NewSocketStore()
	require.NoError(t, store.Add(ctx, "b", "u1"))
	require.NoError(t, store.Add(ctx, "a", "u1"))
	require.NoError(t, store.Add(ctx, "c", "u2"))

	ids, err := store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, store.Remove(ctx, "a"))
	ids, err = store.ListByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}
