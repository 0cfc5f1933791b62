package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"kindra/application/queries"
	"kindra/domain/core/entities"
	"kindra/domain/core/valueobjects"
	"kindra/infrastructure/persistence/memory"
)

func TestListMomentsHandler_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewMomentRepository()
	conn := valueobjects.NewConnectionID()
	base := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

	var ids []string
	for i := 0; i < 5; i++ {
		m, err := entities.NewMoment("u1", entities.MomentInput{ConnectionID: conn, Emoji: "😊", CreatedAt: base.Add(time.Duration(i) * time.Hour)})
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, m))
		ids = append(ids, m.ID().String())
	}

	h := NewListMomentsHandler(repo, zap.NewNop())

	first, err := h.Handle(ctx, queries.ListMomentsQuery{UserID: "u1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	require.Len(t, first.Moments, 2)
	assert.Equal(t, ids[4], first.Moments[0].ID)
	assert.Equal(t, ids[3], first.Moments[1].ID)

	last, err := h.Handle(ctx, queries.ListMomentsQuery{UserID: "u1", Page: 3, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, last.Moments, 1)
	assert.Equal(t, ids[0], last.Moments[0].ID)

	beyond, err := h.Handle(ctx, queries.ListMomentsQuery{UserID: "u1", Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond.Moments)
	assert.NotNil(t, beyond.Moments)
}

func TestListMomentsQuery_Validate(t *testing.T) {
	assert.Error(t, queries.ListMomentsQuery{UserID: "u1", Page: 0, PageSize: 10}.Validate())
	assert.Error(t, queries.ListMomentsQuery{UserID: "u1", Page: 1, PageSize: 101}.Validate())
	assert.Error(t, queries.ListMomentsQuery{Page: 1, PageSize: 10}.Validate())
	assert.NoError(t, queries.ListMomentsQuery{UserID: "u1", Page: 1, PageSize: 10}.Validate())
}

func TestGetProfileHandler_DefaultsToEmptyProfile(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewProfileRepository()
	h := NewGetProfileHandler(repo)

	got, err := h.Handle(ctx, queries.GetProfileQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Empty(t, got.ZodiacSign)

	p, err := entities.NewProfile("u1")
	require.NoError(t, err)
	require.NoError(t, p.Update("gemini", ""))
	require.NoError(t, repo.Save(ctx, p))

	got, err = h.Handle(ctx, queries.GetProfileQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, valueobjects.ZodiacGemini, got.ZodiacSign)
}

func TestAskAdviceQuery_RejectsBlankQuestion(t *testing.T) {
	assert.Error(t, queries.AskAdviceQuery{UserID: "u1", Question: "   "}.Validate())
	assert.NoError(t, queries.AskAdviceQuery{UserID: "u1", Question: "How do we fight less?"}.Validate())
}
