package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinbibang94/baol-digital-show-clean/internal/domain"
)

func TestCommentRepo_CreateAndListNewestFirst(t *testing.T) {
	repo := NewCommentRepo(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 5, 16, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"Bravo !", "Super show", "Vivement la prochaine"} {
		require.NoError(t, repo.Create(ctx, domain.Comment{
			ID:        uuid.New(),
			Author:    domain.DefaultCommentAuthor,
			Email:     "visiteur@example.sn",
			Text:      text,
			Page:      "/reportage",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Vivement la prochaine", got[0].Text)
	assert.Equal(t, "Super show", got[1].Text)
	assert.Equal(t, "visiteur@example.sn", got[0].Email)
	assert.Equal(t, base.Add(2*time.Minute), got[0].CreatedAt)
}

func TestCommentRepo_ListEmpty(t *testing.T) {
	repo := NewCommentRepo(setupTestDB(t))

	got, err := repo.ListRecent(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}
