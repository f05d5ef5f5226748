package seed

import (
	"context"
	"testing"

	"github.com/fathima-sithara/clips-service/internal/catalog"
	"github.com/fathima-sithara/clips-service/internal/models"
	"github.com/fathima-sithara/clips-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeeder_Run(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryVideoRepo()
	cats := repository.NewMemoryCategoryRepo()
	s := NewSeeder(store, cats, zap.NewNop())

	require.NoError(t, s.Run(ctx))
	require.NoError(t, s.Run(ctx))

	n, err := store.Count(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(len(SampleVideos)), n)

	list, err := cats.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(DefaultCategories))

	sports, err := cats.Get(ctx, "sports")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sports.VideoCount)
	music, err := cats.Get(ctx, "music")
	require.NoError(t, err)
	assert.Equal(t, int64(0), music.VideoCount)

	e := catalog.NewEngine(store, cats, nil, catalog.DefaultOptions())
	top, err := e.Trending(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Epic Soccer Goals Compilation", top[0].Title)
}

func TestSeeder_KeepsExistingVideos(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryVideoRepo()
	cats := repository.NewMemoryCategoryRepo()
	require.NoError(t, store.Insert(ctx, &models.Video{Title: "mine", Category: "music"}))

	require.NoError(t, NewSeeder(store, cats, zap.NewNop()).Run(ctx))

	n, err := store.Count(ctx, catalog.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	music, err := cats.Get(ctx, "music")
	require.NoError(t, err)
	assert.Equal(t, int64(1), music.VideoCount)
}
