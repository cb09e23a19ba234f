package serviceimpl

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/services"
)

func TestToggleFavoriteRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "roma")
	cat := f.category(t, "Chairs", nil)
	chair := f.product(t, cat, "chair", "500", nil)

	added, err := f.favorites.ToggleFavorite(ctx, id, "chair")
	require.NoError(t, err)
	assert.True(t, added)

	list, err := f.favorites.ListFavorites(ctx, id)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, chair.ID, list[0].ID)

	set, err := f.favorites.FavoriteSet(ctx, id)
	require.NoError(t, err)
	assert.True(t, set[chair.ID])

	added, err = f.favorites.ToggleFavorite(ctx, id, "chair")
	require.NoError(t, err)
	assert.False(t, added)

	list, err = f.favorites.ListFavorites(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFavoritesAnonymousAndUnknown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.favorites.ToggleFavorite(ctx, services.Identity{}, "chair")
	assert.ErrorIs(t, err, services.ErrUnauthenticated)

	set, err := f.favorites.FavoriteSet(ctx, services.Identity{})
	require.NoError(t, err)
	assert.Empty(t, set)

	id := f.user(t, "sasha")
	_, err = f.favorites.ToggleFavorite(ctx, id, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestToggleFavoriteConcurrentPairCancelsOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "tanya")
	cat := f.category(t, "Tables", nil)
	table := f.product(t, cat, "table", "700", nil)

	const togglers = 4
	results := make(chan bool, togglers)
	var wg sync.WaitGroup
	for i := 0; i < togglers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			added, err := f.favorites.ToggleFavorite(ctx, id, "table")
			if assert.NoError(t, err) {
				results <- added
			}
		}()
	}
	wg.Wait()
	close(results)

	added := 0
	for r := range results {
		if r {
			added++
		}
	}
	assert.Equal(t, togglers/2, added)

	exists, err := f.favoriteRepo.Exists(ctx, id.UserID, table.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
