package liked

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/domain/mocks"
)

func entity(id, title, subtitle string, externalID int64, film bool, age time.Duration) domain.LikedEntity {
	return domain.LikedEntity{
		ID:            id,
		CatalogRecord: domain.CatalogRecord{ExternalID: externalID, Title: title, Subtitle: subtitle, IsFilm: film},
		CreatedAt:     start.Add(-age),
	}
}

var sample = []domain.LikedEntity{
	entity("a", "The Godfather", "1972", 238, true, 0),
	entity("b", "Breaking Bad", "2008", 1396, false, time.Minute),
	entity("c", "Interstellar", "2014", 157336, true, 2*time.Minute),
	entity("d", "The Bear", "2022", 136315, false, 3*time.Minute),
}

func TestFilterItems(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty returns all", "", []string{"a", "b", "c", "d"}},
		{"case insensitive title", "THE", []string{"a", "d"}},
		{"matches subtitle", "2008", []string{"b"}},
		{"substring only", "intr", nil},
		{"no match", "zzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, e := range FilterItems(sample, tt.query) {
				got = append(got, e.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIndexRank(t *testing.T) {
	idx := NewIndex(sample)
	assert.Equal(t, 4, idx.Len())
	assert.Equal(t, "the godfather", idx.String(0))

	// Subsequence match
	got := idx.Rank("intr")
	require.NotEmpty(t, got)
	assert.Equal(t, "c", got[0].Item.ID)
	assert.NotEmpty(t, got[0].MatchedIndexes)

	// Prefix beats contains
	got = idx.Rank("the")
	require.Len(t, got, 2)
	assert.Equal(t, 10, got[0].Score)

	// Typo tolerance
	got = idx.Rank("breking")
	require.NotEmpty(t, got)
	assert.Equal(t, "b", got[0].Item.ID)

	got = idx.Rank("interstelar")
	require.NotEmpty(t, got)
	assert.Equal(t, "c", got[0].Item.ID)

	assert.Empty(t, idx.Rank("   "))
	assert.Empty(t, NewIndex(nil).Rank("x"))
}

func TestServiceQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockLikedStore(ctrl)
	svc := NewService(st, adapter.NullLogger())
	ctx := context.Background()

	st.EXPECT().ListLiked(ctx).Return(sample, nil).AnyTimes()
	st.EXPECT().ListLikedByKind(ctx, domain.KindSeries).Return([]domain.LikedEntity{sample[1], sample[3]}, nil).AnyTimes()

	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	series, err := svc.ByKind(ctx, domain.KindSeries)
	require.NoError(t, err)
	assert.Len(t, series, 2)

	ok, err := svc.IsLiked(ctx, 1396, domain.KindSeries)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsLiked(ctx, 238, domain.KindSeries)
	require.NoError(t, err)
	assert.False(t, ok)

	filtered, err := svc.Filter(ctx, "bear")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "d", filtered[0].ID)

	suggestions, err := svc.Suggest(ctx, "the", 1)
	require.NoError(t, err)
	assert.Len(t, suggestions, 1)
}

func TestServiceStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockLikedStore(ctrl)
	svc := NewService(st, adapter.NullLogger())
	ctx := context.Background()
	boom := errors.New("boom")

	st.EXPECT().ListLiked(ctx).Return(nil, boom).Times(2)
	_, err := svc.Filter(ctx, "x")
	assert.ErrorIs(t, err, boom)
	_, err = svc.Suggest(ctx, "x", 5)
	assert.ErrorIs(t, err, boom)

	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return(nil, boom)
	_, err = svc.IsLiked(ctx, 1, domain.KindFilm)
	assert.ErrorIs(t, err, boom)
}
