package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/domain/mocks"
)

func TestQueriesNeverTouchNetwork(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockCacheStore(ctrl)
	q := NewQueries(st)
	ctx := context.Background()

	st.EXPECT().TrendingPage(ctx, 1).Return(cachedTrending(1, now, 1.0, 2.0), nil)
	got, found, err := q.CachedTrending(ctx, 1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"t2", "t1"}, titles(got))

	st.EXPECT().TrendingPage(ctx, 2).Return(nil, nil)
	got, found, err = q.CachedTrending(ctx, 2)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, got)

	st.EXPECT().SearchResults(ctx, "dune").Return(nil, errors.New("boom"))
	_, _, err = q.CachedSearch(ctx, " dune ")
	assert.Error(t, err)

	_, found, err = q.CachedSearch(ctx, "")
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestSweeperRunOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockCacheStore(ctrl)
	sw := NewSweeper(st, 24*time.Hour, time.Hour, adapter.NullLogger())
	sw.now = func() time.Time { return now }

	st.EXPECT().DeleteOlderThan(gomock.Any(), now.Add(-24*time.Hour)).Return(4, nil)
	n, err := sw.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	st.EXPECT().DeleteOlderThan(gomock.Any(), gomock.Any()).Return(0, errors.New("locked"))
	_, err = sw.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestSweeperStartStopsWithContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockCacheStore(ctrl)
	sw := NewSweeper(st, 0, 10*time.Millisecond, adapter.NullLogger())
	assert.Equal(t, DefaultRetention, sw.retention)

	ctx, cancel := context.WithCancel(context.Background())
	swept := make(chan struct{}, 16)
	st.EXPECT().DeleteOlderThan(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) (int, error) {
			swept <- struct{}{}
			return 0, nil
		}).MinTimes(2)

	done := make(chan error, 1)
	go func() { done <- sw.Start(ctx) }()

	<-swept
	<-swept
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
