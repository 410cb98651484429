package liked

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/domain/mocks"
	"github.com/mmcdole/movietracker/internal/store"
)

var start = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

var dune = domain.CatalogRecord{ExternalID: 438631, Title: "Dune", Subtitle: "2021", PosterURL: "https://img/d.jpg", IsFilm: true}

// clock is a settable time source shared by a coordinator under test
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// CoordinatorSuite runs against a real memory store and a mocked notifier.
type CoordinatorSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	notifier *mocks.MockNotifier
	store    *store.Store
	clock    *clock
	coord    *Coordinator
	ctx      context.Context
}

func (s *CoordinatorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	st, err := store.NewStore("", "")
	s.Require().NoError(err)
	s.store = st
	s.clock = &clock{t: start}
	s.coord = NewCoordinator(st, s.notifier, adapter.NullLogger(),
		WithClock(s.clock.Now),
		WithIDGenerator(sequentialIDs()),
	)
	s.ctx = context.Background()
}

func (s *CoordinatorSuite) liked() []domain.LikedEntity {
	items, err := s.store.ListLiked(s.ctx)
	s.Require().NoError(err)
	return items
}

func (s *CoordinatorSuite) expectNotify(liked bool) {
	s.notifier.EXPECT().NotifyLiked(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, n domain.LikeNotification) error {
			s.Equal(liked, n.Liked)
			s.Equal(dune.ExternalID, n.Item.ExternalID)
			return nil
		})
}

func (s *CoordinatorSuite) TestToggleAddsThenUndoRemoves() {
	s.expectNotify(true)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	s.Equal(domain.ToggleAdded, t.Applied)
	s.True(t.Liked())
	s.True(t.CanUndo())
	s.Equal(start.Add(DefaultUndoWindow), t.ExpiresAt())

	items := s.liked()
	s.Require().Len(items, 1)
	s.Equal("id-1", items[0].ID)
	s.Equal(dune, items[0].CatalogRecord)
	s.True(items[0].CreatedAt.Equal(start))

	s.clock.Advance(2 * time.Second)
	s.Require().NoError(t.Undo(s.ctx))
	s.Empty(s.liked())
	s.False(t.Liked())
	s.False(t.CanUndo())

	s.ErrorIs(t.Undo(s.ctx), ErrUndoUnavailable)
}

func (s *CoordinatorSuite) TestToggleRemovesThenUndoRestoresSameEntity() {
	original := domain.LikedEntity{ID: "keep-me", CatalogRecord: dune, CreatedAt: start.Add(-time.Hour)}
	s.Require().NoError(s.store.InsertLiked(s.ctx, original))
	s.expectNotify(false)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	s.Equal(domain.ToggleRemoved, t.Applied)
	s.False(t.Liked())
	s.Equal("keep-me", t.Entity.ID)
	s.Empty(s.liked())

	s.Require().NoError(t.Undo(s.ctx))
	items := s.liked()
	s.Require().Len(items, 1)
	s.Equal("keep-me", items[0].ID)
	s.True(items[0].CreatedAt.Equal(original.CreatedAt))
	s.True(t.Liked())
}

func (s *CoordinatorSuite) TestDoubleToggleRestoresOriginalMembership() {
	s.expectNotify(true)
	s.expectNotify(false)

	_, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	_, err = s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)

	s.Empty(s.liked())
}

func (s *CoordinatorSuite) TestUndoAfterWindowExpires() {
	s.expectNotify(true)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)

	s.clock.Advance(DefaultUndoWindow + time.Millisecond)
	s.False(t.CanUndo())
	s.ErrorIs(t.Undo(s.ctx), ErrUndoExpired)
	s.Len(s.liked(), 1)

	s.ErrorIs(t.Undo(s.ctx), ErrUndoUnavailable)
}

func (s *CoordinatorSuite) TestUndoAtWindowBoundary() {
	s.expectNotify(true)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)

	s.clock.Advance(DefaultUndoWindow)
	s.NoError(t.Undo(s.ctx))
}

func (s *CoordinatorSuite) TestNewerToggleSupersedesPendingUndo() {
	other := domain.CatalogRecord{ExternalID: 1396, Title: "Breaking Bad", Subtitle: "2008"}
	s.notifier.EXPECT().NotifyLiked(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	first, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	second, err := s.coord.Toggle(s.ctx, other)
	s.Require().NoError(err)

	s.False(first.CanUndo())
	s.ErrorIs(first.Undo(s.ctx), ErrUndoUnavailable)
	s.True(second.CanUndo())
	s.Len(s.liked(), 2)
}

func (s *CoordinatorSuite) TestFilmAndSeriesWithSameIDAreDistinct() {
	series := dune
	series.IsFilm = false
	series.Title = "Dune: Prophecy"
	s.notifier.EXPECT().NotifyLiked(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	a, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	b, err := s.coord.Toggle(s.ctx, series)
	s.Require().NoError(err)

	s.Equal(domain.ToggleAdded, a.Applied)
	s.Equal(domain.ToggleAdded, b.Applied)
	s.Len(s.liked(), 2)
}

func (s *CoordinatorSuite) TestNotificationFailureDoesNotFailToggle() {
	s.notifier.EXPECT().NotifyLiked(gomock.Any(), gomock.Any()).Return(domain.ErrNotificationsDisabled)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	s.Equal(domain.ToggleAdded, t.Applied)
	s.Len(s.liked(), 1)
}

func (s *CoordinatorSuite) TestUndoSendsNoNotification() {
	s.expectNotify(true)

	t, err := s.coord.Toggle(s.ctx, dune)
	s.Require().NoError(err)
	// The controller fails the test on any unexpected NotifyLiked call
	s.NoError(t.Undo(s.ctx))
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

func TestToggleStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockLikedStore(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	coord := NewCoordinator(st, notifier, adapter.NullLogger())
	ctx := context.Background()
	boom := errors.New("boom")

	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return(nil, boom)
	_, err := coord.Toggle(ctx, dune)
	assert.ErrorIs(t, err, boom)

	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return(nil, nil)
	st.EXPECT().InsertLiked(ctx, gomock.Any()).Return(boom)
	_, err = coord.Toggle(ctx, dune)
	assert.ErrorIs(t, err, boom)

	existing := domain.LikedEntity{ID: "x", CatalogRecord: dune}
	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return([]domain.LikedEntity{existing}, nil)
	st.EXPECT().DeleteLiked(ctx, "x").Return(boom)
	_, err = coord.Toggle(ctx, dune)
	assert.ErrorIs(t, err, boom)
}

func TestPartialRemovalIsRolledBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockLikedStore(ctrl)
	coord := NewCoordinator(st, nil, adapter.NullLogger())
	ctx := context.Background()
	boom := errors.New("boom")

	first := domain.LikedEntity{ID: "x", CatalogRecord: dune, CreatedAt: start}
	second := domain.LikedEntity{ID: "y", CatalogRecord: dune, CreatedAt: start.Add(time.Second)}
	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return([]domain.LikedEntity{first, second}, nil)
	gomock.InOrder(
		st.EXPECT().DeleteLiked(ctx, "x").Return(nil),
		st.EXPECT().DeleteLiked(ctx, "y").Return(boom),
		st.EXPECT().InsertLiked(ctx, first).Return(nil),
	)

	_, err := coord.Toggle(ctx, dune)
	assert.ErrorIs(t, err, boom)
}

func TestPartialRemovalLeavesMemoryStoreUnchanged(t *testing.T) {
	st, err := store.NewStore("", "")
	require.NoError(t, err)
	ctx := context.Background()
	for _, id := range []string{"x", "y"} {
		require.NoError(t, st.InsertLiked(ctx, domain.LikedEntity{ID: id, CatalogRecord: dune, CreatedAt: start}))
	}

	boom := errors.New("boom")
	coord := NewCoordinator(&failingDelete{LikedStore: st, failOn: "y", err: boom}, nil, adapter.NullLogger())
	_, err = coord.Toggle(ctx, dune)
	require.ErrorIs(t, err, boom)

	items, err := st.ListLiked(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

// failingDelete fails DeleteLiked for one id and passes everything else through
type failingDelete struct {
	domain.LikedStore
	failOn string
	err    error
}

func (f *failingDelete) DeleteLiked(ctx context.Context, id string) error {
	if id == f.failOn {
		return f.err
	}
	return f.LikedStore.DeleteLiked(ctx, id)
}

func TestFailedUndoStaysUndoable(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mocks.NewMockLikedStore(ctrl)
	coord := NewCoordinator(st, nil, adapter.NullLogger(), WithUndoWindow(time.Minute))
	ctx := context.Background()

	existing := domain.LikedEntity{ID: "x", CatalogRecord: dune, CreatedAt: start}
	st.EXPECT().ListLikedByKind(ctx, domain.KindFilm).Return([]domain.LikedEntity{existing}, nil)
	st.EXPECT().DeleteLiked(ctx, "x").Return(nil)

	toggle, err := coord.Toggle(ctx, dune)
	require.NoError(t, err)

	st.EXPECT().InsertLiked(ctx, existing).Return(errors.New("disk full"))
	require.Error(t, toggle.Undo(ctx))
	assert.True(t, toggle.CanUndo())

	st.EXPECT().InsertLiked(ctx, existing).Return(nil)
	require.NoError(t, toggle.Undo(ctx))
	assert.True(t, toggle.Liked())
}

func TestConcurrentTogglesStayConsistent(t *testing.T) {
	st, err := store.NewStore("", "")
	require.NoError(t, err)
	coord := NewCoordinator(st, nil, adapter.NullLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := coord.Toggle(ctx, dune)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// An even number of toggles leaves the item where it started
	items, err := st.ListLiked(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
