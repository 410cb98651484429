package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mmcdole/movietracker/internal/adapter"
	"github.com/mmcdole/movietracker/internal/domain"
	"github.com/mmcdole/movietracker/internal/domain/mocks"
)

var (
	at   = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	dune = domain.CatalogRecord{ExternalID: 438631, Title: "Dune", Subtitle: "2021", IsFilm: true}
)

type fakeChannel struct {
	mu        sync.Mutex
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, msg)
	f.keys = append(f.keys, exchange+"/"+key)
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQPublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	r := &RabbitMQ{channel: ch, exchange: "movietracker", routingKey: "liked.changed", logger: adapter.NullLogger()}

	err := r.NotifyLiked(context.Background(), domain.LikeNotification{Item: dune, Liked: true, At: at})
	require.NoError(t, err)
	require.Len(t, ch.published, 1)

	pub := ch.published[0]
	assert.Equal(t, "movietracker/liked.changed", ch.keys[0])
	assert.Equal(t, "application/json", pub.ContentType)
	assert.Equal(t, uint8(amqp.Persistent), pub.DeliveryMode)

	var msg LikedMessage
	require.NoError(t, json.Unmarshal(pub.Body, &msg))
	assert.Equal(t, "liked", msg.Action)
	assert.Equal(t, dune, msg.Item)
	assert.Equal(t, `Added "Dune" to liked`, msg.Message)
	assert.True(t, msg.Timestamp.Equal(at))

	require.NoError(t, r.Close())
	assert.True(t, ch.closed)
}

func TestRabbitMQUnlikedAndErrors(t *testing.T) {
	ch := &fakeChannel{}
	r := &RabbitMQ{channel: ch, logger: adapter.NullLogger()}

	require.NoError(t, r.NotifyLiked(context.Background(), domain.LikeNotification{Item: dune, Liked: false, At: at}))
	var msg LikedMessage
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &msg))
	assert.Equal(t, "unliked", msg.Action)

	ch.err = errors.New("channel closed")
	err := r.NotifyLiked(context.Background(), domain.LikeNotification{Item: dune})
	assert.ErrorIs(t, err, ch.err)
}

func TestLogAndDisabled(t *testing.T) {
	ctx := context.Background()
	n := domain.LikeNotification{Item: dune, Liked: true, At: at}

	assert.NoError(t, NewLog(adapter.NullLogger()).NotifyLiked(ctx, n))
	assert.ErrorIs(t, Disabled{}.NotifyLiked(ctx, n), domain.ErrNotificationsDisabled)
}

func TestChannelDropsWhenFull(t *testing.T) {
	ch := make(chan domain.LikeNotification, 1)
	c := NewChannel(ch)
	n := domain.LikeNotification{Item: dune, Liked: true, At: at}

	require.NoError(t, c.NotifyLiked(context.Background(), n))
	assert.ErrorIs(t, c.NotifyLiked(context.Background(), n), ErrChannelFull)
	assert.Equal(t, n, <-ch)
}

func TestMultiJoinsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockNotifier(ctrl)
	b := mocks.NewMockNotifier(ctrl)
	boom := errors.New("boom")
	n := domain.LikeNotification{Item: dune}

	a.EXPECT().NotifyLiked(gomock.Any(), n).Return(boom)
	b.EXPECT().NotifyLiked(gomock.Any(), n).Return(nil)

	err := Multi{a, b}.NotifyLiked(context.Background(), n)
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, Multi{}.NotifyLiked(context.Background(), n))
}

func TestBestEffortDeliversInBackground(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockNotifier(ctrl)
	release := make(chan struct{})
	n := domain.LikeNotification{Item: dune, Liked: true, At: at}

	next.EXPECT().NotifyLiked(gomock.Any(), n).DoAndReturn(func(ctx context.Context, _ domain.LikeNotification) error {
		<-release
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return errors.New("broker down")
	})

	b := NewBestEffort(next, time.Second, adapter.NullLogger())

	// Cancelling the caller must not abort delivery
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.NotifyLiked(ctx, n))
	cancel()

	close(release)
	require.NoError(t, b.Close())
}

func TestBestEffortTimesOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockNotifier(ctrl)

	next.EXPECT().NotifyLiked(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, _ domain.LikeNotification) error {
		<-ctx.Done()
		return ctx.Err()
	})

	b := NewBestEffort(next, 10*time.Millisecond, adapter.NullLogger())
	require.NoError(t, b.NotifyLiked(context.Background(), domain.LikeNotification{Item: dune}))
	require.NoError(t, b.Close())
}

func TestBestEffortDropsAfterClose(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockNotifier(ctrl)

	b := NewBestEffort(next, 0, nil)
	require.NoError(t, b.Close())

	// No NotifyLiked expectation: the controller fails on any delivery
	assert.NoError(t, b.NotifyLiked(context.Background(), domain.LikeNotification{Item: dune}))
}
