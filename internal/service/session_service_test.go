package service

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/notify"
	"github.com/jafarshop/storefront/internal/repository"
)

func newTestSessions(snapshots *memSnapshots) *SessionService {
	repos := &repository.Repositories{
		Order:        &mockOrders{},
		CartSnapshot: snapshots,
	}
	return NewSessionService(repos, events.NewNopPublisher(), &notify.Recorder{}, "cart", zap.NewNop())
}

func TestSessionService_GetReusesSession(t *testing.T) {
	sessions := newTestSessions(newMemSnapshots())
	user := &domain.User{ID: uuid.New(), Email: "a@example.com"}

	first, err := sessions.Get(context.Background(), user)
	require.NoError(t, err)
	second, err := sessions.Get(context.Background(), user)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, sessions.Len())
	assert.Equal(t, "cart:"+user.ID.String(), first.Cart.Key())
	assert.Equal(t, domain.SubmitStateIdle, first.Submitter.State())
}

func TestSessionService_SeparateUsers(t *testing.T) {
	sessions := newTestSessions(newMemSnapshots())
	alice := &domain.User{ID: uuid.New()}
	bob := &domain.User{ID: uuid.New()}

	a, err := sessions.Get(context.Background(), alice)
	require.NoError(t, err)
	b, err := sessions.Get(context.Background(), bob)
	require.NoError(t, err)

	a.Cart.Add(domain.CartItemInput{ID: "tea", Price: floatPtr(10)})

	assert.Equal(t, 1, a.Cart.Len())
	assert.Equal(t, 0, b.Cart.Len())
}

func TestSessionService_HydratesSavedCart(t *testing.T) {
	snapshots := newMemSnapshots()
	user := &domain.User{ID: uuid.New()}
	snapshots.data["cart:"+user.ID.String()] = []domain.CartItem{
		{ID: "a", Title: "Tea", Price: 100, Quantity: 2},
		{ID: "b", Title: "Cup", Price: 50},
	}

	sess, err := newTestSessions(snapshots).Get(context.Background(), user)
	require.NoError(t, err)

	items := sess.Cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestSessionService_HydrateFailureIsRetried(t *testing.T) {
	snapshots := newMemSnapshots()
	snapshots.err = stderrors.New("redis unavailable")
	sessions := newTestSessions(snapshots)
	user := &domain.User{ID: uuid.New()}

	_, err := sessions.Get(context.Background(), user)
	require.ErrorContains(t, err, "redis unavailable")
	assert.Equal(t, 0, sessions.Len())

	snapshots.mu.Lock()
	snapshots.err = nil
	snapshots.mu.Unlock()

	_, err = sessions.Get(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionService_ConcurrentGet(t *testing.T) {
	sessions := newTestSessions(newMemSnapshots())
	user := &domain.User{ID: uuid.New()}

	var wg sync.WaitGroup
	got := make([]*Session, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sess, err := sessions.Get(context.Background(), user)
			if err == nil {
				got[i] = sess
			}
		}(i)
	}
	wg.Wait()

	for _, sess := range got {
		assert.Same(t, got[0], sess)
	}
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionService_HydrateOutlivesCanceledRequest(t *testing.T) {
	snapshots := newMemSnapshots()
	user := &domain.User{ID: uuid.New()}
	snapshots.data["cart:"+user.ID.String()] = []domain.CartItem{{ID: "a", Price: 10, Quantity: 1}}
	sessions := newTestSessions(snapshots)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sess, err := sessions.Get(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.Len())
	assert.Equal(t, 1, sessions.Len())
}

func TestSessionService_WaitForEvents(t *testing.T) {
	snapshots := newMemSnapshots()
	repos := &repository.Repositories{Order: &mockOrders{}, CartSnapshot: snapshots}
	publisher := &recordingPublisher{}
	sessions := NewSessionService(repos, publisher, &notify.Recorder{}, "cart", zap.NewNop())
	user := &domain.User{ID: uuid.New(), Email: "a@example.com"}

	sess, err := sessions.Get(context.Background(), user)
	require.NoError(t, err)
	sess.Address.Update(address.Patch{
		Name:         strPtr("Asha"),
		Address:      strPtr("12 MG Road"),
		Pincode:      strPtr("560001"),
		MobileNumber: strPtr("9876543210"),
	})

	order, err := sess.Submitter.Submit(context.Background(), user)
	require.NoError(t, err)

	sessions.WaitForEvents()
	published := publisher.published()
	require.Len(t, published, 1)
	assert.Equal(t, order.ID, published[0].ID)
}

func TestNewCartView(t *testing.T) {
	view := NewCartView(nil)
	assert.NotNil(t, view.Items)
	assert.Equal(t, "0.00", view.Totals.Subtotal)
	assert.Equal(t, "50.00", view.Totals.Total)

	view = NewCartView([]domain.CartItem{{ID: "a", Price: 100, Quantity: 2}, {ID: "b", Price: 50}})
	assert.Equal(t, 3, view.Totals.ItemCount)
	assert.Equal(t, "300.00", view.Totals.Total)
}
