package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/notify"
)

type mockSnapshots struct {
	m       sync.Mutex
	data    map[string][]domain.CartItem
	saves   int
	loadErr error
	saveErr error
}

func newMockSnapshots() *mockSnapshots {
	return &mockSnapshots{data: map[string][]domain.CartItem{}}
}

func (m *mockSnapshots) Load(_ context.Context, key string) ([]domain.CartItem, error) {
	m.m.Lock()
	defer m.m.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	items, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return domain.CloneItems(items), nil
}

func (m *mockSnapshots) Save(_ context.Context, key string, items []domain.CartItem) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = domain.CloneItems(items)
	return nil
}

func (m *mockSnapshots) saved(key string) []domain.CartItem {
	m.m.Lock()
	defer m.m.Unlock()
	return m.data[key]
}

func intPtr(i int) *int { return &i }
func floatPtr(f float64) *float64 { return &f }

func newTestStore(t *testing.T) (*Store, *mockSnapshots, *notify.Recorder) {
	t.Helper()
	snaps := newMockSnapshots()
	rec := &notify.Recorder{}
	return NewStore("", snaps, rec, zap.NewNop()), snaps, rec
}

func seed(s *Store) {
	s.Add(domain.CartItemInput{ID: "a", Title: "Lamp", Price: floatPtr(100), Quantity: intPtr(2)})
	s.Add(domain.CartItemInput{ID: "b", Title: "Rug", Price: floatPtr(50)})
}

func TestNewStore_DefaultKey(t *testing.T) {
	s, _, _ := newTestStore(t)
	assert.Equal(t, "cart", s.Key())
	assert.Empty(t, s.Items())
}

func TestAdd_AppendsInOrderAndMirrors(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	seed(s)

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, items, snaps.saved("cart"))
}

func TestAdd_SameIDRaisesQuantity(t *testing.T) {
	s, _, _ := newTestStore(t)
	seed(s)

	item := s.Add(domain.CartItemInput{ID: "a", Quantity: intPtr(3)})

	assert.Equal(t, 5, item.Quantity)
	assert.Equal(t, 2, s.Len())
}

func TestIncrementThenDecrement_RestoresQuantity(t *testing.T) {
	s, _, _ := newTestStore(t)
	seed(s)

	item, ok := s.Increment("a")
	require.True(t, ok)
	assert.Equal(t, 3, item.Quantity)

	item, ok = s.Decrement("a")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
}

func TestDecrement_ClampsAtOne(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	seed(s)
	savesBefore := snaps.saves

	item, ok := s.Decrement("b")

	require.True(t, ok)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, savesBefore, snaps.saves, "unchanged cart is not rewritten")
}

func TestAdjust_UnknownID(t *testing.T) {
	s, _, _ := newTestStore(t)
	seed(s)

	_, ok := s.Increment("zzz")
	assert.False(t, ok)
	_, ok = s.Decrement("zzz")
	assert.False(t, ok)
}

func TestRemove(t *testing.T) {
	s, snaps, rec := newTestStore(t)
	seed(s)

	removed := s.Remove(context.Background(), "a")

	assert.True(t, removed)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, items, snaps.saved("cart"))
	last, _ := rec.Last()
	assert.Equal(t, notify.Toast{Kind: "success", Message: "Item removed from cart"}, last)
}

func TestRemove_MissingItemIsNoop(t *testing.T) {
	s, _, rec := newTestStore(t)
	seed(s)

	assert.NotPanics(t, func() {
		assert.False(t, s.Remove(context.Background(), "missing"))
	})
	assert.Equal(t, 2, s.Len())
	assert.Len(t, rec.Toasts(), 1)
}

func TestClear(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	seed(s)

	s.Clear()

	assert.Empty(t, s.Items())
	saved := snaps.saved("cart")
	assert.NotNil(t, saved)
	assert.Empty(t, saved)
}

func TestItems_ReturnsCopy(t *testing.T) {
	s, _, _ := newTestStore(t)
	seed(s)

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 2, s.Items()[0].Quantity)
}

func TestSnapshotFailure_DoesNotBlockMutation(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	snaps.saveErr = errors.New("disk full")

	seed(s)

	assert.Equal(t, 2, s.Len())
}

func TestHydrate(t *testing.T) {
	snaps := newMockSnapshots()
	snaps.data["cart:u1"] = []domain.CartItem{
		{ID: "a", Price: 10, Quantity: 2},
		{ID: "b", Price: -5, Quantity: 0},
	}
	s := NewStore("cart:u1", snaps, &notify.Recorder{}, zap.NewNop())

	require.NoError(t, s.Hydrate(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 0.0, items[1].Price)
}

func TestHydrate_MissStartsEmpty(t *testing.T) {
	s, _, _ := newTestStore(t)

	require.NoError(t, s.Hydrate(context.Background()))
	assert.Empty(t, s.Items())
}

func TestHydrate_LoadError(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	seed(s)
	snaps.loadErr = errors.New("connection refused")

	err := s.Hydrate(context.Background())

	require.ErrorContains(t, err, "connection refused")
	assert.Empty(t, s.Items())
}

func TestConcurrentMutations(t *testing.T) {
	s, snaps, _ := newTestStore(t)
	s.Add(domain.CartItemInput{ID: "a"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment("a")
		}()
	}
	wg.Wait()

	assert.Equal(t, 51, s.Items()[0].Quantity)
	assert.Equal(t, 51, snaps.saved("cart")[0].Quantity)
}
