package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/notify"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/internal/repository/cache"
)

const hydrateTimeout = 5 * time.Second

// Session is the cart page state of one signed-in shopper
type Session struct {
	User      *domain.User
	Cart      *cart.Store
	Address   *address.Form
	Submitter *OrderSubmitter
}

// SessionService hands out one Session per user, restoring the saved cart the
// first time a user is seen. Sessions live for the life of the process.
type SessionService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	sfg      singleflight.Group

	repos     *repository.Repositories
	publisher events.Publisher
	notifier  notify.Notifier
	cartKey   string
	logger    *zap.Logger
}

// NewSessionService creates an empty session registry. cartKey is the base of
// every snapshot key; each user's cart is stored under "<cartKey>:<user id>".
func NewSessionService(
	repos *repository.Repositories,
	publisher events.Publisher,
	notifier notify.Notifier,
	cartKey string,
	logger *zap.Logger,
) *SessionService {
	if cartKey == "" {
		cartKey = cart.DefaultSnapshotKey
	}
	return &SessionService{
		sessions:  make(map[uuid.UUID]*Session),
		repos:     repos,
		publisher: publisher,
		notifier:  notifier,
		cartKey:   cartKey,
		logger:    logger,
	}
}

// Get returns the session of user, creating and hydrating it on first use.
// Concurrent first requests share one hydration. A session whose cart could not
// be restored is not kept, so the next call retries.
func (s *SessionService) Get(ctx context.Context, user *domain.User) (*Session, error) {
	if sess, ok := s.lookup(user.ID); ok {
		return sess, nil
	}

	v, err, _ := s.sfg.Do(user.ID.String(), func() (interface{}, error) {
		if sess, ok := s.lookup(user.ID); ok {
			return sess, nil
		}

		// Shared by every waiter, so it must not end with the first caller's request
		hydrateCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), hydrateTimeout)
		defer cancel()

		sess := s.newSession(user)
		if err := sess.Cart.Hydrate(hydrateCtx); err != nil {
			s.logger.Error("Failed to restore cart",
				zap.String("user_id", user.ID.String()),
				zap.String("key", sess.Cart.Key()),
				zap.Error(err),
			)
			return nil, err
		}

		s.mu.Lock()
		s.sessions[user.ID] = sess
		s.mu.Unlock()

		s.logger.Debug("Session created",
			zap.String("user_id", user.ID.String()),
			zap.Int("cart_items", sess.Cart.Len()),
		)
		return sess, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// WaitForEvents blocks until the order events of every session have been sent
func (s *SessionService) WaitForEvents() {
	s.mu.Lock()
	submitters := make([]*OrderSubmitter, 0, len(s.sessions))
	for _, sess := range s.sessions {
		submitters = append(submitters, sess.Submitter)
	}
	s.mu.Unlock()

	for _, sub := range submitters {
		sub.WaitForEvents()
	}
}

// Len is the number of live sessions
func (s *SessionService) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionService) lookup(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func (s *SessionService) newSession(user *domain.User) *Session {
	key := cache.SessionKey(s.cartKey, user.ID.String())
	store := cart.NewStore(key, s.repos.CartSnapshot, s.notifier, s.logger.With(zap.String("cart", key)))
	form := address.NewForm(nil)

	return &Session{
		User:      user,
		Cart:      store,
		Address:   form,
		Submitter: NewOrderSubmitter(store, form, s.repos.Order, s.publisher, s.notifier, s.logger),
	}
}
