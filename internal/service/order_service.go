package service

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/address"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/events"
	"github.com/jafarshop/storefront/internal/notify"
	"github.com/jafarshop/storefront/internal/pricing"
	"github.com/jafarshop/storefront/internal/repository"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	msgOrderPlaced = "Order placed successfully"
	msgOrderFailed = "Failed to place the order"

	publishTimeout = 5 * time.Second
)

// OrderSubmitter turns the current cart and draft address into a placed order.
// Only one submission runs at a time; the cart and address are cleared only
// after the order store confirms the write.
type OrderSubmitter struct {
	mu    sync.Mutex
	state domain.SubmitState

	cart     *cart.Store
	form     *address.Form
	orders   repository.OrderRepository
	events   events.Publisher
	notifier notify.Notifier
	logger   *zap.Logger
	now      func() time.Time

	// publishing tracks order events still being sent
	publishing   sync.WaitGroup
	eventTimeout time.Duration
}

// NewOrderSubmitter creates an idle submitter for one session
func NewOrderSubmitter(
	store *cart.Store,
	form *address.Form,
	orders repository.OrderRepository,
	publisher events.Publisher,
	notifier notify.Notifier,
	logger *zap.Logger,
) *OrderSubmitter {
	if publisher == nil {
		publisher = events.NewNopPublisher()
	}
	return &OrderSubmitter{
		state:    domain.SubmitStateIdle,
		cart:     store,
		form:     form,
		orders:   orders,
		events:   publisher,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,

		eventTimeout: publishTimeout,
	}
}

// State is the current submission state
func (s *OrderSubmitter) State() domain.SubmitState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Submit validates the draft address, stores the order and on success resets
// the address and empties the cart.
func (s *OrderSubmitter) Submit(ctx context.Context, user *domain.User) (*domain.Order, error) {
	if user == nil {
		return nil, &errors.ErrUnauthorized{Message: "no authenticated user"}
	}
	if err := s.begin(); err != nil {
		return nil, err
	}

	draft := s.form.Draft()
	if err := address.Validate(draft); err != nil {
		s.finish(domain.SubmitStateFailed)
		s.notifier.Error(ctx, validationMessage(err))
		return nil, err
	}

	if err := s.transition(domain.SubmitStateSubmitting); err != nil {
		s.finish(domain.SubmitStateFailed)
		return nil, err
	}
	order := s.assemble(user, draft)

	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("Error placing order",
			zap.String("user_id", order.UserID),
			zap.Error(err),
		)
		s.finish(domain.SubmitStateFailed)
		s.notifier.Error(ctx, msgOrderFailed)
		return nil, &errors.PersistenceError{Op: "create order", Err: err}
	}

	s.form.Reset()
	s.cart.Clear()
	s.finish(domain.SubmitStateSucceeded)
	s.notifier.Success(ctx, msgOrderPlaced)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int("item_count", order.Totals.ItemCount),
		zap.String("total", order.Totals.Total),
	)
	s.publishing.Add(1)
	go s.publish(context.WithoutCancel(ctx), order)

	return order, nil
}

// begin takes the submission guard
func (s *OrderSubmitter) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.InFlight() {
		return errors.ErrSubmissionInProgress
	}
	return s.transitionLocked(domain.SubmitStateValidating)
}

// finish records the outcome of an attempt and releases the guard
func (s *OrderSubmitter) finish(outcome domain.SubmitState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.transitionLocked(outcome); err != nil {
		s.logger.Warn("Unexpected submit state", zap.Error(err))
	}
	s.state = domain.SubmitStateIdle
}

func (s *OrderSubmitter) transition(to domain.SubmitState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionLocked(to)
}

func (s *OrderSubmitter) transitionLocked(to domain.SubmitState) error {
	if !s.state.CanTransitionTo(to) {
		return &errors.ErrInvalidStateTransition{From: s.state.String(), To: to.String()}
	}
	s.state = to
	return nil
}

// assemble snapshots the cart and address into a new order record
func (s *OrderSubmitter) assemble(user *domain.User, draft domain.AddressInfo) *domain.Order {
	now := s.now()
	items := s.cart.Items()

	draft.Time = domain.FormatISOTime(now)

	return &domain.Order{
		CartItems:   items,
		AddressInfo: draft,
		Email:       user.Email,
		UserID:      user.ID.String(),
		Status:      domain.OrderStatusConfirmed,
		Totals:      pricing.Summarize(items).OrderTotals(),
		Time:        domain.FormatISOTime(now),
		Date:        domain.FormatShortDate(now),
	}
}

// WaitForEvents blocks until every order event sent so far has been
// delivered or given up on.
func (s *OrderSubmitter) WaitForEvents() {
	s.publishing.Wait()
}

func (s *OrderSubmitter) publish(ctx context.Context, order *domain.Order) {
	defer s.publishing.Done()

	ctx, cancel := context.WithTimeout(ctx, s.eventTimeout)
	defer cancel()

	if err := s.events.PublishOrderPlaced(ctx, order); err != nil {
		s.logger.Warn("Failed to publish order event",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}
}

func validationMessage(err error) string {
	var vErr *errors.ValidationError
	if stderrors.As(err, &vErr) {
		return vErr.UserMessage()
	}
	return msgOrderFailed
}
