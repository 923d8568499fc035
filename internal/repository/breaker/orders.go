package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository"
)

// Settings configures when the order store breaker opens
type Settings struct {
	Name string
	// MaxFailures is the number of consecutive failures that open the breaker
	MaxFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through
	OpenTimeout time.Duration
}

// OrderRepository fails order writes fast while the underlying store keeps failing.
// It never retries.
type OrderRepository struct {
	next   repository.OrderRepository
	cb     *gobreaker.CircuitBreaker[struct{}]
	logger *zap.Logger
}

// NewOrderRepository wraps next with a circuit breaker
func NewOrderRepository(next repository.OrderRepository, s Settings, logger *zap.Logger) *OrderRepository {
	if s.Name == "" {
		s.Name = "order-store"
	}
	if s.MaxFailures == 0 {
		s.MaxFailures = 5
	}
	if s.OpenTimeout == 0 {
		s.OpenTimeout = 30 * time.Second
	}

	maxFailures := s.MaxFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		// A caller that went away says nothing about the store
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Order store breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &OrderRepository{
		next:   next,
		cb:     cb,
		logger: logger,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	_, err := r.cb.Execute(func() (struct{}, error) {
		return struct{}{}, r.next.Create(ctx, order)
	})
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.next.GetByID(ctx, id)
}

func (r *OrderRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	return r.next.ListByUserID(ctx, userID, limit, offset)
}

// State is the current breaker state
func (r *OrderRepository) State() gobreaker.State {
	return r.cb.State()
}
