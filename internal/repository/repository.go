package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/domain"
)

// OrderRepository persists placed orders. Orders are written once and never updated.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error)
}

// UserRepository resolves shopper identities
type UserRepository interface {
	GetBySessionToken(ctx context.Context, token string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}

// Repositories groups every store the service talks to
type Repositories struct {
	Order        OrderRepository
	User         UserRepository
	CartSnapshot cart.SnapshotStore
}
