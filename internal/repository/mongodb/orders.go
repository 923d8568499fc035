package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/domain"
	apperrors "github.com/jafarshop/storefront/pkg/errors"
)

// DefaultOrderCollection is the collection placed orders are written to
const DefaultOrderCollection = "order"

type orderDocument struct {
	ID          string             `bson:"_id"`
	CartItems   []domain.CartItem  `bson:"cartItems"`
	AddressInfo domain.AddressInfo `bson:"addressInfo"`
	Email       string             `bson:"email"`
	UserID      string             `bson:"userid"`
	Status      string             `bson:"status"`
	Totals      domain.OrderTotals `bson:"totals"`
	Time        string             `bson:"time"`
	Date        string             `bson:"date"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

type orderRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewOrderRepository creates a new order repository over the given collection
func NewOrderRepository(collection *mongo.Collection, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		collection: collection,
		logger:     logger,
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}

	doc := toDocument(order)
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert order",
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var doc orderDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, &apperrors.ErrNotFound{Resource: "order", ID: id}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, fmt.Errorf("find order: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *orderRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Order, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, bson.M{"userid": userID}, opts)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}

	orders := make([]*domain.Order, 0, len(docs))
	for i := range docs {
		orders = append(orders, docs[i].toDomain())
	}
	return orders, nil
}

// CreateIndexes creates the indexes order history queries rely on
func (r *orderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userid", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func toDocument(order *domain.Order) orderDocument {
	return orderDocument{
		ID:          order.ID,
		CartItems:   domain.CloneItems(order.CartItems),
		AddressInfo: order.AddressInfo,
		Email:       order.Email,
		UserID:      order.UserID,
		Status:      string(order.Status),
		Totals:      order.Totals,
		Time:        order.Time,
		Date:        order.Date,
	}
}

func (d orderDocument) toDomain() *domain.Order {
	items := d.CartItems
	if items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Order{
		ID:          d.ID,
		CartItems:   items,
		AddressInfo: d.AddressInfo,
		Email:       d.Email,
		UserID:      d.UserID,
		Status:      domain.OrderStatus(d.Status),
		Totals:      d.Totals,
		Time:        d.Time,
		Date:        d.Date,
	}
}
