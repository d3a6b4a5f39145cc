package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavCode46/wander-whiskers-server/models"
)

// UserRepo defines the operations used by the user, cart and checkout flows.
type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByRole(ctx context.Context, role string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PostRepo defines the operations used by the pet post listings.
type PostRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	Find(ctx context.Context, filter map[string]interface{}) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByAuthor(ctx context.Context, author primitive.ObjectID) error
}

// ProductRepo exposes the read-only subscription plan catalog.
type ProductRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindAll(ctx context.Context) ([]models.Product, error)
}

// CartRepo defines the operations over a user's pending cart.
type CartRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, cart *models.Cart) error
	Update(ctx context.Context, id primitive.ObjectID, products []primitive.ObjectID) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByUser(ctx context.Context, userID primitive.ObjectID) error
}

// OrderRepo defines the operations over fulfillment records. Orders are
// append-only; there is no update or delete in the normal flow.
type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error)
}
