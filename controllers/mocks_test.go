package controllers

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/services"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) FindByRole(ctx context.Context, role string) (*models.User, error) {
	args := m.Called(ctx, role)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepo) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) Find(ctx context.Context, filter map[string]interface{}) ([]models.Post, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepo) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepo) DeleteByAuthor(ctx context.Context, author primitive.ObjectID) error {
	args := m.Called(ctx, author)
	return args.Error(0)
}

type MockCartRepo struct {
	mock.Mock
}

func (m *MockCartRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	if c := args.Get(0); c != nil {
		return c.(*models.Cart), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartRepo) Create(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *MockCartRepo) Update(ctx context.Context, id primitive.ObjectID, products []primitive.ObjectID) error {
	args := m.Called(ctx, id, products)
	return args.Error(0)
}

func (m *MockCartRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartRepo) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepo) FindAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	if p := args.Get(0); p != nil {
		return p.([]models.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderRepo struct {
	mock.Mock
}

func (m *MockOrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.([]models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepo) FindLatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Order, error) {
	args := m.Called(ctx, userID)
	if o := args.Get(0); o != nil {
		return o.(*models.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateCheckoutSession(userID string, items []services.LineItem, successURL, cancelURL string) (*services.SessionHandle, error) {
	args := m.Called(userID, items, successURL, cancelURL)
	if h := args.Get(0); h != nil {
		return h.(*services.SessionHandle), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPaymentGateway) VerifyWebhook(payload []byte, sigHeader string) (stripe.Event, error) {
	args := m.Called(payload, sigHeader)
	return args.Get(0).(stripe.Event), args.Error(1)
}
