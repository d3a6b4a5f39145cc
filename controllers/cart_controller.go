package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	apperrors "github.com/DavCode46/wander-whiskers-server/errors"
	"github.com/DavCode46/wander-whiskers-server/middleware"
	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/repository"
	"github.com/DavCode46/wander-whiskers-server/services"
)

type CartController struct {
	Users    repository.UserRepo
	Carts    repository.CartRepo
	Checkout *services.CheckoutService
	Logger   *zap.Logger
}

func NewCartController(users repository.UserRepo, carts repository.CartRepo, checkout *services.CheckoutService, logger *zap.Logger) *CartController {
	return &CartController{
		Users:    users,
		Carts:    carts,
		Checkout: checkout,
		Logger:   logger,
	}
}

// GetCart returns the user's cart, or an empty cart when none exists yet.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	cart, err := cc.Carts.FindByUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusOK, &models.Cart{User: userID, Products: []primitive.ObjectID{}})
			return
		}
		cc.Logger.Error("Failed to load cart", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

type addProductRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddProduct puts one product into the user's cart. A cart is created lazily
// on the first add; a non-empty cart rejects further products because only one
// subscription can be pending at a time.
func (cc *CartController) AddProduct(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()

	user, err := cc.Users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		cc.Logger.Error("Failed to load user", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		cc.Logger.Error("Failed to load cart", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}

	if cart == nil || errors.Is(err, mongo.ErrNoDocuments) {
		newCart := &models.Cart{
			User:     userID,
			Products: []primitive.ObjectID{productID},
		}
		if err := cc.Carts.Create(ctx, newCart); err != nil {
			cc.Logger.Error("Failed to create cart", zap.String("user_id", userID.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
			return
		}
		if err := cc.Users.Update(ctx, user.ID, map[string]interface{}{
			"cart": []primitive.ObjectID{newCart.ID},
		}); err != nil {
			cc.Logger.Error("Failed to link cart to user", zap.String("user_id", userID.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart"})
		return
	}

	if len(cart.Products) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only one subscription can be selected, empty your cart first"})
		return
	}

	if err := cc.Carts.Update(ctx, cart.ID, []primitive.ObjectID{productID}); err != nil {
		cc.Logger.Error("Failed to update cart", zap.String("cart_id", cart.ID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add product to cart"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added to cart"})
}

type updateCartRequest struct {
	ProductID    string `json:"productId" binding:"required"`
	NewProductID string `json:"newProductId" binding:"required"`
}

// UpdateCart swaps one cart line item for another plan. The path user id must
// match the authenticated caller.
func (cc *CartController) UpdateCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if middleware.GetUserID(c) != userID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot modify another user's cart"})
		return
	}

	var req updateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}
	newProductID, err := primitive.ObjectIDFromHex(req.NewProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()

	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		cc.Logger.Error("Failed to load cart", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	found := false
	products := make([]primitive.ObjectID, len(cart.Products))
	for i, pid := range cart.Products {
		if pid == productID {
			products[i] = newProductID
			found = true
		} else {
			products[i] = pid
		}
	}
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product not found in cart"})
		return
	}

	if err := cc.Carts.Update(ctx, cart.ID, products); err != nil {
		cc.Logger.Error("Failed to update cart", zap.String("cart_id", cart.ID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	cart.Products = products
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
}

// DeleteProduct removes a product from the cart. When the cart empties it is
// deleted and the user's cart reference cleared.
func (cc *CartController) DeleteProduct(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if middleware.GetUserID(c) != userID.Hex() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You cannot modify another user's cart"})
		return
	}
	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	ctx := c.Request.Context()

	cart, err := cc.Carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		cc.Logger.Error("Failed to load cart", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}

	remaining := make([]primitive.ObjectID, 0, len(cart.Products))
	for _, pid := range cart.Products {
		if pid != productID {
			remaining = append(remaining, pid)
		}
	}

	if len(remaining) == 0 {
		if err := cc.Carts.Delete(ctx, cart.ID); err != nil {
			cc.Logger.Error("Failed to delete cart", zap.String("cart_id", cart.ID.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		if err := cc.Users.Update(ctx, userID, map[string]interface{}{
			"cart": []primitive.ObjectID{},
		}); err != nil {
			cc.Logger.Error("Failed to clear user cart reference", zap.String("user_id", userID.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	} else {
		if err := cc.Carts.Update(ctx, cart.ID, remaining); err != nil {
			cc.Logger.Error("Failed to update cart", zap.String("cart_id", cart.ID.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
	}

	cart.Products = remaining
	c.JSON(http.StatusOK, gin.H{"message": "Product removed from cart", "cart": cart})
}

// CheckoutCart builds line items from the cart, creates a payment session and
// returns the redirect URL.
func (cc *CartController) CheckoutCart(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	url, err := cc.Checkout.Checkout(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			c.Error(apperrors.ErrNotFound.WithMessage("User not found"))
		case errors.Is(err, services.ErrEmptyCart):
			c.Error(apperrors.ErrValidation.WithMessage("Cart is empty"))
		case errors.Is(err, services.ErrPaymentGateway):
			cc.Logger.Error("Checkout rejected by payment gateway", zap.String("user_id", userID.Hex()), zap.Error(err))
			c.Error(apperrors.ErrPaymentGateway)
		default:
			cc.Logger.Error("Checkout failed", zap.String("user_id", userID.Hex()), zap.Error(err))
			c.Error(apperrors.ErrInternalServer.WithMessage("Failed to process checkout"))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}
