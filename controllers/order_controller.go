package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/models"
	"github.com/DavCode46/wander-whiskers-server/repository"
)

type OrderController struct {
	Orders   repository.OrderRepo
	Products repository.ProductRepo
	Logger   *zap.Logger
}

func NewOrderController(orders repository.OrderRepo, products repository.ProductRepo, logger *zap.Logger) *OrderController {
	return &OrderController{
		Orders:   orders,
		Products: products,
		Logger:   logger,
	}
}

// GetOrders lists a user's orders, newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	orders, err := oc.Orders.FindByUser(c.Request.Context(), userID)
	if err != nil {
		oc.Logger.Error("Failed to list orders", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns the user's most recent order with its product documents
// resolved, so the client can render the purchased plan without extra calls.
func (oc *OrderController) GetOrder(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	ctx := c.Request.Context()

	order, err := oc.Orders.FindLatestByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		oc.Logger.Error("Failed to load latest order", zap.String("user_id", userID.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
		return
	}

	products := make([]models.Product, 0, len(order.Products))
	for _, pid := range order.Products {
		product, err := oc.Products.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				oc.Logger.Warn("Order references missing product",
					zap.String("order_id", order.ID.Hex()),
					zap.String("product_id", pid.Hex()),
				)
				continue
			}
			oc.Logger.Error("Failed to load order product", zap.String("product_id", pid.Hex()), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get order"})
			return
		}
		products = append(products, *product)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        order.ID,
		"user":      order.User,
		"products":  products,
		"createdAt": order.CreatedAt,
	})
}
