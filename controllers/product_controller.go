package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/repository"
)

// ProductController serves the subscription plan catalog. Plans are seeded
// out of band, so the surface is read only.
type ProductController struct {
	Products repository.ProductRepo
	Logger   *zap.Logger
}

func NewProductController(products repository.ProductRepo, logger *zap.Logger) *ProductController {
	return &ProductController{
		Products: products,
		Logger:   logger,
	}
}

// GetProducts lists every subscription plan.
func (pc *ProductController) GetProducts(c *gin.Context) {
	products, err := pc.Products.FindAll(c.Request.Context())
	if err != nil {
		pc.Logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// GetProduct returns one plan by id.
func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
		return
	}

	product, err := pc.Products.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		pc.Logger.Error("Failed to load product", zap.String("product_id", id.Hex()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}
	c.JSON(http.StatusOK, product)
}
