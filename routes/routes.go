package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DavCode46/wander-whiskers-server/controllers"
	"github.com/DavCode46/wander-whiskers-server/middleware"
	"github.com/DavCode46/wander-whiskers-server/services"
)

// Controllers bundles every handler group mounted by Register.
type Controllers struct {
	Users    *controllers.UserController
	Posts    *controllers.PostController
	Products *controllers.ProductController
	Orders   *controllers.OrderController
	Cart     *controllers.CartController
	Webhook  *controllers.WebhookController
}

// Register mounts all API routes on the engine.
func Register(r *gin.Engine, ctrl Controllers, tokens *services.TokenService) {
	auth := middleware.Authenticate(tokens)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := r.Group("/users")
	{
		users.POST("/register", middleware.RateLimit(), ctrl.Users.Register)
		users.POST("/login", middleware.RateLimit(), ctrl.Users.Login)
		users.POST("/forget-password", ctrl.Users.ForgetPassword)
		users.POST("/reset-password/:id/:token", ctrl.Users.ResetPassword)
		users.GET("", ctrl.Users.GetUsers)
		users.GET("/:id", ctrl.Users.GetUser)
		users.POST("/change-image", auth, ctrl.Users.ChangeImage)
		users.PATCH("/edit", auth, ctrl.Users.EditUser)
		users.DELETE("/:id", auth, ctrl.Users.DeleteUser)
	}

	posts := r.Group("/posts")
	{
		posts.GET("", ctrl.Posts.GetAllPosts)
		posts.GET("/:id", ctrl.Posts.GetPost)
		posts.GET("/location/:location", ctrl.Posts.GetPostsByLocation)
		posts.GET("/specie/:specie", ctrl.Posts.GetPostsBySpecie)
		posts.GET("/condition/:condition", ctrl.Posts.GetPostsByCondition)
		posts.GET("/author/:id", ctrl.Posts.GetAuthorPosts)
		posts.POST("", auth, ctrl.Posts.CreatePost)
		posts.PUT("/:id", auth, ctrl.Posts.UpdatePost)
		posts.DELETE("/:id", auth, ctrl.Posts.DeletePost)
	}

	products := r.Group("/products")
	{
		products.GET("", ctrl.Products.GetProducts)
		products.GET("/:id", ctrl.Products.GetProduct)
	}

	orders := r.Group("/orders")
	{
		orders.GET("/user/:id", ctrl.Orders.GetOrders)
		orders.GET("/user/order/:id", ctrl.Orders.GetOrder)
	}

	cart := r.Group("/cart")
	{
		cart.GET("/:id", ctrl.Cart.GetCart)
		cart.POST("/add-product/:id", ctrl.Cart.AddProduct)
		cart.PUT("/update-cart/:id", auth, ctrl.Cart.UpdateCart)
		cart.DELETE("/:userId/:productId", auth, ctrl.Cart.DeleteProduct)
		cart.POST("/checkout/:id", ctrl.Cart.CheckoutCart)
	}

	r.POST("/stripe/webhook", ctrl.Webhook.StripeWebhook)
}
