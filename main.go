package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/DavCode46/wander-whiskers-server/config"
	"github.com/DavCode46/wander-whiskers-server/controllers"
	"github.com/DavCode46/wander-whiskers-server/database"
	apperrors "github.com/DavCode46/wander-whiskers-server/errors"
	"github.com/DavCode46/wander-whiskers-server/logger"
	"github.com/DavCode46/wander-whiskers-server/repository"
	"github.com/DavCode46/wander-whiskers-server/routes"
	"github.com/DavCode46/wander-whiskers-server/services"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := database.Connect(cfg.MongoURL, cfg.MongoDB); err != nil {
		logger.Log.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer database.Close()

	userRepo := repository.NewUserRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)
	productRepo := repository.NewProductRepository(database.DB)
	cartRepo := repository.NewCartRepository(database.DB)
	orderRepo := repository.NewOrderRepository(database.DB)

	tokenService := services.NewTokenService(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	checkoutService := services.NewCheckoutService(
		userRepo, cartRepo, productRepo, orderRepo,
		stripeService,
		services.PriceTable{
			MonthlyPriceID: cfg.StripeMonthlyPriceID,
			AnnualPriceID:  cfg.StripeAnnualPriceID,
		},
		cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL,
		logger.Log,
	)

	ctrl := routes.Controllers{
		Users:    controllers.NewUserController(userRepo, postRepo, cartRepo, tokenService, emailService, cfg.AdminEmail, cfg.ClientURL, logger.Log),
		Posts:    controllers.NewPostController(postRepo, userRepo, logger.Log),
		Products: controllers.NewProductController(productRepo, logger.Log),
		Orders:   controllers.NewOrderController(orderRepo, productRepo, logger.Log),
		Cart:     controllers.NewCartController(userRepo, cartRepo, checkoutService, logger.Log),
		Webhook:  controllers.NewWebhookController(stripeService, checkoutService, logger.Log),
	}

	r := gin.New()
	r.Use(logger.RequestLogger())
	r.Use(gin.Recovery())
	r.Use(apperrors.ErrorMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(r, ctrl, tokenService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
}
