package router

import (
	"time"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/handlers"
	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/middleware"
	"github.com/foodgram/foodgram-api/internal/pdf"
	"github.com/foodgram/foodgram-api/internal/repository"
	"github.com/foodgram/foodgram-api/internal/service"
	"github.com/foodgram/foodgram-api/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the Gin router.
func SetupRouter(cfg *config.Config, database *gorm.DB, renderer *pdf.ShoppingListRenderer) *gin.Engine {
	// Create default Gin router
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowCredentials = true
	corsConfig.AllowAllOrigins = false
	corsConfig.AllowOrigins = cfg.EnvVars.AllowedOrigins
	r.Use(cors.New(corsConfig))

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// User-related routes setup
	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(cfg, userRepo)

	// Recipe-related routes setup
	recipeRepo := repository.NewRecipeRepository(database)
	ingredientRepo := repository.NewIngredientRepository(database)
	tagRepo := repository.NewTagRepository(database)
	imageStore := storage.NewS3ImageStore(cfg)
	recipeService := service.NewRecipeService(cfg, recipeRepo, ingredientRepo, tagRepo, userRepo, imageStore)
	recipeHandler := handlers.NewRecipeHandler(recipeService, renderer)

	// Subscription-related routes setup
	subscriptionService := service.NewSubscriptionService(cfg, userRepo, recipeRepo)
	userHandler := handlers.NewUserHandler(userService, subscriptionService)

	// Reference table routes setup
	tagHandler := handlers.NewTagHandler(tagRepo)
	ingredientHandler := handlers.NewIngredientHandler(ingredientRepo)

	// Group for API routes that don't require token verification. The soft
	// token middleware still decodes a token when one is present so the
	// per-user flags (is_subscribed, is_favorited, is_in_shopping_cart) can
	// be filled in for logged-in callers.
	apiPublic := r.Group("/api")
	{
		apiPublic.Use(middleware.SoftVerifyTokenMiddleware(cfg))

		// User-related routes

		// Create a new user
		apiPublic.POST("/users/", middleware.RateLimitByIP(5, time.Minute, 10*time.Minute), userHandler.CreateUser)
		// List users
		apiPublic.GET("/users/", middleware.AttachUserToContext(userService), userHandler.ListUsers)
		// Get a user by their ID
		apiPublic.GET("/users/:user_id/", middleware.AttachUserToContext(userService), userHandler.GetUser)
		// Login a user
		apiPublic.POST("/auth/token/login/", middleware.RateLimitByIP(10, time.Minute, 10*time.Minute), userHandler.LoginUser)
		// Refresh an access token
		apiPublic.POST("/auth/token/refresh/", userHandler.RefreshToken)

		// Recipe-related routes

		// List recipes with filters and pagination
		apiPublic.GET("/recipes/", middleware.AttachUserToContext(userService), recipeHandler.ListRecipes)
		// Get a single recipe by its ID
		apiPublic.GET("/recipes/:recipe_id/", middleware.AttachUserToContext(userService), recipeHandler.GetRecipe)

		// Reference tables

		apiPublic.GET("/tags/", tagHandler.ListTags)
		apiPublic.GET("/tags/:tag_id/", tagHandler.GetTag)
		apiPublic.GET("/ingredients/", ingredientHandler.ListIngredients)
		apiPublic.GET("/ingredients/:ingredient_id/", ingredientHandler.GetIngredient)
	}

	// Group for API routes that require token verification
	apiProtected := r.Group("/api")
	{
		apiProtected.Use(middleware.VerifyTokenMiddleware(cfg))

		// User-related routes

		// Get the authenticated user
		apiProtected.GET("/users/me/", middleware.AttachUserToContext(userService), userHandler.GetMe)
		// Change the authenticated user's password
		apiProtected.POST("/users/set_password/", middleware.AttachUserToContext(userService), userHandler.SetPassword)

		// Subscription-related routes

		apiProtected.GET("/users/subscriptions/", middleware.AttachUserToContext(userService), userHandler.ListSubscriptions)
		apiProtected.POST("/users/:user_id/subscribe/", middleware.AttachUserToContext(userService), userHandler.Subscribe)
		apiProtected.DELETE("/users/:user_id/subscribe/", middleware.AttachUserToContext(userService), userHandler.Unsubscribe)

		// Recipe-related routes

		apiProtected.POST("/recipes/", middleware.AttachUserToContext(userService), recipeHandler.CreateRecipe)
		apiProtected.PATCH("/recipes/:recipe_id/", middleware.AttachUserToContext(userService), recipeHandler.UpdateRecipe)
		apiProtected.DELETE("/recipes/:recipe_id/", middleware.AttachUserToContext(userService), recipeHandler.DeleteRecipe)

		// Favorite and shopping cart toggles
		apiProtected.POST("/recipes/:recipe_id/favorite/", middleware.AttachUserToContext(userService), recipeHandler.Favorite)
		apiProtected.DELETE("/recipes/:recipe_id/favorite/", middleware.AttachUserToContext(userService), recipeHandler.Unfavorite)
		apiProtected.POST("/recipes/:recipe_id/shopping_cart/", middleware.AttachUserToContext(userService), recipeHandler.AddToShoppingCart)
		apiProtected.DELETE("/recipes/:recipe_id/shopping_cart/", middleware.AttachUserToContext(userService), recipeHandler.RemoveFromShoppingCart)

		// Shopping list export
		apiProtected.GET("/recipes/download_shopping_cart/", middleware.AttachUserToContext(userService), recipeHandler.DownloadShoppingCart)
	}

	return r
}
