package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"lubritec-storefront-svc/src/clients"
	"lubritec-storefront-svc/src/internal/dependency"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)
	router.Use(deps.Metrics.Collect())

	setupHealthEndpoints(deps)
	setupStorefrontRoutes(router, deps)
	setupAdminRoutes(router, deps)
}

func setupHealthEndpoints(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	cfg := deps.Config

	router.GET("/metrics", deps.Metrics.Handler())

	router.GET("/health", func(c *gin.Context) {
		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(200, gin.H{
			"status":    "ok",
			"service":   cfg.App.Name,
			"version":   cfg.App.Version,
			"mongodb":   mongoStatus,
			"redis":     redisStatus,
			"timestamp": time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})

	router.GET("/health/detailed", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "operational",
			"service": cfg.App.Name,
			"version": cfg.App.Version,
			"components": gin.H{
				"database": gin.H{
					"mongodb": getStatus(isMongoConnected(mongodb, c)),
					"redis":   getStatus(isRedisConnected(redisClient.Client, c)),
				},
				"services": gin.H{
					"session": "operational",
					"catalog": "operational",
					"cart":    "operational",
					"orders":  "operational",
				},
				"sessions": deps.SessionRegistry.Len(),
			},
		})
	})
}

func setupStorefrontRoutes(router *gin.Engine, deps *dependency.Manager) {
	api := router.Group("/api/v1")
	api.Use(deps.SessionMW.Attach())

	api.GET("/status", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"api_version": "v1",
			"status":      "operational",
			"service":     deps.Config.App.Name,
		})
	})

	// Session
	api.POST("/auth/login", setRouteName("login"), deps.SessionHandler.Login)
	api.POST("/auth/logout", setRouteName("logout"), deps.SessionHandler.Logout)
	api.GET("/auth/session", setRouteName("currentSession"), deps.SessionHandler.Current)

	// Catalog
	api.GET("/products", setRouteName("listProducts"), deps.CatalogHandler.ListProducts)
	api.GET("/products/:id", setRouteName("getProduct"), deps.CatalogHandler.GetProduct)
	api.GET("/categories", setRouteName("listCategories"), deps.CatalogHandler.ListCategories)

	// Cart
	api.GET("/cart", setRouteName("getCart"), deps.CartHandler.Get)
	api.POST("/cart/items", setRouteName("addCartItem"), deps.CartHandler.AddItem)
	api.PUT("/cart/items/:itemId", setRouteName("updateCartItem"), deps.CartHandler.UpdateItem)
	api.DELETE("/cart/items/:itemId", setRouteName("removeCartItem"), deps.CartHandler.RemoveItem)
	api.DELETE("/cart", setRouteName("clearCart"), deps.CartHandler.Clear)

	// Orders
	api.POST("/orders", setRouteName("checkout"), deps.OrderHandler.Checkout)
	api.GET("/orders", setRouteName("orderHistory"), deps.OrderHandler.History)
	api.GET("/orders/:id", setRouteName("getOrder"), deps.OrderHandler.Get)
}

func setupAdminRoutes(router *gin.Engine, deps *dependency.Manager) {
	authMiddleware := deps.AuthMW
	handler := deps.AdminHandler

	admin := router.Group("/api/v1/admin")
	admin.Use(deps.SessionMW.Attach())
	{
		admin.POST("/products",
			setRouteName("createProduct"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.CreateProduct)

		admin.PUT("/products/:id",
			setRouteName("updateProduct"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.UpdateProduct)

		admin.DELETE("/products/:id",
			setRouteName("deleteProduct"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.DeleteProduct)

		admin.POST("/products/:id/images",
			setRouteName("uploadProductImage"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.UploadProductImage)

		admin.DELETE("/products/:id/images/:imageId",
			setRouteName("deleteProductImage"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.DeleteProductImage)

		admin.POST("/categories",
			setRouteName("createCategory"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.CreateCategory)

		admin.PUT("/categories/:id",
			setRouteName("updateCategory"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.UpdateCategory)

		admin.DELETE("/categories/:id",
			setRouteName("deleteCategory"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.DeleteCategory)

		admin.GET("/orders",
			setRouteName("listAllOrders"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.ListOrders)

		admin.PATCH("/orders/:id/status",
			setRouteName("updateOrderStatus"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.UpdateOrderStatus)

		admin.GET("/audit",
			setRouteName("listAuditTrail"),
			authMiddleware.RequireAuth(),
			authMiddleware.RequireAdminRights(),
			handler.ListAuditTrail)
	}
}

func setRouteName(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("route_name", name)
		c.Next()
	}
}

func isMongoConnected(mongodb *clients.MongoDB, c *gin.Context) bool {
	if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
		return false
	}
	return true
}

func isRedisConnected(redisClient *redis.Client, c *gin.Context) bool {
	if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
		return false
	}
	return true
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}

func getStatus(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
