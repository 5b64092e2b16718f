package router

import (
	"time"

	"github.com/clickmobile/clickmobile-backend/config"
	"github.com/clickmobile/clickmobile-backend/internal/app/controller"
	"github.com/clickmobile/clickmobile-backend/internal/middleware"
	"github.com/clickmobile/clickmobile-backend/internal/ws"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController    *controller.AuthController
	productController *controller.ProductController
	cartController    *controller.CartController
	orderController   *controller.OrderController
	catalogController *controller.CatalogController
	statsController   *controller.StatsController
	uploadController  *controller.UploadController
	authMiddleware    *middleware.AuthMiddleware
	orderFeed         *ws.Hub
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	catalogController *controller.CatalogController,
	statsController *controller.StatsController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	orderFeed *ws.Hub,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		productController: productController,
		cartController:    cartController,
		orderController:   orderController,
		catalogController: catalogController,
		statsController:   statsController,
		uploadController:  uploadController,
		authMiddleware:    authMiddleware,
		orderFeed:         orderFeed,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     r.config.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Click Mobile API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateMe)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.catalogController.ListCategories)
			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.CreateCategory,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.UpdateCategory,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.DeleteCategory,
			)
		}

		materials := v1.Group("/materials")
		{
			materials.GET("", r.catalogController.ListMaterials)
			materials.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.CreateMaterial,
			)
			materials.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.UpdateMaterial,
			)
			materials.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.catalogController.DeleteMaterial,
			)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.GET("/validate", r.cartController.ValidateCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/increase", r.cartController.IncreaseQuantity)
			cart.PUT("/decrease", r.cartController.DecreaseQuantity)
			cart.DELETE("/items/:product_id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/checkout", r.cartController.Checkout)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			uploads.POST("/presign", r.uploadController.PresignImageUpload)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/users", r.authController.ListUsers)
			admin.PUT("/users/:id/activate", r.authController.ActivateUser)
			admin.PUT("/users/:id/deactivate", r.authController.DeactivateUser)

			admin.GET("/orders", r.orderController.ListAllOrders)
			admin.PUT("/orders/:id/status", r.orderController.UpdateOrderStatus)
			admin.PUT("/orders/:id/payment", r.orderController.UpdatePaymentStatus)
			admin.GET("/orders/feed", r.serveOrderFeed)

			admin.GET("/stats", r.statsController.Dashboard)
			admin.POST("/stats/refresh", r.statsController.RefreshDashboard)
			admin.GET("/stats/export", r.statsController.ExportSalesReport)
		}
	}

	return router
}

// serveOrderFeed upgrades the connection and streams order events to the
// admin dashboard.
func (r *Router) serveOrderFeed(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	r.orderFeed.ServeFeed(c, userID)
}
