package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"perfume-backend/internal/middleware"
)

// Dependencies is everything the HTTP layer talks to.
type Dependencies struct {
	DB         Pinger
	Products   ProductService
	Categories CategoryService
	Orders     OrderService
	Reviews    ReviewService
	Images     ImageService
	Admins     AdminFinder
	OrderFeed  http.Handler

	JWTSecret      string
	AccessTokenTTL time.Duration
	CORSOrigins    []string
	Logger         *slog.Logger
	Now            func() time.Time
}

func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	SetLogger(deps.Logger)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORSOrigins),
	)
	r.MaxMultipartMemory = maxMultipartMemory

	admin := middleware.AdminAuth(deps.JWTSecret)

	r.GET("/ping", Ping(deps.DB))
	r.POST("/admin/login", AdminLogin(deps.Admins, deps.JWTSecret, deps.AccessTokenTTL))

	categories := r.Group("/categories")
	{
		categories.GET("", GetCategories(deps.Categories))
		categories.GET("/:id", GetCategory(deps.Categories))
		categories.POST("", admin, CreateCategory(deps.Categories))
		categories.PUT("/:id", admin, UpdateCategory(deps.Categories))
		categories.DELETE("/:id", admin, DeleteCategory(deps.Categories))
	}

	products := r.Group("/products")
	{
		products.GET("", GetProducts(deps.Products))
		products.GET("/promotions", GetPromotions(deps.Products, deps.Now))
		products.GET("/:id", GetProduct(deps.Products))
		products.GET("/admin/all", admin, GetAllProducts(deps.Products))
		products.POST("", admin, CreateProduct(deps.Products))
		products.POST("/with-images", admin, CreateProductWithImages(deps.Products, deps.Images))
		products.PUT("/:id", admin, UpdateProduct(deps.Products))
		products.PUT("/:id/with-images", admin, UpdateProductWithImages(deps.Products, deps.Images))
		products.DELETE("/:id", admin, DeleteProduct(deps.Products))
		products.DELETE("/:id/soft", admin, SoftDeleteProduct(deps.Products))
	}

	orders := r.Group("/orders")
	{
		orders.POST("", CreateOrder(deps.Orders))
		orders.GET("", admin, GetOrders(deps.Orders))
		orders.GET("/archived", admin, GetArchivedOrders(deps.Orders))
		orders.GET("/sales/monthly", admin, GetMonthlySales(deps.Orders))
		orders.GET("/:id", admin, GetOrder(deps.Orders))
		orders.PUT("/:id/status", admin, UpdateOrderStatus(deps.Orders))
		orders.DELETE("/:id", admin, DeleteOrder(deps.Orders))
	}

	reviews := r.Group("/reviews")
	{
		reviews.GET("/product/:productId", GetProductReviews(deps.Reviews))
		reviews.GET("/product/:productId/stats", GetProductReviewStats(deps.Reviews))
		reviews.GET("/:id", GetReview(deps.Reviews))
		reviews.POST("", CreateReview(deps.Reviews))
		reviews.PUT("/:id", admin, UpdateReview(deps.Reviews))
		reviews.DELETE("/:id", admin, DeleteReview(deps.Reviews))
	}

	imgs := r.Group("/api/images")
	{
		imgs.GET("/:fileName", ServeImage(deps.Images))
		imgs.GET("/:fileName/thumbnail", ServeImage(deps.Images))
		imgs.DELETE("/:fileName", admin, DeleteImage(deps.Images))
	}

	if deps.OrderFeed != nil {
		r.GET("/ws/orders", gin.WrapH(deps.OrderFeed))
	}

	return r
}
