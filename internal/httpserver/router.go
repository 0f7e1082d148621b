package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"marketcore/internal/domain"
	paymentsvc "marketcore/internal/service/payment"
)

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, lineID string) (*domain.Cart, error)
	Clear(ctx context.Context, userID string) error
}

type orderService interface {
	Place(ctx context.Context, userID, addressID string) (*domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}

type paymentService interface {
	CreateIntent(ctx context.Context, orderID string) (*paymentsvc.Intent, error)
	ReconcileCallback(ctx context.Context, providerOrderRef, providerPaymentRef, signature string) (string, error)
}

type tokenValidator interface {
	Validate(ctx context.Context, token string) (string, bool)
}

type userRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Deps carries the wired services for the router.
type Deps struct {
	CartSvc     cartService
	OrderSvc    orderService
	PaymentSvc  paymentService
	Tokens      tokenValidator
	Users       userRepo
	Metrics     http.Handler
	AdminAPIKey string
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.CartSvc == nil || deps.OrderSvc == nil || deps.PaymentSvc == nil || deps.Tokens == nil {
		return nil, errors.New("httpserver: missing service dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(zap.NewStdLog(logger).Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	// The callback endpoint is authenticated by signature, not by user.
	router.POST("/payments/callback", paymentCallbackHandler(deps.PaymentSvc))

	authed := router.Group("/", requireUser(deps.Tokens))
	{
		if deps.Users != nil {
			authed.GET("/me", meHandler(deps.Users))
		}

		authed.GET("/cart", getCartHandler(deps.CartSvc))
		authed.POST("/cart/items", addCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart/items/:lineID", removeCartItemHandler(deps.CartSvc))
		authed.DELETE("/cart", clearCartHandler(deps.CartSvc))

		authed.POST("/orders", placeOrderHandler(deps.OrderSvc))
		authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
		authed.GET("/orders/:orderID", getOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:orderID/cancel", cancelOrderHandler(deps.OrderSvc))
		authed.POST("/orders/:orderID/payment-intent", createIntentHandler(deps.PaymentSvc))
	}

	admin := router.Group("/admin", requireAdmin(deps.AdminAPIKey))
	{
		admin.PATCH("/orders/:orderID/status", updateOrderStatusHandler(deps.OrderSvc))
	}

	return router, nil
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(db *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
