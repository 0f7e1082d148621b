package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"marketcore/internal/auth"
	"marketcore/internal/cache"
	"marketcore/internal/config"
	"marketcore/internal/db"
	"marketcore/internal/httpserver"
	"marketcore/internal/inventory"
	"marketcore/internal/metrics"
	gateway "marketcore/internal/payment"
	addressrepo "marketcore/internal/repository/address"
	cartrepo "marketcore/internal/repository/cart"
	orderrepo "marketcore/internal/repository/order"
	paymentrepo "marketcore/internal/repository/payment"
	productrepo "marketcore/internal/repository/product"
	tokenrepo "marketcore/internal/repository/token"
	userrepo "marketcore/internal/repository/user"
	cartsvc "marketcore/internal/service/cart"
	ordersvc "marketcore/internal/service/order"
	paymentsvc "marketcore/internal/service/payment"
	"marketcore/internal/sweeper"
)

func main() {
	cfg := config.FromEnv()
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	m := metrics.New()
	store := cache.NewInstrumented(cache.NewRedisStore(redisClient, cfg.CacheTTL), m.CacheHits, m.CacheMisses)
	txRunner := db.NewPoolRunner(dbpool)
	ledger := inventory.NewLedger()

	productRepo := productrepo.NewPostgres(dbpool)
	addressRepo := addressrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool)
	paymentRepo := paymentrepo.NewPostgres(dbpool)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool)

	tokens := auth.NewManager(tokenRepo)
	cartService := cartsvc.New(cartRepo, productRepo, store, logger)
	orderService := ordersvc.New(txRunner, orderRepo, cartRepo, addressRepo, ledger, store, m, logger)

	provider := gateway.NewHTTPProvider(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentKeySecret, logger)
	verifier := gateway.NewVerifier(cfg.PaymentKeySecret)
	paymentService := paymentsvc.New(txRunner, orderRepo, paymentRepo, orderService, provider, verifier, m, logger)

	sweep := sweeper.New(orderService, cfg.SweepInterval, cfg.OrderExpiry, logger)
	go sweep.Run(ctx)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:     cartService,
		OrderSvc:    orderService,
		PaymentSvc:  paymentService,
		Tokens:      tokens,
		Users:       userRepo,
		Metrics:     m.Handler(),
		AdminAPIKey: cfg.AdminAPIKey,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
