// Package server boots and runs the HTTP application.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glowmart/glowmart/app/controllers"
	"github.com/glowmart/glowmart/app/jobs"
	"github.com/glowmart/glowmart/app/models"
	"github.com/glowmart/glowmart/app/repositories"
	"github.com/glowmart/glowmart/app/routes"
	"github.com/glowmart/glowmart/app/services"
	"github.com/glowmart/glowmart/config"
	"github.com/glowmart/glowmart/database/seeders"
	"github.com/glowmart/glowmart/pkg/cache"
	"github.com/glowmart/glowmart/pkg/database"
	"github.com/glowmart/glowmart/pkg/event"
	"github.com/glowmart/glowmart/pkg/logger"
	"github.com/glowmart/glowmart/pkg/metrics"
	"github.com/glowmart/glowmart/pkg/middleware"
	"github.com/glowmart/glowmart/pkg/queue"
	"github.com/glowmart/glowmart/pkg/reqid"
	"github.com/glowmart/glowmart/pkg/router"
	"github.com/glowmart/glowmart/pkg/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 15 * time.Second
	queueWorkers      = 4
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := database.Open(ctx, config.MongoURI(), config.MongoDatabase())
	if err != nil {
		return fmt.Errorf("open mongo: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Error("mongo close", "error", err)
		}
	}()

	if err := store.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// Redis is optional: without it the listing cache is a no-op and the
	// queue falls back to the in-memory driver.
	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	defer cache.Close()

	storage.Connect()

	if err := seeders.RunAll(ctx, store); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	r := buildRouter(store)

	jobs.Register()
	queue.StartWorkers(ctx, queueWorkers)
	defer queue.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("glowmart listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}

// NewRouter wires repositories, services, and controllers onto a fresh
// router. Exposed for the route:list command and HTTP tests.
func NewRouter(store *database.Store) *router.Router {
	return buildRouter(store)
}

func buildRouter(store *database.Store) *router.Router {
	users := repositories.NewUserRepository(store)
	products := repositories.NewProductRepository(store)
	carts := repositories.NewCartRepository(store)
	orders := repositories.NewOrderRepository(store)
	comments := repositories.NewCommentRepository(store)

	authSvc := services.NewAuthService(users)
	catalogSvc := services.NewCatalogService(products)
	cartSvc := services.NewCartService(carts, products)
	checkoutSvc := services.NewCheckoutService(carts, products, orders, users)
	commentSvc := services.NewCommentService(comments, products)

	registerOrderConfirmation(users)

	c := &routes.Controllers{
		Auth:     controllers.NewAuthController(authSvc),
		Product:  controllers.NewProductController(catalogSvc),
		Cart:     controllers.NewCartController(cartSvc),
		Checkout: controllers.NewCheckoutController(checkoutSvc),
		Comment:  controllers.NewCommentController(commentSvc, catalogSvc),
		Feed:     controllers.NewFeedController(),
	}

	r := router.New()
	r.Use(
		reqid.Middleware(),
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(middleware.DefaultCORSOptions()),
		metrics.Middleware(),
	)
	routes.RegisterAPI(r, c)
	return r
}

// registerOrderConfirmation queues the buyer confirmation whenever an
// order commits. The phone lookup is best effort; the job still runs
// without it.
func registerOrderConfirmation(users *repositories.UserRepository) {
	event.Listen(services.EventOrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}

		job := &jobs.OrderPlaced{
			OrderID: order.ID.Hex(),
			UserID:  order.UserID.Hex(),
			Total:   order.Total,
		}

		lookupCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if user, err := users.FindUserByID(lookupCtx, order.UserID); err == nil {
			job.Phone = user.Phone
		}

		if err := queue.Dispatch(job); err != nil {
			logger.Error("dispatch order confirmation", "order_id", job.OrderID, "error", err)
		}
	})
}
