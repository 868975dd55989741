package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/identity"
	"storefront/internal/logger"
	"storefront/internal/metrics"
	"storefront/internal/order"
	"storefront/internal/pricing"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/shipping"
	"storefront/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "storefront-api"}).Fatal("load config", err)
	}
	log := logger.New(logger.Options{ServiceName: "storefront-api", Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx := context.Background()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var (
		pool  *pgxpool.Pool
		ready []httpserver.ReadyCheck
	)
	if cfg.NeedsDatabase() {
		pool, err = db.Connect(ctx, cfg.DBConnString, log)
		if err != nil {
			log.Fatal("connect to db", err)
		}
		defer pool.Close()
		ready = append(ready, httpserver.ReadyCheck{Name: "postgres", Check: pool.Ping})
	}

	kv, closeKV, check, err := openStorage(ctx, cfg, pool)
	if err != nil {
		log.Fatal("open storage", err)
	}
	defer closeKV()
	if check != nil {
		ready = append(ready, *check)
	}
	fallback := storage.NewFallback(kv, log, m)

	cat, err := openCatalog(ctx, cfg, pool, log)
	if err != nil {
		log.Fatal("load catalog", err)
	}
	log.Info(ctx, "catalog loaded", "source", cfg.Catalog.Source, "products", cat.Len())

	policy := shipping.DefaultPolicy()
	if cfg.Shipping.File != "" {
		if policy, err = shipping.LoadPolicy(cfg.Shipping.File); err != nil {
			log.Fatal("load shipping policy", err)
		}
	}
	estimator, err := shipping.NewEstimator(policy)
	if err != nil {
		log.Fatal("init shipping estimator", err)
	}

	var verifier identity.TokenVerifier
	if cfg.Identity.Secret != "" {
		v, err := identity.NewVerifier(cfg.Identity)
		if err != nil {
			log.Fatal("init identity verifier", err)
		}
		verifier = v
	} else {
		log.Warn(ctx, "identity secret not set; sign-in disabled")
	}
	sessions, err := identity.NewSessions(fallback, verifier, cfg.Identity.ProfileTTL, log, m)
	if err != nil {
		log.Fatal("init sessions", err)
	}
	sessions.OnChange(func(ch identity.Change) {
		log.Info(ctx, "identity changed", "profile_id", ch.ProfileID, "kind", ch.Kind)
	})

	zeroPolicy, err := cart.ParseZeroQuantityPolicy(cfg.Cart.ZeroQuantityPolicy)
	if err != nil {
		log.Fatal("parse zero quantity policy", err)
	}
	carts, err := cart.NewStore(cart.Config{
		Storage:      fallback,
		ZeroQuantity: zeroPolicy,
		Logger:       log,
		Metrics:      m,
	})
	if err != nil {
		log.Fatal("init cart store", err)
	}
	carts.Subscribe(func(ch cart.Change) {
		log.Debug(ctx, "cart changed", "scope", ch.Scope, "op", ch.Op, "count", ch.Cart.TotalQuantity())
	})

	quoter := pricing.NewAggregator(cat, estimator)

	writer, closeWriter, err := openOrderWriter(ctx, cfg, pool)
	if err != nil {
		log.Fatal("open order writer", err)
	}
	defer closeWriter()
	orders, err := order.NewService(order.Config{
		Cart:     carts,
		Quoter:   quoter,
		Writer:   writer,
		Notifier: order.NewLogNotifier(log),
		Logger:   log,
		Metrics:  m,
	})
	if err != nil {
		log.Fatal("init order service", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, log, httpserver.Deps{
		Sessions:    sessions,
		Cart:        carts,
		Catalog:     cat,
		Quoter:      quoter,
		Orders:      orders,
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ready:       ready,
		CORSOrigins: cfg.CORSOrigins,
		Currency:    cfg.Catalog.Currency,
	})
	if err != nil {
		log.Fatal("init server", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting http server", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		log.Info(ctx, "received signal, shutting down", "signal", sig.String())
	case err := <-serverErr:
		log.Error(ctx, "server error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "graceful shutdown failed", err)
	} else {
		log.Info(ctx, "server stopped")
	}
}

func openStorage(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (storage.Storage, func(), *httpserver.ReadyCheck, error) {
	switch cfg.Storage.Backend {
	case config.StorageRedis:
		r, err := storage.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, nil, err
		}
		check := &httpserver.ReadyCheck{Name: "redis", Check: r.Ping}
		return storage.NewPrefixed(r, "storefront:"), func() { _ = r.Close() }, check, nil
	case config.StoragePostgres:
		return storage.NewPostgres(pool), func() {}, nil, nil
	default:
		return storage.NewMemory(), func() {}, nil, nil
	}
}

func openCatalog(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (*catalog.Catalog, error) {
	if cfg.Catalog.Source == config.CatalogPostgres {
		return catalog.FromRepository(ctx, productrepo.NewPostgres(pool, log))
	}
	return catalog.LoadFile(cfg.Catalog.File, cfg.Catalog.Currency)
}

func openOrderWriter(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (order.Writer, func(), error) {
	switch cfg.Orders.Backend {
	case config.OrdersPostgres:
		return order.NewPostgres(pool), func() {}, nil
	case config.OrdersFirestore:
		fs, err := order.NewFirestore(ctx, cfg.Orders.FirestoreProject, cfg.Orders.FirestoreCollection)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() { _ = fs.Close() }, nil
	default:
		return order.NewMemory(), func() {}, nil
	}
}
