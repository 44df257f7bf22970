package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/catalog"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/checkout"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/config"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/consumer"
	h "github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/http"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/publisher"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/receipt"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/records"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/session"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/internal/store"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/circuitbreaker"
	"github.com/VictorNogoceki/viveiro-plantas-vendas-sub000/pkg/logger"
)

const cacheConsumerGroup = "pos-catalog-cache"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("driver", string(cfg.StoreDriver)), zap.Error(err))
	}
	st := store.WithBreaker(backend, circuitbreaker.Settings{
		Name:        "store-" + string(cfg.StoreDriver),
		MaxFailures: cfg.BreakerMaxFailures,
		OpenTimeout: cfg.BreakerOpenTimeout,
	}, log)
	defer st.Close()

	repo := records.NewRepository(st)

	var (
		cache    catalog.Cache
		sessions session.Store = session.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		cache = catalog.NewRedisCache(rdb)
		sessions = session.NewRedisStore(rdb, cfg.SessionTTL)
		log.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
	}

	products := catalog.NewService(repo, cache, log)
	manager := session.NewManager(sessions)
	checkoutService := checkout.NewService(repo, log, checkout.Options{
		StockPrecheck: cfg.StockPrecheck,
		Compensate:    cfg.Compensate,
		DefaultNote:   cfg.SaleNote,
	})
	receipts, err := receipt.NewPresenter(cfg.Locale, cfg.Currency)
	if err != nil {
		log.Fatal("invalid receipt locale", zap.Error(err))
	}

	if len(cfg.KafkaBrokers) > 0 {
		poller := publisher.NewOutboxPoller(repo, log, cfg.SalesTopic, cfg.KafkaBrokers...)
		defer poller.Close()
		go poller.Run(ctx)

		cacheConsumer := consumer.NewConsumer(products, log, cfg.SalesTopic, cacheConsumerGroup, cfg.KafkaBrokers...)
		defer cacheConsumer.Close()
		go cacheConsumer.Run(ctx)

		log.Info("sale events enabled", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.SalesTopic))
	}

	router := h.NewRouter(h.RouterConfig{
		Products: h.NewProductHandler(products, cfg.RequestTimeout),
		Sessions: h.NewSessionHandler(manager, products, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(manager, checkoutService, receipts, cfg.RequestTimeout),
		Timeout:  cfg.RequestTimeout,
		Log:      log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pos server starting", zap.String("port", cfg.HTTPPort), zap.String("store", string(cfg.StoreDriver)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		s, err := store.NewPostgresStore(&store.Credentials{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
		})
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(cfg.MigrationsPath); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("connected to postgres", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
		return s, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		s, err := store.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.RunMigrations(cfg.MigrationsPath); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("opened sqlite database", zap.String("path", cfg.SQLitePath))
		return s, nil

	case config.DriverMongo:
		db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, err
		}
		s := store.NewMongoStore(db)
		if err := s.CreateIndexes(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("connected to mongodb", zap.String("db", cfg.MongoDBName))
		return s, nil

	default:
		log.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), nil
	}
}
