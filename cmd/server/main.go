package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/bhargavi35/storefront/internal/admin"
	"github.com/bhargavi35/storefront/internal/cache"
	"github.com/bhargavi35/storefront/internal/cart"
	"github.com/bhargavi35/storefront/internal/checkout"
	"github.com/bhargavi35/storefront/internal/discount"
	"github.com/bhargavi35/storefront/internal/events"
	h "github.com/bhargavi35/storefront/internal/http"
	"github.com/bhargavi35/storefront/internal/keylock"
	"github.com/bhargavi35/storefront/internal/store"
)

type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8080"`
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	MongoURI        string        `envconfig:"MONGO_URI"`
	MongoDatabase   string        `envconfig:"MONGO_DB" default:"storefront"`
	OrdersDSN       string        `envconfig:"ORDERS_DSN"`
	MigrationsDir   string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	KafkaBrokers    []string      `envconfig:"KAFKA_BROKERS"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	memory := store.NewMemoryStore()
	for _, product := range store.DefaultCatalog() {
		p := product
		if err := memory.SaveProduct(ctx, &p); err != nil {
			log.Fatalf("failed to seed catalog: %v", err)
		}
	}

	var carts store.CartStore = memory
	if cfg.MongoURI != "" {
		db, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		mongoCarts := store.NewMongoCartStore(db)
		if err := mongoCarts.CreateIndexes(ctx); err != nil {
			log.Fatalf("failed to create mongo indexes: %v", err)
		}
		carts = mongoCarts
		log.Printf("using mongo cart store at %s", cfg.MongoURI)
	}

	var orders store.OrderStore = memory
	switch {
	case strings.HasPrefix(cfg.OrdersDSN, "postgres://"):
		pg, err := store.NewPostgresOrderStore(cfg.OrdersDSN, filepath.Join(cfg.MigrationsDir, "postgres"))
		if err != nil {
			log.Fatalf("failed to open postgres order store: %v", err)
		}
		defer pg.Close()
		orders = pg
		log.Printf("using postgres order store")
	case cfg.OrdersDSN != "":
		lite, err := store.NewSQLiteOrderStore(cfg.OrdersDSN, filepath.Join(cfg.MigrationsDir, "sqlite"))
		if err != nil {
			log.Fatalf("failed to open sqlite order store: %v", err)
		}
		defer lite.Close()
		orders = lite
		log.Printf("using sqlite order store at %s", cfg.OrdersDSN)
	}

	var cartCache cache.CartCache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer client.Close()
		cartCache = cache.NewBreakerCache(cache.NewRedisCache(client, 15*time.Minute, 5*time.Minute))
		log.Printf("cart cache enabled at %s", cfg.RedisAddr)
	}

	var publisher checkout.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewPublisher(cfg.KafkaBrokers...)
		defer p.Close()
		publisher = p
		log.Printf("order events enabled on %v", cfg.KafkaBrokers)
	}

	locks := keylock.New()
	registry := discount.NewRegistry(memory)
	engine := cart.NewEngine(memory, carts, memory, cartCache, locks)
	orchestrator := checkout.NewOrchestrator(memory, carts, orders, registry, engine, locks, publisher)
	stats := admin.NewService(orders, memory)

	router := h.NewRouter(h.Handlers{
		Cart:     h.NewCartHandler(engine),
		Checkout: h.NewCheckoutHandler(orchestrator),
		Product:  h.NewProductHandler(memory),
		Admin:    h.NewAdminHandler(stats, registry),
		Discount: h.NewDiscountHandler(registry, orders),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
