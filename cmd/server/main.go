package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/bikeghor/server/internal/checkout"
	"github.com/bikeghor/server/internal/config"
	"github.com/bikeghor/server/internal/es"
	"github.com/bikeghor/server/internal/events"
	"github.com/bikeghor/server/internal/handlers"
	"github.com/bikeghor/server/internal/logging"
	"github.com/bikeghor/server/internal/middleware/auth"
	"github.com/bikeghor/server/internal/payment"
	"github.com/bikeghor/server/internal/service/search"
	"github.com/bikeghor/server/internal/store"
	"github.com/bikeghor/server/internal/token"
	httpserver "github.com/bikeghor/server/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(ctx, mongoopts.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		cancel()
		log.Fatalf("mongo connect error: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		cancel()
		log.Fatalf("mongo ping error: %v", err)
	}
	cancel()

	db := store.NewMongo(client.Database(cfg.DBName))
	tokens := token.NewService([]byte(cfg.AccessTokenSecret))
	guard := auth.NewGuard(tokens, db)
	intents := payment.NewStripeClient(cfg.StripeSecretKey)

	var producer *events.Producer
	var publisher events.Publisher
	if cfg.KafkaAddress != "" {
		producer = events.NewProducer(cfg.KafkaAddress, cfg.EventsTopic)
		publisher = producer
	} else {
		logger.Warn("KAFKA_ADDRESS not set, marketplace events disabled")
	}

	var searchSvc *search.Service
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchSvc = search.New(esClient, "products")
	} else {
		logger.Warn("ES_URL not set, product search disabled")
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())

	deps := httpserver.Deps{
		Guard:      guard,
		Users:      &handlers.UserHandler{Store: db, Tokens: tokens, Events: publisher},
		Products:   &handlers.ProductHandler{Store: db, Search: searchSvc, Events: publisher},
		Categories: &handlers.CategoryHandler{Store: db},
		Advertise:  &handlers.AdvertiseHandler{Store: db},
		Wishlist:   &handlers.WishlistHandler{Store: db},
		Orders:     &handlers.OrderHandler{Store: db},
		Payments:   &handlers.PaymentHandler{Intents: intents, Checkout: checkout.NewOrchestrator(db), Events: publisher},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("mongo disconnect error: %v", err)
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
