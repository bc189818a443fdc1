package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/config"
	"github.com/ariefcatur/go-market-api/internal/httpx"
	kafkax "github.com/ariefcatur/go-market-api/internal/kafka"
	"github.com/ariefcatur/go-market-api/internal/market"
	"github.com/ariefcatur/go-market-api/internal/postgres"
	"github.com/ariefcatur/go-market-api/internal/redisx"
	"github.com/ariefcatur/go-market-api/migrations"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer for order.created
	prod := kafkax.NewProducer(cfg.KafkaBrokers, market.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Repos & services
	users := &market.UserRepo{DB: db}
	products := &market.ProductRepo{DB: db}
	orders := &market.OrderRepo{DB: db}
	orderViews := &redisx.OrderViews{Client: rdb}

	checkout := &market.OrderService{
		Store:     orders,
		Publisher: prod,
		Cache:     orderViews,
		Service:   cfg.ServiceName,
	}

	tokens := &auth.TokenService{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL}
	requireUser := auth.RequireUser(tokens, users, products)

	// Router
	router := httpx.NewRouter()
	(&httpx.TokensHandler{Users: users, Tokens: tokens}).Register(router)
	(&httpx.UsersHandler{Users: users}).Register(router, requireUser)
	(&httpx.ProductsHandler{Products: products, Cache: &redisx.ProductsPages{Client: rdb}}).Register(router, requireUser)
	(&httpx.OrdersHandler{Orders: orders, Checkout: checkout, Views: orderViews}).Register(router, requireUser)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	cancel()
	prod.WaitClosed() // drain
}
