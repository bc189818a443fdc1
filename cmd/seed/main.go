// Loads a small set of fake users, products and orders for local
// development. Safe to run repeatedly; each run adds fresh rows.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-market-api/internal/auth"
	"github.com/ariefcatur/go-market-api/internal/config"
	"github.com/ariefcatur/go-market-api/internal/market"
	"github.com/ariefcatur/go-market-api/internal/postgres"
	"github.com/ariefcatur/go-market-api/migrations"
)

var titles = []string{
	"Walkman", "Turntable", "Mixtape", "Polaroid", "Boombox",
	"Synthesizer", "Cassette deck", "Vinyl crate", "Tube amp", "Reel-to-reel",
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	users := &market.UserRepo{DB: db}
	products := &market.ProductRepo{DB: db}
	orders := &market.OrderRepo{DB: db}
	checkout := &market.OrderService{Store: orders, Service: cfg.ServiceName}

	hashed, err := auth.HashPassword("password")
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for i := 0; i < 5; i++ {
		user := market.User{
			Email:          fmt.Sprintf("seed-%s@example.com", uuid.NewString()[:8]),
			HashedPassword: hashed,
		}
		if err := users.Create(ctx, &user); err != nil {
			log.Fatalf("create user: %v", err)
		}

		var productIDs []string
		for j := 0; j < 4; j++ {
			p := market.Product{
				Title:      titles[rand.Intn(len(titles))],
				PriceCents: (rand.Intn(100) + 1) * 100,
				Published:  j%2 == 0,
				Quantity:   rand.Intn(50) + 10,
				UserID:     user.ID,
			}
			if err := products.Create(ctx, &p); err != nil {
				log.Fatalf("create product: %v", err)
			}
			productIDs = append(productIDs, p.ID)
		}

		order, err := checkout.CreateOrder(ctx, user.ID, []market.OrderItemInput{
			{ProductID: productIDs[0], Quantity: rand.Intn(3) + 1},
			{ProductID: productIDs[1], Quantity: rand.Intn(3) + 1},
		})
		if err != nil {
			log.Fatalf("create order: %v", err)
		}
		log.Printf("seeded user=%s order=%s total=%d", user.Email, order.ID, order.TotalCents)
	}
}
