package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dzcommerce/storefront-api/internal/catalog"
	"github.com/dzcommerce/storefront-api/internal/config"
	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/mongodb"
	"github.com/dzcommerce/storefront-api/internal/orders"
	"github.com/dzcommerce/storefront-api/internal/redisx"
	"github.com/dzcommerce/storefront-api/internal/stats"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	client, err := mongodb.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.MongoDB)

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	statsRepo := stats.NewRepo(db)
	if err := statsRepo.EnsureSeeded(ctx); err != nil {
		log.Fatalf("seed dashboard stats: %v", err)
	}

	worker := &stats.Worker{
		Agg:   stats.NewAggregator(orders.NewRepo(db), catalog.NewRepo(db), statsRepo),
		Redis: rdb,
	}

	group := getenv("STATS_GROUP", "stats-worker")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, stats.TopicRecompute)

	go func() {
		log.Printf("stats consumer started: group=%s topic=%s", group, stats.TopicRecompute)
		if err := cons.Start(ctx, worker.HandleRecompute); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
