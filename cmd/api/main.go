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

	"github.com/dzcommerce/storefront-api/internal/catalog"
	"github.com/dzcommerce/storefront-api/internal/config"
	"github.com/dzcommerce/storefront-api/internal/hero"
	"github.com/dzcommerce/storefront-api/internal/httpx"
	kafkax "github.com/dzcommerce/storefront-api/internal/kafka"
	"github.com/dzcommerce/storefront-api/internal/media"
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

	// Kafka producer for stats recompute events
	prod := kafkax.NewProducer(cfg.KafkaBrokers, stats.TopicRecompute, 1024)
	prod.Start(ctx)

	// Repos & services
	productRepo := catalog.NewRepo(db)
	orderRepo := orders.NewRepo(db)
	heroRepo := hero.NewRepo(db)
	statsRepo := stats.NewRepo(db)

	if err := statsRepo.EnsureSeeded(ctx); err != nil {
		log.Fatalf("seed dashboard stats: %v", err)
	}

	mediaStore := media.NewHostedStore(cfg.MediaHostURL, cfg.MediaAPIKey)
	catalogSvc := catalog.NewService(productRepo, mediaStore)
	heroSvc := hero.NewService(heroRepo, mediaStore)
	intake := orders.NewIntake(orderRepo)

	// Handlers
	router := httpx.NewRouter(cfg.ServiceName)
	(&httpx.ProductsHandler{
		Catalog:    catalogSvc,
		Producer:   prod,
		UploadDir:  cfg.UploadDir,
		Service:    cfg.ServiceName,
		Production: cfg.Production(),
	}).Register(router)
	(&httpx.OrdersHandler{
		Intake:     intake,
		Store:      orderRepo,
		Producer:   prod,
		Service:    cfg.ServiceName,
		Production: cfg.Production(),
	}).Register(router)
	(&httpx.HeroHandler{
		Hero:       heroSvc,
		UploadDir:  cfg.UploadDir,
		Production: cfg.Production(),
	}).Register(router)
	(&httpx.StatsHandler{
		Snapshots:  statsRepo,
		Redis:      rdb,
		Production: cfg.Production(),
	}).Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // close inbox -> flush & close writer
	prod.WaitClosed()
	cancel()
}
