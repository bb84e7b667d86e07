package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-studio/internal/ai"
	"github.com/ignite/campaign-studio/internal/api"
	"github.com/ignite/campaign-studio/internal/campaign"
	"github.com/ignite/campaign-studio/internal/config"
	"github.com/ignite/campaign-studio/internal/esp"
	"github.com/ignite/campaign-studio/internal/product"
	"github.com/ignite/campaign-studio/internal/scraper"
	"github.com/ignite/campaign-studio/internal/store"

	_ "github.com/lib/pq" // PostgreSQL driver
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		cancel()
		log.Fatalf("Failed to connect to database: %v", err)
	}
	cancel()

	aiClient, err := buildAIClient(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}

	var cache *product.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = product.NewCache(redisClient, cfg.Generation.CacheTTL())
		log.Printf("Product cache enabled (redis %s)", cfg.Redis.Addr)
	}

	st := store.NewStore(db)
	sc := scraper.New(scraper.Config{
		Timeout:   cfg.Scraper.Timeout(),
		UserAgent: cfg.Scraper.UserAgent,
	})
	pipeline := product.NewPipeline(sc, aiClient, st, cache)

	proxy := esp.NewClient(cfg.ESP.BaseURL, cfg.ESP.Token, cfg.ESP.Provider, cfg.ESP.Timeout())
	campaigns := campaign.NewService(st, proxy, cfg.ESP.Provider)

	server := api.NewServer(cfg.Server, pipeline, campaigns)
	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(addr); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	db.Close()
}

func buildAIClient(cfg config.AIConfig) (ai.Client, error) {
	switch cfg.Provider {
	case "bedrock":
		return ai.NewBedrockClient(context.Background(), cfg.BedrockModel, cfg.BedrockRegion, cfg.MaxTokens)
	case "anthropic", "":
		return ai.NewAnthropicClient(cfg.AnthropicKey, cfg.Model, cfg.MaxTokens, cfg.Timeout()), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
