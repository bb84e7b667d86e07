// The scheduler triggers the ESP backend's push of due campaigns on a
// fixed cadence. It runs as a separate process so the API server can be
// scaled without multiplying the trigger.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ignite/campaign-studio/internal/config"
	"github.com/ignite/campaign-studio/internal/esp"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	proxy := esp.NewClient(cfg.ESP.BaseURL, cfg.ESP.Token, cfg.ESP.Provider, cfg.ESP.Timeout())

	c := cron.New()
	_, err = c.AddFunc(cfg.Scheduler.CronSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		result, err := proxy.PushScheduled(ctx)
		if err != nil {
			log.Printf("push-scheduled failed: %v", err)
			return
		}
		if result == nil {
			log.Println("push-scheduled: nothing due")
			return
		}
		log.Printf("push-scheduled: %s", result)
	})
	if err != nil {
		log.Fatalf("Invalid cron spec %q: %v", cfg.Scheduler.CronSpec, err)
	}

	log.Printf("Scheduler running (%s, provider %s)", cfg.Scheduler.CronSpec, cfg.ESP.Provider)
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	<-c.Stop().Done()
}
