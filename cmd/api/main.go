package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"starnotary/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring (ports + adapters + use cases).
// 3) Start HTTP server until SIGINT/SIGTERM.
//
// @title Star Registry API
// @version 1.0
// @description Star asset registry and marketplace.
// @BasePath /v1
func main() {
	log.Println("starnotary api starting")
	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap api failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("api shutdown close failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Printf("starnotary api stopped with error: %v", err)
	}
}
