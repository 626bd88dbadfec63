package main

import (
	"context"
	"log"

	"research-link-be/internal/bootstrap"
	"research-link-be/internal/config"
	"research-link-be/internal/server"
	"research-link-be/internal/tracer"
	"research-link-be/pkg/database"
)

func main() {
	shutdownTracer := tracer.Init()
	defer shutdownTracer(context.Background())

	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("database unreachable: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	// Drains the outbound notification queue for the app's lifetime.
	go func() {
		if err := container.ConsumerService.Consume(context.Background()); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
