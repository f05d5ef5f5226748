package main

import (
	"context"
	"flag"
	"fmt"
	"log" // used before zap is set up
	"os"
	"os/signal"
	"syscall"

	"github.com/fathima-sithara/clips-service/internal/bootstrap"
)

func main() {
	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config/config.yaml"
	}
	configPath := flag.String("config", defaultPath, "path to the YAML config file")
	flag.Parse()

	a, cleanup, err := bootstrap.Init(context.Background(), *configPath)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	sugar := a.Sugar

	if a.Config.Seed.OnStartup {
		if err := a.Seeder.Run(context.Background()); err != nil {
			sugar.Errorf("Seeding failed: %v", err)
		}
	}

	go func() {
		listenAddr := fmt.Sprintf(":%d", a.Config.App.Port)
		sugar.Infof("Server listening on %s", listenAddr)
		if err := a.App.Listen(listenAddr); err != nil {
			sugar.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	sugar.Info("Shutting down server...")

	ctxShut, cancelShut := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer cancelShut()

	if err := a.App.ShutdownWithContext(ctxShut); err != nil {
		sugar.Errorf("Fiber app shutdown error: %v", err)
	}
	sugar.Info("Graceful shutdown complete")
	cleanup(ctxShut)
}
