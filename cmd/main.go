package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crm_records_api/internal/config"
	"crm_records_api/internal/handlers"
	"crm_records_api/internal/server"
)

func main() {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	setupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.Init(setupCtx)

	if err := cfg.CheckConnections(setupCtx); err != nil {
		log.Fatalf("connection check failed: %v", err)
	}
	fmt.Println("all connections OK, serving on port " + cfg.Port)

	h := handlers.New(cfg)
	srv := server.NewServer(cfg.Port, h)

	err := srv.Run(runCtx)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	cfg.Close(closeCtx)

	if err != nil {
		log.Fatal(err)
	}
}
