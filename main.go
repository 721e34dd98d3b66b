package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/everton-web/BPay/config"
	"github.com/everton-web/BPay/internal/billing"
	"github.com/everton-web/BPay/internal/routes"
	"github.com/everton-web/BPay/internal/scheduler"
	"github.com/everton-web/BPay/models"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using process environment")
	}

	db := config.ConnectDB()
	if err := models.AutoMigrate(db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	rdb := config.ConnectRedis()
	svc := billing.NewService(db)

	daily := scheduler.NewDaily(svc)
	go daily.Run(context.Background())

	r := routes.SetupRoutes(db, rdb, svc)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	slog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
