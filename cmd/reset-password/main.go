package main

import (
	"context"
	"flag"
	"log"

	"go-office-inventory/internal/config"
	"go-office-inventory/internal/repository"
	"go-office-inventory/internal/service"
	"go-office-inventory/pkg/database"
	"go-office-inventory/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	username := flag.String("username", "admin", "account to reset")
	password := flag.String("password", "admin123", "new password (min 6 characters)")
	flag.Parse()

	zl, err := logger.New("info", "console")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	// 1. Setup Database
	db, err := database.Connect(config.LoadDatabase(), zl)
	if err != nil {
		zl.Fatal("Database unavailable", zap.Error(err))
	}
	defer database.Close(db)

	// 2. Reset through the same service the API uses
	users := service.NewUserService(repository.NewUserRepo(db), zl)
	if err := users.ResetPassword(context.Background(), *username, *password); err != nil {
		zl.Fatal("Failed to reset password", zap.String("username", *username), zap.Error(err))
	}

	zl.Info("Password has been reset", zap.String("username", *username))
}
