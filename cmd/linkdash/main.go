package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Popolzen/linkdash/internal/config"
	"github.com/Popolzen/linkdash/internal/logger"
	"github.com/gin-gonic/gin"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("linkdash: ")

	if err := runMain(); err != nil {
		log.Fatal(err)
	}
}

// runMain возвращает ошибку после того, как отработают все defer
func runMain() error {
	cfg, args := config.NewConfig()

	// Инициализируем логгер
	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("не удалось инициализировать логгер: %w", err)
	}
	defer logger.Close()

	gin.SetMode(gin.ReleaseMode)

	cmd := cmdServe
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return run(ctx, cfg, cmd, args, os.Stdout)
}

func printBuildInfo() {
	version := "N/A"
	date := "N/A"
	commit := "N/A"

	if buildVersion != "" {
		version = buildVersion
	}
	if buildDate != "" {
		date = buildDate
	}
	if buildCommit != "" {
		commit = buildCommit
	}

	fmt.Printf("Build version: %s\n", version)
	fmt.Printf("Build date: %s\n", date)
	fmt.Printf("Build commit: %s\n", commit)
}
