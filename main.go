package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rakhulsr/go-storefront/app/cmd"
	"github.com/Rakhulsr/go-storefront/app/configs"
	"go.uber.org/zap"
)

func main() {
	env := configs.LoadEnv()

	logger, err := configs.NewLogger(env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewCommand(env, logger).Run(ctx, os.Args); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}
