package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "go.uber.org/automaxprocs"

	"github.com/lk2023060901/chat-relay-go/application"
)

func main() {
	// .env 不存在时忽略，已存在的环境变量不会被覆盖。
	_ = godotenv.Load()

	cfg, err := application.LoadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "[chatrelay] load config failed: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.New(cfg).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "[chatrelay] %v\n", err)
		stop()
		os.Exit(1)
	}
}
