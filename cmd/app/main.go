package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Astrolabe/internal/cli"
	"Astrolabe/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCommand(di.InitializeApp), os.Args[1:])
	stop()
	os.Exit(code)
}
