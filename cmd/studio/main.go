package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	studiocmd "github.com/john-paul-ruf/nft-studio-sub010/internal/cmd/studio"
)

func main() {
	cfg, err := studiocmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[STUDIO] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := studiocmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
