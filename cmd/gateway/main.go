package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/finlink/internal/flagx"
	"github.com/dmitrijs2005/finlink/internal/logging"
	"github.com/dmitrijs2005/finlink/internal/server"
	"github.com/dmitrijs2005/finlink/internal/server/auth"
	"github.com/dmitrijs2005/finlink/internal/server/config"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	// finlink-gateway token <subject> prints a session token and exits.
	if args := flagx.Positional(os.Args[1:]); len(args) == 2 && args[0] == "token" {
		if cfg.JWTSecret == "" {
			log.Fatal("JWT_SECRET is not set")
		}
		tok, err := auth.GenerateToken(args[1], []byte(cfg.JWTSecret), cfg.SessionTokenTTL)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println(tok)
		return
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, "json")

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
