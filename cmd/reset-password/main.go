package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/nig3l/OPTACOMP-InventorySystems/internal/config"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/repository"
	"github.com/nig3l/OPTACOMP-InventorySystems/internal/service"
	"github.com/nig3l/OPTACOMP-InventorySystems/pkg/database"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	email := flag.String("email", "", "account email")
	password := flag.String("password", "", "new password (min 8 characters)")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := database.Connect(cfg.DSN(), false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	users := service.NewUserService(repository.NewUserRepo(db))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := users.ResetPassword(ctx, *email, *password); err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("password reset failed")
	}

	log.Info().Str("email", *email).Msg("password reset")
}
