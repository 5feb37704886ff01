// Command migrate applies the embedded goose migrations.
//
//	migrate [up|down|status|redo|version|reset]
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"art-marketplace/config"
	"art-marketplace/migrations"
	"art-marketplace/pkg/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	cfg, err := config.Load(os.Getenv("ART_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "migrate", Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to reach database")
	}

	if err := migrations.Run(ctx, db, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("Migration failed")
	}
	log.Info().Str("command", command).Msg("Migration finished")
}
