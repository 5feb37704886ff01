// Command mailer drains the notification email queue and delivers over SMTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"art-marketplace/config"
	"art-marketplace/internal/adapter/mail"
	redisStorage "art-marketplace/internal/adapter/storage/redis"
	"art-marketplace/internal/service"
	"art-marketplace/pkg/logger"
	"art-marketplace/pkg/metrics"
)

func main() {
	cfg, err := config.Load(os.Getenv("ART_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{Service: "mailer", Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	sender, err := mail.NewSMTPSender(cfg.Mail)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure SMTP sender")
	}

	worker := service.NewMailWorker(
		redisStorage.NewEmailQueue(rdb, cfg.Mail.QueueKey),
		sender,
		service.MailWorkerConfig{
			PollTimeout: cfg.Mail.PollTimeout,
			MaxRetries:  cfg.Mail.MaxRetries,
		},
		metrics.New(nil),
		log,
	)

	log.Info().
		Str("smtp_host", cfg.Mail.SMTPHost).
		Int("smtp_port", cfg.Mail.SMTPPort).
		Str("queue", cfg.Mail.QueueKey).
		Msg("Starting mailer")

	if err := worker.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Mail worker stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Mailer exited")
}
