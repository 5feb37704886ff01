package service

import (
	"context"
	"errors"
	"time"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/metrics"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

// MailWorkerConfig tunes delivery retries and queue polling.
type MailWorkerConfig struct {
	PollTimeout time.Duration
	MaxRetries  uint64
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// MailWorker drains the email queue and delivers each message with bounded
// exponential retries. A message that exhausts its retries is dropped and logged.
type MailWorker struct {
	source  ports.EmailSource
	sender  ports.MailSender
	cfg     MailWorkerConfig
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewMailWorker creates a new MailWorker.
func NewMailWorker(source ports.EmailSource, sender ports.MailSender, cfg MailWorkerConfig, m *metrics.Metrics, log zerolog.Logger) *MailWorker {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 5 * time.Second
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = time.Minute
	}
	return &MailWorker{source: source, sender: sender, cfg: cfg, metrics: m, log: log}
}

// Run blocks until ctx is cancelled.
func (w *MailWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("poll_timeout", w.cfg.PollTimeout).Msg("mail worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info().Msg("mail worker stopped")
			return nil
		}

		msg, err := w.source.Dequeue(ctx, w.cfg.PollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			w.log.Warn().Err(err).Msg("mail queue read failed")
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.BaseDelay):
			}
			continue
		}
		if msg == nil {
			continue
		}

		w.Deliver(ctx, *msg)
	}
}

// Deliver sends one message, retrying transient failures.
func (w *MailWorker) Deliver(ctx context.Context, msg domain.EmailMessage) {
	backoff := retry.WithMaxRetries(w.cfg.MaxRetries,
		retry.WithCappedDuration(w.cfg.MaxDelay, retry.NewExponential(w.cfg.BaseDelay)))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := w.sender.Send(ctx, msg); err != nil {
			w.log.Warn().Err(err).
				Str("kind", string(msg.Kind)).
				Str("to", msg.To).
				Int("attempt", attempt).
				Msg("email delivery failed")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		w.metrics.IncEmail(string(msg.Kind), "failed")
		w.log.Error().Err(err).
			Str("kind", string(msg.Kind)).
			Str("to", msg.To).
			Msg("email dropped after retries")
		return
	}

	w.metrics.IncEmail(string(msg.Kind), "sent")
	w.log.Info().Str("kind", string(msg.Kind)).Str("to", msg.To).Int("attempts", attempt).Msg("email sent")
}
