package service

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"art-marketplace/internal/core/domain"
	"art-marketplace/internal/core/ports"
	"art-marketplace/pkg/metrics"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	buyerConfirmationTmpl = template.Must(template.New("buyer").Parse(
		`Thank you for your purchase!

Payment reference: {{.Reference}}
{{range .Orders}}
- Order {{.ID}}: {{.Quantity}} x artwork {{.ArtworkID}} for {{.Price.StringFixed 2}} NGN
{{- end}}

Total paid: {{.Total.StringFixed 2}} NGN

Your payment is settled and these orders are complete. Each artist has been notified of the sale.
`))

	artistSaleTmpl = template.Must(template.New("artist").Parse(
		`Good news, one of your artworks has sold.

Order: {{.ID}}
Artwork: {{.ArtworkID}}
Quantity: {{.Quantity}}
Amount: {{.Price.StringFixed 2}} NGN

The buyer's payment is settled and the order is complete. The amount is included in your earnings.
`))
)

// NotificationServiceImpl implements ports.Notifier by rendering emails and
// handing them to the mail queue.
type NotificationServiceImpl struct {
	queue   ports.EmailQueue
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewNotificationService creates a new NotificationServiceImpl.
func NewNotificationService(queue ports.EmailQueue, m *metrics.Metrics, log zerolog.Logger) *NotificationServiceImpl {
	return &NotificationServiceImpl{queue: queue, metrics: m, log: log}
}

func (s *NotificationServiceImpl) NotifyBuyerConfirmation(ctx context.Context, email, reference string, orders []domain.Order) error {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Price)
	}

	body, err := render(buyerConfirmationTmpl, struct {
		Reference string
		Orders    []domain.Order
		Total     decimal.Decimal
	}{reference, orders, total})
	if err != nil {
		return err
	}

	return s.send(ctx, domain.EmailMessage{
		Kind:    domain.EmailKindBuyerConfirmation,
		To:      email,
		Subject: "Your order confirmation " + reference,
		Body:    body,
	})
}

func (s *NotificationServiceImpl) NotifyArtistSale(ctx context.Context, email string, order domain.Order) error {
	body, err := render(artistSaleTmpl, order)
	if err != nil {
		return err
	}

	return s.send(ctx, domain.EmailMessage{
		Kind:    domain.EmailKindArtistSale,
		To:      email,
		Subject: "You made a sale!",
		Body:    body,
	})
}

func (s *NotificationServiceImpl) send(ctx context.Context, msg domain.EmailMessage) error {
	if msg.To == "" {
		s.metrics.IncEmail(string(msg.Kind), "skipped")
		return fmt.Errorf("%s email has no recipient", msg.Kind)
	}
	if err := s.queue.Enqueue(ctx, msg); err != nil {
		s.metrics.IncEmail(string(msg.Kind), "enqueue_failed")
		return fmt.Errorf("enqueue %s email: %w", msg.Kind, err)
	}
	s.metrics.IncEmail(string(msg.Kind), "enqueued")
	s.log.Debug().Str("kind", string(msg.Kind)).Str("to", msg.To).Msg("email enqueued")
	return nil
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
