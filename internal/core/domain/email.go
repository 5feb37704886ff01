package domain

// EmailKind labels a notification email for metrics and templating.
type EmailKind string

const (
	EmailKindBuyerConfirmation EmailKind = "buyer_confirmation"
	EmailKindArtistSale        EmailKind = "artist_sale"
)

// EmailMessage is one queued outbound email.
type EmailMessage struct {
	Kind    EmailKind `json:"kind"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
}
