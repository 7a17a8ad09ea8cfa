package deposit

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
	StatusExpired Status = "expired"
)

// Terminal statuses accept no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed || s == StatusExpired
}

type Deposit struct {
	ID         int
	ChatID     string
	OrderID    string
	TrackID    string
	Address    string
	Status     Status
	Amount     float64 // requested amount, zero for open-ended deposits
	PaidAmount float64 // confirmed amount, written only by webhooks
	Created    int64
}

// Notification is the canonical event extracted from a provider webhook.
type Notification struct {
	TrackID string
	Status  string
	Amount  float64
}

// Update is published on the event bus after every applied transition.
type Update struct {
	Deposit  *Deposit
	Reported string
	Amount   float64
}
