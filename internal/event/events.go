package event

const (
	// EventDepositUpdated fires after every applied webhook transition,
	// terminal or intermediate. Payload is *deposit.Update.
	EventDepositUpdated = "deposit.updated"
)
