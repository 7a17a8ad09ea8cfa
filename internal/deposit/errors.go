package deposit

import "errors"

var (
	// ErrAddressUnavailable wraps a provider failure during creation.
	ErrAddressUnavailable = errors.New("deposit: address unavailable")

	// ErrUnknownTrackID means a webhook referenced a track id with no record.
	ErrUnknownTrackID = errors.New("deposit: unknown track id")

	// ErrAlreadyFinal is informational: the record had already reached a
	// terminal status and the event was only audit-logged.
	ErrAlreadyFinal = errors.New("deposit: already final")
)
