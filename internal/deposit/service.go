package deposit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tg-topup/internal/event"
	"tg-topup/internal/logger"
	"tg-topup/internal/monitoring"
	"tg-topup/internal/provider"
)

type Store interface {
	Insert(d *Deposit) error
	FindByTrackID(trackID string) (*Deposit, error)
	UpdateIf(trackID string, expect, next Status, paidAmount float64) (bool, error)
	SumConfirmed(chatID string) (float64, error)
}

type AddressProvider interface {
	RequestAddress(ctx context.Context, orderID string) (provider.Address, error)
}

type Publisher interface {
	Publish(event string, payload interface{})
}

type Audit interface {
	Log(ref, action, metadata string)
}

// Service is the deposit lifecycle manager. Records are created here and
// mutated only by ApplyNotification, so the terminal-state and idempotency
// checks cannot be bypassed.
type Service struct {
	store    Store
	provider AddressProvider
	bus      Publisher
	audit    Audit
}

func NewService(store Store, addr AddressProvider, bus Publisher, audit Audit) *Service {
	return &Service{store: store, provider: addr, bus: bus, audit: audit}
}

// Created carries the persisted record plus the one-shot QR link, which is
// presented to the requester but never stored.
type Created struct {
	Deposit *Deposit
	QRCode  string
}

func (s *Service) CreateDeposit(ctx context.Context, chatID string, amount float64) (*Created, error) {
	orderID := newOrderID(chatID)

	issued, err := s.provider.RequestAddress(ctx, orderID)
	if err != nil {
		logger.Log.Warn("address request failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrAddressUnavailable, err)
	}

	d := &Deposit{
		ChatID:  chatID,
		OrderID: orderID,
		TrackID: issued.TrackID,
		Address: issued.Address,
		Status:  StatusPending,
		Amount:  amount,
		Created: time.Now().Unix(),
	}

	if err := s.store.Insert(d); err != nil {
		return nil, fmt.Errorf("deposit: persist: %w", err)
	}

	s.audit.Log(d.OrderID, "deposit_created", "track_id="+d.TrackID)
	monitoring.DepositsCreated.Inc()
	logger.Log.Info("deposit created",
		zap.String("chat_id", chatID),
		zap.String("order_id", d.OrderID),
		zap.String("track_id", d.TrackID))

	return &Created{Deposit: d, QRCode: issued.QRCode}, nil
}

// ApplyNotification reconciles one canonical webhook event against the
// record it correlates to. Duplicate deliveries for a settled record return
// ErrAlreadyFinal and change nothing.
func (s *Service) ApplyNotification(n Notification) (*Deposit, error) {
	d, err := s.store.FindByTrackID(n.TrackID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrUnknownTrackID
	}

	if d.Status.Terminal() {
		s.audit.Log(d.OrderID, "webhook_after_final",
			fmt.Sprintf("status=%s amount=%v", n.Status, n.Amount))
		return d, ErrAlreadyFinal
	}

	next := mapStatus(n.Status)

	if next == StatusPending {
		// Intermediate update: the reported amount may be recorded but the
		// record stays pending.
		if n.Amount > 0 {
			if _, err := s.store.UpdateIf(d.TrackID, StatusPending, StatusPending, n.Amount); err != nil {
				return nil, err
			}
			d.PaidAmount = n.Amount
		}
		s.bus.Publish(event.EventDepositUpdated, &Update{Deposit: d, Reported: n.Status, Amount: n.Amount})
		return d, nil
	}

	// Paid replaces the confirmed amount; failure and expiry keep whatever
	// intermediate updates already recorded.
	paidAmount := d.PaidAmount
	if next == StatusPaid {
		paidAmount = n.Amount
	}

	applied, err := s.store.UpdateIf(d.TrackID, StatusPending, next, paidAmount)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost the transition race to a concurrent webhook.
		if cur, err := s.store.FindByTrackID(n.TrackID); err == nil && cur != nil {
			d = cur
		}
		s.audit.Log(d.OrderID, "webhook_after_final",
			fmt.Sprintf("status=%s amount=%v", n.Status, n.Amount))
		return d, ErrAlreadyFinal
	}

	d.Status = next
	d.PaidAmount = paidAmount

	s.audit.Log(d.OrderID, "deposit_"+string(next),
		fmt.Sprintf("reported=%s amount=%v", n.Status, n.Amount))
	logger.Log.Info("deposit transition",
		zap.String("track_id", d.TrackID),
		zap.String("status", string(next)),
		zap.Float64("amount", paidAmount))

	s.bus.Publish(event.EventDepositUpdated, &Update{Deposit: d, Reported: n.Status, Amount: n.Amount})
	return d, nil
}

func (s *Service) Balance(chatID string) (float64, error) {
	return s.store.SumConfirmed(chatID)
}

// mapStatus folds the provider's status vocabulary onto the record state
// machine. Unrecognized statuses are intermediate, not errors.
func mapStatus(reported string) Status {
	switch strings.ToLower(strings.TrimSpace(reported)) {
	case "paid", "success", "completed", "complete":
		return StatusPaid
	case "failed", "canceled", "cancelled":
		return StatusFailed
	case "expired":
		return StatusExpired
	default:
		return StatusPending
	}
}

func newOrderID(chatID string) string {
	return fmt.Sprintf("TG-%s-%d-%s", chatID, time.Now().UnixMilli(), uuid.NewString()[:8])
}
