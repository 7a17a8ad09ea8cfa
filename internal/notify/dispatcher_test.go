package notify

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"tg-topup/internal/deposit"
	"tg-topup/internal/event"
	"tg-topup/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type chanNotifier struct {
	msgs chan string
}

func (n *chanNotifier) SendMessage(chatID, text string) error {
	n.msgs <- chatID + "|" + text
	return nil
}

type memDedupe struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDedupe) Once(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[key] {
		return false
	}
	d.seen[key] = true
	return true
}

func sampleUpdate() *deposit.Update {
	return &deposit.Update{
		Deposit: &deposit.Deposit{
			ChatID:  "U1",
			OrderID: "TG-U1-1",
			TrackID: "TRK1",
			Status:  deposit.StatusPaid,
		},
		Reported: "Paid",
		Amount:   25.5,
	}
}

func TestDispatcher_SendsFormattedNotice(t *testing.T) {
	bus := event.NewBus()
	notifier := &chanNotifier{msgs: make(chan string, 4)}
	RegisterConsumers(bus, notifier, nil)

	bus.Publish(event.EventDepositUpdated, sampleUpdate())

	select {
	case msg := <-notifier.msgs:
		if !strings.HasPrefix(msg, "U1|") {
			t.Fatalf("notice went to wrong chat: %q", msg)
		}
		for _, want := range []string{"Deposit Update", "TG\\-U1\\-1", "TRK1", "25\\.5", "Paid"} {
			if !strings.Contains(msg, want) {
				t.Fatalf("notice missing %q: %q", want, msg)
			}
		}
	case <-time.After(time.Second):
		t.Fatal("expected a notice to be dispatched")
	}
}

func TestDispatcher_DedupesRepeatedDeliveries(t *testing.T) {
	bus := event.NewBus()
	notifier := &chanNotifier{msgs: make(chan string, 4)}
	RegisterConsumers(bus, notifier, &memDedupe{seen: make(map[string]bool)})

	bus.Publish(event.EventDepositUpdated, sampleUpdate())

	select {
	case <-notifier.msgs:
	case <-time.After(time.Second):
		t.Fatal("expected the first notice to go out")
	}

	bus.Publish(event.EventDepositUpdated, sampleUpdate())

	select {
	case msg := <-notifier.msgs:
		t.Fatalf("duplicate delivery must not notify again, got %q", msg)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDispatcher_DistinctStatusesEachNotify(t *testing.T) {
	bus := event.NewBus()
	notifier := &chanNotifier{msgs: make(chan string, 4)}
	RegisterConsumers(bus, notifier, &memDedupe{seen: make(map[string]bool)})

	confirming := sampleUpdate()
	confirming.Reported = "Confirming"
	confirming.Deposit.Status = deposit.StatusPending
	bus.Publish(event.EventDepositUpdated, confirming)
	bus.Publish(event.EventDepositUpdated, sampleUpdate())

	got := 0
	deadline := time.After(time.Second)
	for got < 2 {
		select {
		case <-notifier.msgs:
			got++
		case <-deadline:
			t.Fatalf("expected 2 notices, got %d", got)
		}
	}
}
