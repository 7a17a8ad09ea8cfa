package notify

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tg-topup/internal/deposit"
	"tg-topup/internal/event"
	"tg-topup/internal/logger"
	"tg-topup/internal/monitoring"
	"tg-topup/internal/telegram"
)

type Notifier interface {
	SendMessage(chatID, text string) error
}

// Deduper caps notices at one per key. Nil disables deduplication.
type Deduper interface {
	Once(key string) bool
}

// RegisterConsumers subscribes the dispatcher to deposit updates. Delivery
// is fire-and-forget: a send failure is logged and never rolls back the
// persisted transition.
func RegisterConsumers(bus *event.Bus, n Notifier, dedupe Deduper) {

	bus.Subscribe(event.EventDepositUpdated, func(payload interface{}) {

		u := payload.(*deposit.Update)

		if dedupe != nil {
			key := "notice:" + u.Deposit.TrackID + ":" + strings.ToLower(u.Reported)
			if !dedupe.Once(key) {
				return
			}
		}

		if err := n.SendMessage(u.Deposit.ChatID, formatUpdate(u)); err != nil {
			logger.Log.Warn("notice delivery failed",
				zap.String("chat_id", u.Deposit.ChatID),
				zap.String("track_id", u.Deposit.TrackID),
				zap.Error(err))
			return
		}
		monitoring.NoticesSent.Inc()
	})
}

func formatUpdate(u *deposit.Update) string {
	return fmt.Sprintf(
		"💰 *Deposit Update*\n\n🆔 Order ID: `%s`\n🔍 Track ID: `%s`\n💵 Amount: %s\n📌 Status: *%s*",
		telegram.EscapeMarkdown(u.Deposit.OrderID),
		telegram.EscapeMarkdown(u.Deposit.TrackID),
		telegram.EscapeMarkdown(strconv.FormatFloat(u.Amount, 'f', -1, 64)),
		telegram.EscapeMarkdown(u.Reported),
	)
}
