package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"tg-topup/internal/deposit"
	"tg-topup/internal/logger"
	"tg-topup/internal/telegram"
)

// Bot runs the Telegram command loop as a background job.
type Bot struct {
	tg       *telegram.Client
	deposits *deposit.Service
}

func New(tg *telegram.Client, deposits *deposit.Service) *Bot {
	return &Bot{tg: tg, deposits: deposits}
}

func (b *Bot) Start(ctx context.Context) {
	var offset int64

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		updates, err := b.tg.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Log.Warn("poll updates failed", zap.Error(err))
			time.Sleep(3 * time.Second)
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil {
				continue
			}
			b.handleCommand(ctx, u.Message)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *telegram.Message) {
	chatID := strconv.FormatInt(m.Chat.ID, 10)

	fields := strings.Fields(m.Text)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "/deposit":
		b.handleDeposit(ctx, chatID)
	case "/balance":
		b.handleBalance(chatID)
	}
}

func (b *Bot) handleDeposit(ctx context.Context, chatID string) {
	b.tg.SendMessage(chatID, "⏳ Generating your TRX deposit address\\.\\.\\.")

	created, err := b.deposits.CreateDeposit(ctx, chatID, 0)
	if err != nil {
		b.tg.SendMessage(chatID, "⚠️ Failed to generate deposit address\\. Please try again later\\.")
		return
	}

	d := created.Deposit
	b.tg.SendMessage(chatID, fmt.Sprintf(
		"✅ *Deposit Address Generated*\n\n💳 Address:\n`%s`\n\n⚡ Send TRX \\(TRON\\) to this address\n🆔 Order ID: `%s`\n🔍 Track ID: `%s`",
		telegram.EscapeMarkdown(d.Address),
		telegram.EscapeMarkdown(d.OrderID),
		telegram.EscapeMarkdown(d.TrackID),
	))

	if created.QRCode != "" {
		b.tg.SendPhoto(chatID, created.QRCode, "📷 Scan QR to pay")
	}
}

func (b *Bot) handleBalance(chatID string) {
	total, err := b.deposits.Balance(chatID)
	if err != nil {
		logger.Log.Error("balance query failed", zap.String("chat_id", chatID), zap.Error(err))
		b.tg.SendMessage(chatID, "⚠️ Error fetching your balance\\.")
		return
	}

	b.tg.SendMessage(chatID, fmt.Sprintf(
		"💰 *Your Total Balance*: `%s` USDT",
		telegram.EscapeMarkdown(strconv.FormatFloat(total, 'f', -1, 64)),
	))
}
