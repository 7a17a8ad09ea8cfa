package webhook

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"tg-topup/internal/deposit"
	"tg-topup/internal/logger"
	"tg-topup/internal/monitoring"
)

type Reconciler interface {
	ApplyNotification(n deposit.Notification) (*deposit.Deposit, error)
}

// A callback can arrive before the record it references is durably
// persisted; one short-delay retry tolerates that race.
var raceRetryDelay = 500 * time.Millisecond

// RegisterRoutes mounts the provider callback endpoint. 200 acknowledges
// applied, informational and duplicate events alike; 400 marks a malformed
// body the provider must not retry; 500 asks the provider to redeliver.
func RegisterRoutes(r fiber.Router, rec Reconciler) {

	r.Post("/webhook", func(c *fiber.Ctx) error {

		n, err := Normalize(c.Body())
		if err != nil {
			monitoring.WebhookEvents.WithLabelValues("malformed").Inc()
			logger.Log.Warn("webhook rejected", zap.Error(err))
			return c.Status(400).JSON(fiber.Map{"error": "missing track_id"})
		}

		d, err := rec.ApplyNotification(n)
		if errors.Is(err, deposit.ErrUnknownTrackID) {
			time.Sleep(raceRetryDelay)
			d, err = rec.ApplyNotification(n)
		}

		switch {
		case errors.Is(err, deposit.ErrUnknownTrackID):
			monitoring.WebhookEvents.WithLabelValues("unknown").Inc()
			logger.Log.Warn("webhook for unknown track id", zap.String("track_id", n.TrackID))
			return c.Status(500).JSON(fiber.Map{"error": "unknown track_id"})

		case errors.Is(err, deposit.ErrAlreadyFinal):
			monitoring.WebhookEvents.WithLabelValues("duplicate").Inc()
			return c.JSON(fiber.Map{"ok": true})

		case err != nil:
			monitoring.WebhookEvents.WithLabelValues("error").Inc()
			logger.Log.Error("webhook processing failed", zap.String("track_id", n.TrackID), zap.Error(err))
			return c.Status(500).JSON(fiber.Map{"error": "webhook failed"})
		}

		monitoring.WebhookEvents.WithLabelValues("applied").Inc()
		logger.Log.Info("webhook applied",
			zap.String("track_id", n.TrackID),
			zap.String("reported", n.Status),
			zap.String("status", string(d.Status)))
		return c.JSON(fiber.Map{"ok": true})
	})
}
