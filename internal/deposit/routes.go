package deposit

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, s *Service) {

	r.Post("/deposits", func(c *fiber.Ctx) error {
		type Req struct {
			ChatID string  `json:"chat_id"`
			Amount float64 `json:"amount"`
		}
		var body Req
		if err := c.BodyParser(&body); err != nil || body.ChatID == "" {
			return c.Status(400).JSON(fiber.Map{"error": "chat_id required"})
		}

		created, err := s.CreateDeposit(c.Context(), body.ChatID, body.Amount)
		if errors.Is(err, ErrAddressUnavailable) {
			return c.Status(503).JSON(fiber.Map{"error": "address unavailable, try again later"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}

		d := created.Deposit
		return c.JSON(fiber.Map{
			"order_id": d.OrderID,
			"track_id": d.TrackID,
			"address":  d.Address,
			"status":   d.Status,
			"qr_code":  created.QRCode,
		})
	})

	r.Get("/balance/:chat_id", func(c *fiber.Ctx) error {
		total, err := s.Balance(c.Params("chat_id"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"balance": total})
	})
}
