package server

import (
	"queentouch/internal/models"
	"queentouch/internal/service"

	"github.com/gofiber/fiber/v2"
)

type checkoutRequest struct {
	Items      []service.CartLine `json:"items"`
	CouponCode string             `json:"coupon_code"`
}

// QuoteCart handles POST /api/checkout/quote
// Prices the cart for the current viewer without placing an order. Guests
// get base prices; the quote is recomputed at order time regardless.
func (s *Server) QuoteCart(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	quote, err := s.checkoutService.Quote(c.Context(), service.QuoteInput{
		Actor:      currentActor(c),
		Lines:      req.Items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(quote)
}

// PlaceOrder handles POST /api/checkout/orders
func (s *Server) PlaceOrder(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	order, err := s.checkoutService.PlaceOrder(c.Context(), service.QuoteInput{
		Actor:      currentActor(c),
		Lines:      req.Items,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetMyOrders handles GET /api/orders
func (s *Server) GetMyOrders(c *fiber.Ctx) error {
	orders, err := s.checkoutService.ListOrders(c.Context(), currentActor(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"data": orders})
}

// GetOrder handles GET /api/orders/:reference
func (s *Server) GetOrder(c *fiber.Ctx) error {
	reference := c.Params("reference")
	order, err := s.checkoutService.GetOrder(c.Context(), currentActor(c), reference)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(order)
}

// UpdateOrderStatus handles PUT /api/admin/orders/:id/status
func (s *Server) UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.checkoutService.UpdateOrderStatus(c.Context(), id, req.Status); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Order status updated"})
}
