package service

import (
	"context"
	"errors"

	"queentouch/internal/models"
	"queentouch/internal/pricing"
	"queentouch/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutService prices carts and turns accepted quotes into orders. Unit
// prices always come from the catalog, never from the client.
type CheckoutService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// CartLine is a client-submitted cart entry.
type CartLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type QuoteInput struct {
	Actor      *models.Actor
	Lines      []CartLine
	CouponCode string
}

func NewCheckoutService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// buildCart resolves cart lines against the catalog.
func (s *CheckoutService) buildCart(ctx context.Context, lines []CartLine) ([]pricing.CartItem, error) {
	if len(lines) == 0 {
		return nil, models.NewValidationError("Cart is empty")
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, models.NewValidationError("item quantity must be positive")
		}
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]pricing.CartItem, 0, len(lines))
	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok {
			return nil, models.NewNotFoundError("product", line.ProductID)
		}
		items = append(items, pricing.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

// Quote prices a cart without placing an order.
func (s *CheckoutService) Quote(ctx context.Context, in QuoteInput) (*pricing.Quote, error) {
	items, err := s.buildCart(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	return pricing.QuoteCart(items, in.Actor, in.CouponCode)
}

// PlaceOrder quotes the cart and persists the result as an order in the
// processing state.
func (s *CheckoutService) PlaceOrder(ctx context.Context, in QuoteInput) (*models.Order, error) {
	if in.Actor == nil {
		return nil, models.NewUnauthenticatedError("You must be logged in to place an order")
	}

	items, err := s.buildCart(ctx, in.Lines)
	if err != nil {
		return nil, err
	}
	quote, err := pricing.QuoteCart(items, in.Actor, in.CouponCode)
	if err != nil {
		return nil, err
	}

	couponApplied := ""
	if !quote.Wholesale {
		if _, ok := pricing.CouponDiscount(in.CouponCode); ok {
			couponApplied = in.CouponCode
		}
	}

	order := &models.Order{
		Reference:  uuid.NewString(),
		UserID:     in.Actor.UserID,
		Subtotal:   quote.Subtotal,
		Discount:   quote.DiscountAmount,
		Shipping:   quote.Shipping,
		Total:      quote.Total,
		CouponCode: couponApplied,
		Status:     models.OrderStatusProcessing,
	}
	for _, item := range quote.Items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListOrders returns the actor's order history, newest first.
func (s *CheckoutService) ListOrders(ctx context.Context, actor *models.Actor) ([]*models.Order, error) {
	if actor == nil {
		return nil, models.NewUnauthenticatedError("You must be logged in to view orders")
	}
	return s.orderRepo.ListByUser(ctx, actor.UserID)
}

// GetOrder fetches one order. Owners see their own orders; admins see all.
func (s *CheckoutService) GetOrder(ctx context.Context, actor *models.Actor, reference string) (*models.Order, error) {
	if actor == nil {
		return nil, models.NewUnauthenticatedError("You must be logged in to view orders")
	}
	order, err := s.orderRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("order", reference)
		}
		return nil, err
	}
	if order.UserID != actor.UserID && !actor.CanModerate() {
		return nil, models.NewForbiddenError("You can only view your own orders")
	}
	return order, nil
}

// UpdateOrderStatus moves an order through the fulfilment states.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, id uint, status string) error {
	switch status {
	case models.OrderStatusProcessing, models.OrderStatusShipped, models.OrderStatusDelivered:
	default:
		return models.NewValidationError("unknown order status")
	}
	if _, err := s.orderRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("order", id)
		}
		return err
	}
	return s.orderRepo.UpdateStatus(ctx, id, status)
}
