package pricing

import "queentouch/internal/models"

// validCoupons maps coupon codes to flat discount fractions. Lookup is
// case-sensitive; an unknown code resets any previously applied discount.
var validCoupons = map[string]float64{
	"WELCOME10":    0.10,
	"QUEEN20":      0.20,
	"GOLDMEMBER":   0.25,
	"DISTRIBUIDOR": 0.40,
}

// Shipping: flat fee, waived above the free-shipping threshold.
const (
	shippingCost          = 15000
	freeShippingThreshold = 100000
)

// CouponDiscount looks up a coupon code. The boolean reports whether the
// code exists.
func CouponDiscount(code string) (float64, bool) {
	fraction, ok := validCoupons[code]
	return fraction, ok
}

// CartItem is one checkout line: the product's base unit price and quantity.
type CartItem struct {
	ProductID uint
	Name      string
	UnitPrice int64
	Quantity  int
}

// QuoteItem is a priced line in a quote.
type QuoteItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// Quote is a fully priced cart.
type Quote struct {
	Items            []QuoteItem `json:"items"`
	Subtotal         int64       `json:"subtotal"`
	DiscountFraction float64     `json:"discount_fraction"`
	DiscountLabel    string      `json:"discount_label,omitempty"`
	DiscountAmount   int64       `json:"discount_amount"`
	Shipping         int64       `json:"shipping"`
	Total            int64       `json:"total"`
	Wholesale        bool        `json:"wholesale"`
}

// QuoteCart prices a cart for the given actor.
//
// Distributors get the wholesale price per line and no further discounts;
// coupons are ignored entirely for them. Everyone else pays base prices with
// a single subtotal discount: a valid coupon REPLACES the tier fraction
// (last-applied-wins, never stacked), an invalid code resets the discount to
// zero, and no code at all falls back to the actor's tier fraction.
func QuoteCart(items []CartItem, actor *models.Actor, couponCode string) (*Quote, error) {
	q := &Quote{Wholesale: actor != nil && actor.Role == models.RoleDistributor}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, models.NewValidationError("item quantity must be positive")
		}
		unit := item.UnitPrice
		if q.Wholesale {
			var err error
			if unit, err = WholesalePrice(item.UnitPrice); err != nil {
				return nil, err
			}
		} else if item.UnitPrice <= 0 {
			return nil, models.NewInvalidPriceError("base price must be positive")
		}
		line := unit * int64(item.Quantity)
		q.Items = append(q.Items, QuoteItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: unit,
			Quantity:  item.Quantity,
			LineTotal: line,
		})
		q.Subtotal += line
	}

	if !q.Wholesale {
		switch {
		case couponCode == "":
			q.DiscountFraction, q.DiscountLabel = Discount(actor)
		default:
			if fraction, ok := CouponDiscount(couponCode); ok {
				q.DiscountFraction = fraction
				q.DiscountLabel = couponCode
			}
		}
		q.DiscountAmount = round(float64(q.Subtotal) * q.DiscountFraction)
	}

	if q.Subtotal <= freeShippingThreshold && q.Subtotal > 0 {
		q.Shipping = shippingCost
	}
	q.Total = q.Subtotal - q.DiscountAmount + q.Shipping
	return q, nil
}
