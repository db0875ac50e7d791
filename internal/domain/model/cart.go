package model

import (
	"time"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// Cart is the view of a calculation exposed to rule conditions.
type Cart struct {
	Lines    []domain.CartLine
	Current  []domain.Money
	Subtotal domain.Money
	Payment  *domain.PaymentContext
	Applied  []string
	Now      time.Time
}

// ToMap renders the facts JSON-friendly, keyed the way conditions address
// them: cart.*, payment.*, applied, now.
func (c Cart) ToMap() map[string]any {
	lines := make([]any, len(c.Lines))
	var quantity int
	for i, l := range c.Lines {
		current := l.Subtotal()
		if i < len(c.Current) {
			current = c.Current[i]
		}
		categories := make([]any, len(l.ProductCategories))
		for j, cat := range l.ProductCategories {
			categories[j] = cat
		}
		lines[i] = map[string]any{
			"barcode":    l.ProductBarcode,
			"name":       l.ProductName,
			"brand":      l.ProductBrand,
			"categories": categories,
			"unitPrice":  l.UnitPrice,
			"quantity":   l.Quantity,
			"current":    current,
		}
		quantity += l.Quantity
	}

	payment := map[string]any{}
	if c.Payment != nil {
		payment = map[string]any{
			"method":     c.Payment.Method,
			"cardIssuer": c.Payment.CardIssuer,
			"cardType":   c.Payment.CardType,
			"qr":         c.Payment.QR,
		}
	}

	applied := make([]any, len(c.Applied))
	for i, id := range c.Applied {
		applied[i] = id
	}

	return map[string]any{
		"cart": map[string]any{
			"subtotal": c.Subtotal,
			"quantity": quantity,
			"lines":    lines,
		},
		"payment": payment,
		"applied": applied,
		"now":     c.Now.UTC().Format(time.RFC3339),
	}
}
