package domain

import "strings"

// CartLine is one scanned product with its resolved catalog metadata.
type CartLine struct {
	ProductBarcode    string   `json:"productBarcode" validate:"required"`
	ProductName       string   `json:"productName,omitempty"`
	ProductCategories []string `json:"productCategories,omitempty"`
	ProductBrand      string   `json:"productBrand,omitempty"`
	UnitPrice         Money    `json:"unitPrice" validate:"gte=0"`
	Quantity          int      `json:"quantity" validate:"gte=1"`
}

// Subtotal returns unit price times quantity.
func (l CartLine) Subtotal() Money {
	return l.UnitPrice * Money(l.Quantity)
}

// DisplayName falls back to the barcode when the product has no name.
func (l CartLine) DisplayName() string {
	if strings.TrimSpace(l.ProductName) != "" {
		return l.ProductName
	}
	return l.ProductBarcode
}

func (l CartLine) hasCategory(category string) bool {
	for _, c := range l.ProductCategories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

// TotalQuantity sums the quantity of every line.
func TotalQuantity(lines []CartLine) int {
	var q int
	for _, l := range lines {
		q += l.Quantity
	}
	return q
}

// TotalPrice sums the undiscounted subtotal of every line.
func TotalPrice(lines []CartLine) Money {
	var v Money
	for _, l := range lines {
		v += l.Subtotal()
	}
	return v
}
