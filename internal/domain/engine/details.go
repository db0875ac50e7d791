package engine

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
)

// formatMoney groups thousands, e.g. 12000 -> "12,000".
func formatMoney(m domain.Money) string {
	return message.NewPrinter(language.English).Sprintf("%d", m)
}

func formatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
