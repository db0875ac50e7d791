// Package engine exposes the cart pricing engine to other Go programs.
package engine

import (
	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
)

type (
	Money              = domain.Money
	CartLine           = domain.CartLine
	PaymentContext     = domain.PaymentContext
	CalculationRequest = domain.CalculationRequest
	CalculationResult  = domain.CalculationResult
	CalculationData    = domain.CalculationData
	CalculationStep    = domain.CalculationStep
	LinePromotion      = domain.LinePromotion
	DiscountRule       = domain.DiscountRule
	RulePack           = domain.RulePackDefinition
	Recalculation      = domain.Recalculation
	RulePackLoader     = interfaces.RulePackLoader
	Service            = interfaces.PricingFacade
)
