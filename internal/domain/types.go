package domain

import (
	"errors"
	"time"
)

// Money is a monetary value in the smallest currency unit used by the catalog.
type Money = int64

// PaymentContext describes how the shopper intends to pay.
type PaymentContext struct {
	Method     string `json:"method"`
	CardIssuer string `json:"cardIssuer,omitempty"`
	CardType   string `json:"cardType,omitempty"`
	QR         bool   `json:"qr,omitempty"`
}

// CalculationRequest is the snapshot handed to the engine for one calculation.
type CalculationRequest struct {
	Lines           []CartLine      `json:"lines" validate:"dive"`
	SelectedRuleIDs []string        `json:"selectedRuleIds" validate:"unique,dive,required"`
	Payment         *PaymentContext `json:"payment,omitempty"`
	UsageOverrides  map[string]int  `json:"usageOverrides,omitempty"`
	Now             time.Time       `json:"now"`
	RulesVersion    string          `json:"rulesVersion,omitempty"`
}

// RulePackDefinition is a versioned rule catalog.
type RulePackDefinition struct {
	Version     string         `json:"version"`
	Description string         `json:"description,omitempty"`
	Rules       []DiscountRule `json:"rules"`
}

var (
	ErrRuleExecutionFailed = errors.New("rule execution failed")
	ErrInvalidInput        = errors.New("invalid calculation input")
	ErrUnknownCategory     = errors.New("unknown discount category")
	ErrMissingConfig       = errors.New("discount rule has no config")
	ErrMissingConfigField  = errors.New("discount config field missing")
	ErrInvalidConfigValue  = errors.New("discount config value out of range")
	ErrInvalidCondition    = errors.New("invalid rule condition")
)
