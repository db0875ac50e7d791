package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/domain/engine"
	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
)

// PricingService loads the requested catalog version, validates the
// request and runs the engine.
type PricingService struct {
	loader         interfaces.RulePackLoader
	engine         *engine.Engine
	recalc         interfaces.Recalculator
	validate       *validator.Validate
	logger         zerolog.Logger
	defaultVersion string
	now            func() time.Time
}

type Option func(*PricingService)

// WithClock overrides the clock used when a request carries no timestamp.
func WithClock(now func() time.Time) Option {
	return func(s *PricingService) { s.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *PricingService) { s.logger = l }
}

func WithValidator(v *validator.Validate) Option {
	return func(s *PricingService) { s.validate = v }
}

func NewPricingService(loader interfaces.RulePackLoader, eng *engine.Engine, recalc interfaces.Recalculator, defaultVersion string, opts ...Option) *PricingService {
	s := &PricingService{
		loader:         loader,
		engine:         eng,
		recalc:         recalc,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		logger:         zerolog.Nop(),
		defaultVersion: defaultVersion,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Calculate prices one request. Invalid input and malformed rules come back
// as an unsuccessful result; the error is reserved for catalog loading.
func (s *PricingService) Calculate(ctx context.Context, req domain.CalculationRequest) (domain.CalculationResult, error) {
	pack, err := s.Rules(ctx, req.RulesVersion)
	if err != nil {
		return domain.CalculationResult{}, err
	}
	if err := s.Validate(req); err != nil {
		s.logger.Warn().Err(err).Msg("pricing_rejected")
		return domain.Failure(err, nil), nil
	}

	req = s.normalize(req, pack.Version)
	res := s.engine.Calculate(ctx, req, pack.Rules)
	s.logResult(req, res)
	return res, nil
}

// Recalculate applies patch to previous, re-prices it and returns the new
// result together with the merge patch from the previous result.
func (s *PricingService) Recalculate(ctx context.Context, previous domain.CalculationRequest, patch []byte) (*domain.Recalculation, error) {
	if err := s.Validate(previous); err != nil {
		return nil, err
	}
	pack, err := s.Rules(ctx, previous.RulesVersion)
	if err != nil {
		return nil, err
	}
	previous = s.normalize(previous, pack.Version)

	prepare := func(updated domain.CalculationRequest) (domain.CalculationRequest, error) {
		if err := s.Validate(updated); err != nil {
			s.logger.Warn().Err(err).Msg("pricing_rejected")
			return updated, err
		}
		return s.normalize(updated, pack.Version), nil
	}
	out, err := s.recalc.Run(ctx, previous, patch, pack.Rules, prepare)
	if err != nil {
		s.logger.Warn().Err(err).Msg("pricing_recalculation_failed")
		return nil, err
	}
	s.logResult(out.Request, out.Result)
	return out, nil
}

// SuggestOrder returns ids ordered by catalog priority.
func (s *PricingService) SuggestOrder(ctx context.Context, version string, ids []string) ([]string, error) {
	pack, err := s.Rules(ctx, version)
	if err != nil {
		return nil, err
	}
	return engine.SuggestOrder(pack.Rules, ids), nil
}

// Rules loads a catalog, falling back to the default version.
func (s *PricingService) Rules(ctx context.Context, version string) (*domain.RulePackDefinition, error) {
	if strings.TrimSpace(version) == "" {
		version = s.defaultVersion
	}
	pack, err := s.loader.Load(ctx, version)
	if err != nil {
		s.logger.Error().Err(err).Str("rules_version", version).Msg("rule_pack_load_failed")
		return nil, err
	}
	return pack, nil
}

// Validate checks the request payload against its struct tags.
func (s *PricingService) Validate(req domain.CalculationRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func (s *PricingService) normalize(req domain.CalculationRequest, version string) domain.CalculationRequest {
	if req.Now.IsZero() {
		req.Now = s.now()
	}
	req.RulesVersion = version
	return req
}

func (s *PricingService) logResult(req domain.CalculationRequest, res domain.CalculationResult) {
	if !res.Success {
		s.logger.Warn().
			Str("rules_version", req.RulesVersion).
			Int("selected", len(req.SelectedRuleIDs)).
			Str("error", res.Error).
			Msg("pricing_failed")
		return
	}
	s.logger.Info().
		Str("rules_version", req.RulesVersion).
		Int("lines", len(req.Lines)).
		Int("steps", len(res.Data.DiscountSteps)).
		Int("warnings", len(res.Warnings)).
		Int64("total_original", res.Data.TotalOriginalPrice).
		Int64("total_final", res.Data.TotalFinalPrice).
		Msg("pricing_calculated")
}
