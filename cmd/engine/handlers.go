package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/Victor-armando18/pricing-assistant/internal/domain"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure"
	"github.com/Victor-armando18/pricing-assistant/internal/interfaces"
	"github.com/Victor-armando18/pricing-assistant/internal/obs"
)

// PatchRequest carries the previous request and an RFC 6902 patch to apply
// to it.
type PatchRequest struct {
	Request domain.CalculationRequest `json:"request"`
	Patch   json.RawMessage           `json:"patch"`
}

type SuggestRequest struct {
	RulesVersion string   `json:"rulesVersion"`
	RuleIDs      []string `json:"ruleIds"`
}

func newServer(svc interfaces.PricingFacade, logger zerolog.Logger, origins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(obs.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodPost, http.MethodPatch, http.MethodOptions, http.MethodGet},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))

	e.GET("/healthz", handleHealth)
	e.POST("/calculations", handleCalculate(svc))
	e.PATCH("/calculations", handlePatch(svc))
	e.POST("/calculations/suggest-order", handleSuggest(svc))
	e.GET("/rules", handleRules(svc))
	return e
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func handleCalculate(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req domain.CalculationRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, domain.Failure(errors.New("invalid payload"), nil))
		}

		result, err := svc.Calculate(c.Request().Context(), req)
		if err != nil {
			return errorResponse(c, err)
		}
		if !result.Success {
			return c.JSON(http.StatusUnprocessableEntity, result)
		}
		return c.JSON(http.StatusOK, result)
	}
}

func handlePatch(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req PatchRequest
		if err := c.Bind(&req); err != nil || len(req.Patch) == 0 {
			return c.JSON(http.StatusBadRequest, domain.Failure(errors.New("invalid patch request"), nil))
		}

		out, err := svc.Recalculate(c.Request().Context(), req.Request, req.Patch)
		if err != nil {
			return errorResponse(c, err)
		}
		status := http.StatusOK
		if !out.Result.Success {
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, out)
	}
}

func handleSuggest(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req SuggestRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, domain.Failure(errors.New("invalid payload"), nil))
		}
		ids, err := svc.SuggestOrder(c.Request().Context(), req.RulesVersion, req.RuleIDs)
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, map[string][]string{"ruleIds": ids})
	}
}

func handleRules(svc interfaces.PricingFacade) echo.HandlerFunc {
	return func(c echo.Context) error {
		pack, err := svc.Rules(c.Request().Context(), c.QueryParam("version"))
		if err != nil {
			return errorResponse(c, err)
		}
		return c.JSON(http.StatusOK, pack)
	}
}

func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, infrastructure.ErrRulePackNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, domain.Failure(err, nil))
}
