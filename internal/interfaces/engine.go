package interfaces

import (
	"github.com/Victor-armando18/pricing-assistant/internal/domain/engine"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure/diff"
	"github.com/Victor-armando18/pricing-assistant/internal/infrastructure/jsonlogic"
	"github.com/Victor-armando18/pricing-assistant/internal/usecase/runengine"
)

// NewEngine builds the pricing engine with the JsonLogic condition adapter.
func NewEngine() *engine.Engine {
	return engine.New(jsonlogic.NewExecutor())
}

// NewRecalculator wires the patch and diff adapters around eng.
func NewRecalculator(eng *engine.Engine) *runengine.UseCase {
	return &runengine.UseCase{
		Engine: eng,
		Patch:  infrastructure.ApplyRequestPatch,
		Differ: &diff.Differ{},
	}
}
