// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"optionheat/internal/models"
)

// ScenarioStore defines the interface for scenario persistence.
type ScenarioStore interface {
	// Scenarios
	SaveScenario(ctx context.Context, scenario *models.Scenario) error
	GetScenario(ctx context.Context, name string) (*models.Scenario, error)
	ListScenarios(ctx context.Context) ([]models.Scenario, error)
	DeleteScenario(ctx context.Context, name string) error

	// Evaluation history
	LogEvaluation(ctx context.Context, eval *models.Evaluation) error
	GetEvaluations(ctx context.Context, scenario string, limit int) ([]models.Evaluation, error)

	// Lifecycle
	Close() error
}
