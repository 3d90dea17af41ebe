package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	apperrors "optionheat/internal/errors"
	"optionheat/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleScenario(name string) *models.Scenario {
	return &models.Scenario{
		Name:              name,
		Spot:              100,
		Strike:            105,
		Rate:              0.05,
		TimeToExpiry:      0.5,
		Volatility:        0.25,
		CallPurchasePrice: 4.5,
		PutPurchasePrice:  6.0,
	}
}

func TestSQLiteStore_ScenarioRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := sampleScenario("earnings-play")
	if err := s.SaveScenario(ctx, want); err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	got, err := s.GetScenario(ctx, "earnings-play")
	if err != nil {
		t.Fatalf("GetScenario() error = %v", err)
	}

	if got.Spot != want.Spot || got.Strike != want.Strike ||
		got.Rate != want.Rate || got.TimeToExpiry != want.TimeToExpiry ||
		got.Volatility != want.Volatility ||
		got.CallPurchasePrice != want.CallPurchasePrice ||
		got.PutPurchasePrice != want.PutPurchasePrice {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not populated")
	}
}

func TestSQLiteStore_SaveScenarioUpserts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sc := sampleScenario("base")
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	sc.Volatility = 0.40
	if err := s.SaveScenario(ctx, sc); err != nil {
		t.Fatalf("SaveScenario(update) error = %v", err)
	}

	got, err := s.GetScenario(ctx, "base")
	if err != nil {
		t.Fatalf("GetScenario() error = %v", err)
	}
	if got.Volatility != 0.40 {
		t.Errorf("volatility = %v after update, want 0.40", got.Volatility)
	}

	list, err := s.ListScenarios(ctx)
	if err != nil {
		t.Fatalf("ListScenarios() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("list len = %d after upsert, want 1", len(list))
	}
}

func TestSQLiteStore_SaveScenarioEmptyName(t *testing.T) {
	s := newTestStore(t)

	err := s.SaveScenario(context.Background(), sampleScenario(""))
	if err == nil {
		t.Fatal("expected error for empty name")
	}
	var verr *apperrors.ValidationError
	if !apperrors.As(err, &verr) {
		t.Errorf("expected *ValidationError, got %T", err)
	}
}

func TestSQLiteStore_GetScenarioNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetScenario(context.Background(), "missing")
	if !apperrors.Is(err, apperrors.ErrScenarioNotFound) {
		t.Errorf("expected ErrScenarioNotFound, got %v", err)
	}
}

func TestSQLiteStore_DeleteScenario(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveScenario(ctx, sampleScenario("gone")); err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}
	if err := s.DeleteScenario(ctx, "gone"); err != nil {
		t.Fatalf("DeleteScenario() error = %v", err)
	}
	if _, err := s.GetScenario(ctx, "gone"); !apperrors.Is(err, apperrors.ErrScenarioNotFound) {
		t.Errorf("expected ErrScenarioNotFound after delete, got %v", err)
	}
	if err := s.DeleteScenario(ctx, "gone"); !apperrors.Is(err, apperrors.ErrScenarioNotFound) {
		t.Errorf("expected ErrScenarioNotFound for double delete, got %v", err)
	}
}

func TestSQLiteStore_EvaluationHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveScenario(ctx, sampleScenario("hist")); err != nil {
		t.Fatalf("SaveScenario() error = %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		eval := &models.Evaluation{
			Scenario:  "hist",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			CallPrice: 10.0 + float64(i),
			PutPrice:  5.0 + float64(i),
			CallPnL:   1.0,
			PutPnL:    -1.0,
		}
		if err := s.LogEvaluation(ctx, eval); err != nil {
			t.Fatalf("LogEvaluation(%d) error = %v", i, err)
		}
		if eval.ID == 0 {
			t.Errorf("evaluation %d did not get an ID", i)
		}
	}

	evals, err := s.GetEvaluations(ctx, "hist", 2)
	if err != nil {
		t.Fatalf("GetEvaluations() error = %v", err)
	}
	if len(evals) != 2 {
		t.Fatalf("len = %d, want 2 (limit applied)", len(evals))
	}
	// Most recent first.
	if evals[0].CallPrice != 12.0 {
		t.Errorf("first call price = %v, want 12.0", evals[0].CallPrice)
	}

	all, err := s.GetEvaluations(ctx, "hist", 0)
	if err != nil {
		t.Fatalf("GetEvaluations(no limit) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len = %d without limit, want 3", len(all))
	}
}
