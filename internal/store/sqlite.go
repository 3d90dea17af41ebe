package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "optionheat/internal/errors"
	"optionheat/internal/models"
)

// SQLiteStore implements ScenarioStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based scenario store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Named parameter sets
	CREATE TABLE IF NOT EXISTS scenarios (
		name TEXT PRIMARY KEY,
		spot REAL NOT NULL,
		strike REAL NOT NULL,
		rate REAL NOT NULL,
		time_to_expiry REAL NOT NULL,
		volatility REAL NOT NULL,
		call_purchase_price REAL NOT NULL DEFAULT 0,
		put_purchase_price REAL NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Priced snapshots, one row per evaluation
	CREATE TABLE IF NOT EXISTS evaluations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scenario TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		call_price REAL NOT NULL,
		put_price REAL NOT NULL,
		call_pnl REAL NOT NULL,
		put_pnl REAL NOT NULL,
		FOREIGN KEY (scenario) REFERENCES scenarios(name)
	);

	CREATE INDEX IF NOT EXISTS idx_evaluations_scenario ON evaluations(scenario, timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveScenario inserts or updates a named scenario.
func (s *SQLiteStore) SaveScenario(ctx context.Context, scenario *models.Scenario) error {
	if scenario.Name == "" {
		return apperrors.NewValidationError("name", scenario.Name, "must not be empty")
	}

	query := `
	INSERT INTO scenarios (name, spot, strike, rate, time_to_expiry, volatility,
		call_purchase_price, put_purchase_price, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
		spot = excluded.spot,
		strike = excluded.strike,
		rate = excluded.rate,
		time_to_expiry = excluded.time_to_expiry,
		volatility = excluded.volatility,
		call_purchase_price = excluded.call_purchase_price,
		put_purchase_price = excluded.put_purchase_price,
		updated_at = CURRENT_TIMESTAMP`

	_, err := s.db.ExecContext(ctx, query,
		scenario.Name, scenario.Spot, scenario.Strike, scenario.Rate,
		scenario.TimeToExpiry, scenario.Volatility,
		scenario.CallPurchasePrice, scenario.PutPurchasePrice)
	if err != nil {
		return apperrors.NewStoreError("save_scenario", scenario.Name, err)
	}
	return nil
}

// GetScenario fetches a scenario by name.
func (s *SQLiteStore) GetScenario(ctx context.Context, name string) (*models.Scenario, error) {
	query := `
	SELECT name, spot, strike, rate, time_to_expiry, volatility,
		call_purchase_price, put_purchase_price, created_at, updated_at
	FROM scenarios WHERE name = ?`

	var sc models.Scenario
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&sc.Name, &sc.Spot, &sc.Strike, &sc.Rate, &sc.TimeToExpiry,
		&sc.Volatility, &sc.CallPurchasePrice, &sc.PutPurchasePrice,
		&sc.CreatedAt, &sc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrScenarioNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("get_scenario", name, err)
	}
	return &sc, nil
}

// ListScenarios returns all scenarios ordered by most recently updated.
func (s *SQLiteStore) ListScenarios(ctx context.Context) ([]models.Scenario, error) {
	query := `
	SELECT name, spot, strike, rate, time_to_expiry, volatility,
		call_purchase_price, put_purchase_price, created_at, updated_at
	FROM scenarios ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError("list_scenarios", "", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		var sc models.Scenario
		if err := rows.Scan(
			&sc.Name, &sc.Spot, &sc.Strike, &sc.Rate, &sc.TimeToExpiry,
			&sc.Volatility, &sc.CallPurchasePrice, &sc.PutPurchasePrice,
			&sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, apperrors.NewStoreError("list_scenarios", "", err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario and its evaluation history.
func (s *SQLiteStore) DeleteScenario(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE name = ?`, name)
	if err != nil {
		return apperrors.NewStoreError("delete_scenario", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("delete_scenario", name, err)
	}
	if affected == 0 {
		return apperrors.ErrScenarioNotFound
	}

	_, err = s.db.ExecContext(ctx, `DELETE FROM evaluations WHERE scenario = ?`, name)
	if err != nil {
		return apperrors.NewStoreError("delete_scenario", name, err)
	}
	return nil
}

// LogEvaluation appends one priced snapshot to the history.
func (s *SQLiteStore) LogEvaluation(ctx context.Context, eval *models.Evaluation) error {
	if eval.Timestamp.IsZero() {
		eval.Timestamp = time.Now()
	}

	query := `
	INSERT INTO evaluations (scenario, timestamp, call_price, put_price, call_pnl, put_pnl)
	VALUES (?, ?, ?, ?, ?, ?)`

	res, err := s.db.ExecContext(ctx, query,
		eval.Scenario, eval.Timestamp, eval.CallPrice, eval.PutPrice,
		eval.CallPnL, eval.PutPnL)
	if err != nil {
		return apperrors.NewStoreError("log_evaluation", eval.Scenario, err)
	}
	if id, err := res.LastInsertId(); err == nil {
		eval.ID = id
	}
	return nil
}

// GetEvaluations returns the most recent evaluations for a scenario.
// A limit of zero or less means no limit.
func (s *SQLiteStore) GetEvaluations(ctx context.Context, scenario string, limit int) ([]models.Evaluation, error) {
	query := `
	SELECT id, scenario, timestamp, call_price, put_price, call_pnl, put_pnl
	FROM evaluations WHERE scenario = ? ORDER BY timestamp DESC`
	args := []interface{}{scenario}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("get_evaluations", scenario, err)
	}
	defer rows.Close()

	var evals []models.Evaluation
	for rows.Next() {
		var e models.Evaluation
		if err := rows.Scan(&e.ID, &e.Scenario, &e.Timestamp, &e.CallPrice,
			&e.PutPrice, &e.CallPnL, &e.PutPnL); err != nil {
			return nil, apperrors.NewStoreError("get_evaluations", scenario, err)
		}
		evals = append(evals, e)
	}
	return evals, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
