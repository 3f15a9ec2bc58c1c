package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"DCABench/internal/model"
)

// SQLiteRecorder persists backtest runs, their transactions, and their
// portfolio snapshots to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read
	// while the bench writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at            INTEGER NOT NULL,
			strategy              TEXT NOT NULL,
			description           TEXT,
			start_date            TEXT NOT NULL,
			end_date              TEXT NOT NULL,
			duration_days         INTEGER,
			total_budget          REAL,
			total_invested        REAL,
			final_btc             REAL,
			final_value           REAL,
			total_return_pct      REAL,
			annualized_return_pct REAL,
			num_transactions      INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON backtest_runs(created_at)`,

		`CREATE TABLE IF NOT EXISTS backtest_transactions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES backtest_runs(id),
			date            TEXT NOT NULL,
			invested_amount REAL,
			btc_amount      REAL,
			price           REAL,
			valuation_index REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tx_run ON backtest_transactions(run_id)`,

		`CREATE TABLE IF NOT EXISTS portfolio_snapshots (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL REFERENCES backtest_runs(id),
			date            TEXT NOT NULL,
			cash_balance    REAL,
			btc_balance     REAL,
			total_invested  REAL,
			portfolio_value REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snap_run ON portfolio_snapshots(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts the run summary with its transactions and snapshots in
// one transaction and returns the new run id.
func (r *SQLiteRecorder) RecordRun(res *model.BacktestResult) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// +Inf means "annualized return not meaningful"; store NULL.
	var annualized any
	if !math.IsInf(res.AnnualizedReturnPct, 0) {
		annualized = res.AnnualizedReturnPct
	}

	insert, err := tx.Exec(`INSERT INTO backtest_runs
		(created_at, strategy, description, start_date, end_date, duration_days,
		 total_budget, total_invested, final_btc, final_value,
		 total_return_pct, annualized_return_pct, num_transactions)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), res.StrategyName, res.StrategyDescription,
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"),
		res.DurationDays, res.TotalBudget, res.TotalInvested,
		res.FinalBTCBalance, res.FinalPortfolioValue,
		res.TotalReturnPct, annualized, len(res.Transactions),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	runID, err := insert.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}

	for _, t := range res.Transactions {
		if _, err := tx.Exec(`INSERT INTO backtest_transactions
			(run_id, date, invested_amount, btc_amount, price, valuation_index)
			VALUES (?,?,?,?,?,?)`,
			runID, t.Date.Format("2006-01-02"),
			t.InvestedAmount, t.BTCAmount, t.Price, t.ValuationIndex,
		); err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
	}

	for _, s := range res.Snapshots {
		if _, err := tx.Exec(`INSERT INTO portfolio_snapshots
			(run_id, date, cash_balance, btc_balance, total_invested, portfolio_value)
			VALUES (?,?,?,?,?,?)`,
			runID, s.Date.Format("2006-01-02"),
			s.CashBalance, s.BTCBalance, s.TotalInvested, s.PortfolioValue,
		); err != nil {
			return 0, fmt.Errorf("insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return runID, nil
}

// LatestRuns returns the most recently recorded runs, newest first.
func (r *SQLiteRecorder) LatestRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, created_at, strategy, start_date, end_date,
		total_invested, final_value, total_return_pct
		FROM backtest_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query latest runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			created    int64
			start, end string
		)
		if err := rows.Scan(&s.ID, &created, &s.StrategyName, &start, &end,
			&s.TotalInvested, &s.FinalPortfolioValue, &s.TotalReturnPct); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt = time.Unix(created, 0).UTC()
		s.StartDate, _ = time.Parse("2006-01-02", start)
		s.EndDate, _ = time.Parse("2006-01-02", end)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
