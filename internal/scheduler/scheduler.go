// Package scheduler runs the bench on a cron schedule: reload the price
// series, re-run every configured strategy, record and notify. Used when the
// price file is refreshed externally (e.g. a nightly metrics export).
package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"DCABench/internal/engine"
	"DCABench/internal/model"
	"DCABench/internal/notifier"
	"DCABench/internal/pricestore"
	"DCABench/internal/recorder"
	"DCABench/internal/report"
	"DCABench/internal/strategy"
)

// StoreLoader reloads the price store from disk. It is called at the start
// of every scheduled run so refreshed data is picked up.
type StoreLoader func() (*pricestore.Store, error)

// Scheduler manages the cron task and the Telegram command surface.
type Scheduler struct {
	Cron          *cron.Cron
	Loader        StoreLoader
	Strategies    []strategy.Strategy
	StartDate     time.Time
	EndDate       time.Time
	MonthlyBudget float64
	Notifier      *notifier.TelegramNotifier
	Recorder      recorder.Recorder
	Ctx           context.Context

	mu sync.Mutex // serializes bench runs; strategies hold per-run state
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, loader StoreLoader, strategies []strategy.Strategy,
	start, end time.Time, monthlyBudget float64,
	tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Loader:        loader,
		Strategies:    strategies,
		StartDate:     start,
		EndDate:       end,
		MonthlyBudget: monthlyBudget,
		Notifier:      tn,
		Recorder:      rec,
		Ctx:           ctx,
	}
}

// Register registers the refresh task under the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Println("[INFO] running scheduled backtest refresh")
	store, err := s.Loader()
	if err != nil {
		log.Printf("[ERROR] reload price store: %v", err)
		s.trySend(fmt.Sprintf("backtest refresh failed: %v", err))
		return
	}

	results, err := s.runAll(store)
	if err != nil {
		log.Printf("[ERROR] backtest refresh: %v", err)
		s.trySend(fmt.Sprintf("backtest refresh failed: %v", err))
		return
	}

	for _, res := range results {
		if _, err := s.Recorder.RecordRun(res); err != nil {
			log.Printf("[ERROR] record run %s: %v", res.StrategyName, err)
		}
	}

	s.tryReport(report.FormatComparison(results, store.LastHistoricalDate()))
}

func (s *Scheduler) runAll(store *pricestore.Store) ([]*model.BacktestResult, error) {
	eng := engine.New(store)
	results := make([]*model.BacktestResult, 0, len(s.Strategies))
	for _, strat := range s.Strategies {
		res, err := eng.Run(s.Ctx, strat, s.StartDate, s.EndDate, s.MonthlyBudget)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", strat.Name(), err)
		}
		results = append(results, res)
	}
	return results, nil
}

// HandleCommand processes a Telegram command and returns a reply.
// "/latest" takes an optional run count, e.g. "/latest 5".
func (s *Scheduler) HandleCommand(command string, args []string) string {
	switch command {
	case "/run":
		go s.refreshTask()
		return "backtest refresh started"
	case "/latest":
		limit := 10
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 || n > 50 {
				return fmt.Sprintf("usage: /latest [1-50], got %q", args[0])
			}
			limit = n
		}
		runs, err := s.Recorder.LatestRuns(limit)
		if err != nil {
			return fmt.Sprintf("query latest runs: %v", err)
		}
		return "<pre>" + report.FormatLatestRuns(runs) + "</pre>"
	default:
		return "commands:\n/run - re-run all backtests now\n/latest [n] - last n recorded runs (default 10)"
	}
}

func (s *Scheduler) trySend(msg string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, msg, 2); err != nil {
		log.Printf("[ERROR] telegram notify: %v", err)
	}
}

func (s *Scheduler) tryReport(text string) {
	if s.Notifier == nil || !s.Notifier.Enabled() {
		return
	}
	if err := s.Notifier.SendReport(s.Ctx, text); err != nil {
		log.Printf("[ERROR] telegram report: %v", err)
	}
}
