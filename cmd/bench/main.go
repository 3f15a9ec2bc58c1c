package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"DCABench/internal/config"
	"DCABench/internal/engine"
	"DCABench/internal/model"
	"DCABench/internal/notifier"
	"DCABench/internal/pricestore"
	"DCABench/internal/recorder"
	"DCABench/internal/report"
	"DCABench/internal/scheduler"
	"DCABench/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] DCABench starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	origin, err := cfg.TrendOrigin()
	if err != nil {
		log.Fatalf("[FATAL] trend origin: %v", err)
	}
	trend := model.TrendParams{A: cfg.Trend.A, B: cfg.Trend.B, Origin: origin}
	start, end, err := cfg.Range()
	if err != nil {
		log.Fatalf("[FATAL] backtest range: %v", err)
	}

	loader := storeLoader(cfg, trend)

	strategies, err := buildStrategies(cfg)
	if err != nil {
		log.Fatalf("[FATAL] build strategies: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Single-shot mode: run every strategy once, print the comparison, exit.
	if cfg.Schedule.RefreshCron == "" {
		if err := runOnce(cfg, loader, strategies, rec); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		return
	}

	// Daemon mode: cron-scheduled refresh plus Telegram commands.
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, loader, strategies, start, end,
		cfg.Backtest.MonthlyBudget, tn, rec)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go sched.RunNow()
	}

	log.Println("[INFO] DCABench is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] DCABench stopped")
}

// storeLoader prefers the Parquet snapshot when one exists, falling back to
// the CSV export and writing the snapshot cache for next time.
func storeLoader(cfg *config.Config, trend model.TrendParams) scheduler.StoreLoader {
	return func() (*pricestore.Store, error) {
		if snap := cfg.Data.ParquetSnapshot; snap != "" {
			if _, err := os.Stat(snap); err == nil {
				store, err := pricestore.LoadSnapshot(snap, trend)
				if err == nil {
					log.Printf("[INFO] loaded %d records from snapshot %s", store.Len(), snap)
					return store, nil
				}
				log.Printf("[WARN] load snapshot %s failed, falling back to csv: %v", snap, err)
			}
		}
		store, err := pricestore.LoadCSV(cfg.Data.CSVPath, trend)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO] loaded %d records from %s (through %s)",
			store.Len(), cfg.Data.CSVPath, store.LastHistoricalDate().Format("2006-01-02"))
		if snap := cfg.Data.ParquetSnapshot; snap != "" {
			if err := store.SaveSnapshot(snap); err != nil {
				log.Printf("[WARN] write snapshot %s: %v", snap, err)
			}
		}
		return store, nil
	}
}

func runOnce(cfg *config.Config, loader scheduler.StoreLoader,
	strategies []strategy.Strategy, rec recorder.Recorder) error {
	start, end, err := cfg.Range()
	if err != nil {
		return err
	}
	store, err := loader()
	if err != nil {
		return fmt.Errorf("load price store: %w", err)
	}

	eng := engine.New(store)
	results := make([]*model.BacktestResult, 0, len(strategies))
	for _, strat := range strategies {
		res, err := eng.Run(context.Background(), strat, start, end, cfg.Backtest.MonthlyBudget)
		if err != nil {
			return fmt.Errorf("run %s: %w", strat.Name(), err)
		}
		results = append(results, res)
		if _, err := rec.RecordRun(res); err != nil {
			log.Printf("[ERROR] record run %s: %v", res.StrategyName, err)
		}
	}

	fmt.Println(report.FormatComparison(results, store.LastHistoricalDate()))
	return nil
}
