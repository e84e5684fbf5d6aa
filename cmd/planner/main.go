package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"TradePlanner/internal/auth"
	"TradePlanner/internal/collector"
	"TradePlanner/internal/config"
	"TradePlanner/internal/notifier"
	"TradePlanner/internal/recorder"
	"TradePlanner/internal/runner"
	"TradePlanner/internal/scheduler"
	"TradePlanner/internal/watchlist"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := flag.String("config", "configs/config.yaml", "path to the yaml config")
	once := flag.Bool("once", false, "run a single refresh and exit even when a schedule is configured")
	dryRun := flag.Bool("dry-run", false, "use the mock fetcher instead of the live API")
	table := flag.Bool("table", false, "print the full strategy book as a table")
	flag.Parse()

	log.Println("[INFO] TradePlanner starting...")

	// Optional .env for local runs
	_ = godotenv.Load()

	// Load config
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Load watchlist
	symbols, err := watchlist.Load(cfg.Watchlist)
	if err != nil {
		log.Fatalf("[FATAL] load watchlist: %v", err)
	}
	log.Printf("[INFO] watchlist: %d symbols from %s", len(symbols), cfg.Watchlist)

	// Init fetcher
	var fetcher collector.Fetcher
	if *dryRun {
		fetcher = &collector.MockFetcher{Price: 100}
	} else {
		creds, err := auth.CredentialsFromEnv()
		if err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
		authc := auth.NewClient(cfg.DataSource.BaseURL, creds)
		session, err := authc.Login()
		if err != nil {
			log.Fatalf("[FATAL] login: %v", err)
		}
		log.Printf("[INFO] session established for %s", session.ClientCode)

		limiter := rate.NewLimiter(rate.Every(cfg.PaceInterval()), 1)
		fetcher = collector.NewAngelFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Exchange, authc, session, limiter)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Warm the token cache
	cache := collector.NewTokenCache()
	if err := cache.LoadFile(cfg.DataSource.TokenCache); err != nil {
		log.Printf("[WARN] load token cache: %v", err)
	} else if cache.Len() > 0 {
		log.Printf("[INFO] token cache warmed: %d entries", cache.Len())
	}

	col := collector.NewCollector(fetcher, cache, cfg.DataSource.LookbackDays)

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

	// Init notifiers
	notifiers := []notifier.Notifier{notifier.NewConsoleNotifier(*table)}
	if cfg.Telegram.BotToken != "" {
		notifiers = append(notifiers, notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy))
	}

	r := runner.New(col, cfg.RestrictedSet(), rec, cfg.Output)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, r, symbols, notifiers, cfg.DataSource.TokenCache)

	// One-shot mode: no schedule configured, or forced with -once.
	if *once || cfg.Schedule.RefreshCron == "" {
		if _, err := sched.RunNow(); err != nil {
			log.Fatalf("[FATAL] refresh: %v", err)
		}
		return
	}

	// Daemon mode
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatalf("[FATAL] register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] initial refresh: %v", err)
			}
		}()
	}

	log.Printf("[INFO] TradePlanner is running on schedule %q. Press Ctrl+C to stop.", cfg.Schedule.RefreshCron)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TradePlanner stopped")
}
