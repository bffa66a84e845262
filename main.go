package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"fashion-insider/internal/api"
	"fashion-insider/internal/catalog"
	"fashion-insider/internal/chat"
	"fashion-insider/internal/config"
	"fashion-insider/internal/db"
	"fashion-insider/internal/logger"
	"fashion-insider/internal/market"
	"fashion-insider/internal/remote"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "YAML config file (optional)")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Config", err.Error())
		os.Exit(1)
	}
	cfg.Version = version
	if *port > 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFormat, cfg.LogOutput, cfg.LogMaxAgeDays); err != nil {
		logger.Error("Config", fmt.Sprintf("Logger setup failed: %v", err))
		os.Exit(1)
	}

	logger.Banner(version)

	// Open SQLite database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("DB", fmt.Sprintf("Failed to open database: %v", err))
		os.Exit(1)
	}
	defer database.Close()

	normalizer := catalog.Normalizer{HistoryDays: cfg.HistoryDays}
	m := market.New(database.Scalars(cfg.UserID), database, nil, market.Options{
		UserID:          cfg.UserID,
		DefaultBalance:  cfg.DefaultBalance,
		TradeFeePct:     cfg.TradeFeePct,
		TradeFeeMinCR:   cfg.TradeFeeMinCR,
		AcceptFeeCR:     cfg.AcceptFeeCR,
		BuyFeePct:       cfg.BuyFeePct,
		BuyFeePctPro:    cfg.BuyFeePctPro,
		ProBonusCR:      cfg.ProBonusCR,
		DefaultCurrency: cfg.DefaultCurrency,
		StepInterval:    cfg.TradeStepInterval,
		Normalizer:      normalizer,
	})
	defer m.Close()
	m.Resume()

	rc := remote.NewClient(cfg.RemoteURL, cfg.RemoteKey, cfg.RemoteTimeout, cfg.RemoteRatePerSec)

	itemCache := database.ItemCache()
	searcher := catalog.NewSearcher(nil, normalizer)
	searcher.Cache = itemCache
	searcher.Latency = cfg.RemoteLatency

	var chatRemote chat.Remote
	if cfg.RemoteEnabled() {
		searcher.Fetcher = rc
		chatRemote = rc
		logger.Success("Remote", cfg.RemoteURL)
	} else {
		logger.Warn("Remote", "No hosted database configured, running offline")
	}
	chatSvc := chat.NewService(database, chatRemote)

	logger.Section("Settings")
	logger.Stats("User", cfg.UserID)
	logger.Stats("Balance", m.Balance())
	logger.Stats("Plan", m.Plan())
	logger.Stats("Chat channel", cfg.ChatChannel)
	if age, ok := itemCache.CacheAge(); ok {
		logger.Stats("Item cache age", age.Round(time.Second))
	}

	srv := api.NewServer(cfg, m, searcher, chatSvc, rc)
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Server(addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if cfg.RemoteEnabled() {
		m.MirrorWallet(gctx, rc, cfg.UserID)

		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(gctx, cfg.RemoteTimeout)
			defer cancel()
			bal, ok, err := rc.FetchWalletBalance(fetchCtx, cfg.UserID)
			switch {
			case err != nil:
				logger.Warn("Remote", fmt.Sprintf("Wallet lookup failed: %v", err))
			case ok && bal != m.Balance():
				logger.Info("Remote", fmt.Sprintf("Hosted wallet shows %d CR, local ledger %d CR", bal, m.Balance()))
			}
			return nil
		})

		if cfg.ChatRealtime {
			if rt := rc.Realtime(); rt != nil {
				g.Go(func() error {
					return rt.Listen(gctx, cfg.ChatChannel, chatSvc.Receive)
				})
			}
		}
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server", fmt.Sprintf("Failed: %v", err))
		os.Exit(1)
	}
	logger.Info("Server", "Stopped")
}
