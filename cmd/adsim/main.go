// Command adsim runs the ad lifecycle engine against the in-process
// simulated SDKs and exposes a small ops surface for poking at it: load and
// show endpoints per format, gate switches, lifecycle signals, and
// Prometheus metrics. It is a demonstration harness, not a production
// server; the engine itself is embedded by mobile-backend hosts as a
// library.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"

	adflow "github.com/faizahmaddae/ad-flow"
	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/consent"
	consentmetrics "github.com/faizahmaddae/ad-flow/consent/metrics"
	"github.com/faizahmaddae/ad-flow/gate/store"
	"github.com/faizahmaddae/ad-flow/internal/platform/logger"
	"github.com/faizahmaddae/ad-flow/internal/simconfig"
	"github.com/faizahmaddae/ad-flow/pkg/flowerr"
	"github.com/faizahmaddae/ad-flow/sdk"
	"github.com/faizahmaddae/ad-flow/sdk/sim"
	slotmetrics "github.com/faizahmaddae/ad-flow/slot/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := simconfig.Load(*configPath)
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := logger.NewWithLevel(parseLevel(cfg.LogLevel))

	st, err := openStore(cfg)
	if err != nil {
		log.Error("store error", "error", err)
		os.Exit(1)
	}

	simOpts := make([]sim.Option, 0, len(ads.Formats()))
	for _, f := range ads.Formats() {
		script := sim.Script{FailFirst: cfg.SimFailFirst, Latency: cfg.SimLatency}
		if f == ads.FormatRewarded {
			script.Reward = &sdk.Reward{Kind: "coins", Amount: 25}
		}
		simOpts = append(simOpts, sim.WithScript(f, script))
	}
	network := sim.New(simOpts...)

	consentOpts := []sim.ConsentOption{}
	if cfg.ConsentFormRequired {
		consentOpts = append(consentOpts, sim.WithFormRequired())
	}
	consentSDK := sim.NewConsentPlatform(consentOpts...)

	engineCfg := adflow.Config{
		Platform:                  ads.Platform(cfg.Platform),
		Units:                     ads.TestUnits(),
		RetryDelay:                cfg.RetryDelay,
		InterstitialMinInterval:   cfg.InterstitialMinInterval,
		AppOpenMaxCacheAge:        cfg.AppOpenMaxCacheAge,
		PreloadFormats:            formats(cfg.PreloadFormats),
		ShowAppOpenOnColdStart:    cfg.ShowAppOpenOnColdStart,
		ReactorMaxShowsPerSession: cfg.ReactorMaxShows,
		ReactorMinGap:             cfg.ReactorMinGap,
	}
	engineOpts := []adflow.Option{
		adflow.WithLogger(log),
		adflow.WithSlotMetrics(slotmetrics.New()),
		adflow.WithConsentMetrics(consentmetrics.New()),
	}
	if ads.Platform(cfg.Platform) == ads.PlatformIOS {
		engineOpts = append(engineOpts,
			adflow.WithTrackingAuthority(sim.NewTrackingAuthority(consent.TrackingGranted)))
	}

	engine, err := adflow.New(engineCfg, network, consentSDK, st, engineOpts...)
	if err != nil {
		log.Error("engine construction failed", "error", err)
		os.Exit(1)
	}

	engine.Reporter().Subscribe(func(e *flowerr.Error) {
		log.Warn("reported failure", "category", string(e.Category), "unit", e.Unit, "error", e.Error())
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := engine.Initialize(ctx); err != nil {
		log.Warn("initialization completed with error", "error", err)
	}
	log.Info("engine initialized",
		"ads_enabled", engine.AdsEnabled(),
		"can_request_ads", engine.CanRequestAds(),
	)

	if cfg.ScenarioInterval > 0 {
		go runScenario(ctx, engine, cfg.ScenarioInterval, log)
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: newRouter(engine, network, log)}
	go func() {
		log.Info("ops server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if err := engine.Close(); err != nil {
		log.Error("engine close failed", "error", err)
	}
	log.Info("stopped")
}

// runScenario cycles the app through background and foreground so the
// reactor's automatic app-open shows can be observed.
func runScenario(ctx context.Context, engine *adflow.Engine, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	background := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if background {
				engine.Notifier().Background()
			} else {
				engine.Notifier().Foreground()
			}
			log.Debug("scenario tick", "background", background)
			background = !background
		}
	}
}

func openStore(cfg *simconfig.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "badger":
		return store.NewBadger(cfg.BadgerPath)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedis(client, store.WithKeyPrefix("adsim")), nil
	default:
		return store.NewMemory(), nil
	}
}

func formats(names []string) []ads.Format {
	out := make([]ads.Format, 0, len(names))
	for _, n := range names {
		out = append(out, ads.Format(n))
	}
	return out
}

func parseLevel(name string) slog.Level {
	switch name {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
