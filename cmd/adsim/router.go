package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adflow "github.com/faizahmaddae/ad-flow"
	"github.com/faizahmaddae/ad-flow/ads"
	"github.com/faizahmaddae/ad-flow/sdk/sim"
	"github.com/faizahmaddae/ad-flow/slot"
)

// newRouter exposes the ops surface: health, metrics, engine status, and
// endpoints that poke the engine the way a host application would.
func newRouter(engine *adflow.Engine, network *sim.SDK, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			log.Debug("ops request", "method", req.Method, "path", req.URL.Path)
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		slots := make(map[string]any, len(ads.Formats()))
		for _, f := range ads.Formats() {
			ctrl := engine.Controller(f)
			snap := ctrl.Snapshot()
			slots[f.String()] = map[string]any{
				"phase":         snap.Phase.String(),
				"load_attempts": snap.LoadAttempts,
				"sdk_loads":     network.LoadCount(ctrl.UnitID()),
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"initialized":     engine.Initialized(),
			"ads_enabled":     engine.AdsEnabled(),
			"can_request_ads": engine.CanRequestAds(),
			"slots":           slots,
		})
	})

	r.Post("/ads/{format}/load", func(w http.ResponseWriter, req *http.Request) {
		f := ads.Format(chi.URLParam(req, "format"))
		if !f.Valid() {
			writeError(w, http.StatusNotFound, "unknown format")
			return
		}
		opts := []slot.LoadOption{slot.WithWait()}
		if key := req.URL.Query().Get("key"); key != "" {
			opts = append(opts, slot.WithFormatKey(key))
		}
		if err := engine.Controller(f).Load(req.Context(), opts...); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"phase": engine.Controller(f).Phase().String(),
		})
	})

	r.Post("/ads/{format}/show", func(w http.ResponseWriter, req *http.Request) {
		f := ads.Format(chi.URLParam(req, "format"))
		if !f.Valid() {
			writeError(w, http.StatusNotFound, "unknown format")
			return
		}
		var opts []slot.ShowOption
		if req.URL.Query().Get("ignore_cooldown") == "true" {
			opts = append(opts, slot.IgnoreCooldown())
		}
		res, err := engine.Controller(f).Show(req.Context(), opts...)
		if err != nil {
			status := http.StatusBadGateway
			switch {
			case errors.Is(err, slot.ErrNotReady):
				status = http.StatusConflict
			case errors.Is(err, slot.ErrCooldownActive):
				status = http.StatusTooManyRequests
			case errors.Is(err, slot.ErrAdsDisabled):
				status = http.StatusForbidden
			}
			writeError(w, status, err.Error())
			return
		}
		body := map[string]any{"outcome": string(res.Outcome)}
		if res.Reward != nil {
			body["reward"] = res.Reward
		}
		writeJSON(w, http.StatusOK, body)
	})

	r.Post("/gate/enable", func(w http.ResponseWriter, req *http.Request) {
		if err := engine.EnableAds(req.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ads_enabled": true})
	})
	r.Post("/gate/disable", func(w http.ResponseWriter, req *http.Request) {
		if err := engine.DisableAds(req.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"ads_enabled": false})
	})

	r.Post("/privacy-options", func(w http.ResponseWriter, req *http.Request) {
		if err := engine.ShowPrivacyOptions(req.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{
			"privacy_options_required": engine.PrivacyOptionsRequired(),
		})
	})

	r.Post("/lifecycle/foreground", func(w http.ResponseWriter, _ *http.Request) {
		engine.Notifier().Foreground()
		writeJSON(w, http.StatusAccepted, map[string]string{"lifecycle": "foreground"})
	})
	r.Post("/lifecycle/background", func(w http.ResponseWriter, _ *http.Request) {
		engine.Notifier().Background()
		writeJSON(w, http.StatusAccepted, map[string]string{"lifecycle": "background"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
