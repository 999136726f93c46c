// Package simconfig loads the adsim binary's configuration from a YAML file
// and ADSIM_-prefixed environment variables.
package simconfig

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/faizahmaddae/ad-flow/ads"
)

// Config drives one adsim run.
type Config struct {
	// Addr is the ops HTTP listen address.
	Addr string `mapstructure:"addr"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// StoreBackend selects the gate store: memory, badger, or redis.
	StoreBackend string `mapstructure:"store_backend"`
	// BadgerPath is the on-disk location for the badger backend.
	BadgerPath string `mapstructure:"badger_path"`
	// RedisAddr is the server address for the redis backend.
	RedisAddr string `mapstructure:"redis_addr"`

	// Platform selects the unit-ID variant (android or ios).
	Platform string `mapstructure:"platform"`
	// PreloadFormats are loaded eagerly during initialization.
	PreloadFormats []string `mapstructure:"preload_formats"`
	// ShowAppOpenOnColdStart shows the app-open ad right after init.
	ShowAppOpenOnColdStart bool `mapstructure:"show_app_open_on_cold_start"`

	// RetryDelay is the base of the slot retry backoff.
	RetryDelay time.Duration `mapstructure:"retry_delay"`
	// InterstitialMinInterval is the interstitial cooldown.
	InterstitialMinInterval time.Duration `mapstructure:"interstitial_min_interval"`
	// AppOpenMaxCacheAge is the app-open cache expiry.
	AppOpenMaxCacheAge time.Duration `mapstructure:"app_open_max_cache_age"`
	// ReactorMaxShows caps automatic app-open shows per session.
	ReactorMaxShows int `mapstructure:"reactor_max_shows"`
	// ReactorMinGap is the gap between automatic app-open shows.
	ReactorMinGap time.Duration `mapstructure:"reactor_min_gap"`

	// SimFailFirst makes the simulated network fail the first N loads of
	// every format, exercising the retry ladder.
	SimFailFirst int `mapstructure:"sim_fail_first"`
	// SimLatency delays each simulated load.
	SimLatency time.Duration `mapstructure:"sim_latency"`
	// ConsentFormRequired scripts the simulated jurisdiction to require the
	// consent form.
	ConsentFormRequired bool `mapstructure:"consent_form_required"`

	// ScenarioInterval drives the synthetic background/foreground cycle;
	// zero disables it.
	ScenarioInterval time.Duration `mapstructure:"scenario_interval"`
}

// Load reads configuration from the optional file at path plus the
// environment, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("store_backend", "memory")
	v.SetDefault("badger_path", "./adsim-data")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("platform", string(ads.PlatformAndroid))
	v.SetDefault("preload_formats", []string{
		string(ads.FormatBanner),
		string(ads.FormatInterstitial),
		string(ads.FormatAppOpen),
	})
	v.SetDefault("show_app_open_on_cold_start", false)
	v.SetDefault("reactor_max_shows", 3)
	v.SetDefault("scenario_interval", time.Duration(0))

	v.SetEnvPrefix("ADSIM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreBackend {
	case "memory", "badger", "redis":
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if !ads.Platform(c.Platform).Valid() {
		return fmt.Errorf("unknown platform %q", c.Platform)
	}
	for _, f := range c.PreloadFormats {
		if !ads.Format(f).Valid() {
			return fmt.Errorf("unknown preload format %q", f)
		}
	}
	return nil
}
