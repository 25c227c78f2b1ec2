package app

import (
	"fmt"
	"os"
	"time"

	"github.com/blackwell-systems/teamlens/internal/config"
	"github.com/blackwell-systems/teamlens/internal/engine"
	"github.com/blackwell-systems/teamlens/internal/insight"
	"github.com/blackwell-systems/teamlens/internal/logstore"
	"github.com/blackwell-systems/teamlens/internal/output"
	"github.com/blackwell-systems/teamlens/internal/profile"
)

// loadConfig reads configuration and applies global output flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if !cfg.Output.Color {
		output.SetNoColor(true)
	}
	return cfg, nil
}

// newEngine wires a query engine from configuration. Every command goes
// through here so the load, profile, and insight layers are assembled the
// same way everywhere.
func newEngine(cfg *config.Config) *engine.Engine {
	src := logstore.NewDirSource(cfg.LogDir, nil)
	loader := logstore.NewLoader(src, time.Duration(cfg.FetchTimeoutSec)*time.Second)
	profiles := profile.NewStore(cfg.LogDir, nil)

	gen := insight.NewGeminiGenerator(
		cfg.Gemini.APIKey,
		cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSec)*time.Second,
	)

	var logf func(format string, args ...any)
	if flagVerbose {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	return engine.New(engine.Options{
		Loader:     loader,
		Profiles:   profiles,
		Generator:  gen,
		TeamCache:  insight.NewCache(cfg.TeamCachePath(), nil),
		UserCache:  insight.NewCache(cfg.UserCachePath(), nil),
		InsightTTL: time.Duration(cfg.Insights.TTLSec) * time.Second,
		MaxCards:   cfg.Insights.MaxCards,
		Logf:       logf,
	})
}
