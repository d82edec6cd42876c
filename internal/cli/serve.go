package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/colorguess/internal/catalog"
	"github.com/robalobadob/colorguess/internal/httpserver"
	"github.com/robalobadob/colorguess/internal/metrics"
	"github.com/robalobadob/colorguess/internal/service"
	"github.com/robalobadob/colorguess/internal/store"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API on PORT.

Sessions live in memory only. Idle sessions are evicted after SESSION_TTL,
checked every SWEEP_EVERY. SIGINT or SIGTERM drains in-flight requests and
exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	cat, err := a.loadCatalog()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewPrometheus(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	svc := service.New(store.NewMemoryStore(), cat, service.Options{
		Policy:  policy,
		Cap:     cfg.QuestionCap,
		Metrics: rec,
	})
	go svc.Reap(ctx, cfg.SweepEvery, cfg.SessionTTL)

	srv := httpserver.New(svc, cat, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     cfg.SessionTTL,
		ShuffleSalt:    cfg.ShuffleSalt,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		Gatherer:       reg,
	})
	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("policy", policy.String()).
			Interface("tiers", statsByName(cat)).Msg("starting colorguess server")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func statsByName(c *catalog.Catalog) map[string]int {
	out := make(map[string]int)
	for t, n := range c.Stats() {
		out[string(t)] = n
	}
	return out
}
