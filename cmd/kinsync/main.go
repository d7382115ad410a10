package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hrygo/kinsync/internal/observability"
	"github.com/hrygo/kinsync/internal/profile"
	"github.com/hrygo/kinsync/plugin/ai/aitime"
	"github.com/hrygo/kinsync/server/service/schedule"
	"github.com/hrygo/kinsync/store"
	"github.com/hrygo/kinsync/store/db"
)

var (
	configPath string
	actor      string

	rootCmd = &cobra.Command{
		Use:          "kinsync",
		Short:        "Family scheduling engine: time resolution, availability and appointment reconciliation.",
		SilenceUsage: true,
	}
)

// app bundles the collaborators built from the profile.
type app struct {
	profile  *profile.Profile
	store    *store.Store
	resolver *aitime.Resolver
	schedule schedule.Service
	metrics  *observability.Metrics
	logger   *slog.Logger
	out      io.Writer
}

func newApp(ctx context.Context) (*app, error) {
	p, err := profile.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	driver, err := db.NewDBDriver(p)
	if err != nil {
		return nil, err
	}
	if err := driver.Migrate(ctx); err != nil {
		driver.Close()
		return nil, err
	}
	st := store.New(driver, p)

	var external aitime.ExternalResolver
	if p.IsAIConfigured() {
		external = aitime.NewOpenAIResolver(aitime.NewOpenAIConfigFromProfile(p))
	}
	resolver := aitime.NewResolver(aitime.NewConfigFromProfile(p), external)

	metrics := observability.NewMetrics()
	svc, err := schedule.NewService(st, resolver, schedule.Config{
		BaseURL:         p.AppBaseURL,
		DefaultTimezone: p.DefaultTimezone,
		Logger:          logger,
		Metrics:         metrics,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{
		profile:  p,
		store:    st,
		resolver: resolver,
		schedule: svc,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// logMetrics reports the service counters collected during one command.
func (a *app) logMetrics() {
	snap := a.metrics.Snapshot()
	if snap.RequestTotal == 0 {
		return
	}
	a.logger.Debug("schedule metrics",
		"requests", snap.RequestTotal,
		"failed", snap.RequestFailed,
		"success_rate", snap.SuccessRate(),
		"conflicts", snap.Conflicts,
		"notifications", snap.Notifications)
	for _, name := range snap.OperationNames() {
		op := snap.Operations[name]
		a.logger.Debug("schedule operation",
			"op", name,
			"count", op.ExecutionCount,
			"errors", op.ErrorCount,
			"avg_ms", op.AverageDuration)
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
}

// withApp builds the app for a command and tears it down afterwards.
func withApp(run func(ctx context.Context, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		defer a.logMetrics()
		a.out = cmd.OutOrStdout()

		rc := observability.NewRequestContext(a.logger, "", actor)
		return run(observability.WithRequestContext(ctx, rc), a, args)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "email of the acting member")

	rootCmd.AddCommand(
		newResolveCmd(),
		newGroupCmd(),
		newAppointmentCmd(),
		newAvailabilityCmd(),
		newStatusCmd(),
		newICSCmd(),
		newFeedCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
