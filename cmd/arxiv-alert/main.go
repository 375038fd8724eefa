package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"arxiv-alert/internal/config"
	"arxiv-alert/internal/feed"
	"arxiv-alert/internal/history"
	"arxiv-alert/internal/logging"
	"arxiv-alert/internal/notifier"
	"arxiv-alert/internal/runner"
	"arxiv-alert/internal/search"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dryRun := flag.Bool("dry-run", false, "match and report without notifying or updating history")
	listPapers := flag.Bool("list-papers", false, "list every fetched paper without matching")
	once := flag.Bool("once", false, "run a single cycle even if a schedule is configured")
	flag.Parse()

	// .env values feed the ${VAR} placeholders in the config file. A missing
	// .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	log.Info().Str("config", *configPath).Msg("starting arxiv-alert")

	mode := runner.ModeNotify
	switch {
	case *listPapers:
		mode = runner.ModeListOnly
	case *dryRun:
		mode = runner.ModeDryRun
	}

	policy := search.Policy{
		Groups:         cfg.Search.KeywordGroups,
		SearchTitle:    cfg.Search.TitleEnabled(),
		SearchAbstract: cfg.Search.AbstractEnabled(),
	}

	var n notifier.Notifier
	switch cfg.Notifier.Type {
	case "stdout":
		n = notifier.NewStdoutNotifier()
	case "email":
		e := cfg.Notifier.Email
		n = notifier.NewEmailNotifier(e.SMTPHost, e.SMTPPort, e.Username, e.Password, e.From, e.To, policy.String())
	default:
		log.Fatal().Str("type", cfg.Notifier.Type).Msg("unknown notifier type")
	}

	r := runner.New(cfg.Arxiv.Categories, cfg.Arxiv.MaxResults, policy, cfg.History.File,
		feed.NewArxivFetcher(), n, log)

	runCycle := func(ctx context.Context) error {
		if cfg.WeekdaysOnly && mode == runner.ModeNotify && !isWeekday(time.Now()) {
			log.Info().Msg("not a weekday, skipping run")
			return nil
		}
		res, err := r.Run(ctx, mode)
		if err != nil {
			return err
		}
		log.Info().
			Int("fetched", res.Fetched).
			Int("matched", res.Matched).
			Int("already_notified", res.AlreadyNotified).
			Int("notified", res.Notified).
			Msg("run complete")
		return nil
	}

	// Batch invocation is the default: one cycle, then exit. Diagnostic modes
	// always run once.
	if *once || cfg.Schedule == "" || mode != runner.ModeNotify {
		os.Exit(reportRun(log, runCycle(context.Background())))
	}

	// Scheduled daemon mode.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunOnStart {
		log.Info().Msg("running initial cycle")
		reportRun(log, runCycle(ctx))
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Schedule, func() {
		log.Info().Str("schedule", cfg.Schedule).Msg("cron triggered")
		reportRun(log, runCycle(ctx))
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.Schedule).Msg("failed to set up cron schedule")
	}
	c.Start()
	log.Info().Str("schedule", cfg.Schedule).Msg("scheduled alert runs")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	cancel()
	c.Stop()
}

// reportRun logs the outcome of a cycle and maps it to an exit code. A
// persist failure after a sent notification is a warning, not a retryable
// failure: re-running would duplicate the email.
func reportRun(log zerolog.Logger, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, runner.ErrPersist):
		log.Warn().Err(err).Msg("notification sent but history was not persisted")
		return 0
	case errors.Is(err, history.ErrCorrupt):
		log.Error().Err(err).Msg("history file is corrupt; refusing to run with empty history")
		return 1
	default:
		log.Error().Err(err).Msg("run failed")
		return 1
	}
}

func isWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
