package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"arxiv-alert/internal/feed"
	"arxiv-alert/internal/history"
	"arxiv-alert/internal/notifier"
	"arxiv-alert/internal/search"
)

// Mode selects how a run treats matching and notification.
type Mode int

const (
	// ModeNotify is the normal fetch -> match -> notify -> persist cycle.
	ModeNotify Mode = iota
	// ModeDryRun matches and reports but never notifies or touches history.
	ModeDryRun
	// ModeListOnly reports every fetched paper without matching or dedup.
	ModeListOnly
)

// ErrPersist marks a history save failure after a successful notification.
// The email is already out, so callers should report this as a warning
// rather than retry the whole run.
var ErrPersist = errors.New("history persist failed")

// Result summarizes one pipeline run.
type Result struct {
	Fetched         int
	Matched         int
	AlreadyNotified int
	Notified        int
}

// Runner orchestrates one fetch -> match -> notify -> persist cycle. All
// state, including the history file path, is passed in explicitly; a Runner
// owns its history file for the duration of a run.
type Runner struct {
	categories  []string
	maxResults  int
	policy      search.Policy
	historyPath string
	fetcher     feed.Fetcher
	notifier    notifier.Notifier
	log         zerolog.Logger
}

func New(categories []string, maxResults int, policy search.Policy, historyPath string, f feed.Fetcher, n notifier.Notifier, log zerolog.Logger) *Runner {
	return &Runner{
		categories:  categories,
		maxResults:  maxResults,
		policy:      policy,
		historyPath: historyPath,
		fetcher:     f,
		notifier:    n,
		log:         log,
	}
}

// Run executes the pipeline once. Papers are processed in feed order and the
// notified batch preserves that order. Errors are terminal for the run;
// retrying is the job of whatever schedules the next invocation.
func (r *Runner) Run(ctx context.Context, mode Mode) (Result, error) {
	var res Result

	hist, err := history.Load(r.historyPath)
	if err != nil {
		return res, fmt.Errorf("runner: load history: %w", err)
	}
	r.log.Info().Int("known", hist.Len()).Str("file", r.historyPath).Msg("loaded notification history")

	papers, err := r.fetcher.Fetch(ctx, r.categories, r.maxResults)
	if err != nil {
		return res, fmt.Errorf("runner: fetch failed: %w", err)
	}
	res.Fetched = len(papers)
	r.log.Info().Int("fetched", res.Fetched).Strs("categories", r.categories).Msg("fetched papers")

	if mode == ModeListOnly {
		for i, p := range papers {
			r.log.Info().Int("n", i+1).Str("id", p.ID).Str("title", p.Title).Msg("fetched paper")
		}
		return res, nil
	}

	var toNotify []feed.Paper
	for _, p := range papers {
		if !search.Matches(p, r.policy) {
			continue
		}
		res.Matched++
		if hist.Contains(p.ID) {
			res.AlreadyNotified++
			r.log.Debug().Str("id", p.ID).Msg("match already notified, skipping")
			continue
		}
		toNotify = append(toNotify, p)
	}
	r.log.Info().
		Int("matched", res.Matched).
		Int("already_notified", res.AlreadyNotified).
		Int("new", len(toNotify)).
		Msg("matched papers against keyword policy")

	if mode == ModeDryRun {
		for i, p := range toNotify {
			r.log.Info().Int("n", i+1).Str("id", p.ID).Str("title", p.Title).Msg("would notify")
		}
		return res, nil
	}

	if len(toNotify) > 0 {
		if err := r.notifier.Notify(ctx, toNotify); err != nil {
			// History is not advanced, so the next run retries these papers.
			return res, fmt.Errorf("runner: notify failed: %w", err)
		}
		res.Notified = len(toNotify)
		for _, p := range toNotify {
			hist.Record(p.ID)
		}
	}

	if err := hist.Save(r.historyPath); err != nil {
		// The notification already went out; this cannot be rolled back.
		return res, fmt.Errorf("runner: %w: %v", ErrPersist, err)
	}

	return res, nil
}
