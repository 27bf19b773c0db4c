package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/openquest/gm-api/internal/errors"
	"github.com/openquest/gm-api/internal/pkg/clock"
	"github.com/openquest/gm-api/internal/repositories/action"
)

const (
	defaultReapTimeout  = 2 * time.Minute
	defaultReapInterval = 30 * time.Second
)

// ReaperConfig holds the configuration for the stale-action reaper
type ReaperConfig struct {
	ActionRepository action.Repository
	Clock            clock.Clock
	Logger           *slog.Logger

	// Timeout is how long a record may sit unresolved before it is
	// failed. Zero means the default.
	Timeout time.Duration

	// Interval is the sweep period. Zero means the default.
	Interval time.Duration
}

// Validate ensures all required dependencies are provided
func (c *ReaperConfig) Validate() error {
	if c.ActionRepository == nil {
		return errors.InvalidArgument("action repository is required")
	}
	return nil
}

// Reaper fails action records stuck in PENDING or PROCESSING longer
// than the timeout, typically because the process crashed mid-action.
// Failing them keeps the unresolved set bounded and makes the outcome
// observable instead of leaving records in limbo forever.
type Reaper struct {
	actions  action.Repository
	clock    clock.Clock
	log      *slog.Logger
	timeout  time.Duration
	interval time.Duration
}

// NewReaper creates a new stale-action reaper
func NewReaper(cfg *ReaperConfig) (*Reaper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultReapTimeout
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultReapInterval
	}

	return &Reaper{
		actions:  cfg.ActionRepository,
		clock:    c,
		log:      log,
		timeout:  timeout,
		interval: interval,
	}, nil
}

// Run sweeps periodically until the context is cancelled.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.log.ErrorContext(ctx, "reaper sweep failed", "error", err)
			}
		}
	}
}

// Sweep fails every unresolved record older than the timeout. A record
// that resolves between listing and failing is skipped, not an error.
func (r *Reaper) Sweep(ctx context.Context) error {
	out, err := r.actions.ListUnresolved(ctx, action.ListUnresolvedInput{})
	if err != nil {
		return errors.Wrap(err, "failed to list unresolved actions")
	}

	now := r.clock.Now()
	for _, record := range out.Records {
		age := now.Sub(record.UpdatedAt)
		if age < r.timeout {
			continue
		}

		_, err := r.actions.Fail(ctx, action.FailInput{
			ID:     record.ID,
			Reason: "timed out: unresolved for " + age.Truncate(time.Second).String() + " in status " + string(record.Status),
		})
		if err != nil {
			if errors.IsFailedPrecondition(err) || errors.IsAborted(err) || errors.IsNotFound(err) {
				continue
			}
			return errors.Wrapf(err, "failed to reap action %s", record.ID)
		}

		r.log.WarnContext(ctx, "reaped stale action",
			"action_id", record.ID,
			"status", string(record.Status),
			"age", age.String())
	}

	return nil
}
