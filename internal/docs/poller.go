// Package docs handles document submission checks and the polling of
// asynchronous analysis jobs to a terminal state.
package docs

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardwiz/cardwiz/internal/model"
)

// Default polling parameters: 72 status checks over three minutes.
const (
	DefaultBudget   = 180 * time.Second
	DefaultInterval = 2500 * time.Millisecond
)

// User-facing outcome messages.
const (
	completedMessage = "AI analysis completed. Smart features are now active for this card."
	failedMessage    = "AI analysis failed for this document."
	timedOutMessage  = "Still processing in background. Status will refresh on next visit."
)

// StatusClient queries the analysis state of a submitted document.
type StatusClient interface {
	DocumentStatus(ctx context.Context, documentID string) (model.DocumentJob, error)
}

// Result is the single outcome of one polling run.
type Result struct {
	// Status is COMPLETED, FAILED, or TIMED_OUT. TIMED_OUT leaves the
	// job's true backend state unresolved; no automatic polling resumes.
	Status model.JobStatus
	// Message is the notification text for the user.
	Message string
}

// Poller drives one document analysis job to a terminal state within a
// fixed time budget. Callers must not start a second poll for the same
// card while one is running; the upload affordance is disabled instead
// of locking here.
type Poller struct {
	client   StatusClient
	refresh  func(ctx context.Context)
	sleep    func(ctx context.Context, d time.Duration) error
	budget   time.Duration
	interval time.Duration
}

// Config wires a Poller.
type Config struct {
	Client StatusClient
	// Refresh reloads dependent state (card list, knowledge coverage).
	// Called exactly once per run, right before the outcome is returned.
	// Optional.
	Refresh func(ctx context.Context)
	// Budget and Interval default to DefaultBudget and DefaultInterval.
	Budget   time.Duration
	Interval time.Duration
	// Sleep is swapped out in tests. Optional.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewPoller creates a poller with defaults applied.
func NewPoller(cfg Config) *Poller {
	budget := cfg.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	refresh := cfg.Refresh
	if refresh == nil {
		refresh = func(context.Context) {}
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	return &Poller{
		client:   cfg.Client,
		refresh:  refresh,
		sleep:    sleep,
		budget:   budget,
		interval: interval,
	}
}

// Poll checks the job status every interval until a terminal state or the
// budget runs out. Each check is preceded by the interval delay, so the
// first check never happens immediately. Transient request failures and
// non-terminal statuses are swallowed while budget remains.
func (p *Poller) Poll(ctx context.Context, documentID string) Result {
	polls := int(p.budget / p.interval)

	for i := 0; i < polls; i++ {
		if err := p.sleep(ctx, p.interval); err != nil {
			break
		}

		job, err := p.client.DocumentStatus(ctx, documentID)
		if err != nil {
			slog.Debug("document status check failed, continuing",
				"document_id", documentID,
				"error", err)
			continue
		}

		switch job.Status {
		case model.JobCompleted:
			p.refresh(ctx)
			return Result{Status: model.JobCompleted, Message: completedMessage}
		case model.JobFailed:
			p.refresh(ctx)
			message := job.AISummary
			if message == "" {
				message = failedMessage
			}
			return Result{Status: model.JobFailed, Message: message}
		}
	}

	p.refresh(ctx)
	return Result{Status: model.JobTimedOut, Message: timedOutMessage}
}

// sleepContext waits for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
