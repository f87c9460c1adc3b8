package docs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardwiz/cardwiz/internal/model"
)

// scriptedStatus returns one scripted reply per status check and records
// how many checks were made.
type scriptedStatus struct {
	replies []func() (model.DocumentJob, error)
	checks  int
}

func (s *scriptedStatus) DocumentStatus(_ context.Context, documentID string) (model.DocumentJob, error) {
	idx := s.checks
	s.checks++
	if idx < len(s.replies) {
		return s.replies[idx]()
	}
	// Default: job is still churning.
	return model.DocumentJob{DocumentID: documentID, Status: model.JobProcessing}, nil
}

func processing() func() (model.DocumentJob, error) {
	return func() (model.DocumentJob, error) {
		return model.DocumentJob{Status: model.JobProcessing}, nil
	}
}

func terminal(status model.JobStatus, summary string) func() (model.DocumentJob, error) {
	return func() (model.DocumentJob, error) {
		return model.DocumentJob{Status: status, AISummary: summary}, nil
	}
}

func failing(err error) func() (model.DocumentJob, error) {
	return func() (model.DocumentJob, error) {
		return model.DocumentJob{}, err
	}
}

func instantSleep(context.Context, time.Duration) error { return nil }

func TestPollerStopsOnCompleted(t *testing.T) {
	client := &scriptedStatus{replies: []func() (model.DocumentJob, error){
		processing(),
		processing(),
		terminal(model.JobCompleted, ""),
	}}
	refreshed := 0
	p := NewPoller(Config{
		Client:  client,
		Refresh: func(context.Context) { refreshed++ },
		Sleep:   instantSleep,
	})

	result := p.Poll(context.Background(), "doc-1")

	assert.Equal(t, model.JobCompleted, result.Status)
	assert.Equal(t, "AI analysis completed. Smart features are now active for this card.", result.Message)
	assert.Equal(t, 3, client.checks)
	assert.Equal(t, 1, refreshed, "dependent state refreshes exactly once")
}

func TestPollerFailedUsesBackendSummary(t *testing.T) {
	client := &scriptedStatus{replies: []func() (model.DocumentJob, error){
		terminal(model.JobFailed, "Could not read page 3 of the statement."),
	}}
	p := NewPoller(Config{Client: client, Sleep: instantSleep})

	result := p.Poll(context.Background(), "doc-1")

	assert.Equal(t, model.JobFailed, result.Status)
	assert.Equal(t, "Could not read page 3 of the statement.", result.Message)
}

func TestPollerFailedWithoutSummaryFallsBack(t *testing.T) {
	client := &scriptedStatus{replies: []func() (model.DocumentJob, error){
		terminal(model.JobFailed, ""),
	}}
	p := NewPoller(Config{Client: client, Sleep: instantSleep})

	result := p.Poll(context.Background(), "doc-1")

	assert.Equal(t, "AI analysis failed for this document.", result.Message)
}

func TestPollerTimeoutIssuesExactly72Checks(t *testing.T) {
	// A job that never leaves PROCESSING within the 180s budget at 2.5s
	// intervals gets exactly 72 status checks, then one timeout warning.
	client := &scriptedStatus{}
	refreshed := 0
	p := NewPoller(Config{
		Client:  client,
		Refresh: func(context.Context) { refreshed++ },
		Sleep:   instantSleep,
	})

	result := p.Poll(context.Background(), "doc-1")

	assert.Equal(t, 72, client.checks)
	assert.Equal(t, model.JobTimedOut, result.Status)
	assert.Equal(t, "Still processing in background. Status will refresh on next visit.", result.Message)
	assert.Equal(t, 1, refreshed)
}

func TestPollerSwallowsTransientErrors(t *testing.T) {
	client := &scriptedStatus{replies: []func() (model.DocumentJob, error){
		failing(errors.New("connection reset")),
		failing(errors.New("502 bad gateway")),
		terminal(model.JobCompleted, ""),
	}}
	p := NewPoller(Config{Client: client, Sleep: instantSleep})

	result := p.Poll(context.Background(), "doc-1")

	assert.Equal(t, model.JobCompleted, result.Status)
	assert.Equal(t, 3, client.checks)
}

func TestPollerSleepsBeforeEveryCheck(t *testing.T) {
	client := &scriptedStatus{replies: []func() (model.DocumentJob, error){
		terminal(model.JobCompleted, ""),
	}}
	sleeps := 0
	p := NewPoller(Config{
		Client: client,
		Sleep: func(_ context.Context, d time.Duration) error {
			sleeps++
			assert.Equal(t, DefaultInterval, d)
			return nil
		},
	})

	p.Poll(context.Background(), "doc-1")

	require.Equal(t, 1, sleeps, "the first check waits one interval")
	assert.Equal(t, 1, client.checks)
}

func TestPollerCanceledContextEndsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := &scriptedStatus{}
	p := NewPoller(Config{Client: client})

	result := p.Poll(ctx, "doc-1")

	assert.Equal(t, model.JobTimedOut, result.Status)
	assert.Zero(t, client.checks, "no status check after cancellation")
}

func TestPollerCustomBudget(t *testing.T) {
	client := &scriptedStatus{}
	p := NewPoller(Config{
		Client:   client,
		Budget:   10 * time.Second,
		Interval: 2 * time.Second,
		Sleep:    instantSleep,
	})

	p.Poll(context.Background(), "doc-1")

	assert.Equal(t, 5, client.checks)
}
