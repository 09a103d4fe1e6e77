package engine

import (
	"context"
	"log"
	"time"

	"github.com/ayuni-ai/ayuni/internal/store"
)

// decayJobKey is the settings row holding the decay job's last-run record.
const decayJobKey = "decay_job_last_run"

// ScheduleDecay runs the decay batch plus interaction cleanup if no run has
// been recorded within the debounce window. Returns false without doing any
// work when a recent run exists. The claim is a conditional update on the
// settings row, so two concurrent callers cannot both win.
func (e *Engine) ScheduleDecay(ctx context.Context) (bool, error) {
	start := time.Now()

	claimed, err := e.DB.TryClaimJobRun(decayJobKey, store.JobRunRecord{
		Timestamp: start.UnixMilli(),
	}, e.Debounce)
	if err != nil {
		return false, err
	}
	if !claimed {
		return false, nil
	}

	report, err := e.ProcessDecay(ctx)
	if err != nil {
		return true, err
	}

	cleaned, err := e.CleanupInteractions(ctx)
	if err != nil {
		log.Printf("interaction cleanup: %v", err)
	}

	rec := store.JobRunRecord{
		Timestamp:           start.UnixMilli(),
		ProcessedSessions:   report.Processed,
		CleanedInteractions: cleaned,
		ExecutionTimeMs:     time.Since(start).Milliseconds(),
	}
	if err := e.DB.UpdateJobRun(decayJobKey, rec); err != nil {
		log.Printf("record job run: %v", err)
	}

	log.Printf("decay job: %s cleaned=%d in %dms", report, cleaned, rec.ExecutionTimeMs)
	return true, nil
}
