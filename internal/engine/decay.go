package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/ayuni-ai/ayuni/internal/emotion"
)

// ProcessDecay applies emotional decay to every eligible active session.
//
// Decay is computed from the session's baseline state (the snapshot taken
// at the last user message), not from the already-decayed current state, so
// re-running immediately recomputes the same target and writes nothing: the
// batch is idempotent while no new activity arrives.
//
// A failure listing the sessions aborts the call. Per-session write
// failures are recorded in the report and the batch continues; sessions are
// independent.
func (e *Engine) ProcessDecay(ctx context.Context) (*BatchReport, error) {
	if !e.decayMu.TryLock() {
		return nil, ErrBusy
	}
	defer e.decayMu.Unlock()

	rows, err := e.DB.ListActiveSessionStates()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	now := time.Now()
	report := &BatchReport{}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		hours := now.Sub(time.UnixMilli(row.LastMessageAt)).Hours()
		if hours < emotion.MinInactiveHours {
			report.Skipped++
			continue
		}

		result := emotion.ComputeDecay(row.Baseline, hours, row.RelationshipDepth)
		moved := result.State.DiffCount(row.Current, emotion.ChangeEpsilon)
		if moved == 0 {
			report.Skipped++
			continue
		}

		if err := e.DB.UpdateEmotionalState(row.SessionID, result.State); err != nil {
			report.Fail(fmt.Sprintf("session %d", row.SessionID), err)
			continue
		}
		// Hours are rounded to one decimal in the event row for display;
		// the policy engine saw the unrounded value.
		if err := e.DB.AddDecayEvent(row.SessionID, math.Round(hours*10)/10, moved); err != nil {
			report.Fail(fmt.Sprintf("session %d", row.SessionID), err)
			continue
		}
		report.Processed++

		if result.TriggersProactive && e.Sender != nil {
			// Fire-and-forget: a failed proactive message never fails the batch.
			if err := e.Sender.SendProactive(ctx, row.SessionID, hours, result.State); err != nil {
				log.Printf("proactive message for session %d: %v", row.SessionID, err)
			}
		}
	}

	return report, nil
}
