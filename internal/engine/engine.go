// Package engine orchestrates ayuni's batch pipelines: emotional decay for
// inactive chat sessions and simulated social life for companions.
package engine

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/ayuni-ai/ayuni/internal/llm"
	"github.com/ayuni-ai/ayuni/internal/store"
)

// ErrBusy is returned when a batch run is already in flight for the same
// job type. Overlapping runs would double-apply decay, so they are refused
// rather than queued.
var ErrBusy = errors.New("batch already running")

// Engine runs the decay and social batch pipelines.
type Engine struct {
	DB     *store.DB
	LLM    llm.Client
	Sender ProactiveSender

	// SocialChance is the per-companion probability of generating an
	// interaction on each social batch run.
	SocialChance float64
	// RetentionDays is the interaction cleanup window.
	RetentionDays int
	// Debounce is the minimum interval between scheduled decay jobs.
	Debounce time.Duration

	// rngMu guards rng: ProcessAEI is reachable both from the batch and
	// from concurrent single-AEI admin requests.
	rngMu sync.Mutex
	rng   *rand.Rand

	decayMu  sync.Mutex
	socialMu sync.Mutex
	stopCh   chan struct{}
}

// New creates an Engine with default cadence settings.
func New(db *store.DB, client llm.Client) *Engine {
	e := &Engine{
		DB:            db,
		LLM:           client,
		SocialChance:  0.25,
		RetentionDays: 30,
		Debounce:      time.Hour,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		stopCh:        make(chan struct{}),
	}
	e.Sender = &LLMProactiveSender{DB: db, LLM: client}
	return e
}

// SetRand replaces the RNG used for the social cadence gate. Tests use a
// seeded source for deterministic runs.
func (e *Engine) SetRand(r *rand.Rand) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	e.rng = r
}

func (e *Engine) roll() float64 {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64()
}

func (e *Engine) pick(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Intn(n)
}

// StartDecayTimer schedules decay processing on startup and then every
// interval. The schedule debounce still applies, so a restart shortly after
// a run does not double-process.
func (e *Engine) StartDecayTimer(interval time.Duration) {
	if ran, err := e.ScheduleDecay(context.Background()); err != nil {
		log.Printf("decay schedule error: %v", err)
	} else if ran {
		log.Printf("decay: scheduled run completed")
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if ran, err := e.ScheduleDecay(context.Background()); err != nil {
					log.Printf("decay schedule error: %v", err)
				} else if ran {
					log.Printf("decay: scheduled run completed")
				}
			case <-e.stopCh:
				return
			}
		}
	}()
}

// Stop shuts down the engine's background goroutines.
func (e *Engine) Stop() {
	close(e.stopCh)
}
