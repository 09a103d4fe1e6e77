package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ayuni-ai/ayuni/internal/config"
	"github.com/ayuni-ai/ayuni/internal/engine"
	"github.com/ayuni-ai/ayuni/internal/llm"
	"github.com/ayuni-ai/ayuni/internal/store"
	"github.com/spf13/cobra"
)

var decayScheduled bool

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Run the emotional decay batch once",
	Long:  "Applies inactivity decay to all eligible chat sessions. With --scheduled the run is skipped when one already happened within the debounce window, which makes the command safe to call from cron.",
	RunE:  runDecay,
}

func init() {
	decayCmd.Flags().BoolVar(&decayScheduled, "scheduled", false, "respect the debounce window (cron mode)")
}

func runDecay(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := openDBFromConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	eng := newEngineFromConfig(db, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if decayScheduled {
		ran, err := eng.ScheduleDecay(ctx)
		if err != nil {
			return err
		}
		if !ran {
			fmt.Println("skipped: a decay run already happened within the debounce window")
			return nil
		}
		fmt.Println("scheduled decay run completed")
		return nil
	}

	report, err := eng.ProcessDecay(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("decay: %s\n", report)
	return nil
}

// newEngineFromConfig builds an engine, tolerating a missing LLM setup:
// decay still works without it, only generation features are disabled.
func newEngineFromConfig(db *store.DB, cfg config.Config) *engine.Engine {
	var eng *engine.Engine
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: text generation not configured (%v)\n", err)
		eng = engine.New(db, nil)
		eng.Sender = nil
	} else {
		eng = engine.New(db, llmClient)
	}
	eng.SocialChance = cfg.Social.InteractionChance
	eng.RetentionDays = cfg.Social.RetentionDays
	eng.Debounce = time.Duration(cfg.Decay.DebounceMinutes) * time.Minute
	return eng
}
