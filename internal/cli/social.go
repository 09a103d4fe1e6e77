package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/ayuni-ai/ayuni/internal/config"
	"github.com/spf13/cobra"
)

var (
	socialCleanup bool
	socialInit    string
)

var socialCmd = &cobra.Command{
	Use:   "social",
	Short: "Run the social interaction batch once",
	RunE:  runSocial,
}

func init() {
	socialCmd.Flags().BoolVar(&socialCleanup, "cleanup", false, "delete interactions older than the retention window instead of generating")
	socialCmd.Flags().StringVar(&socialInit, "init", "", "initialize the social environment for the given AEI id instead of generating")
}

func runSocial(cmd *cobra.Command, args []string) error {
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

	if socialCleanup {
		deleted, err := eng.CleanupInteractions(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("cleanup: deleted %d interactions older than %d days\n", deleted, eng.RetentionDays)
		return nil
	}

	if socialInit != "" {
		created, err := eng.InitializeSocialEnvironment(ctx, socialInit)
		if err != nil {
			return err
		}
		if !created {
			fmt.Println("social environment already initialized")
			return nil
		}
		fmt.Println("social environment initialized")
		return nil
	}

	report, err := eng.ProcessAllSocial(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("social: %s\n", report)
	return nil
}
