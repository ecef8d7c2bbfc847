package cmd

import (
	"fmt"

	"github.com/hifzlog/hifzlog/internal/app"
	"github.com/hifzlog/hifzlog/internal/conversation"
	"github.com/hifzlog/hifzlog/internal/extract"
	"github.com/hifzlog/hifzlog/internal/llm"
	"github.com/hifzlog/hifzlog/internal/store"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start a practice-logging conversation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// runChat opens the store, builds the extraction pipeline, and launches
// the TUI.
func runChat(cmd *cobra.Command) error {
	ctx := cmd.Context()

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	provider, err := llm.NewProvider(ctx, cfg, st.EventRepo())
	if err != nil {
		return fmt.Errorf("initialize LLM provider: %w", err)
	}

	client := extract.NewClient(provider, extract.DefaultConfig())
	conv := conversation.New(client)

	return app.Run(conv)
}
