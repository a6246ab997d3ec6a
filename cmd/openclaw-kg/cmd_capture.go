package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/capture"
	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func captureCmd() *cobra.Command {
	var (
		userMsg      string
		assistantMsg string
		dryRun       bool
	)

	cmd := &cobra.Command{
		Use:   "capture <entity-id>",
		Short: "Extract facts about an entity from a conversation turn",
		Long: "Uses Claude to propose categorized facts about the entity from a\n" +
			"user/assistant exchange, then records them through the fact engine.\n" +
			"--dry-run prints the proposed facts without writing anything.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			// Validate the API key before making any API call.
			if cfg.Claude.APIKey == "" {
				return emitError(errors.New("ANTHROPIC_API_KEY is not set; cannot call Claude API"))
			}

			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			// The entity must exist and be active before spending an API call.
			entity, err := svc.Query(id, false)
			if err != nil {
				return emitError(err)
			}

			capturer := capture.NewCapturer(cfg.Claude.APIKey, cfg.Claude.Model, logger)
			proposed, err := capturer.Extract(ctx, entity.Entity.Name, userMsg, assistantMsg)
			if err != nil {
				return emitError(err)
			}

			if dryRun {
				return emit(map[string]any{
					"ok":        true,
					"entity_id": id.String(),
					"proposed":  proposed,
					"stored":    0,
					"dry_run":   true,
				})
			}

			stored := []models.Fact{}
			for _, cf := range proposed {
				fact, err := svc.AddFact(id, cf.Text, cf.Category, "capture")
				if err != nil {
					logger.Error("storing captured fact", "error", err)
					continue
				}
				stored = append(stored, *fact)
			}

			return emit(map[string]any{
				"ok":        true,
				"entity_id": id.String(),
				"proposed":  len(proposed),
				"stored":    len(stored),
				"facts":     stored,
			})
		},
	}

	cmd.Flags().StringVar(&userMsg, "user", "", "user message")
	cmd.Flags().StringVar(&assistantMsg, "assistant", "", "assistant response")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "propose facts without recording them")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("assistant")
	return cmd
}
