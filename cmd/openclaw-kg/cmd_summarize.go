package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/graph"
)

func summarizeCmd() *cobra.Command {
	var (
		all   bool
		dirty bool
	)

	cmd := &cobra.Command{
		Use:   "summarize [entity-id]",
		Short: "Regenerate summary.md for one, all, or stale entities",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			var result *graph.SummarizeResult
			switch {
			case all:
				result, err = svc.SummarizeAll()
			case dirty:
				result, err = svc.SummarizeDirty()
			case len(args) == 1:
				id, parseErr := parseID(args[0])
				if parseErr != nil {
					return parseErr
				}
				result, err = svc.SummarizeOne(id)
			default:
				return emitError(errors.New("specify an entity ID, --all, or --dirty"))
			}
			if err != nil {
				return emitError(err)
			}

			return emit(map[string]any{
				"ok":         true,
				"summarized": result.Summarized,
				"count":      result.Count,
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "summarize all entities")
	cmd.Flags().BoolVar(&dirty, "dirty", false, "summarize only entities with stale summaries")
	return cmd
}
