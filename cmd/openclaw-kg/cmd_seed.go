package main

import (
	"github.com/spf13/cobra"
)

func seedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the knowledge graph with the built-in dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			result, err := svc.Seed(force)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":                true,
				"entities_created":  result.EntitiesCreated,
				"facts_created":     result.FactsCreated,
				"relations_created": result.RelationsCreated,
				"entity_ids":        result.EntityIDs,
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "seed even if entities exist")
	return cmd
}
