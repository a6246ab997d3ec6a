package main

import (
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show knowledge graph statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			stats, err := svc.Stats()
			if err != nil {
				return emitError(err)
			}
			return emit(stats)
		},
	}
}
