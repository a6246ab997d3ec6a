package main

import (
	"github.com/spf13/cobra"
)

func queryCmd() *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "query <entity-id>",
		Short: "Query an entity and its active facts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			result, err := svc.Query(id, includeArchived)
			if err != nil {
				return emitError(err)
			}
			return emit(result)
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "include archived entities and superseded facts")
	return cmd
}

func connectionsCmd() *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "connections <entity-id>",
		Short: "Show an entity's relation edges",
		Long: "Outbound edges come from the entity's own active relation facts.\n" +
			"--reverse also collects inbound edges by scanning every entity in the\n" +
			"store — O(N), acceptable at personal-assistant scale, deliberately\n" +
			"unindexed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			result, err := svc.Connections(id, reverse)
			if err != nil {
				return emitError(err)
			}
			return emit(result)
		},
	}

	cmd.Flags().BoolVar(&reverse, "reverse", false, "include inbound connections")
	return cmd
}
