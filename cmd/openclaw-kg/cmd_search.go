package main

import (
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func searchCmd() *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search entities by name, alias, domain, fact text, and summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			result, err := svc.Search(args[0], includeArchived)
			if err != nil {
				return emitError(err)
			}
			return emit(result)
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "include archived entities")
	return cmd
}

func domainCmd() *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "domain <domain>",
		Short: "List entities tagged with a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			result, err := svc.Domain(args[0], includeArchived)
			if err != nil {
				return emitError(err)
			}
			return emit(result)
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "include archived entities")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		typeFilter      string
		includeArchived bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all entities, alphabetically by name",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			if typeFilter != "" && !models.EntityType(typeFilter).IsValid() {
				return emitError(errInvalidType(typeFilter))
			}

			result, err := svc.List(models.EntityType(typeFilter), includeArchived)
			if err != nil {
				return emitError(err)
			}
			return emit(result)
		},
	}

	cmd.Flags().StringVar(&typeFilter, "type", "", "filter by entity type")
	cmd.Flags().BoolVar(&includeArchived, "include-archived", false, "include archived entities")
	return cmd
}
