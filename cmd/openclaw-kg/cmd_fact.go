package main

import (
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func addFactCmd() *cobra.Command {
	var (
		fact     string
		category string
		source   string
	)

	cmd := &cobra.Command{
		Use:   "add-fact <entity-id>",
		Short: "Add a fact to an entity",
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

			created, err := svc.AddFact(id, fact, models.FactCategory(category), source)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":        true,
				"entity_id": id.String(),
				"fact":      created,
			})
		},
	}

	cmd.Flags().StringVar(&fact, "fact", "", "fact text (max 500 chars)")
	cmd.Flags().StringVar(&category, "category", "", "fact category (role, activity, relationship, status, preference, belief, skill, milestone, note)")
	cmd.Flags().StringVar(&source, "source", "", "fact provenance (default: conversation)")
	_ = cmd.MarkFlagRequired("fact")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func supersedeCmd() *cobra.Command {
	var (
		fact   string
		source string
	)

	cmd := &cobra.Command{
		Use:   "supersede <entity-id> <old-fact-id>",
		Short: "Supersede a fact with a new one",
		Long: "Marks the old fact superseded and creates its replacement in one atomic\n" +
			"operation. The new fact inherits the old fact's category and relation\n" +
			"payload and records the supersede back-reference.",
		Args: cobra.ExactArgs(2),
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

			result, err := svc.Supersede(id, args[1], fact, source)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":          true,
				"entity_id":   result.EntityID,
				"old_fact_id": result.OldFactID,
				"new_fact":    result.NewFact,
			})
		},
	}

	cmd.Flags().StringVar(&fact, "fact", "", "new fact text")
	cmd.Flags().StringVar(&source, "source", "", "fact provenance (default: conversation)")
	_ = cmd.MarkFlagRequired("fact")
	return cmd
}

func addRelationCmd() *cobra.Command {
	var (
		relationType string
		fact         string
		source       string
	)

	cmd := &cobra.Command{
		Use:   "add-relation <entity-id> <target-id>",
		Short: "Add a typed relationship between two entities",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			src, err := parseID(args[0])
			if err != nil {
				return err
			}
			tgt, err := parseID(args[1])
			if err != nil {
				return err
			}
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			created, err := svc.AddRelation(src, tgt, models.RelationType(relationType), fact, source)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":        true,
				"entity_id": src.String(),
				"fact":      created,
			})
		},
	}

	cmd.Flags().StringVar(&relationType, "relation-type", "", "relation type (member_of, works_with, leads, part_of, relates_to, uses, created_by, taught_in, illustrates, opposes)")
	cmd.Flags().StringVar(&fact, "fact", "", "custom fact text (synthesized if omitted)")
	cmd.Flags().StringVar(&source, "source", "", "fact provenance (default: conversation)")
	_ = cmd.MarkFlagRequired("relation-type")
	return cmd
}
