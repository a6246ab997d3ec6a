package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/models"
)

func addEntityCmd() *cobra.Command {
	var (
		etype   string
		name    string
		domains string
		aliases string
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "add-entity",
		Short: "Create a new entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			svc, err := newService(logger)
			if err != nil {
				return emitError(err)
			}

			entity, err := svc.CreateEntity(
				models.EntityType(etype),
				name,
				splitList(domains),
				splitList(aliases),
				force,
			)
			if err != nil {
				return emitError(err)
			}

			return emit(map[string]any{
				"ok":        true,
				"entity_id": entity.ID,
				"entity":    entity,
			})
		},
	}

	cmd.Flags().StringVar(&etype, "type", "", "entity type (person, project, concept, organization, resource, event, place)")
	cmd.Flags().StringVar(&name, "name", "", "entity display name")
	cmd.Flags().StringVar(&domains, "domains", "", "comma-separated domain tags")
	cmd.Flags().StringVar(&aliases, "aliases", "", "comma-separated aliases")
	cmd.Flags().BoolVar(&force, "force", false, "skip duplicate and collision checks")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func archiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive <entity-id>",
		Short: "Archive an entity, blocking further fact mutation",
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

			entity, err := svc.Archive(id)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":        true,
				"entity_id": entity.ID,
				"status":    entity.Status,
			})
		},
	}
	return cmd
}

func unarchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unarchive <entity-id>",
		Short: "Return an archived entity to active",
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

			entity, err := svc.Unarchive(id)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":        true,
				"entity_id": entity.ID,
				"status":    entity.Status,
			})
		},
	}
	return cmd
}

func mergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge <source-id> <target-id>",
		Short: "Merge source entity into target and delete the source",
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

			result, err := svc.Merge(src, tgt)
			if err != nil {
				return emitError(err)
			}
			return emit(map[string]any{
				"ok":                  true,
				"merged":              result.Merged,
				"into":                result.Into,
				"facts_moved":         result.FactsMoved,
				"relations_rewritten": result.RelationsRewritten,
			})
		},
	}
	return cmd
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
