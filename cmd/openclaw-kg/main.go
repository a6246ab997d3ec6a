package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/openclaw-kg/internal/config"
	"github.com/ajitpratap0/openclaw-kg/internal/graph"
	"github.com/ajitpratap0/openclaw-kg/internal/ident"
	"github.com/ajitpratap0/openclaw-kg/internal/store"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "openclaw-kg",
		Short: "openclaw-kg — structured entity-relationship storage for OpenClaw",
		Long: "A file-backed knowledge graph: typed entities, append-only facts with\n" +
			"supersede chains, typed relationships, and auto-generated summaries that\n" +
			"feed into memory search. Every command is one complete transaction and\n" +
			"emits a single JSON result on stdout.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		addEntityCmd(),
		addFactCmd(),
		supersedeCmd(),
		addRelationCmd(),
		queryCmd(),
		connectionsCmd(),
		searchCmd(),
		domainCmd(),
		listCmd(),
		statsCmd(),
		summarizeCmd(),
		archiveCmd(),
		unarchiveCmd(),
		mergeCmd(),
		seedCmd(),
		captureCmd(),
		mcpCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil && cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	// Diagnostics go to stderr; stdout carries only the JSON result.
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newService(logger *slog.Logger) (*graph.Service, error) {
	st, err := store.New(cfg.Store.Root, cfg.Store.AuditLog, cfg.Store.Locking, logger)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return graph.New(st, logger), nil
}

// errKind maps engine errors onto the error taxonomy reported to callers.
func errKind(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, graph.ErrFactNotFound):
		return "not_found"
	case errors.Is(err, ident.ErrInvalidID),
		errors.Is(err, graph.ErrTextTooLong),
		errors.Is(err, graph.ErrInvalidCategory),
		errors.Is(err, graph.ErrInvalidRelation),
		errors.Is(err, graph.ErrEmptyQuery):
		return "validation"
	case errors.Is(err, graph.ErrDuplicate),
		errors.Is(err, graph.ErrNameCollision),
		errors.Is(err, graph.ErrArchived),
		errors.Is(err, graph.ErrAlreadyArchived),
		errors.Is(err, graph.ErrNotArchived),
		errors.Is(err, graph.ErrAlreadySuperseded),
		errors.Is(err, graph.ErrSelfMerge),
		errors.Is(err, graph.ErrNotEmpty):
		return "conflict"
	case errors.Is(err, store.ErrPathTraversal):
		return "path_traversal"
	default:
		return "unexpected"
	}
}

// emit prints the single JSON result object for a successful command.
func emit(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// emitError prints the single JSON error object and returns err so the
// process exits non-zero. No partial output is ever printed.
func emitError(err error) error {
	out, marshalErr := json.MarshalIndent(map[string]string{
		"error": err.Error(),
		"kind":  errKind(err),
	}, "", "  ")
	if marshalErr == nil {
		fmt.Println(string(out))
	}
	return err
}

// errInvalidType wraps an unknown entity type as a validation error.
func errInvalidType(t string) error {
	return fmt.Errorf("%w: unknown entity type %q", ident.ErrInvalidID, t)
}

// parseID validates a raw type/slug argument, emitting the error object
// on failure.
func parseID(raw string) (ident.EntityID, error) {
	id, err := ident.Parse(raw)
	if err != nil {
		return ident.EntityID{}, emitError(err)
	}
	return id, nil
}
