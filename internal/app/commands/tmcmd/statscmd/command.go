package statscmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/tm"

	"github.com/spf13/cobra"
)

type StatsOptions struct {
	DBPath   string
	Language string
}

func New(ctx context.Context) *cobra.Command {
	statsOpts := StatsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "report how many messages the translation memory holds",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WrapError(execute(ctx, statsOpts))
		},
	}

	cmd.Flags().StringVar(&statsOpts.DBPath, "db", "tm.db", "translation memory database file")
	cmd.Flags().StringVarP(&statsOpts.Language, "language", "l", "", "report a single language")
	return cmd
}

func execute(_ context.Context, opts StatsOptions) error {
	db, err := tm.Open(opts.DBPath)
	if err != nil {
		return fmt.Errorf("open translation memory: %w", err)
	}
	defer func() { _ = db.Close() }()

	if opts.Language != "" {
		n, err := db.Stats(opts.Language)
		if err != nil {
			return fmt.Errorf("stats for %q: %w", opts.Language, err)
		}
		slog.Info("Translation memory statistics",
			slog.String("language", opts.Language),
			slog.Int("messages", n))
		return nil
	}

	langs, err := db.Languages()
	if err != nil {
		return fmt.Errorf("list languages: %w", err)
	}
	total := 0
	for _, lang := range langs {
		n, err := db.Stats(lang)
		if err != nil {
			return fmt.Errorf("stats for %q: %w", lang, err)
		}
		total += n
		slog.Info("Translation memory statistics",
			slog.String("language", lang),
			slog.Int("messages", n))
	}
	slog.Info("Translation memory totals",
		slog.String("db", opts.DBPath),
		slog.Int("languages", len(langs)),
		slog.Int("messages", total))
	return nil
}
