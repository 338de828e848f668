package recordcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/tm"

	"github.com/spf13/cobra"
)

type RecordOptions struct {
	DBPath   string
	Language string
}

func New(ctx context.Context) *cobra.Command {
	recordOpts := RecordOptions{}
	cmd := &cobra.Command{
		Use:   "record <files>",
		Short: "remember the translated messages of catalogs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return command.WrapError(execute(ctx, args, recordOpts))
		},
	}

	cmd.Flags().StringVar(&recordOpts.DBPath, "db", "tm.db", "translation memory database file")
	cmd.Flags().StringVarP(&recordOpts.Language, "language", "l", "", "record under this language instead of the catalog header one")
	return cmd
}

func execute(_ context.Context, targets []string, opts RecordOptions) error {
	db, err := tm.Open(opts.DBPath)
	if err != nil {
		return fmt.Errorf("open translation memory: %w", err)
	}
	defer func() { _ = db.Close() }()

	total := 0
	for _, target := range targets {
		f, err := po.ParseFile(target)
		if err != nil {
			return fmt.Errorf("parse %q: %w", target, err)
		}

		lang := opts.Language
		if lang == "" {
			h, err := f.Header()
			if err != nil {
				return fmt.Errorf("parse header of %q: %w", target, err)
			}
			lang = h.Language()
		}
		if lang == "" {
			return fmt.Errorf("%q does not declare a language, pass --language", target)
		}

		n, err := db.Record(lang, f.Messages())
		if err != nil {
			return fmt.Errorf("record %q: %w", target, err)
		}
		total += n
		slog.Info("Recorded translations",
			slog.String("file", target),
			slog.String("language", lang),
			slog.Int("count", n))
	}

	slog.Info("Translation memory updated",
		slog.String("db", opts.DBPath),
		slog.Int("total", total))
	return nil
}
