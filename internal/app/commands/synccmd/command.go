package synccmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/merge"
	"github.com/acronis/go-gettext/project"
	"github.com/acronis/go-gettext/tm"

	"github.com/spf13/cobra"
)

type SyncOptions struct {
	Backup          bool
	NoFuzzyMatching bool
	TMPath          string
}

func New(ctx context.Context) *cobra.Command {
	syncOpts := SyncOptions{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "synchronize the locale catalogs with the template",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, syncOpts))
		},
	}

	cmd.Flags().BoolVarP(&syncOpts.Backup, "backup", "b", false, "back up the locale directory before writing")
	cmd.Flags().BoolVar(&syncOpts.NoFuzzyMatching, "no-fuzzy-matching", false, "do not recycle translations of renamed messages")
	cmd.Flags().StringVar(&syncOpts.TMPath, "tm", "", "translation memory database to fill untranslated messages from")
	return cmd
}

func execute(_ context.Context, baseDir string, opts SyncOptions) error {
	slog.Info("Synchronize catalogs", slog.String("path", baseDir))
	p, err := project.New(baseDir)
	if err != nil {
		return fmt.Errorf("new project: %w", err)
	}
	if p.Read() != nil {
		slog.Info("Failed to read project, you can initialize it with 'gettext init' command")
		return nil
	}

	var mergeOpts []merge.Option
	if opts.NoFuzzyMatching {
		mergeOpts = append(mergeOpts, merge.WithoutFuzzyMatching())
	}
	if opts.TMPath != "" {
		db, err := tm.Open(opts.TMPath)
		if err != nil {
			return fmt.Errorf("open translation memory: %w", err)
		}
		defer func() { _ = db.Close() }()
		mergeOpts = append(mergeOpts, merge.WithTranslationMemory(db))
	}

	syncOpts := []project.SyncOption{project.WithMergeOptions(mergeOpts...)}
	if opts.Backup {
		syncOpts = append(syncOpts, project.WithBackup())
	}

	if err := p.Sync(syncOpts...); err != nil {
		return fmt.Errorf("sync catalogs: %w", err)
	}

	slog.Info("Catalogs were synchronized")
	return nil
}
