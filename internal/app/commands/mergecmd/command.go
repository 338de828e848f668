package mergecmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/merge"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/tm"

	"github.com/spf13/cobra"
)

type MergeOptions struct {
	Output          string
	NoFuzzyMatching bool
	TMPath          string
}

func New(ctx context.Context) *cobra.Command {
	mergeOpts := MergeOptions{}
	cmd := &cobra.Command{
		Use:   "merge <def.po> <ref.pot>",
		Short: "merge a translated catalog with a new template, msgmerge style",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			mergeOpts.Output, err = command.GetOutputPath(cmd)
			if err != nil {
				return fmt.Errorf("get output path: %w", err)
			}

			return command.WrapError(execute(ctx, args[0], args[1], mergeOpts))
		},
	}

	command.AddOutputFlag(cmd)
	cmd.Flags().BoolVar(&mergeOpts.NoFuzzyMatching, "no-fuzzy-matching", false, "do not recycle translations of renamed messages")
	cmd.Flags().StringVar(&mergeOpts.TMPath, "tm", "", "translation memory database to fill untranslated messages from")
	return cmd
}

func execute(_ context.Context, defPath, refPath string, opts MergeOptions) error {
	def, err := po.ParseFile(defPath)
	if err != nil {
		return fmt.Errorf("parse definitions %q: %w", defPath, err)
	}
	ref, err := po.ParseFile(refPath)
	if err != nil {
		return fmt.Errorf("parse reference %q: %w", refPath, err)
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

	merged, err := merge.Merge(def, ref, mergeOpts...)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	if opts.Output == "" {
		if err := po.Write(os.Stdout, merged); err != nil {
			return fmt.Errorf("write merged catalog: %w", err)
		}
		return nil
	}
	if err := po.WriteFile(opts.Output, merged); err != nil {
		return fmt.Errorf("write %q: %w", opts.Output, err)
	}

	slog.Info("Merged catalog written",
		slog.String("file", opts.Output),
		slog.String("stats", merged.Stats().String()))
	return nil
}
