package statcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
)

func New(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "stat [files]",
		Short: "report translation statistics per catalog",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, args))
		},
	}
}

func execute(_ context.Context, baseDir string, targets []string) error {
	if len(targets) == 0 {
		p, err := project.New(baseDir)
		if err != nil {
			return fmt.Errorf("new project: %w", err)
		}
		if err := p.Read(); err != nil {
			return fmt.Errorf("read project: %w", err)
		}
		targets = append(targets, p.TemplatePath())
		for _, lang := range p.Manifest.Locales {
			targets = append(targets, p.LocalePath(lang))
		}
	}

	for _, target := range targets {
		f, err := po.ParseFile(target)
		if err != nil {
			return fmt.Errorf("parse %q: %w", target, err)
		}
		slog.Info("Catalog statistics",
			slog.String("file", target),
			slog.String("stats", f.Stats().String()))
	}
	return nil
}
