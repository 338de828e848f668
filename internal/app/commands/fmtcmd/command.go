package fmtcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
)

type FmtOptions struct {
	Output    string
	WrapWidth int
}

func New(ctx context.Context) *cobra.Command {
	fmtOpts := FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [files]",
		Short: "rewrite catalogs in canonical formatting",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}
			fmtOpts.Output, err = command.GetOutputPath(cmd)
			if err != nil {
				return fmt.Errorf("get output path: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, args, fmtOpts))
		},
	}

	command.AddOutputFlag(cmd)
	cmd.Flags().IntVar(&fmtOpts.WrapWidth, "wrap-width", 80, "line width to wrap long strings at, 0 disables wrapping")
	return cmd
}

func execute(_ context.Context, baseDir string, targets []string, opts FmtOptions) error {
	if opts.Output != "" && len(targets) != 1 {
		return errors.New("--output requires exactly one input file")
	}
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

		out := target
		if opts.Output != "" {
			out = opts.Output
		}
		if err := po.WriteFile(out, f, po.WithWrapWidth(opts.WrapWidth)); err != nil {
			return fmt.Errorf("write %q: %w", out, err)
		}
		slog.Info("Formatted catalog", slog.String("file", out))
	}
	return nil
}
