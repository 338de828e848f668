package lintcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/lint"
	"github.com/acronis/go-gettext/po"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
)

type LintOptions struct {
	SourceLanguage string
	SkipRules      []string
}

func New(ctx context.Context) *cobra.Command {
	lintOpts := LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [files]",
		Short: "check catalogs for structural and format string problems",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, args, lintOpts))
		},
	}

	cmd.Flags().StringVar(&lintOpts.SourceLanguage, "source-language", "", "language of the msgids, flags catalogs that merely copy them")
	cmd.Flags().StringSliceVar(&lintOpts.SkipRules, "skip-rule", nil, "rule names to skip")
	return cmd
}

func execute(_ context.Context, baseDir string, targets []string, opts LintOptions) error {
	if len(targets) == 0 {
		p, err := project.New(baseDir)
		if err != nil {
			return fmt.Errorf("new project: %w", err)
		}
		if err := p.Read(); err != nil {
			return fmt.Errorf("read project: %w", err)
		}
		if opts.SourceLanguage == "" {
			opts.SourceLanguage = p.Manifest.SourceLanguage
		}
		for _, lang := range p.Manifest.Locales {
			targets = append(targets, p.LocalePath(lang))
		}
	}

	lintOpts := make([]lint.Option, 0, len(opts.SkipRules)+1)
	if opts.SourceLanguage != "" {
		lintOpts = append(lintOpts, lint.WithSourceLanguage(opts.SourceLanguage))
	}
	for _, rule := range opts.SkipRules {
		lintOpts = append(lintOpts, lint.WithoutRule(rule))
	}

	failed := 0
	for _, target := range targets {
		f, err := po.ParseFile(target, po.WithAllowDuplicates())
		if err != nil {
			return fmt.Errorf("parse %q: %w", target, err)
		}

		for _, problem := range lint.Lint(f, lintOpts...) {
			if problem.Severity == lint.SeverityError {
				slog.Error(fmt.Sprintf("%s: %s", target, problem))
				failed++
			} else {
				slog.Warn(fmt.Sprintf("%s: %s", target, problem))
			}
		}
	}
	if failed > 0 {
		return errors.New("catalogs contain errors")
	}

	slog.Info("No errors found")
	return nil
}
