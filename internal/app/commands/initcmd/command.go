package initcmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
)

type InitOptions struct {
	Domain         string
	SourceLanguage string
	Locales        []string
}

func New(ctx context.Context) *cobra.Command {
	initOpts := InitOptions{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "generate a translation project with a template and per-locale catalogs",
		Args:  cobra.MinimumNArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, initOpts))
		},
	}

	cmd.Flags().StringVar(&initOpts.Domain, "domain", project.DefaultDomain, "message domain, names the template and the catalog files")
	cmd.Flags().StringVar(&initOpts.SourceLanguage, "source-language", project.DefaultSourceLanguage, "language the msgids are written in")
	cmd.Flags().StringSliceVarP(&initOpts.Locales, "locales", "l", nil, "locales to scaffold catalogs for")
	return cmd
}

func execute(_ context.Context, baseDir string, opts InitOptions) error {
	slog.Info("Initialize project", slog.String("path", baseDir))

	p, err := project.New(baseDir,
		project.WithDomain(opts.Domain),
		project.WithSourceLanguage(opts.SourceLanguage),
		project.WithLocales(opts.Locales),
	)
	if err != nil {
		return fmt.Errorf("new project: %w", err)
	}

	if p.Read() == nil {
		slog.Info("Project already initialized")
		return nil
	}

	if err := p.Initialize(); err != nil {
		return fmt.Errorf("initialize project: %w", err)
	}

	slog.Info("Project was initialized")
	return nil
}
