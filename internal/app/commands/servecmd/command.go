package servecmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/acronis/go-gettext/internal/app/command"
	"github.com/acronis/go-gettext/internal/server"
	"github.com/acronis/go-gettext/locale"
	"github.com/acronis/go-gettext/project"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

type ServeOptions struct {
	Addr           string
	Watch          bool
	Domain         string
	SourceLanguage string
}

func New(ctx context.Context) *cobra.Command {
	serveOpts := ServeOptions{}
	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "serve the translation catalogs over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseDir, err := command.GetWorkingDir(cmd)
			if err != nil {
				return fmt.Errorf("get base directory: %w", err)
			}

			return command.WrapError(execute(ctx, baseDir, args, serveOpts))
		},
	}

	cmd.Flags().StringVar(&serveOpts.Addr, "addr", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&serveOpts.Watch, "watch", false, "reload catalogs when the files change")
	cmd.Flags().StringVar(&serveOpts.Domain, "domain", project.DefaultDomain, "message domain, applies to an explicit catalog directory")
	cmd.Flags().StringVar(&serveOpts.SourceLanguage, "source-language", project.DefaultSourceLanguage, "language the msgids are written in, applies to an explicit catalog directory")
	return cmd
}

func execute(ctx context.Context, baseDir string, args []string, opts ServeOptions) error {
	dir := ""
	domain := opts.Domain
	source := opts.SourceLanguage
	if len(args) == 1 {
		dir = args[0]
	} else {
		p, err := project.New(baseDir)
		if err != nil {
			return fmt.Errorf("new project: %w", err)
		}
		if err := p.Read(); err != nil {
			return fmt.Errorf("read project: %w", err)
		}
		dir = filepath.Join(p.BaseDir, p.Manifest.LocaleDir)
		domain = p.Manifest.Domain
		source = p.Manifest.SourceLanguage
	}

	tag, err := language.Parse(strings.ReplaceAll(source, "_", "-"))
	if err != nil {
		return fmt.Errorf("parse source language %q: %w", source, err)
	}

	storeOpts := []locale.Option{
		locale.WithDir(dir),
		locale.WithDomain(domain),
		locale.WithSourceLanguage(tag),
	}
	if opts.Watch {
		storeOpts = append(storeOpts, locale.WithWatch())
	}

	store, err := locale.Open(storeOpts...)
	if err != nil {
		return fmt.Errorf("open catalogs: %w", err)
	}
	defer func() { _ = store.Close() }()

	slog.Info("Serving catalogs",
		slog.String("dir", dir),
		slog.String("domain", domain))
	return server.New(store, opts.Addr).Run(ctx)
}
