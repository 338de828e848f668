package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/acronis/go-gettext/filesys"
	"github.com/acronis/go-gettext/merge"
	"github.com/acronis/go-gettext/po"
)

const backupTimeLayout = "20060102-150405"

type syncOptions struct {
	backup    bool
	mergeOpts []merge.Option
}

// SyncOption adjusts how Sync updates the locale catalogs.
type SyncOption func(*syncOptions)

// WithBackup copies the whole locale directory to a timestamped sibling
// before any catalog is rewritten.
func WithBackup() SyncOption {
	return func(o *syncOptions) {
		o.backup = true
	}
}

// WithMergeOptions passes options through to the underlying merge, for
// example merge.WithoutFuzzyMatching or merge.WithTranslationMemory.
func WithMergeOptions(opts ...merge.Option) SyncOption {
	return func(o *syncOptions) {
		o.mergeOpts = append(o.mergeOpts, opts...)
	}
}

// Sync merges the message template into every locale catalog, creating
// missing catalogs from a skeleton. Catalogs are rewritten in place.
func (p *Project) Sync(options ...SyncOption) error {
	var opts syncOptions
	for _, opt := range options {
		opt(&opts)
	}

	ref, err := po.ParseFile(p.TemplatePath())
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	if opts.backup {
		if err := p.backupLocaleDir(); err != nil {
			return fmt.Errorf("back up locale directory: %w", err)
		}
	}

	for _, lang := range p.Manifest.Locales {
		if err := p.syncLocale(lang, ref, opts.mergeOpts); err != nil {
			return fmt.Errorf("sync %q: %w", lang, err)
		}
	}
	return nil
}

func (p *Project) backupLocaleDir() error {
	src := filepath.Join(p.BaseDir, p.Manifest.LocaleDir)
	dst := src + ".bak." + timeNow().Format(backupTimeLayout)
	return filesys.ReplaceWithCopy(src, dst)
}

func (p *Project) syncLocale(lang string, ref *po.File, mergeOpts []merge.Option) error {
	fPath := p.LocalePath(lang)

	def, err := po.ParseFile(fPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read catalog: %w", err)
		}
		def = p.newSkeleton(lang)
	}

	merged, err := merge.Merge(def, ref, mergeOpts...)
	if err != nil {
		return fmt.Errorf("merge template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(fPath), 0755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}
	if err := po.WriteFile(fPath, merged); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
