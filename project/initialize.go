package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/acronis/go-gettext"
	"github.com/acronis/go-gettext/po"
)

// potDateLayout is the timestamp format gettext tooling writes into
// POT-Creation-Date.
const potDateLayout = "2006-01-02 15:04-0700"

var timeNow = time.Now

// Initialize scaffolds the project on disk: the locale directory, an
// empty message template and one skeleton catalog per locale, plus the
// manifest itself. Files that already exist are left alone.
func (p *Project) Initialize() error {
	if err := os.MkdirAll(filepath.Join(p.BaseDir, p.Manifest.LocaleDir), 0755); err != nil {
		return fmt.Errorf("create locale directory: %w", err)
	}

	if err := writeIfMissing(p.TemplatePath(), p.newTemplate()); err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	for _, lang := range p.Manifest.Locales {
		if err := writeIfMissing(p.LocalePath(lang), p.newSkeleton(lang)); err != nil {
			return fmt.Errorf("create catalog for %q: %w", lang, err)
		}
	}

	if err := p.Save(); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

func writeIfMissing(path string, f *po.File) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return po.WriteFile(path, f)
}

// newTemplate builds an empty POT with the placeholder header xgettext
// would emit.
func (p *Project) newTemplate() *po.File {
	h := po.NewHeader()
	h.Set(po.HeaderProjectIDVersion, "PACKAGE VERSION")
	h.Set(po.HeaderReportMsgidBugsTo, "")
	h.Set(po.HeaderPOTCreationDate, timeNow().Format(potDateLayout))
	h.Set(po.HeaderPORevisionDate, "YEAR-MO-DA HO:MI+ZONE")
	h.Set(po.HeaderLastTranslator, "FULL NAME <EMAIL@ADDRESS>")
	h.Set(po.HeaderLanguageTeam, "LANGUAGE <LL@li.org>")
	h.Set(po.HeaderLanguage, "")
	h.Set(po.HeaderMIMEVersion, "1.0")
	h.Set(po.HeaderContentType, "text/plain; charset=UTF-8")
	h.Set(po.HeaderTransferEncoding, "8bit")

	f := po.NewFile()
	f.SetHeader(h)
	return f
}

// newSkeleton builds an empty catalog for one locale with Language and
// Plural-Forms preset, the way msginit would.
func (p *Project) newSkeleton(lang string) *po.File {
	h := po.NewHeader()
	h.Set(po.HeaderProjectIDVersion, p.Manifest.Domain)
	h.Set(po.HeaderPOTCreationDate, timeNow().Format(potDateLayout))
	h.Set(po.HeaderPORevisionDate, timeNow().Format(potDateLayout))
	h.Set(po.HeaderLastTranslator, "FULL NAME <EMAIL@ADDRESS>")
	h.Set(po.HeaderLanguageTeam, lang)
	h.Set(po.HeaderLanguage, lang)
	h.Set(po.HeaderMIMEVersion, "1.0")
	h.Set(po.HeaderContentType, "text/plain; charset=UTF-8")
	h.Set(po.HeaderTransferEncoding, "8bit")

	forms, ok := gettext.DefaultPluralForms(lang)
	if !ok {
		forms = gettext.GermanicPluralForms
	}
	h.SetPluralForms(forms)

	f := po.NewFile()
	f.SetHeader(h)
	return f
}
