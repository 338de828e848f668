// Package project manages a translation project directory: the
// gettext.json manifest describing it, the message template and the
// per-locale catalogs under the locale directory.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/acronis/go-gettext/filesys"
	"golang.org/x/text/language"
)

// ManifestFileName is the manifest file a project directory carries at
// its root.
const ManifestFileName = "gettext.json"

// Defaults for a fresh manifest.
const (
	DefaultDomain         = "messages"
	DefaultSourceLanguage = "en"
	DefaultLocaleDir      = "locale"
)

// Manifest describes a translation project.
type Manifest struct {
	// Domain names the catalog files, "messages" by convention.
	Domain string `json:"domain"`

	// SourceLanguage is the language the msgids are written in.
	SourceLanguage string `json:"source_language"`

	// LocaleDir is the directory holding the template and the locale
	// catalogs, relative to the project root.
	LocaleDir string `json:"locale_dir"`

	// Template overrides the message template path, relative to the
	// project root. Empty means "<locale_dir>/<domain>.pot".
	Template string `json:"template,omitempty"`

	// Locales lists the languages the project is translated into.
	Locales []string `json:"locales"`
}

// Check verifies the manifest fields beyond what the schema can express.
func (m *Manifest) Check() error {
	if strings.ContainsAny(m.Domain, `/\`) {
		return fmt.Errorf("$.domain: %q must not contain path separators", m.Domain)
	}
	if _, err := language.Parse(bcp47(m.SourceLanguage)); err != nil {
		return fmt.Errorf("$.source_language: invalid language %q: %w", m.SourceLanguage, err)
	}
	for i, loc := range m.Locales {
		if _, err := language.Parse(bcp47(loc)); err != nil {
			return fmt.Errorf("$.locales[%d]: invalid locale %q: %w", i, loc, err)
		}
	}
	return nil
}

func bcp47(lang string) string {
	return strings.ReplaceAll(lang, "_", "-")
}

// Project is a translation project rooted at BaseDir.
type Project struct {
	Manifest *Manifest

	BaseDir string
}

// New creates a project handle for the specified path with a default
// manifest. If the path is empty, the current working directory is used.
func New(baseDir string, options ...InitializeOption) (*Project, error) {
	p := &Project{
		BaseDir: filepath.ToSlash(path.Clean(baseDir)),
		Manifest: &Manifest{
			Domain:         DefaultDomain,
			SourceLanguage: DefaultSourceLanguage,
			LocaleDir:      DefaultLocaleDir,
			Locales:        []string{},
		},
	}
	for _, opt := range options {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// InitializeOption configures the manifest of a new project.
type InitializeOption func(*Project) error

// WithDomain sets the catalog domain.
func WithDomain(domain string) InitializeOption {
	return func(p *Project) error {
		if domain == "" {
			return fmt.Errorf("domain cannot be empty")
		}
		p.Manifest.Domain = domain
		return nil
	}
}

// WithSourceLanguage sets the language the msgids are written in. The
// spelling is kept as given, only checked to be a well-formed locale name.
func WithSourceLanguage(lang string) InitializeOption {
	return func(p *Project) error {
		if _, err := language.Parse(bcp47(lang)); err != nil {
			return fmt.Errorf("validate source language: %w", err)
		}
		p.Manifest.SourceLanguage = lang
		return nil
	}
}

// WithLocales sets the target locales. Spellings are kept as given, the
// locale directories will use them verbatim.
func WithLocales(locales []string) InitializeOption {
	return func(p *Project) error {
		for _, loc := range locales {
			if _, err := language.Parse(bcp47(loc)); err != nil {
				return fmt.Errorf("validate locale %q: %w", loc, err)
			}
		}
		p.Manifest.Locales = append([]string{}, locales...)
		return nil
	}
}

// Read loads and validates the manifest of an existing project.
func (p *Project) Read() error {
	m, err := ReadManifest(filepath.Join(p.BaseDir, ManifestFileName))
	if err != nil {
		return err
	}
	p.Manifest = m
	return nil
}

// ReadManifest reads one manifest file, checking it against the manifest
// schema before decoding.
func ReadManifest(fPath string) (*Manifest, error) {
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	if err := validateManifestBytes(data); err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Check(); err != nil {
		return nil, fmt.Errorf("check manifest: %w", err)
	}
	return &m, nil
}

// Save writes the manifest into the project directory.
func (p *Project) Save() error {
	if err := p.Manifest.Check(); err != nil {
		return fmt.Errorf("check manifest: %w", err)
	}
	if err := filesys.WriteJSON(filepath.Join(p.BaseDir, ManifestFileName), p.Manifest); err != nil {
		return fmt.Errorf("save manifest: %w", err)
	}
	return nil
}

// TemplatePath returns the absolute path of the message template.
func (p *Project) TemplatePath() string {
	if p.Manifest.Template != "" {
		return filepath.Join(p.BaseDir, p.Manifest.Template)
	}
	return filepath.Join(p.BaseDir, p.Manifest.LocaleDir, p.Manifest.Domain+".pot")
}

// LocalePath returns the absolute path of one locale's catalog, laid out
// GNU style as <locale_dir>/<lang>/LC_MESSAGES/<domain>.po.
func (p *Project) LocalePath(lang string) string {
	return filepath.Join(p.BaseDir, p.Manifest.LocaleDir, lang, "LC_MESSAGES", p.Manifest.Domain+".po")
}
