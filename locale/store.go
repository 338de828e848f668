// Package locale discovers translation catalogs on disk and serves them per
// language, with fallback from a regional variant to its base language and
// finally to the untranslated source text.
//
// A store understands two layouts under its root:
//
//	<root>/<locale>/LC_MESSAGES/<domain>.mo
//	<root>/<locale>.mo
//
// both also in the .po flavor. The LC_MESSAGES tree is preferred over the
// flat file and a compiled .mo is preferred over its .po source. Locale
// names use either separator, so "pt_BR" and "pt-BR" address the same
// language.
package locale

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/acronis/go-gettext/catalog"
	"github.com/acronis/go-gettext/filesys"
	"github.com/acronis/go-gettext/mo"
	"github.com/acronis/go-gettext/po"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/text/language"
)

// DefaultDomain is the gettext domain a store serves unless WithDomain
// overrides it.
const DefaultDomain = "messages"

// Option is an interface for functional options that can be passed to Open.
type Option interface {
	apply(*options)
}

type options struct {
	dir    string
	fsys   fs.FS
	domain string
	source language.Tag
	watch  bool
	logger *slog.Logger
}

type dirOption struct {
	dir string
}

func (o dirOption) apply(opts *options) {
	opts.dir = o.dir
}

// WithDir serves catalogs from a directory on disk. Exactly one of WithDir
// and WithFS must be given.
func WithDir(dir string) Option {
	return dirOption{dir: dir}
}

type fsOption struct {
	fsys fs.FS
}

func (o fsOption) apply(opts *options) {
	opts.fsys = o.fsys
}

// WithFS serves catalogs from a file system, typically an embed.FS compiled
// into the binary.
func WithFS(fsys fs.FS) Option {
	return fsOption{fsys: fsys}
}

type domainOption struct {
	domain string
}

func (o domainOption) apply(opts *options) {
	opts.domain = o.domain
}

// WithDomain sets the gettext domain looked up in the LC_MESSAGES layout.
func WithDomain(domain string) Option {
	return domainOption{domain: domain}
}

type sourceLanguageOption struct {
	tag language.Tag
}

func (o sourceLanguageOption) apply(opts *options) {
	opts.source = o.tag
}

// WithSourceLanguage declares the language the message ids are written in.
// The default is English.
func WithSourceLanguage(tag language.Tag) Option {
	return sourceLanguageOption{tag: tag}
}

type watchOption struct{}

func (o watchOption) apply(opts *options) {
	opts.watch = true
}

// WithWatch reloads catalogs when files under the directory change. Only
// valid together with WithDir.
func WithWatch() Option {
	return watchOption{}
}

type loggerOption struct {
	logger *slog.Logger
}

func (o loggerOption) apply(opts *options) {
	opts.logger = o.logger
}

// WithLogger sets the logger for load failures and reload events.
func WithLogger(logger *slog.Logger) Option {
	return loggerOption{logger: logger}
}

func makeOptions(opts ...Option) options {
	options := options{
		domain: DefaultDomain,
		source: language.English,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Store holds the catalogs of every discovered locale and hands out Locale
// views with language fallback. It is safe for concurrent use; a reload
// replaces the catalog set wholesale, so lookups observe either the old or
// the new state.
type Store struct {
	domain string
	source language.Tag
	logger *slog.Logger

	dir   string
	fsys  fs.FS
	watch bool

	mu       sync.RWMutex
	catalogs map[language.Tag]*catalog.Catalog
	tags     []language.Tag
	matcher  language.Matcher
	sums     map[string]string

	watcher   *fsnotify.Watcher
	reload    func(func())
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open scans the configured root and builds a store over every catalog it
// finds. A file that fails to load is logged and skipped, so one broken
// catalog does not take the rest down; an unreadable root is an error.
func Open(opts ...Option) (*Store, error) {
	options := makeOptions(opts...)
	if options.dir == "" && options.fsys == nil {
		return nil, errors.New("either WithDir or WithFS is required")
	}
	if options.dir != "" && options.fsys != nil {
		return nil, errors.New("WithDir and WithFS are mutually exclusive")
	}
	if options.watch && options.dir == "" {
		return nil, errors.New("WithWatch requires a directory store")
	}

	s := &Store{
		domain: options.domain,
		source: options.source,
		logger: options.logger,
		dir:    options.dir,
		fsys:   options.fsys,
		watch:  options.watch,
	}
	if s.fsys == nil {
		s.fsys = os.DirFS(s.dir)
	}

	catalogs, sums, err := s.scan(nil, nil)
	if err != nil {
		return nil, err
	}
	s.install(catalogs, sums)

	if options.watch {
		if err := s.startWatch(); err != nil {
			return nil, fmt.Errorf("start watcher: %w", err)
		}
	}
	return s, nil
}

// scan discovers the catalogs under the root. When previous state is given,
// files whose checksum did not change keep their already built catalog.
func (s *Store) scan(prevCatalogs map[language.Tag]*catalog.Catalog, prevSums map[string]string) (map[language.Tag]*catalog.Catalog, map[string]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("read locale root: %w", err)
	}

	catalogs := make(map[language.Tag]*catalog.Catalog)
	sums := make(map[string]string)
	for _, stem := range localeStems(entries) {
		tag, err := language.Parse(strings.ReplaceAll(stem, "_", "-"))
		if err != nil {
			s.logger.Warn("Skipping unrecognized locale name",
				slog.String("locale", stem), slog.String("error", err.Error()))
			continue
		}
		if _, ok := catalogs[tag]; ok {
			continue
		}
		for _, rel := range candidatePaths(stem, s.domain) {
			if _, err := fs.Stat(s.fsys, rel); err != nil {
				continue
			}
			if s.watch {
				if sum, err := filesys.ComputeFileChecksum(s.osPath(rel)); err == nil {
					sums[rel] = sum
					if prev, ok := prevCatalogs[tag]; ok && prevSums[rel] == sum {
						catalogs[tag] = prev
						break
					}
				}
			}
			c, err := s.load(rel, tag)
			if err != nil {
				s.logger.Warn("Skipping broken catalog file",
					slog.String("path", rel), slog.String("error", err.Error()))
				continue
			}
			catalogs[tag] = c
			break
		}
	}
	return catalogs, sums, nil
}

// localeStems returns the locale names present in the root directory
// listing, in either layout.
func localeStems(entries []fs.DirEntry) []string {
	var stems []string
	seen := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			ext := path.Ext(name)
			if ext != ".mo" && ext != ".po" {
				continue
			}
			name = strings.TrimSuffix(name, ext)
		}
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		stems = append(stems, name)
	}
	return stems
}

// candidatePaths lists the files that may hold the catalog of a locale, in
// preference order.
func candidatePaths(stem, domain string) []string {
	return []string{
		path.Join(stem, "LC_MESSAGES", domain+".mo"),
		path.Join(stem, "LC_MESSAGES", domain+".po"),
		stem + ".mo",
		stem + ".po",
	}
}

func (s *Store) osPath(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

func (s *Store) load(rel string, tag language.Tag) (*catalog.Catalog, error) {
	data, err := fs.ReadFile(s.fsys, rel)
	if err != nil {
		return nil, err
	}
	if path.Ext(rel) == ".mo" {
		file, err := mo.DecodeBytes(data)
		if err != nil {
			return nil, err
		}
		return catalog.FromMOFile(file, catalog.WithLanguage(tag.String()))
	}
	file, err := po.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return catalog.FromPOFile(file, catalog.WithLanguage(tag.String()))
}

// install publishes a scanned catalog set, rebuilding the language list and
// matcher. The source language is always served even without a catalog.
func (s *Store) install(catalogs map[language.Tag]*catalog.Catalog, sums map[string]string) {
	tags := make([]language.Tag, 0, len(catalogs)+1)
	for tag := range catalogs {
		if tag != s.source {
			tags = append(tags, tag)
		}
	}
	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})
	tags = append([]language.Tag{s.source}, tags...)

	s.mu.Lock()
	s.catalogs = catalogs
	s.sums = sums
	s.tags = tags
	s.matcher = language.NewMatcher(tags)
	s.mu.Unlock()
}

// Languages returns the served languages, the source language first and the
// rest in lexical order.
func (s *Store) Languages() []language.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tags)
}

// SourceLanguage returns the language the message ids are written in.
func (s *Store) SourceLanguage() language.Tag {
	return s.source
}

// Domain returns the gettext domain of the store.
func (s *Store) Domain() string {
	return s.domain
}

// Catalog returns the catalog loaded for an exact language, nil when the
// store has none. Nil catalogs still serve untranslated lookups.
func (s *Store) Catalog(tag language.Tag) *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalogs[tag]
}

// Locale returns the translation view for a language. The view is never
// nil: an unknown language degrades to the untranslated source text.
func (s *Store) Locale(tag language.Tag) *Locale {
	return &Locale{store: s, tag: tag}
}

// Match picks the best served language for the given preferences, most
// preferred first, and returns its locale. Unparseable preferences are
// ignored; when nothing fits the source language wins.
func (s *Store) Match(prefs ...string) *Locale {
	tags := make([]language.Tag, 0, len(prefs))
	for _, pref := range prefs {
		if tag, err := language.Parse(pref); err == nil {
			tags = append(tags, tag)
		}
	}
	return s.matchTags(tags)
}

// MatchAcceptLanguage picks the best served language for an Accept-Language
// header value, honoring its quality weights.
func (s *Store) MatchAcceptLanguage(header string) *Locale {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return s.Locale(s.source)
	}
	return s.matchTags(tags)
}

func (s *Store) matchTags(tags []language.Tag) *Locale {
	if len(tags) == 0 {
		return s.Locale(s.source)
	}
	s.mu.RLock()
	matcher, supported := s.matcher, s.tags
	s.mu.RUnlock()
	// The index identifies the served tag; the tag returned by Match may
	// carry extensions from the request.
	_, idx, _ := matcher.Match(tags...)
	return s.Locale(supported[idx])
}

// chain returns the catalogs consulted for a language, most specific first.
func (s *Store) chain(tag language.Tag) []*catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var chain []*catalog.Catalog
	for t := tag; !t.IsRoot(); t = t.Parent() {
		if c, ok := s.catalogs[t]; ok {
			chain = append(chain, c)
		}
	}
	return chain
}

// Close stops the file watcher. It is a no-op for stores without one.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.watcher == nil {
			return
		}
		err = s.watcher.Close()
		s.wg.Wait()
	})
	return err
}
