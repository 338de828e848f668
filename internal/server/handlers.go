package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"golang.org/x/text/language"

	"github.com/acronis/go-gettext/catalog"
	"github.com/acronis/go-gettext/locale"
	"github.com/acronis/go-gettext/po"
)

type errorResponse struct {
	Error string `json:"error"`
}

type languageInfo struct {
	Language     string `json:"language"`
	Messages     int    `json:"messages"`
	Translated   int    `json:"translated"`
	Untranslated int    `json:"untranslated"`
}

type languagesResponse struct {
	Domain         string         `json:"domain"`
	SourceLanguage string         `json:"source_language"`
	Languages      []languageInfo `json:"languages"`
}

type languageDetail struct {
	languageInfo
	PluralForms string            `json:"plural_forms"`
	Header      map[string]string `json:"header,omitempty"`
}

type messageJSON struct {
	Context  string   `json:"context,omitempty"`
	ID       string   `json:"id"`
	IDPlural string   `json:"id_plural,omitempty"`
	Str      []string `json:"str"`
}

type messagesResponse struct {
	Language string        `json:"language"`
	Messages []messageJSON `json:"messages"`
}

type translateResponse struct {
	Language    string `json:"language"`
	Translation string `json:"translation"`
}

// headerFields is the set of standard header fields reported by the
// language detail endpoint.
var headerFields = []string{
	po.HeaderProjectIDVersion,
	po.HeaderReportMsgidBugsTo,
	po.HeaderPOTCreationDate,
	po.HeaderPORevisionDate,
	po.HeaderLastTranslator,
	po.HeaderLanguageTeam,
	po.HeaderLanguage,
	po.HeaderContentType,
	po.HeaderPluralForms,
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encoding failed", slog.String("error", err.Error()))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	s.writeJSON(w, errorResponse{Error: msg})
}

func languageInfoFor(tag language.Tag, c *catalog.Catalog) languageInfo {
	info := languageInfo{Language: tag.String(), Messages: c.Len()}
	for _, m := range c.Messages() {
		if m.IsTranslated() {
			info.Translated++
		} else {
			info.Untranslated++
		}
	}
	return info
}

// Gets the list of served languages with their translation counts.
func (s *Server) getLanguages(w http.ResponseWriter, r *http.Request) {
	tags := s.store.Languages()
	resp := languagesResponse{
		Domain:         s.store.Domain(),
		SourceLanguage: s.store.SourceLanguage().String(),
		Languages:      make([]languageInfo, 0, len(tags)),
	}
	for _, tag := range tags {
		resp.Languages = append(resp.Languages, languageInfoFor(tag, s.store.Catalog(tag)))
	}
	s.writeJSON(w, resp)
}

// Resolves the {lang} path variable to a loaded catalog, writing the
// error response itself when it cannot.
func (s *Server) catalogVar(w http.ResponseWriter, r *http.Request) (language.Tag, *catalog.Catalog, bool) {
	raw := mux.Vars(r)["lang"]
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unrecognized language %q", raw))
		return language.Tag{}, nil, false
	}
	c := s.store.Catalog(tag)
	if c == nil {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("no catalog for language %q", raw))
		return language.Tag{}, nil, false
	}
	return tag, c, true
}

// Gets header metadata and translation counts for one language.
func (s *Server) getLanguage(w http.ResponseWriter, r *http.Request) {
	tag, c, ok := s.catalogVar(w, r)
	if !ok {
		return
	}

	detail := languageDetail{
		languageInfo: languageInfoFor(tag, c),
		PluralForms:  c.PluralForms().String(),
	}
	for _, name := range headerFields {
		if value := c.Header(name); value != "" {
			if detail.Header == nil {
				detail.Header = make(map[string]string)
			}
			detail.Header[name] = value
		}
	}
	s.writeJSON(w, detail)
}

// Gets the messages of one language's catalog.
func (s *Server) getMessages(w http.ResponseWriter, r *http.Request) {
	tag, c, ok := s.catalogVar(w, r)
	if !ok {
		return
	}

	msgs := c.Messages()
	resp := messagesResponse{
		Language: tag.String(),
		Messages: make([]messageJSON, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, messageJSON{
			Context:  m.Context,
			ID:       m.ID,
			IDPlural: m.IDPlural,
			Str:      m.Str,
		})
	}
	s.writeJSON(w, resp)
}

// Resolves one translation. The language comes from the lang query
// parameter when given, Accept-Language negotiation otherwise; lookups
// fall back the same way in-process callers do.
func (s *Server) translate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id := q.Get("msgid")
	if id == "" {
		s.writeError(w, http.StatusBadRequest, "msgid query parameter is required")
		return
	}
	ctx := q.Get("msgctxt")
	plural := q.Get("msgid_plural")

	n := 1
	if raw := q.Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("n must be an integer, got %q", raw))
			return
		}
		n = parsed
	}

	var loc *locale.Locale
	if lang := q.Get("lang"); lang != "" {
		loc = s.store.Match(lang)
	} else {
		loc = s.store.MatchAcceptLanguage(r.Header.Get("Accept-Language"))
	}

	var out string
	if plural != "" {
		out = loc.GetNC(ctx, id, plural, n)
	} else {
		out = loc.GetC(ctx, id)
	}
	s.writeJSON(w, translateResponse{
		Language:    loc.Tag().String(),
		Translation: out,
	})
}
