// Package server exposes a locale store as a small read-only HTTP API:
// the served languages, their catalogs and a translation endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/acronis/go-gettext/locale"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Option configures a Server.
type Option interface {
	apply(*options)
}

type options struct {
	logger    *slog.Logger
	accessLog io.Writer
}

type loggerOption struct {
	logger *slog.Logger
}

func (o loggerOption) apply(opts *options) {
	opts.logger = o.logger
}

// WithLogger routes server logging to the given logger.
func WithLogger(logger *slog.Logger) Option {
	return loggerOption{logger: logger}
}

type accessLogOption struct {
	w io.Writer
}

func (o accessLogOption) apply(opts *options) {
	opts.accessLog = o.w
}

// WithAccessLog redirects the combined-format access log, os.Stdout by
// default.
func WithAccessLog(w io.Writer) Option {
	return accessLogOption{w: w}
}

func makeOptions(opts ...Option) options {
	options := options{
		logger:    slog.Default(),
		accessLog: os.Stdout,
	}
	for _, opt := range opts {
		opt.apply(&options)
	}
	return options
}

// Server serves translations over HTTP.
type Server struct {
	store  *locale.Store
	logger *slog.Logger
	http   *http.Server
}

// New builds a server around a locale store. The store stays owned by the
// caller, a watching store keeps reloading underneath the running server.
func New(store *locale.Store, addr string, opts ...Option) *Server {
	options := makeOptions(opts...)
	s := &Server{
		store:  store,
		logger: options.logger,
	}
	s.http = &http.Server{
		Addr: addr,
		Handler: handlers.CombinedLoggingHandler(options.accessLog,
			handlers.RecoveryHandler()(setJSONHeaders(s.router()))),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/languages", s.getLanguages).Methods(http.MethodGet)
	r.HandleFunc("/languages/{lang}", s.getLanguage).Methods(http.MethodGet)
	r.HandleFunc("/languages/{lang}/messages", s.getMessages).Methods(http.MethodGet)
	r.HandleFunc("/translate", s.translate).Methods(http.MethodGet)
	return r
}

// Handler returns the root handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()
	s.logger.Info("Translation API listening", slog.String("addr", s.http.Addr))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shut down server: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func setJSONHeaders(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		h.ServeHTTP(w, r)
	})
}
