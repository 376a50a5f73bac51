package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/example/rvcgen/internal/command"
	"github.com/example/rvcgen/internal/config"
	"github.com/example/rvcgen/internal/editor"
	"github.com/example/rvcgen/internal/preset"
	"github.com/example/rvcgen/internal/schema"
	"github.com/example/rvcgen/internal/session"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxBodyBytes int64
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxBodyBytes: 1 << 20,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxBodyBytes sets the maximum accepted request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(o *options) { o.maxBodyBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler serves one editing session. The editor is not safe for concurrent
// use, so every request holds mu while touching it.
type handler struct {
	mu   sync.Mutex
	ed   *editor.Editor
	opts options
	log  *slog.Logger
}

// NewHandler returns an http.Handler exposing ed as a JSON API.
func NewHandler(ed *editor.Editor, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{ed: ed, opts: opts, log: opts.logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /params", h.handleParams)
	mux.HandleFunc("GET /config", h.handleConfig)
	mux.HandleFunc("PATCH /config/values", h.handleSetValues)
	mux.HandleFunc("PUT /config/mode", h.handleSetMode)
	mux.HandleFunc("POST /config/reset", h.handleReset)
	mux.HandleFunc("GET /command", h.handleCommand)
	mux.HandleFunc("GET /presets", h.handleListPresets)
	mux.HandleFunc("POST /presets", h.handleSavePreset)
	mux.HandleFunc("GET /presets/{name}", h.handleGetPreset)
	mux.HandleFunc("DELETE /presets/{name}", h.handleDeletePreset)
	mux.HandleFunc("POST /presets/{name}/load", h.handleLoadPreset)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

type paramView struct {
	Key      string   `json:"key"`
	Flag     string   `json:"flag"`
	Kind     string   `json:"kind"`
	Default  any      `json:"default"`
	Modes    []string `json:"modes"`
	Required bool     `json:"required"`
	Group    string   `json:"group,omitempty"`
	Options  []string `json:"options,omitempty"`
	Help     string   `json:"help,omitempty"`
}

func (h *handler) handleParams(w http.ResponseWriter, r *http.Request) {
	var mode schema.Mode
	if raw := r.URL.Query().Get("mode"); raw != "" {
		m, err := schema.ParseMode(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		mode = m
	}

	// The schema is read-only; no lock needed.
	params := []paramView{}
	for _, d := range h.ed.Schema().Descriptors() {
		if mode != "" && !d.InMode(mode) {
			continue
		}
		modes := make([]string, len(d.Modes))
		for i, m := range d.Modes {
			modes[i] = string(m)
		}
		params = append(params, paramView{
			Key:      d.Key,
			Flag:     d.Flag,
			Kind:     string(d.Kind),
			Default:  d.Default,
			Modes:    modes,
			Required: d.Required,
			Group:    d.Group,
			Options:  d.Options,
			Help:     d.Help,
		})
	}
	writeJSON(w, http.StatusOK, params)
}

type configView struct {
	session.Configuration
	Command string   `json:"command"`
	Argv    []string `json:"argv"`
	Missing []string `json:"missing"`
}

// view must be called with mu held.
func (h *handler) view() configView {
	cmd := h.ed.Command()
	missing := h.ed.Missing()
	if missing == nil {
		missing = []string{}
	}
	return configView{
		Configuration: h.ed.Snapshot(),
		Command:       cmd.String(),
		Argv:          cmd.Argv(),
		Missing:       missing,
	}
}

func (h *handler) handleConfig(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.view())
}

func (h *handler) handleSetValues(w http.ResponseWriter, r *http.Request) {
	var values map[string]any
	if !h.decode(w, r, &values) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.SetValues(values); err != nil {
		h.fail(w, r, "set values failed", err)
		return
	}
	h.log.InfoContext(r.Context(), "values updated", slog.Int("count", len(values)))
	writeJSON(w, http.StatusOK, h.view())
}

type modeRequest struct {
	Mode string `json:"mode"`
}

func (h *handler) handleSetMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !h.decode(w, r, &req) {
		return
	}
	m, err := schema.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.SetMode(m); err != nil {
		h.fail(w, r, "set mode failed", err)
		return
	}
	h.log.InfoContext(r.Context(), "mode changed", slog.String("mode", string(m)))
	writeJSON(w, http.StatusOK, h.view())
}

func (h *handler) handleReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.ed.Reset()
	h.log.InfoContext(r.Context(), "configuration reset")
	writeJSON(w, http.StatusOK, h.view())
}

type commandView struct {
	Command string   `json:"command"`
	Argv    []string `json:"argv"`
	Missing []string `json:"missing"`
}

// handleCommand returns the command line. With ?strict=true it answers 422
// while required fields are empty.
func (h *handler) handleCommand(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r.URL.Query().Get("strict") == "true" {
		if err := h.ed.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}
	v := h.view()
	writeJSON(w, http.StatusOK, commandView{Command: v.Command, Argv: v.Argv, Missing: v.Missing})
}

func (h *handler) handleListPresets(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, h.ed.List())
}

func (h *handler) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	p, err := h.ed.Preset(r.PathValue("name"))
	if err != nil {
		h.fail(w, r, "get preset failed", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// presetRequest saves the current configuration when only Name is given, and
// stores the given (possibly partial) preset otherwise.
type presetRequest struct {
	Name   string         `json:"name"`
	Mode   string         `json:"mode"`
	Values map[string]any `json:"values"`
}

func (h *handler) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if req.Mode == "" && req.Values == nil {
		err = h.ed.Save(req.Name)
	} else {
		mode := h.ed.Mode()
		if req.Mode != "" {
			mode, err = schema.ParseMode(req.Mode)
		}
		if err == nil {
			err = h.ed.AddPreset(preset.Preset{Name: req.Name, Mode: mode, Values: req.Values})
		}
	}
	if err != nil {
		h.fail(w, r, "save preset failed", err)
		return
	}

	h.log.InfoContext(r.Context(), "preset saved", slog.String("name", strings.TrimSpace(req.Name)))
	writeJSON(w, http.StatusCreated, h.ed.List())
}

func (h *handler) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.Delete(name); err != nil {
		h.fail(w, r, "delete preset failed", err)
		return
	}
	h.log.InfoContext(r.Context(), "preset deleted", slog.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleLoadPreset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.ed.Load(name); err != nil {
		h.fail(w, r, "load preset failed", err)
		return
	}
	h.log.InfoContext(r.Context(), "preset loaded", slog.String("name", name))
	writeJSON(w, http.StatusOK, h.view())
}

// decode reads a JSON body into v, writing an error response on failure.
// Numbers decode as json.Number so integers keep their precision.
func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return false
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("body exceeds maximum size of %d bytes", h.opts.maxBodyBytes))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func (h *handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.log.Log(r.Context(), level, msg,
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, preset.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, schema.ErrUnknownParameter),
		errors.Is(err, schema.ErrTypeMismatch),
		errors.Is(err, schema.ErrInvalidValue),
		errors.Is(err, schema.ErrInvalidMode),
		errors.Is(err, preset.ErrEmptyName):
		return http.StatusBadRequest
	case errors.Is(err, command.ErrMissingRequired):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	ed              *editor.Editor
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, ed *editor.Editor) *Server {
	timeout := 30 * time.Second
	if cfg.Server.ShutdownTimeout > 0 {
		timeout = time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	}
	return &Server{
		cfg:             cfg,
		ed:              ed,
		logger:          slog.Default(),
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

// WithLogger overrides the request logger.
func (s *Server) WithLogger(l *slog.Logger) *Server {
	s.logger = l
	return s
}

// Handler returns the API handler built from the server configuration.
func (s *Server) Handler() http.Handler {
	handlerOpts := []Option{WithLogger(s.logger)}
	if s.cfg.Server.MaxBodyBytes > 0 {
		handlerOpts = append(handlerOpts, WithMaxBodyBytes(s.cfg.Server.MaxBodyBytes))
	}
	return NewHandler(s.ed, handlerOpts...)
}

func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.InfoContext(ctx, "listening", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
