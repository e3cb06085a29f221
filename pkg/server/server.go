package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/html"

	"github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/dom"
	"github.com/vango-dev/reactive/pkg/element"
	"github.com/vango-dev/reactive/pkg/telemetry"
	"github.com/vango-dev/reactive/pkg/vdom"
)

// Server serves one live document.
type Server struct {
	config    Config
	doc       *dom.Document
	reg       *element.Registry
	mu        sync.Mutex
	hub       *Hub
	upgrader  websocket.Upgrader
	router    chi.Router
	broadcast *broadcaster
	logger    *slog.Logger
	metrics   *telemetry.Metrics
	gatherer  prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithConfig sets the server configuration. Zero fields take defaults.
func WithConfig(c Config) Option {
	return func(s *Server) {
		s.config = c.withDefaults()
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records client and command metrics.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithGatherer serves g at the configured metrics path.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// New creates a server for doc. Renders of elements defined in reg are
// broadcast to connected clients.
func New(doc *dom.Document, reg *element.Registry, opts ...Option) *Server {
	s := &Server{
		config: DefaultConfig(),
		doc:    doc,
		reg:    reg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = NewHub(s.config.WriteTimeout, s.logger)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  s.config.ReadBufferSize,
		WriteBufferSize: s.config.WriteBufferSize,
		CheckOrigin:     s.config.CheckOrigin,
	}
	s.broadcast = &broadcaster{hub: s.hub}
	reg.Observe(s.broadcast)
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleDocument)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/state/{id}", s.handleState)
	if s.gatherer != nil {
		r.Handle(s.config.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the client hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.config.Address)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.hub.Close()
	return httpServer.Shutdown(shutdownCtx)
}

// Apply runs one command against the document.
func (s *Server) Apply(cmd Command) (err error) {
	if s.metrics != nil {
		defer func() { s.metrics.Command(cmd.Op, err) }()
	}
	if cmd.Target == "" || cmd.Name == "" {
		return errors.New("E170").WithDetail("target and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.doc.GetElementByID(cmd.Target)
	if n == nil {
		return errors.New("E171").WithDetailf("no element with id %q", cmd.Target)
	}

	s.broadcast.rendered = make(map[*html.Node]bool)
	defer func() { s.broadcast.rendered = nil }()

	if err := s.apply(n, cmd); err != nil {
		return err
	}
	// A target that did not render is sent whole.
	if !s.broadcast.rendered[n] && s.hub.ClientCount() > 0 {
		s.hub.Broadcast(Message{
			Type:   MessageUpdate,
			Target: cmd.Target,
			Tag:    n.Data,
			HTML:   dom.OuterHTML(n),
		})
	}
	return nil
}

func (s *Server) apply(n *html.Node, cmd Command) error {
	switch cmd.Op {
	case OpSetAttr:
		value, ok := cmd.Value.(string)
		if !ok {
			return errors.New("E170").WithDetail("setAttr needs a string value")
		}
		s.doc.SetAttribute(n, cmd.Name, value)
	case OpRemoveAttr:
		s.doc.RemoveAttribute(n, cmd.Name)
	case OpSetProp:
		el, err := element.ElementFor(s.doc, n)
		if err != nil {
			return err
		}
		return el.Set(cmd.Name, cmd.Value)
	default:
		return errors.New("E170").WithDetailf("unknown op %q", cmd.Op)
	}
	return nil
}

// HTML returns the current document.
func (s *Server) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.String()
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	page := s.HTML()
	if i := strings.LastIndex(page, "</body>"); i >= 0 {
		page = page[:i] + clientScript + page[i:]
	} else {
		page += clientScript
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	var (
		values map[string]any
		err    error
	)
	if n := s.doc.GetElementByID(id); n == nil {
		err = errors.New("E171").WithDetailf("no element with id %q", id)
	} else if el, e := element.ElementFor(s.doc, n); e != nil {
		err = e
	} else {
		values = el.Values().Map()
	}
	s.mu.Unlock()

	if err != nil {
		writeJSON(w, http.StatusNotFound, Message{Type: MessageError, Error: err.Error(), Code: errors.Code(err)})
		return
	}
	writeJSON(w, http.StatusOK, jsonSafe(values))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	c := s.hub.add(conn)
	if s.metrics != nil {
		s.metrics.ClientConnected()
	}
	defer func() {
		s.hub.remove(c)
		if s.metrics != nil {
			s.metrics.ClientDisconnected()
		}
	}()

	if err := s.hub.send(c, Message{Type: MessageHello, HTML: s.HTML()}); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Debug("websocket read", "error", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			err = errors.New("E170").Wrap(err)
			if s.metrics != nil {
				s.metrics.Command("invalid", err)
			}
			s.reply(c, err)
			continue
		}
		if err := s.Apply(cmd); err != nil {
			s.logger.Debug("command failed", "op", cmd.Op, "target", cmd.Target, "error", err)
			s.reply(c, err)
		}
	}
}

func (s *Server) reply(c *client, err error) {
	if werr := s.hub.send(c, Message{Type: MessageError, Error: err.Error(), Code: errors.Code(err)}); werr != nil {
		s.logger.Debug("reply failed", "error", werr)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// broadcaster sends every render to the hub. While a command is applied,
// rendered records the host nodes whose render was sent.
type broadcaster struct {
	element.NopObserver
	hub      *Hub
	rendered map[*html.Node]bool
}

func (b *broadcaster) Rendered(e *element.Element, patches []vdom.Patch, _ time.Duration) {
	if b.rendered != nil {
		b.rendered[e.Node()] = true
	}
	if e.ID() == "" || b.hub.ClientCount() == 0 {
		return
	}
	b.hub.Broadcast(Message{
		Type:    MessagePatches,
		Target:  e.ID(),
		Tag:     e.Tag(),
		Patches: encodePatches(e.Root(), patches),
		HTML:    dom.OuterHTML(e.Node()),
	})
}

// jsonSafe replaces non-finite numbers, which JSON cannot carry, with
// their string forms.
func jsonSafe(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			v, _ = element.Serialize(element.Number, f)
		}
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
