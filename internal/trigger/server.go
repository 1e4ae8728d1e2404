package trigger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/audiencelab/seoscan/internal/sheets"
)

// Server exposes the trigger dispatcher over HTTP so a spreadsheet-side
// script can forward cell-edit events with a plain webhook instead of
// holding dispatch credentials itself.
type Server struct {
	dispatcher *Dispatcher
	router     chi.Router
	logger     *slog.Logger
}

// editEvent is the POST /trigger request body.
type editEvent struct {
	// Cell is the edited cell in A1 notation. Defaults to the watched
	// input cell when empty.
	Cell string `json:"cell"`

	// Value is the new cell value: the target website.
	Value string `json:"value"`
}

// NewServer creates a Server around the given dispatcher.
func NewServer(dispatcher *Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		dispatcher: dispatcher,
		router:     chi.NewRouter(),
		logger:     logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/trigger", s.handleTrigger)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("http request", "method", r.Method, "path", r.URL.Path)
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var event editEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if event.Cell == "" {
		event.Cell = sheets.CellTrigger
	}

	result, err := s.dispatcher.HandleEdit(r.Context(), event.Cell, event.Value)
	if err != nil {
		s.logger.Error("trigger handling failed", "cell", event.Cell, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
