// Package server exposes the web UI and JSON API: consultation runs
// with SSE progress streams, the layout checker, and history.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/decora-ai/decora/internal/crew"
	"github.com/decora-ai/decora/internal/layout"
	"github.com/decora-ai/decora/internal/state"
	"github.com/decora-ai/decora/pkg/models"
	webui "github.com/decora-ai/decora/web"
)

// historyLimit caps the consultations returned by the list endpoint.
const historyLimit = 50

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string, detail string) {
	if detail != "" {
		log.Printf("http %d error: %s detail=%s", code, msg, detail)
	} else {
		log.Printf("http %d error: %s", code, msg)
	}
	// Report 5xx errors to Sentry; a no-op unless sentry.Init ran.
	if code >= 500 {
		sentry.CaptureMessage(fmt.Sprintf("HTTP %d: %s (detail: %s)", code, msg, detail))
	}
	writeJSON(w, code, apiError{Error: msg, Detail: detail})
}

// Server routes the decora web API.
type Server struct {
	mux   *http.ServeMux
	store *state.DB
	runs  *RunManager
}

// NewServer creates a server over the given mux, store, and run manager.
func NewServer(mux *http.ServeMux, store *state.DB, runs *RunManager) *Server {
	return &Server{mux: mux, store: store, runs: runs}
}

// RegisterRoutes attaches all handlers to the mux.
func (s *Server) RegisterRoutes() {
	s.mux.HandleFunc("/api/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/layout/check", s.handleLayoutCheck)
	s.mux.HandleFunc("/api/consultations", s.handleConsultations)
	s.mux.HandleFunc("/api/consultations/", s.handleConsultationSubroutes)
	s.mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleIndex serves the embedded single-page UI.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeErr(w, http.StatusNotFound, "not found", "")
		return
	}
	if len(webui.Index) == 0 {
		writeErr(w, http.StatusNotFound, "not found", "index")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(webui.Index)
}

// handleLayoutCheck runs a synchronous feasibility check.
// POST /api/layout/check
func (s *Server) handleLayoutCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req layout.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result := layout.Check(req)

	// History is best effort; the check result stands on its own.
	if s.store != nil {
		if err := s.store.RecordLayoutCheck(r.Context(), req, result); err != nil {
			log.Printf("record layout check: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

// handleConsultations starts a run or lists recent history.
// POST /api/consultations, GET /api/consultations
func (s *Server) handleConsultations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleStartConsultation(w, r)
	case http.MethodGet:
		s.handleListConsultations(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "")
	}
}

func (s *Server) handleStartConsultation(w http.ResponseWriter, r *http.Request) {
	var request models.ConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := request.Validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := s.runs.Start(request)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to start consultation", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"id": id})
}

func (s *Server) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	consultations, err := s.store.ListConsultations(historyLimit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to list consultations", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, consultations)
}

// handleConsultationSubroutes dispatches /api/consultations/{id}[/...].
func (s *Server) handleConsultationSubroutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/consultations/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" {
		writeErr(w, http.StatusNotFound, "not found", "")
		return
	}

	switch sub {
	case "":
		s.handleGetConsultation(w, r, id)
	case "events":
		s.handleEvents(w, r, id)
	case "report":
		s.handleReport(w, r, id)
	default:
		writeErr(w, http.StatusNotFound, "not found", "")
	}
}

// consultationDetail is the GET-by-id response: the stored record plus
// the report text when the run completed.
type consultationDetail struct {
	models.Consultation
	Report string `json:"report,omitempty"`
}

func (s *Server) handleGetConsultation(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	c, err := s.store.GetConsultation(id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load consultation", err.Error())
		return
	}
	if c == nil {
		writeErr(w, http.StatusNotFound, "consultation not found", "")
		return
	}

	detail := consultationDetail{Consultation: *c}
	if c.ReportFile != "" {
		if text, err := os.ReadFile(c.ReportFile); err == nil {
			detail.Report = string(text)
		}
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	c, err := s.store.GetConsultation(id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load consultation", err.Error())
		return
	}
	if c == nil {
		writeErr(w, http.StatusNotFound, "consultation not found", "")
		return
	}
	if c.ReportFile == "" {
		writeErr(w, http.StatusNotFound, "report not available", "consultation has not completed")
		return
	}

	text, err := os.ReadFile(c.ReportFile)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to read report", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(c.ReportFile)))
	_, _ = w.Write(text)
}

// handleEvents streams consultation progress as server-sent events,
// replaying history first so late subscribers see the whole run.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeErr(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	replay, events, unsubscribe, ok := s.runs.Subscribe(id)
	if !ok {
		// Finished runs may have been evicted from memory; synthesize a
		// terminal event from the store so the client can settle.
		s.replayFromStore(w, r, id, flusher)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for _, ev := range replay {
		if !writeSSE(w, flusher, ev) {
			return
		}
	}

	for {
		select {
		case ev, open := <-events:
			if !open {
				return
			}
			if !writeSSE(w, flusher, ev) {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// replayFromStore answers an events request for a run the manager no
// longer tracks, emitting one terminal event from the stored record.
func (s *Server) replayFromStore(w http.ResponseWriter, r *http.Request, id string, flusher http.Flusher) {
	c, err := s.store.GetConsultation(id)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, "failed to load consultation", err.Error())
		return
	}
	if c == nil {
		writeErr(w, http.StatusNotFound, "consultation not found", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")

	ev := crew.Event{
		Type:           crew.EventConsultationDone,
		ConsultationID: c.ID,
		TokensUsed:     c.TokensUsed,
		Cost:           c.Cost,
		Error:          c.Error,
	}
	switch c.Status {
	case models.ConsultationCompleted:
		ev.Message = "Consultation complete"
	case models.ConsultationFailed:
		ev.Message = "Consultation failed"
	default:
		ev.Message = "Consultation " + string(c.Status)
	}
	writeSSE(w, flusher, ev)
}

// writeSSE writes one event in SSE framing. Returns false on write error.
func writeSSE(w http.ResponseWriter, flusher http.Flusher, ev crew.Event) bool {
	data, err := json.Marshal(ev)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
