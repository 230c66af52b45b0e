package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/activegames/reservation/internal/core/domain"
	"github.com/activegames/reservation/internal/core/services"
)

type SessionHandler struct {
	wizard       *services.WizardService
	orchestrator *services.PaymentOrchestrator
	terms        *services.TermsGate
}

func NewSessionHandler(wizard *services.WizardService, orchestrator *services.PaymentOrchestrator, terms *services.TermsGate) *SessionHandler {
	return &SessionHandler{
		wizard:       wizard,
		orchestrator: orchestrator,
		terms:        terms,
	}
}

func (h *SessionHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sessions", h.StartSession)
	mux.HandleFunc("GET /sessions/{id}", h.GetSession)
	mux.HandleFunc("POST /sessions/{id}/draft", h.UpdateDraft)
	mux.HandleFunc("POST /sessions/{id}/advance", h.Advance)
	mux.HandleFunc("POST /sessions/{id}/back", h.Back)
	mux.HandleFunc("POST /sessions/{id}/quote", h.RefreshQuote)
	mux.HandleFunc("POST /sessions/{id}/confirm", h.Confirm)
	mux.HandleFunc("GET /terms", h.Terms)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error": validation.Message,
			"field": validation.Field,
		})
		return
	}

	var orderErr *domain.OrderCreationError
	var captureErr *domain.PaymentCaptureError

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrVenueNotFound):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrQuoteUnavailable), errors.Is(err, domain.ErrQuoteStale):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSubmissionInProgress):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrSessionCompleted):
		writeJSON(w, http.StatusGone, map[string]string{"error": err.Error()})
	case errors.As(err, &orderErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": orderErr.Error(), "kind": "order_creation"})
	case errors.As(err, &captureErr):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":     captureErr.Error(),
			"kind":      "payment_capture",
			"reference": captureErr.Reference,
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req services.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	session, err := h.wizard.Start(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	session, err := h.wizard.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	var req services.UpdateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	session, err := h.wizard.UpdateDraft(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	session, err := h.wizard.Advance(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	session, err := h.wizard.Back(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) RefreshQuote(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	session, err := h.wizard.RefreshQuote(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

type confirmRequest struct {
	Card *domain.CardInput `json:"card,omitempty"`
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	session, err := h.orchestrator.Confirm(r.Context(), id, req.Card)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

func (h *SessionHandler) Terms(w http.ResponseWriter, r *http.Request) {
	locale := r.URL.Query().Get("lang")
	if locale == "" {
		locale = "en"
	}

	content, err := h.terms.Content(r.Context(), locale)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}
