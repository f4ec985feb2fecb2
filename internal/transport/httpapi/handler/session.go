package handler

import (
	"context"
	"net/http"

	"github.com/aurevia/walletsync/internal/platform/provider"
)

// SessionService defines the wallet session operations the handler needs
type SessionService interface {
	Connect(ctx context.Context) (provider.Session, error)
	Disconnect()
	SwitchNetwork(ctx context.Context) error
	Snapshot() provider.Session
	ClearError()
}

// SessionHandler handles wallet session HTTP requests
type SessionHandler struct {
	sessions SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// SessionResponse represents the wallet session state
type SessionResponse struct {
	Status           string `json:"status"`
	Address          string `json:"address,omitempty"`
	ChainID          int64  `json:"chain_id,omitempty"`
	IsCorrectNetwork bool   `json:"is_correct_network"`
	Error            string `json:"error,omitempty"`
}

func toSessionResponse(s provider.Session) SessionResponse {
	return SessionResponse{
		Status:           string(s.Status),
		Address:          s.Address,
		ChainID:          s.ChainID,
		IsCorrectNetwork: s.IsCorrectNetwork,
		Error:            s.ErrorText,
	}
}

// GetSession handles GET /session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// Connect handles POST /session/connect
func (h *SessionHandler) Connect(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.Connect(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toSessionResponse(session))
}

// Disconnect handles POST /session/disconnect
func (h *SessionHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.sessions.Disconnect()
	respondWithJSON(w, http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// SwitchNetwork handles POST /session/network
func (h *SessionHandler) SwitchNetwork(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SwitchNetwork(r.Context()); err != nil {
		respondAppError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}

// ClearError handles POST /session/error/clear
func (h *SessionHandler) ClearError(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearError()
	respondWithJSON(w, http.StatusOK, toSessionResponse(h.sessions.Snapshot()))
}
