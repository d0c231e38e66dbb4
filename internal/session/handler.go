package session

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/Yashodeeps/tessera/internal/auth"
	"github.com/Yashodeeps/tessera/internal/typeid"
)

type Handler struct {
	hub            *Hub
	auth           *auth.Service
	originPatterns []string
	logger         *slog.Logger
}

// NewHandler serves session creation and websocket upgrades. origins are
// the allowed browser origins, e.g. "http://localhost:5173".
func NewHandler(hub *Hub, authSvc *auth.Service, origins []string) *Handler {
	return &Handler{
		hub:            hub,
		auth:           authSvc,
		originPatterns: OriginPatterns(origins),
		logger:         hub.logger,
	}
}

type CreateRequest struct {
	Sample bool `json:"sample"`
}

type CreateResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Create handles POST /api/sessions. The body is optional.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		auth.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s, err := h.hub.Create(req.Sample)
	if err != nil {
		h.logger.Error("create session", "error", err)
		auth.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	token, err := h.auth.IssueToken(s.ID())
	if err != nil {
		h.logger.Error("issue token", "error", err)
		auth.WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	auth.WriteJSON(w, http.StatusCreated, CreateResponse{SessionID: s.ID(), Token: token})
}

type InfoResponse struct {
	SessionID string `json:"sessionId"`
	Connected bool   `json:"connected"`
	CanUndo   bool   `json:"canUndo"`
	CanRedo   bool   `json:"canRedo"`
}

// Info handles GET /api/session for the session named by the request's
// token. It must run behind auth.Service.AuthMiddleware.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	sessionID := auth.SessionIDFromContext(r.Context())
	s, ok := h.hub.Session(sessionID)
	if !ok {
		auth.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	s.mu.Lock()
	resp := InfoResponse{
		SessionID: s.id,
		Connected: s.client != nil,
		CanUndo:   s.engine.CanUndo(),
		CanRedo:   s.engine.CanRedo(),
	}
	s.mu.Unlock()

	auth.WriteJSON(w, http.StatusOK, resp)
}

// ServeWS handles GET /ws/session/{sessionId}. The token must have been
// issued for that session. Ids that are not session typeids are not found.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	token, ok := auth.TokenFromRequest(r)
	if !ok {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}
	subject, err := h.auth.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if subject != sessionID {
		http.Error(w, "token not valid for this session", http.StatusForbidden)
		return
	}
	if _, ok := h.hub.Session(sessionID); !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		h.logger.Error("websocket accept", "error", err)
		return
	}

	clientID := uuid.New().String()
	client := NewClient(h.hub, conn, sessionID, clientID)

	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}

// OriginPatterns converts origins to the host patterns websocket.Accept
// matches against. Entries that are already bare hosts pass through.
func OriginPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			out = append(out, u.Host)
			continue
		}
		out = append(out, o)
	}
	return out
}
