package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Yashodeeps/tessera/internal/config"
	"github.com/Yashodeeps/tessera/internal/engine"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/typeid"
)

const reapInterval = time.Minute

// Hub owns every live session. Clients attach through Register, which
// completes before the client's read pump starts, and detach through
// Unregister, which Run serializes.
type Hub struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session // sessionID -> session

	unregister chan *Client
	done       chan struct{}
}

func NewHub(cfg *config.Config, logger *slog.Logger) *Hub {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
		sessions:   make(map[string]*Session),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves unregistrations and reaps idle sessions until ctx is done, then
// closes every client.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(reapInterval)
	defer func() {
		ticker.Stop()
		close(h.done)
		h.closeAll()
	}()

	for {
		select {
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			if n := h.Reap(h.now()); n > 0 {
				h.logger.Info("reaped idle sessions", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		client.close()
		return
	default:
	}
	h.addClient(client)
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Create starts a session with a fresh engine. The scene holds one empty
// layer, or the sample scene when sample is set.
func (h *Hub) Create(sample bool) (*Session, error) {
	id := typeid.NewSessionID()

	sc := scene.AddNode(scene.NewScene(), scene.CreateLayer(typeid.NewLayerID()))
	if sample {
		sc = engine.SampleScene()
	}
	eng, err := engine.New(h.cfg, h.logger.With("session", id), engine.WithScene(sc))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s := newSession(id, eng, h.now())
	h.mu.Lock()
	h.sessions[id] = s
	h.mu.Unlock()

	h.logger.Info("session created", "session", id, "sample", sample)
	return s, nil
}

func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Reap drops sessions that have had no client for longer than the session
// TTL and returns how many were dropped.
func (h *Hub) Reap(now time.Time) int {
	h.mu.Lock()
	var expired []*Session
	for id, s := range h.sessions {
		s.mu.Lock()
		idle := s.client == nil && now.Sub(s.lastSeen) > h.cfg.SessionTTL
		s.mu.Unlock()
		if idle {
			expired = append(expired, s)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()

	for _, s := range expired {
		s.unsubscribe()
		h.logger.Debug("session expired", "session", s.id)
	}
	return len(expired)
}

// addClient makes client the driving connection of its session. A previous
// connection is told it was replaced and closed.
func (h *Hub) addClient(client *Client) {
	s, ok := h.Session(client.SessionID)
	if !ok {
		client.Send(errorMessage("unknown session"))
		client.close()
		return
	}

	s.mu.Lock()
	prev := s.client
	s.client = client
	s.lastSeen = h.now()

	welcome, err := NewMessage(TypeWelcome, WelcomePayload{
		SessionID: s.id,
		ClientID:  client.ClientID,
		Tools:     s.engine.ToolIDs(),
	})
	if err == nil {
		client.Send(welcome)
	}
	if state, err := s.stateMessageLocked(); err == nil {
		client.Send(state)
	} else {
		client.logger.Error("marshal state", "error", err)
	}
	s.mu.Unlock()

	if prev != nil {
		prev.Send(errorMessage("replaced by another connection"))
		prev.close()
	}
	client.logger.Info("client joined")
}

func (h *Hub) removeClient(client *Client) {
	if s, ok := h.Session(client.SessionID); ok {
		s.mu.Lock()
		if s.client == client {
			s.client = nil
			s.lastSeen = h.now()
		}
		s.mu.Unlock()
	}
	client.close()
	client.logger.Info("client left")
}

// handleMessage applies msg to the sender's session and answers with an
// error frame on failure and a state frame when anything changed.
func (h *Hub) handleMessage(sender *Client, msg *Message) {
	s, ok := h.Session(sender.SessionID)
	if !ok {
		sender.Send(errorMessage("unknown session"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != sender {
		return
	}
	s.lastSeen = h.now()

	if err := s.applyLocked(msg); err != nil {
		sender.logger.Warn("message failed", "type", msg.Type, "error", err)
		reply := errorMessage(err.Error())
		reply.Seq = msg.Seq
		sender.Send(reply)
	}
	if !s.dirty {
		return
	}
	state, err := s.stateMessageLocked()
	if err != nil {
		sender.logger.Error("marshal state", "error", err)
		return
	}
	sender.Send(state)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		s.mu.Lock()
		if s.client != nil {
			s.client.close()
			s.client = nil
		}
		s.mu.Unlock()
	}
}
