package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Yashodeeps/tessera/internal/engine"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/store"
)

var ErrUnknownMessageType = errors.New("unknown message type")

// Session holds one editor engine and the connection driving it. Every
// engine call happens under mu.
type Session struct {
	id string

	mu          sync.Mutex
	engine      *engine.Engine
	client      *Client
	seq         int64
	dirty       bool
	lastSeen    time.Time
	unsubscribe func()
}

func newSession(id string, eng *engine.Engine, now time.Time) *Session {
	s := &Session{id: id, engine: eng, lastSeen: now}
	s.unsubscribe = eng.Subscribe(func(store.CoreState) { s.dirty = true })
	return s
}

func (s *Session) ID() string { return s.id }

// Engine runs fn with exclusive access to the session's engine.
func (s *Session) Engine(fn func(*engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// stateMessageLocked builds the next state frame. Caller must hold mu.
func (s *Session) stateMessageLocked() (*Message, error) {
	s.seq++
	s.dirty = false
	msg, err := NewMessage(TypeState, StatePayload{
		CoreState: s.engine.State(),
		CanUndo:   s.engine.CanUndo(),
		CanRedo:   s.engine.CanRedo(),
	})
	if err != nil {
		return nil, err
	}
	msg.Seq = s.seq
	return msg, nil
}

// applyLocked runs one client message against the engine. Caller must
// hold mu.
func (s *Session) applyLocked(msg *Message) error {
	e := s.engine
	switch msg.Type {
	case TypePointer:
		p, err := decode[PointerPayload](msg.Payload)
		if err != nil {
			return err
		}
		phase, err := events.ParsePhase(p.Phase)
		if err != nil {
			return err
		}
		mods := events.Modifiers{Shift: p.Shift, Ctrl: p.Ctrl, Meta: p.Meta}
		if p.Screen {
			return e.PointerEventScreen(phase, geometry.V(p.X, p.Y), mods)
		}
		return e.PointerEvent(phase, geometry.V(p.X, p.Y), mods)

	case TypeToolActivate:
		p, err := decode[ToolActivatePayload](msg.Payload)
		if err != nil {
			return err
		}
		return e.ActivateTool(p.ToolID)

	case TypeUndo:
		return e.Undo()

	case TypeRedo:
		return e.Redo()

	case TypeSelectionSet:
		p, err := decode[SelectionSetPayload](msg.Payload)
		if err != nil {
			return err
		}
		e.Select(p.IDs)
		return nil

	case TypeSelectionDelete:
		return e.DeleteSelected()

	case TypeViewportPan:
		p, err := decode[PanPayload](msg.Payload)
		if err != nil {
			return err
		}
		e.Pan(p.DX, p.DY)
		return nil

	case TypeViewportZoom:
		p, err := decode[ZoomPayload](msg.Payload)
		if err != nil {
			return err
		}
		e.ZoomAt(p.Factor, geometry.V(p.X, p.Y))
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessageType, msg.Type)
	}
}

func decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if len(raw) == 0 {
		return v, errors.New("missing payload")
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("invalid payload: %w", err)
	}
	return v, nil
}
