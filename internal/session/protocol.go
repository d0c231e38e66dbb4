package session

import (
	"encoding/json"

	"github.com/Yashodeeps/tessera/internal/store"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Editor state
	TypeState = "state"

	// Input
	TypePointer      = "pointer"
	TypeToolActivate = "tool.activate"

	// History
	TypeUndo = "history.undo"
	TypeRedo = "history.redo"

	// Selection
	TypeSelectionSet    = "selection.set"
	TypeSelectionDelete = "selection.delete"

	// Viewport
	TypeViewportPan  = "viewport.pan"
	TypeViewportZoom = "viewport.zoom"
)

// PointerPayload is the payload for pointer messages. X and Y are world
// coordinates unless Screen is set.
type PointerPayload struct {
	Phase  string  `json:"phase"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Screen bool    `json:"screen,omitempty"`
	Shift  bool    `json:"shift,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Meta   bool    `json:"meta,omitempty"`
}

type ToolActivatePayload struct {
	ToolID string `json:"toolId"`
}

type SelectionSetPayload struct {
	IDs []string `json:"ids"`
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// ZoomPayload zooms by Factor around the screen point (X, Y).
type ZoomPayload struct {
	Factor float64 `json:"factor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type WelcomePayload struct {
	SessionID string   `json:"sessionId"`
	ClientID  string   `json:"clientId"`
	Tools     []string `json:"tools"`
}

// StatePayload is the full editor state sent after every change.
type StatePayload struct {
	store.CoreState
	CanUndo bool `json:"canUndo"`
	CanRedo bool `json:"canRedo"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

// NewMessage builds a message with payload marshaled to JSON.
func NewMessage(typ string, payload any) (*Message, error) {
	msg := &Message{Type: typ}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = data
	}
	return msg, nil
}

func errorMessage(reason string) *Message {
	data, _ := json.Marshal(ErrorPayload{Reason: reason})
	return &Message{Type: TypeError, Payload: data}
}
