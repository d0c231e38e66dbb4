package store

import (
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
)

// Feedback is ephemeral, per-gesture state surfaced to painters. It is never
// part of the scene and never recorded in history.
type Feedback struct {
	PreviewRect *geometry.Rect `json:"previewRect"`
	Marquee     *geometry.Rect `json:"marquee"`
}

// CoreState is the complete editor state at one instant.
type CoreState struct {
	Scene      scene.Scene `json:"scene"`
	Selection  []string    `json:"selection"`
	Viewport   Viewport    `json:"viewport"`
	ActiveTool string      `json:"activeTool"`
	Feedback   Feedback    `json:"feedback"`
}

// Listener receives the new state after every update.
type Listener func(CoreState)

type subscription struct {
	fn     Listener
	active bool
}

// Store is the single owner of the editor's CoreState. Every mutation goes
// through Update, which replaces the state wholesale and then notifies every
// subscriber synchronously, in subscription order.
//
// A Store is not safe for concurrent use.
type Store struct {
	state CoreState
	subs  []*subscription
}

// New creates a store holding initial with an empty selection, the identity
// viewport and no active tool.
func New(initial scene.Scene) *Store {
	return &Store{
		state: CoreState{
			Scene:     initial,
			Selection: []string{},
			Viewport:  DefaultViewport(),
		},
	}
}

// State returns the current state. Callers must not mutate it; use Update.
func (s *Store) State() CoreState {
	return s.state
}

// Subscribe registers l and returns a function that removes it. Listeners
// added while a notification round is running are first called on the next
// round. A listener removed mid-round is not called for the rest of it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	sub := &subscription{fn: l, active: true}
	s.subs = append(s.subs, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, x := range s.subs {
			if x == sub {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
	}
}

// Update replaces the state with fn(current) and notifies subscribers.
// Every listener of a round receives the state that round published, even
// when an earlier listener calls Update again.
func (s *Store) Update(fn func(CoreState) CoreState) {
	s.state = fn(s.state)
	published := s.state

	round := append([]*subscription(nil), s.subs...)
	for _, sub := range round {
		if !sub.active {
			continue
		}
		sub.fn(published)
	}
}
