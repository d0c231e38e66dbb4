package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gorilla/mux"

	"github.com/Yashodeeps/tessera/internal/auth"
	"github.com/Yashodeeps/tessera/internal/config"
	"github.com/Yashodeeps/tessera/internal/engine"
	"github.com/Yashodeeps/tessera/internal/tools"
	"github.com/Yashodeeps/tessera/internal/typeid"
)

const testTimeout = 5 * time.Second

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) (*httptest.Server, *auth.Service) {
	t.Helper()
	cfg := config.Default()
	hub := NewHub(cfg, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	authSvc := auth.NewService("test-secret", time.Hour)
	h := NewHandler(hub, authSvc, cfg.Origins())

	r := mux.NewRouter()
	r.HandleFunc("/api/sessions", h.Create).Methods("POST")
	r.HandleFunc("/ws/session/{sessionId}", h.ServeWS)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authSvc.AuthMiddleware)
	api.HandleFunc("/session", h.Info).Methods("GET")
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, authSvc
}

func createSession(t *testing.T, srv *httptest.Server) CreateResponse {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var out CreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func wsURL(srv *httptest.Server, sessionID, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/session/" + sessionID
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

func dial(t *testing.T, srv *httptest.Server, sessionID, token string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL(srv, sessionID, token), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	msg, err := NewMessage(typ, payload)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func read(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()
	var msg Message
	if err := wsjson.Read(ctx, conn, &msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func readType(t *testing.T, conn *websocket.Conn, typ string) Message {
	t.Helper()
	msg := read(t, conn)
	if msg.Type != typ {
		t.Fatalf("got %s message %s, want %s", msg.Type, msg.Payload, typ)
	}
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) StatePayload {
	t.Helper()
	msg := readType(t, conn, TypeState)
	var st StatePayload
	if err := json.Unmarshal(msg.Payload, &st); err != nil {
		t.Fatal(err)
	}
	return st
}

func pointer(t *testing.T, conn *websocket.Conn, phase string, x, y float64) {
	t.Helper()
	send(t, conn, TypePointer, PointerPayload{Phase: phase, X: x, Y: y})
}

func TestSessionDrivesEngine(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv)
	conn := dial(t, srv, created.SessionID, created.Token)

	var welcome WelcomePayload
	if err := json.Unmarshal(readType(t, conn, TypeWelcome).Payload, &welcome); err != nil {
		t.Fatal(err)
	}
	if welcome.SessionID != created.SessionID || len(welcome.Tools) != 5 {
		t.Errorf("welcome = %+v", welcome)
	}

	st := readState(t, conn)
	if len(st.Scene.RootLayers) != 1 || st.ActiveTool != tools.SelectID {
		t.Fatalf("initial state = %+v", st)
	}

	send(t, conn, TypeToolActivate, ToolActivatePayload{ToolID: tools.RectID})
	if st := readState(t, conn); st.ActiveTool != tools.RectID {
		t.Fatalf("active tool = %q", st.ActiveTool)
	}

	pointer(t, conn, "down", 10, 10)
	readState(t, conn)
	pointer(t, conn, "move", 60, 40)
	if st := readState(t, conn); st.Feedback.PreviewRect == nil {
		t.Error("no preview while dragging")
	}
	pointer(t, conn, "up", 60, 40)
	st = readState(t, conn)
	if len(st.Scene.Shapes()) != 1 || !st.CanUndo || st.Feedback.PreviewRect != nil {
		t.Fatalf("after create: shapes=%v canUndo=%v preview=%v",
			st.Scene.Shapes(), st.CanUndo, st.Feedback.PreviewRect)
	}

	send(t, conn, TypeUndo, nil)
	st = readState(t, conn)
	if len(st.Scene.Shapes()) != 0 || st.CanUndo || !st.CanRedo {
		t.Errorf("after undo: shapes=%v canUndo=%v canRedo=%v", st.Scene.Shapes(), st.CanUndo, st.CanRedo)
	}

	send(t, conn, TypeViewportZoom, ZoomPayload{Factor: 2})
	if st := readState(t, conn); st.Viewport.Zoom != 2 {
		t.Errorf("zoom = %v, want 2", st.Viewport.Zoom)
	}
}

func TestSessionReportsErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv)
	conn := dial(t, srv, created.SessionID, created.Token)
	readType(t, conn, TypeWelcome)
	readState(t, conn)

	tests := []struct {
		name    string
		typ     string
		payload any
		reason  string
	}{
		{"unknown type", "shape.explode", nil, "unknown message type"},
		{"bad phase", TypePointer, PointerPayload{Phase: "hover"}, "hover"},
		{"missing payload", TypeToolActivate, nil, "missing payload"},
		{"unknown tool", TypeToolActivate, ToolActivatePayload{ToolID: "lasso"}, "lasso"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			send(t, conn, tt.typ, tt.payload)
			var p ErrorPayload
			if err := json.Unmarshal(readType(t, conn, TypeError).Payload, &p); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(p.Reason, tt.reason) {
				t.Errorf("reason = %q, want it to mention %q", p.Reason, tt.reason)
			}
		})
	}
}

func TestSessionRejectsBadTokens(t *testing.T) {
	srv, authSvc := newTestServer(t)
	a := createSession(t, srv)
	b := createSession(t, srv)
	ghost := typeid.NewSessionID()
	ghostToken, err := authSvc.IssueToken(ghost)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		sessionID string
		token     string
		want      int
	}{
		{"missing", a.SessionID, "", http.StatusUnauthorized},
		{"garbage", a.SessionID, "not-a-jwt", http.StatusUnauthorized},
		{"other session", a.SessionID, b.Token, http.StatusForbidden},
		{"unknown session", ghost, ghostToken, http.StatusNotFound},
		{"malformed id", "not-a-session", a.Token, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()
			conn, resp, err := websocket.Dial(ctx, wsURL(srv, tt.sessionID, tt.token), nil)
			if err == nil {
				conn.Close(websocket.StatusNormalClosure, "")
				t.Fatal("dial succeeded")
			}
			if resp == nil || resp.StatusCode != tt.want {
				t.Errorf("resp = %v, want status %d", resp, tt.want)
			}
		})
	}
}

func TestSecondConnectionReplacesFirst(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv)

	first := dial(t, srv, created.SessionID, created.Token)
	readType(t, first, TypeWelcome)
	readState(t, first)

	second := dial(t, srv, created.SessionID, created.Token)
	readType(t, second, TypeWelcome)
	readState(t, second)

	var p ErrorPayload
	if err := json.Unmarshal(readType(t, first, TypeError).Payload, &p); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.Reason, "replaced") {
		t.Errorf("reason = %q", p.Reason)
	}

	send(t, second, TypeViewportPan, PanPayload{DX: 5, DY: 7})
	if st := readState(t, second); st.Viewport.X != 5 || st.Viewport.Y != 7 {
		t.Errorf("viewport = %+v", st.Viewport)
	}
}

func TestCreateRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	resp, err := http.Post(srv.URL+"/api/sessions", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHubCreateSample(t *testing.T) {
	hub := NewHub(config.Default(), quietLogger())
	s, err := hub.Create(true)
	if err != nil {
		t.Fatal(err)
	}
	s.Engine(func(e *engine.Engine) {
		if n := len(e.State().Scene.Shapes()); n != 4 {
			t.Errorf("sample scene has %d shapes, want 4", n)
		}
	})
}

func TestHubReapsIdleSessions(t *testing.T) {
	cfg := config.Default()
	cfg.SessionTTL = time.Hour
	hub := NewHub(cfg, quietLogger())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hub.now = func() time.Time { return base }

	s, err := hub.Create(false)
	if err != nil {
		t.Fatal(err)
	}
	if n := hub.Reap(base.Add(30 * time.Minute)); n != 0 {
		t.Errorf("reaped %d sessions before the TTL", n)
	}
	if n := hub.Reap(base.Add(2 * time.Hour)); n != 1 {
		t.Errorf("reaped %d sessions, want 1", n)
	}
	if _, ok := hub.Session(s.ID()); ok {
		t.Error("session survived reaping")
	}
	if hub.Len() != 0 {
		t.Errorf("Len() = %d, want 0", hub.Len())
	}
}

func TestOriginPatterns(t *testing.T) {
	got := OriginPatterns([]string{"http://localhost:5173", "https://app.example.com", "*.example.org"})
	want := []string{"localhost:5173", "app.example.com", "*.example.org"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("OriginPatterns() = %v, want %v", got, want)
	}
}

func TestDecodeErrors(t *testing.T) {
	if _, err := decode[PanPayload](nil); err == nil {
		t.Error("expected missing payload error")
	}
	_, err := decode[PanPayload](json.RawMessage(`{"dx":"left"}`))
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		t.Errorf("err = %v, want *json.UnmarshalTypeError", err)
	}
}

func TestSessionInfo(t *testing.T) {
	srv, _ := newTestServer(t)
	created := createSession(t, srv)

	get := func(token string) (*http.Response, InfoResponse) {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/session", nil)
		if err != nil {
			t.Fatal(err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var info InfoResponse
		if resp.StatusCode == http.StatusOK {
			if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
				t.Fatal(err)
			}
		}
		return resp, info
	}

	if resp, _ := get(""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("without token: status = %d, want 401", resp.StatusCode)
	}

	resp, info := get(created.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if info.SessionID != created.SessionID || info.Connected || info.CanUndo {
		t.Errorf("info = %+v", info)
	}
}
