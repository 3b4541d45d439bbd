package board

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/session"
	"github.com/inamate/sketchboard/internal/store"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemoryStore()
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := NewService(st, tokens, engine.DefaultConfig(), 640, 480)
	h := NewHandler(svc, session.NewHub(), st, nil, session.WithFrameInterval(5*time.Millisecond))

	r := mux.NewRouter()
	h.Routes(r, tokens)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func create(t *testing.T, srv *httptest.Server, body string) Created {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/boards", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var c Created
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		t.Fatal(err)
	}
	return c
}

func get(t *testing.T, url, token string) *http.Response {
	t.Helper()
	req, _ := http.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCreateGetList(t *testing.T) {
	srv := newServer(t)
	c := create(t, srv, `{"name":"Plan"}`)
	if c.Token == "" || c.Board.Width != 640 || c.Board.Version != 1 {
		t.Fatalf("created = %+v", c)
	}

	if resp := get(t, srv.URL+"/api/boards/"+c.Board.ID, ""); resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("get without token = %d", resp.StatusCode)
	}
	resp := get(t, srv.URL+"/api/boards/"+c.Board.ID, c.Token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get = %d", resp.StatusCode)
	}

	other := create(t, srv, `{"name":"Other","sample":12,"seed":4}`)
	if len(other.Board.Shapes) != 12 {
		t.Errorf("sample board has %d shapes", len(other.Board.Shapes))
	}
	if resp := get(t, srv.URL+"/api/boards/"+other.Board.ID, c.Token); resp.StatusCode != http.StatusForbidden {
		t.Errorf("get with another board's token = %d", resp.StatusCode)
	}

	resp = get(t, srv.URL+"/api/boards", "")
	var list []store.Summary
	json.NewDecoder(resp.Body).Decode(&list)
	if len(list) != 2 {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateRejectsMissingName(t *testing.T) {
	srv := newServer(t)
	resp, err := http.Post(srv.URL+"/api/boards", "application/json", strings.NewReader(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRenderPNG(t *testing.T) {
	srv := newServer(t)
	c := create(t, srv, `{"name":"Pic","sample":8,"seed":2}`)
	resp := get(t, srv.URL+"/api/boards/"+c.Board.ID+"/render.png?width=200&height=100", c.Token)
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("status=%d type=%s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("image size = %v", b)
	}
}

func TestWebsocketSession(t *testing.T) {
	srv := newServer(t)
	c := create(t, srv, `{"name":"Live"}`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/boards/" + c.Board.ID + "?token=" + c.Token
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	read := func() session.Message {
		t.Helper()
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatal(err)
		}
		var m session.Message
		if err := json.Unmarshal(data, &m); err != nil {
			t.Fatal(err)
		}
		return m
	}

	if m := read(); m.Type != session.TypeWelcome || m.BoardID != c.Board.ID {
		t.Fatalf("first message = %+v", m)
	}
	if m := read(); m.Type != session.TypeFrame {
		t.Fatalf("second message = %s, want frame", m.Type)
	}

	conn.Write(ctx, websocket.MessageText, []byte(`{"type":"selection.clear"}`))
	conn.Write(ctx, websocket.MessageText, []byte(`{"type":"board.save"}`))
	for {
		m := read()
		if m.Type == session.TypeSaved {
			break
		}
		if m.Type == session.TypeError {
			t.Fatalf("error message: %s", m.Payload)
		}
	}
}
