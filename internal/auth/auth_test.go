package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, err := tokens.Issue("board_abc")
	if err != nil {
		t.Fatal(err)
	}
	got, err := tokens.Validate(tok)
	if err != nil {
		t.Fatal(err)
	}
	if got != "board_abc" {
		t.Errorf("board = %q", got)
	}

	if _, err := NewTokens("other", time.Hour).Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret err = %v", err)
	}
	if _, err := tokens.Validate("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v", err)
	}
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	start := time.Now()
	tokens.now = func() time.Time { return start }
	tok, _ := tokens.Issue("board_abc")

	tokens.now = func() time.Time { return start.Add(2 * time.Minute) }
	if _, err := tokens.Validate(tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expired token err = %v", err)
	}
}

func TestRequireBoard(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	tok, _ := tokens.Issue("board_a")

	r := mux.NewRouter()
	r.Handle("/boards/{boardId}", tokens.RequireBoard(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(BoardIDFromContext(r.Context())))
	})))

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"bearer", "/boards/board_a", "Bearer " + tok, http.StatusOK},
		{"query", "/boards/board_a?token=" + tok, "", http.StatusOK},
		{"missing", "/boards/board_a", "", http.StatusUnauthorized},
		{"other board", "/boards/board_b", "Bearer " + tok, http.StatusForbidden},
		{"bad scheme", "/boards/board_a", "Basic " + tok, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusOK && rec.Body.String() != "board_a" {
				t.Errorf("body = %q", rec.Body.String())
			}
		})
	}
}
