package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const BoardIDKey contextKey = "boardID"

// TokenFromRequest reads a bearer token, falling back to the token query
// parameter for websocket upgrades.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

// RequireBoard rejects requests whose token does not grant the board named
// by the boardId route variable.
func (t *Tokens) RequireBoard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromRequest(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing token")
			return
		}

		boardID, err := t.Validate(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if want := mux.Vars(r)["boardId"]; want != "" && want != boardID {
			writeError(w, http.StatusForbidden, "token not valid for this board")
			return
		}

		ctx := context.WithValue(r.Context(), BoardIDKey, boardID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func BoardIDFromContext(ctx context.Context) string {
	boardID, _ := ctx.Value(BoardIDKey).(string)
	return boardID
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
