package board

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/sketchboard/internal/auth"
	"github.com/inamate/sketchboard/internal/session"
	"github.com/inamate/sketchboard/internal/store"
)

type Handler struct {
	service *Service
	hub     *session.Hub
	saver   session.Saver
	origins []string
	opts    []session.Option
}

func NewHandler(service *Service, hub *session.Hub, saver session.Saver, origins []string, opts ...session.Option) *Handler {
	return &Handler{service: service, hub: hub, saver: saver, origins: origins, opts: opts}
}

// Routes registers the board API. Reads of a single board and the
// websocket need a token for that board.
func (h *Handler) Routes(r *mux.Router, tokens *auth.Tokens) {
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/boards", h.List).Methods("GET")
	api.HandleFunc("/boards", h.Create).Methods("POST")

	api.Handle("/boards/{boardId}", tokens.RequireBoard(http.HandlerFunc(h.Get))).Methods("GET")
	api.Handle("/boards/{boardId}/render.png", tokens.RequireBoard(http.HandlerFunc(h.RenderPNG))).Methods("GET")

	r.Handle("/ws/boards/{boardId}", tokens.RequireBoard(http.HandlerFunc(h.Connect)))
}

type createRequest struct {
	Name   string `json:"name"`
	Sample int    `json:"sample"`
	Seed   uint64 `json:"seed"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	created, err := h.service.Create(r.Context(), req.Name, req.Sample, req.Seed)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	boards, err := h.service.List(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, boards)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.Get(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// RenderPNG renders the board at the requested screen size, fitted to
// the view.
func (h *Handler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	eng, err := h.service.Open(r.Context(), mux.Vars(r)["boardId"])
	if err != nil {
		handleServiceError(w, err)
		return
	}

	q := r.URL.Query()
	width, _ := strconv.ParseFloat(q.Get("width"), 64)
	height, _ := strconv.ParseFloat(q.Get("height"), 64)
	b := eng.Board()
	if width <= 0 || width > 8192 {
		width = float64(b.Width)
	}
	if height <= 0 || height > 8192 {
		height = float64(b.Height)
	}
	eng.Resize(width, height, 1)
	eng.FitView()

	w.Header().Set("Content-Type", "image/png")
	if err := eng.RenderPNG(w); err != nil {
		slog.Error("render board", "error", err, "board", b.ID)
	}
}

// Connect upgrades to a websocket and runs a session until it closes.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["boardId"]
	eng, err := h.service.Open(r.Context(), boardID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	s := session.New(eng, h.saver, h.opts...)
	h.hub.Register(s)
	defer h.hub.Unregister(s)

	if err := session.Serve(r.Context(), conn, s); err != nil {
		slog.Debug("session ended", "error", err, "session", s.ID)
	}
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
