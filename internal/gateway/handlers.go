package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/damoduke91-ui/super8-draft/internal/board"
	"github.com/damoduke91-ui/super8-draft/internal/positions"
	"github.com/damoduke91-ui/super8-draft/internal/room"
	"github.com/damoduke91-ui/super8-draft/internal/store"
)

// Service exposes the draft room API over HTTP.
type Service struct {
	manager *room.Manager
	cm      *ConnectionManager
}

// NewService creates the HTTP service.
func NewService(manager *room.Manager, cm *ConnectionManager) *Service {
	return &Service{manager: manager, cm: cm}
}

// RegisterRoutes registers all API routes on the mux.
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/view", s.handleView)
	mux.HandleFunc("/api/players", s.handlePlayers)
	mux.HandleFunc("/api/sheet", s.handleSheet)
	mux.HandleFunc("/api/pick", s.handlePick)
	mux.HandleFunc("/api/admin/pause", s.handlePause)
	mux.HandleFunc("/api/admin/resume", s.handleResume)
	mux.HandleFunc("/api/admin/reset", s.handleReset)
	mux.HandleFunc("/api/admin/rounds", s.handleRounds)
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", handleHealth)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// roomParam extracts the mandatory room query parameter.
func roomParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		writeError(w, http.StatusBadRequest, "room is required")
		return "", false
	}
	return roomID, true
}

func (s *Service) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	roomID, ok := roomParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Engine(roomID).View())
}

type playersResponse struct {
	Tab     string          `json:"tab"`
	SortKey string          `json:"sort"`
	Players []playerPayload `json:"players"`
}

type playerPayload struct {
	PlayerNo   int     `json:"player_no"`
	PlayerName string  `json:"player_name"`
	Pos        string  `json:"pos"`
	Club       string  `json:"club"`
	Average    float64 `json:"average"`
}

func (s *Service) handlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	roomID, ok := roomParam(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	tab := q.Get("tab")
	if tab == "" {
		tab = positions.TabAll
	}
	sortKey := q.Get("sort")
	if sortKey == "" {
		sortKey = board.SortByPlayerNo
	}
	descending := q.Get("desc") == "1" || q.Get("desc") == "true"

	players := s.manager.Engine(roomID).AvailablePlayers(tab, sortKey, descending)
	payload := make([]playerPayload, len(players))
	for i, p := range players {
		payload[i] = playerPayload{
			PlayerNo:   p.PlayerNo,
			PlayerName: p.PlayerName,
			Pos:        p.Pos,
			Club:       p.Club,
			Average:    p.Average,
		}
	}
	writeJSON(w, http.StatusOK, playersResponse{Tab: tab, SortKey: sortKey, Players: payload})
}

func (s *Service) handleSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	roomID, ok := roomParam(w, r)
	if !ok {
		return
	}
	coachID, err := strconv.Atoi(r.URL.Query().Get("coach"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "coach must be an integer")
		return
	}
	writeJSON(w, http.StatusOK, s.manager.Engine(roomID).CoachSheet(coachID))
}

type pickRequest struct {
	RoomID   string `json:"room_id"`
	CoachID  int    `json:"coach_id"`
	PlayerNo int    `json:"player_no"`
}

func (s *Service) handlePick(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req pickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	result := s.manager.Engine(req.RoomID).SubmitPick(r.Context(), req.CoachID, req.PlayerNo)
	// Rejections are part of the normal flow, not transport errors.
	writeJSON(w, http.StatusOK, result)
}

type adminRequest struct {
	RoomID string `json:"room_id"`
}

func (s *Service) adminRoom(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	var req adminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return "", false
	}
	return req.RoomID, true
}

func (s *Service) handlePause(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.adminRoom(w, r)
	if !ok {
		return
	}
	engine := s.manager.Engine(roomID)
	if err := engine.Pause(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to pause draft")
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

func (s *Service) handleResume(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.adminRoom(w, r)
	if !ok {
		return
	}
	engine := s.manager.Engine(roomID)
	if err := engine.Resume(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to resume draft")
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	roomID, ok := s.adminRoom(w, r)
	if !ok {
		return
	}
	engine := s.manager.Engine(roomID)
	if err := engine.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset draft")
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

type roundsRequest struct {
	RoomID      string `json:"room_id"`
	RoundsTotal int    `json:"rounds_total"`
}

func (s *Service) handleRounds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req roundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RoomID == "" {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}

	engine := s.manager.Engine(req.RoomID)
	if err := engine.SetRoundsTotal(r.Context(), req.RoundsTotal); err != nil {
		if errors.Is(err, store.ErrRoundsOutOfRange) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to set rounds")
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

// handleWebSocket upgrades a client that wants live view pushes. The
// coach parameter is optional; observers without one watch read-only.
func (s *Service) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	roomID, ok := roomParam(w, r)
	if !ok {
		return
	}
	coachID := 0
	if raw := r.URL.Query().Get("coach"); raw != "" {
		var err error
		if coachID, err = strconv.Atoi(raw); err != nil {
			writeError(w, http.StatusBadRequest, "coach must be an integer")
			return
		}
	}

	// Opening the room starts its sync controller before the first
	// broadcast sweep picks the connection up.
	s.manager.Engine(roomID)

	if err := s.cm.UpgradeConnection(w, r, roomID, coachID); err != nil {
		log.Error().
			Err(err).
			Str("room_id", roomID).
			Int("coach_id", coachID).
			Msg("failed to upgrade WebSocket connection")
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		log.Error().Err(err).Msg("failed to write health check response")
	}
}
