package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dungeonmaster/dicetower-backend/internal/hub"
	"github.com/dungeonmaster/dicetower-backend/internal/roll"
)

const maxImageBytes = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clientError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"model_loaded": s.detector != nil,
	})
}

func (s *Server) handleGetRoll(w http.ResponseWriter, r *http.Request) {
	rec, stamp, ok := s.store.Roll()

	resp := struct {
		Roll      *roll.Record `json:"roll"`
		Timestamp int64        `json:"timestamp"`
	}{}
	if ok {
		resp.Roll = &rec
	}
	if !stamp.IsZero() {
		resp.Timestamp = stamp.UnixMilli()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRoll(w http.ResponseWriter, r *http.Request) {
	var rec roll.Record
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		clientError(w, "invalid json body")
		return
	}
	if err := rec.Validate(); err != nil {
		clientError(w, err.Error())
		return
	}

	s.mu.Lock()
	s.store.SetRoll(rec)
	s.hub.Inbox() <- hub.Broadcast{Payload: roll.RollEvent(rec)}
	s.mu.Unlock()

	s.log.Info("roll set", zap.String("status", string(rec.Status)), zap.String("player", rec.PlayerName))
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleClearRoll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.store.ClearRoll()
	s.hub.Inbox() <- hub.Broadcast{Payload: roll.ClearEvent()}
	s.mu.Unlock()

	s.log.Info("roll cleared")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleGetScreenMode(w http.ResponseWriter, r *http.Request) {
	mode, url := s.store.Screen()
	writeJSON(w, http.StatusOK, roll.ModeData{Mode: mode, BrowserURL: url})
}

func (s *Server) handleSetScreenMode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode       string `json:"mode"`
		BrowserURL string `json:"browserUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		clientError(w, "invalid json body")
		return
	}

	s.mu.Lock()
	mode, err := s.store.SetScreen(body.Mode, body.BrowserURL)
	if err != nil {
		s.mu.Unlock()
		clientError(w, err.Error())
		return
	}
	s.hub.Inbox() <- hub.Broadcast{Payload: roll.ModeEvent(mode, body.BrowserURL)}
	s.mu.Unlock()

	s.log.Info("player screen mode set", zap.String("mode", string(mode)))
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"mode":       mode,
		"browserUrl": body.BrowserURL,
	})
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Command  string   `json:"command"`
		Position *float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		clientError(w, "invalid json body")
		return
	}
	if err := roll.ValidatePlayback(body.Command, body.Position); err != nil {
		clientError(w, err.Error())
		return
	}
	if body.Command != roll.PlaybackSeek {
		body.Position = nil // only seek carries a position
	}

	s.mu.Lock()
	s.hub.Inbox() <- hub.Broadcast{Payload: roll.PlaybackEvent(body.Command, body.Position)}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if s.detector == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no detector configured"})
		return
	}

	image, err := readImage(r)
	if err != nil {
		clientError(w, err.Error())
		return
	}
	if len(image) == 0 {
		clientError(w, "empty image")
		return
	}

	result := s.detector.Detect(r.Context(), image)
	if result.Error != "" {
		s.log.Warn("detection failed", zap.String("error", result.Error))
	}
	writeJSON(w, http.StatusOK, result)
}

// readImage accepts either a raw image body or a multipart form with a
// "file" part, matching what the DM client and the camera firmware send.
func readImage(r *http.Request) ([]byte, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxImageBytes))
	}
	return io.ReadAll(io.LimitReader(r.Body, maxImageBytes))
}
