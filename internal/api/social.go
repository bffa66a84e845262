package api

import (
	"net/http"
	"strings"

	"fashion-insider/internal/market"
)

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.chat.History(r.PathValue("channel"), queryInt(r, "limit", 0))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, msgs)
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SenderID   string `json:"sender_id"`
		SenderName string `json:"sender_name"`
		Content    string `json:"content"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	sender := strings.TrimSpace(req.SenderID)
	if sender == "" {
		sender = s.cfg.UserID
	}
	m, err := s.chat.Send(r.Context(), r.PathValue("channel"), sender, req.SenderName, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, m)
}

func (s *Server) handleLikes(w http.ResponseWriter, r *http.Request) {
	ids, err := s.market.Liked()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, ids)
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	liked, err := s.market.ToggleLike(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"id": id, "liked": liked})
}

func (s *Server) handlePrefs(w http.ResponseWriter, r *http.Request) {
	f := s.market.Currency()
	out := map[string]interface{}{
		"currency": f.Code,
		"rate":     f.Rate,
		"plan":     s.market.Plan(),
	}
	if loc, ok := s.market.Location(); ok {
		out["location"] = loc
	}
	writeJSON(w, out)
}

func (s *Server) handleSetCurrency(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Currency string  `json:"currency"`
		Rate     float64 `json:"rate"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	f, err := s.market.SetCurrency(req.Currency, req.Rate)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]interface{}{"currency": f.Code, "rate": f.Rate})
}

func (s *Server) handleSetLocation(w http.ResponseWriter, r *http.Request) {
	var loc market.Location
	if err := decodeBody(r, &loc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.market.SetLocation(loc); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, _ := s.market.Location()
	writeJSON(w, saved)
}
