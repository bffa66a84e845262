package api

import (
	"net/http"
	"strconv"

	"fashion-insider/internal/currency"
	"fashion-insider/internal/logger"
)

type amountRequest struct {
	Amount int64 `json:"amount"`
}

type productRequest struct {
	ProductID string `json:"product_id"`
}

func walletView(balance int64) map[string]interface{} {
	return map[string]interface{}{
		"balance": balance,
		"label":   currency.CR(balance),
	}
}

func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, walletView(s.market.Balance()))
}

func (s *Server) handleTopUp(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	bal, err := s.market.TopUp(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, walletView(bal))
}

func (s *Server) handleSubscribePro(w http.ResponseWriter, r *http.Request) {
	bal, err := s.market.SubscribePro()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	v := walletView(bal)
	v["plan"] = s.market.Plan()
	writeJSON(w, v)
}

// --- Trade session ---

func (s *Server) handleGetTrade(w http.ResponseWriter, r *http.Request) {
	v, err := s.market.Trade()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleOpenTrade(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetID string `json:"target_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := s.market.OpenTrade(req.TargetID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleAddOfferItem(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	v, err := s.market.AddOfferItem(req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleRemoveOfferItem(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid index")
		return
	}
	v, err := s.market.RemoveOfferItem(idx)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleAddOfferCredits(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := s.market.AddOfferCredits(req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleRemoveOfferCredits(w http.ResponseWriter, r *http.Request) {
	v, err := s.market.RemoveOfferCredits()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleSendOffer(w http.ResponseWriter, r *http.Request) {
	res, err := s.market.SendOffer()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCancelTrade(w http.ResponseWriter, r *http.Request) {
	s.market.CancelTrade()
	writeJSON(w, map[string]bool{"ok": true})
}

func (s *Server) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	bal, err := s.market.AcceptOffer()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	logger.Info("API", "incoming offer accepted")
	writeJSON(w, walletView(bal))
}

// --- Buy ---

func (s *Server) handleQuoteBuy(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeBody(r, &req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	q, err := s.market.QuoteBuy(req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, q)
}

func (s *Server) handleConfirmBuy(w http.ResponseWriter, r *http.Request) {
	res, err := s.market.ConfirmBuy()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleCancelBuy(w http.ResponseWriter, r *http.Request) {
	s.market.CancelBuy()
	writeJSON(w, map[string]bool{"ok": true})
}

// --- Active trade ---

func (s *Server) handleActiveTrade(w http.ResponseWriter, r *http.Request) {
	tr, ok := s.market.Tracker().Current()
	if !ok {
		writeJSON(w, map[string]interface{}{"active": false})
		return
	}
	writeJSON(w, map[string]interface{}{
		"active":    true,
		"trade":     tr,
		"completed": tr.Completed(),
	})
}

func (s *Server) handleDismissActiveTrade(w http.ResponseWriter, r *http.Request) {
	if err := s.market.Tracker().Dismiss(); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, map[string]bool{"ok": true})
}
