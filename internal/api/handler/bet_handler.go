package handler

import (
	"net/http"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/gin-gonic/gin"
)

// BetHandler serves the bet ledger.
type BetHandler struct {
	book *service.BookService
}

// NewBetHandler creates a BetHandler.
func NewBetHandler(book *service.BookService) *BetHandler {
	return &BetHandler{book: book}
}

// List godoc
// GET /api/bets?horse_id=1&category=win&race_id=2
// race_id is optional and defaults to the current race. An empty cell of an
// open race gets a blank placeholder bet so there is always a row to edit.
func (h *BetHandler) List(c *gin.Context) {
	horseID, ok := intQuery(c, "horse_id")
	if !ok {
		return
	}
	if horseID == 0 {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", "horse_id is required")
		return
	}
	raceID, ok := intQuery(c, "race_id")
	if !ok {
		return
	}
	category := domain.Category(c.Query("category"))

	bets, err := h.book.BetsFor(c.Request.Context(), horseID, category, raceID)
	if err != nil {
		respondDomainError(c, err, "could not fetch bets")
		return
	}
	respondSuccess(c, http.StatusOK, nonNil(bets))
}

// Get godoc
// GET /api/bets/:id
func (h *BetHandler) Get(c *gin.Context) {
	bet, err := h.book.Bet(c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "could not fetch bet")
		return
	}
	respondSuccess(c, http.StatusOK, bet)
}

// PlaceBet godoc
// POST /api/bets
// Body: {"horseId":1,"category":"win","customer":"ann","type":"Cash","odds":"2.5","amount":"10"}
// odds and amount accept strings or numbers; blank or malformed values are
// stored as absent.
func (h *BetHandler) PlaceBet(c *gin.Context) {
	var body struct {
		HorseID  int                `json:"horseId"  binding:"required,min=1"`
		Category domain.Category    `json:"category" binding:"required"`
		RaceID   int                `json:"raceId"   binding:"min=0"`
		Customer string             `json:"customer"`
		Type     domain.PaymentType `json:"type"`
		Odds     domain.Number      `json:"odds"`
		Amount   domain.Number      `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	bet, err := h.book.PlaceBet(c.Request.Context(), service.PlaceBetRequest{
		HorseID:  body.HorseID,
		Category: body.Category,
		RaceID:   body.RaceID,
		Customer: body.Customer,
		Type:     body.Type,
		Odds:     body.Odds,
		Amount:   body.Amount,
	})
	if err != nil {
		respondDomainError(c, err, "could not place bet")
		return
	}
	respondSuccess(c, http.StatusCreated, bet)
}

// Update godoc
// PATCH /api/bets/:id
// Body: any of {"customer","type","odds","amount"}. Send "" to clear odds or
// amount. Settled bets answer 409.
func (h *BetHandler) Update(c *gin.Context) {
	var body struct {
		Customer *string             `json:"customer"`
		Type     *domain.PaymentType `json:"type"`
		Odds     *domain.Number      `json:"odds"`
		Amount   *domain.Number      `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}

	bet, err := h.book.UpdateBet(c.Request.Context(), c.Param("id"), domain.BetEdit{
		Customer: body.Customer,
		Type:     body.Type,
		Odds:     body.Odds,
		Amount:   body.Amount,
	})
	if err != nil {
		respondDomainError(c, err, "could not update bet")
		return
	}
	respondSuccess(c, http.StatusOK, bet)
}

// Delete godoc
// DELETE /api/bets/:id
func (h *BetHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.book.DeleteBet(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "could not delete bet")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
