package handler

import (
	"net/http"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/gin-gonic/gin"
)

// RaceHandler serves the race card, the current-race pointer and settlement.
type RaceHandler struct {
	book    *service.BookService
	settler *service.SettlementService
}

// NewRaceHandler creates a RaceHandler.
func NewRaceHandler(book *service.BookService, settler *service.SettlementService) *RaceHandler {
	return &RaceHandler{book: book, settler: settler}
}

// List godoc
// GET /api/races
func (h *RaceHandler) List(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.book.Races())
}

// Create godoc
// POST /api/races
// Body (optional): {"id":5,"name":"Derby"}
func (h *RaceHandler) Create(c *gin.Context) {
	var spec domain.RaceSpec
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&spec); err != nil {
			respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
			return
		}
	}
	if spec.ID < 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "id must be positive")
		return
	}
	race, err := h.book.AddRace(c.Request.Context(), spec)
	if err != nil {
		respondDomainError(c, err, "could not add race")
		return
	}
	respondSuccess(c, http.StatusCreated, race)
}

// NextID godoc
// GET /api/races/next-id
func (h *RaceHandler) NextID(c *gin.Context) {
	respondSuccess(c, http.StatusOK, gin.H{"id": h.book.NextRaceID()})
}

// Current godoc
// GET /api/races/current
func (h *RaceHandler) Current(c *gin.Context) {
	race, err := h.book.CurrentRace()
	if err != nil {
		respondDomainError(c, err, "could not fetch current race")
		return
	}
	respondSuccess(c, http.StatusOK, race)
}

// SetCurrent godoc
// PUT /api/races/current
// Body: {"id":2}
func (h *RaceHandler) SetCurrent(c *gin.Context) {
	var body struct {
		ID int `json:"id" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}
	race, err := h.book.SetCurrentRace(c.Request.Context(), body.ID)
	if err != nil {
		respondDomainError(c, err, "could not switch race")
		return
	}
	respondSuccess(c, http.StatusOK, race)
}

// End godoc
// POST /api/races/:id/end
func (h *RaceHandler) End(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	race, err := h.book.EndRace(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err, "could not end race")
		return
	}
	respondSuccess(c, http.StatusOK, race)
}

// Delete godoc
// DELETE /api/races/:id
// Removes the race with its horses and bets.
func (h *RaceHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.book.DeleteRace(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "could not delete race")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

// Settle godoc
// POST /api/races/:id/settle
// Body: {"first":3,"second":1,"third":7}
func (h *RaceHandler) Settle(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var results domain.Results
	if err := c.ShouldBindJSON(&results); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}
	res, err := h.settler.SettleRace(c.Request.Context(), id, results)
	if err != nil {
		respondDomainError(c, err, "could not settle race")
		return
	}
	respondSuccess(c, http.StatusOK, res)
}

// Horses godoc
// GET /api/races/:id/horses
func (h *RaceHandler) Horses(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	horses, err := h.book.HorsesForRace(id)
	if err != nil {
		respondDomainError(c, err, "could not fetch horses")
		return
	}
	respondSuccess(c, http.StatusOK, nonNil(horses))
}

// Bets godoc
// GET /api/races/:id/bets
func (h *RaceHandler) Bets(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	bets, err := h.book.BetsForRace(id)
	if err != nil {
		respondDomainError(c, err, "could not fetch bets")
		return
	}
	respondSuccess(c, http.StatusOK, nonNil(bets))
}

// Summary godoc
// GET /api/races/:id/summary
func (h *RaceHandler) Summary(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	s, err := h.book.RaceSummary(id)
	if err != nil {
		respondDomainError(c, err, "could not build summary")
		return
	}
	respondSuccess(c, http.StatusOK, s)
}

// nonNil turns a nil slice into an empty one so it encodes as [].
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
