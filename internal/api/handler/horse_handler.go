package handler

import (
	"net/http"
	"strings"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/evetabi/raceledger/internal/service"
	"github.com/gin-gonic/gin"
)

// HorseHandler serves the runners of a race.
type HorseHandler struct {
	book *service.BookService
}

// NewHorseHandler creates a HorseHandler.
func NewHorseHandler(book *service.BookService) *HorseHandler {
	return &HorseHandler{book: book}
}

// Create godoc
// POST /api/horses
// Body: {"name":"Arkle","raceId":2}  (raceId optional, defaults to current race)
func (h *HorseHandler) Create(c *gin.Context) {
	var spec domain.HorseSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}
	if spec.RaceID < 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid raceId")
		return
	}
	spec.Name = strings.TrimSpace(spec.Name)

	horse, err := h.book.AddHorse(c.Request.Context(), spec)
	if err != nil {
		respondDomainError(c, err, "could not add horse")
		return
	}
	respondSuccess(c, http.StatusCreated, horse)
}

// Rename godoc
// PATCH /api/horses/:id
// Body: {"name":"Red Rum"}
func (h *HorseHandler) Rename(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
		return
	}
	horse, err := h.book.RenameHorse(c.Request.Context(), id, strings.TrimSpace(body.Name))
	if err != nil {
		respondDomainError(c, err, "could not rename horse")
		return
	}
	respondSuccess(c, http.StatusOK, horse)
}

// Delete godoc
// DELETE /api/horses/:id
// Removes the horse and every bet on it.
func (h *HorseHandler) Delete(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.book.DeleteHorse(c.Request.Context(), id); err != nil {
		respondDomainError(c, err, "could not delete horse")
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"deleted": id})
}
