package handler

import (
	"net/http"

	"github.com/evetabi/raceledger/internal/service"
	"github.com/gin-gonic/gin"
)

// SummaryHandler serves the derived totals.
type SummaryHandler struct {
	book *service.BookService
}

// NewSummaryHandler creates a SummaryHandler.
func NewSummaryHandler(book *service.BookService) *SummaryHandler {
	return &SummaryHandler{book: book}
}

// Current godoc
// GET /api/summary
// Totals of the current race; zeros when there is none.
func (h *SummaryHandler) Current(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.book.Summary())
}

// Ledger godoc
// GET /api/summary/ledger
// Totals across every race in the ledger.
func (h *SummaryHandler) Ledger(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.book.LedgerSummary())
}
