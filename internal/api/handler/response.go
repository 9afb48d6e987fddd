package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/gin-gonic/gin"
)

// ──────────────────────────────────────────────────────────────────────────────
// Standard response helpers
// ──────────────────────────────────────────────────────────────────────────────

// respondSuccess writes {"success": true, "data": data} with the given status.
func respondSuccess(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError writes {"success": false, "error": msg, "code": code}.
func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   msg,
		"code":    code,
	})
}

// errorCodes gives each domain sentinel its machine-readable code.
var errorCodes = []struct {
	err  error
	code string
}{
	{domain.ErrRaceNotFound, "ERR_RACE_NOT_FOUND"},
	{domain.ErrNoCurrentRace, "ERR_NO_CURRENT_RACE"},
	{domain.ErrHorseNotFound, "ERR_HORSE_NOT_FOUND"},
	{domain.ErrBetNotFound, "ERR_BET_NOT_FOUND"},
	{domain.ErrNoSession, "ERR_NO_SESSION"},
	{domain.ErrRaceExists, "ERR_RACE_EXISTS"},
	{domain.ErrRaceEnded, "ERR_RACE_ENDED"},
	{domain.ErrBetSettled, "ERR_BET_SETTLED"},
	{domain.ErrInvalidCategory, "ERR_INVALID_CATEGORY"},
	{domain.ErrInvalidPaymentType, "ERR_INVALID_TYPE"},
	{domain.ErrInvalidResults, "ERR_INVALID_RESULTS"},
	{domain.ErrHorseNotInRace, "ERR_HORSE_NOT_IN_RACE"},
}

// domainStatus classifies err with the domain predicates. Zero means the
// error is not a domain error.
func domainStatus(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case domain.IsConflict(err):
		return http.StatusConflict
	default:
		return 0
	}
}

// respondDomainError translates a service error into the envelope. Unknown
// errors are reported as 500 without leaking their text.
func respondDomainError(c *gin.Context, err error, fallback string) {
	status := domainStatus(err)
	if status == 0 {
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "ERR_INTERNAL", fallback)
		return
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			respondError(c, status, e.code, e.err.Error())
			return
		}
	}
	respondError(c, status, "ERR_DOMAIN", err.Error())
}

// ── Param helpers ─────────────────────────────────────────────────────────────

// intParam parses the :name path parameter as a positive integer. It writes
// a 400 and returns false on failure.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "ERR_INVALID_ID", "invalid "+name)
		return 0, false
	}
	return id, true
}

// intQuery parses an optional non-negative integer query parameter. Missing
// means zero.
func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		respondError(c, http.StatusBadRequest, "ERR_VALIDATION", "invalid "+name)
		return 0, false
	}
	return v, true
}
