package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evetabi/raceledger/internal/domain"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrRaceNotFound, http.StatusNotFound, "ERR_RACE_NOT_FOUND"},
		{domain.ErrNoSession, http.StatusNotFound, "ERR_NO_SESSION"},
		{domain.ErrHorseNotInRace, http.StatusBadRequest, "ERR_HORSE_NOT_IN_RACE"},
		{domain.ErrInvalidResults, http.StatusBadRequest, "ERR_INVALID_RESULTS"},
		{domain.ErrRaceEnded, http.StatusConflict, "ERR_RACE_ENDED"},
		{domain.ErrBetSettled, http.StatusConflict, "ERR_BET_SETTLED"},
		{fmt.Errorf("settlement_service.SettleRace 3: %w", domain.ErrInvalidResults), http.StatusBadRequest, "ERR_INVALID_RESULTS"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rr)

		respondDomainError(c, tc.err, "could not do it")

		if rr.Code != tc.status {
			t.Errorf("%v: status = %d, want %d", tc.err, rr.Code, tc.status)
		}
		var body map[string]any
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("%v: body is not JSON: %v", tc.err, err)
		}
		if body["code"] != tc.code {
			t.Errorf("%v: code = %v, want %s", tc.err, body["code"], tc.code)
		}
	}
}

// Every sentinel with a code must also be classified, or it would be
// reported as a 500.
func TestErrorCodesAreClassified(t *testing.T) {
	for _, e := range errorCodes {
		if domainStatus(e.err) == 0 {
			t.Errorf("%s (%v) has no status class", e.code, e.err)
		}
	}
}

func TestRespondDomainError_HidesInternalText(t *testing.T) {
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)

	respondDomainError(c, errors.New("pq: password authentication failed"), "could not add race")

	var body map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body["error"] != "could not add race" {
		t.Errorf("error = %v, want the fallback message", body["error"])
	}
}
