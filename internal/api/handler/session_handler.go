package handler

import (
	"net/http"
	"strings"

	"github.com/evetabi/raceledger/internal/service"
	"github.com/gin-gonic/gin"
)

// SessionHandler serves the local operator session.
type SessionHandler struct {
	sessions      *service.SessionService
	defaultUserID string
}

// NewSessionHandler creates a SessionHandler. defaultUserID is used when a
// start request names nobody.
func NewSessionHandler(sessions *service.SessionService, defaultUserID string) *SessionHandler {
	return &SessionHandler{sessions: sessions, defaultUserID: defaultUserID}
}

// Start godoc
// POST /api/session
// Body (optional): {"userId":"desk-1"}
func (h *SessionHandler) Start(c *gin.Context) {
	var body struct {
		UserID string `json:"userId"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respondError(c, http.StatusBadRequest, "ERR_VALIDATION", err.Error())
			return
		}
	}
	userID := strings.TrimSpace(body.UserID)
	if userID == "" {
		userID = h.defaultUserID
	}
	respondSuccess(c, http.StatusCreated, h.sessions.Start(c.Request.Context(), userID))
}

// Get godoc
// GET /api/session
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Request.Context())
	if err != nil {
		respondDomainError(c, err, "could not fetch session")
		return
	}
	respondSuccess(c, http.StatusOK, sess)
}

// End godoc
// DELETE /api/session
func (h *SessionHandler) End(c *gin.Context) {
	h.sessions.End(c.Request.Context())
	respondSuccess(c, http.StatusOK, gin.H{"ended": true})
}
