package handler

import (
	"net/http"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/middleware"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AccountHandler struct {
	unban    *service.UnbanService
	deletion *service.DeletionService
}

func NewAccountHandler(unban *service.UnbanService, deletion *service.DeletionService) *AccountHandler {
	return &AccountHandler{unban: unban, deletion: deletion}
}

type UnbanRequestBody struct {
	Reason string `json:"reason" binding:"required,min=10,max=2000"`
}

// RequestUnban files an appeal. Only suspended or banned accounts can
// appeal, and only one pending appeal per account is allowed.
func (h *AccountHandler) RequestUnban(c *gin.Context) {
	var req UnbanRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.unban.Request(middleware.GetUserID(c), req.Reason, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"request_id": r.ID,
		"status":     r.Status,
	})
}

type DeleteAccountRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

// DeleteAccount removes the caller's account. Violation history moves
// to the archive before the live rows go.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	var req DeleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.deletion.DeleteAccount(middleware.GetUserID(c), req.Reason, c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
