package handler

import (
	"net/http"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/middleware"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

type SubmitReportRequest struct {
	TargetType   string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID     string `json:"target_id" binding:"required"`
	TargetUserID uint   `json:"target_user_id" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
	Snapshot     struct {
		Title     string     `json:"title"`
		Body      string     `json:"body" binding:"required"`
		Mood      string     `json:"mood"`
		AuthorIP  string     `json:"author_ip"`
		CreatedAt *time.Time `json:"created_at"`
	} `json:"snapshot" binding:"required"`
}

// Submit files a report against a post or comment. The content is
// snapshotted from the request body at this moment.
func (h *ReportHandler) Submit(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap := models.ContentSnapshot{
		Title:    req.Snapshot.Title,
		Body:     req.Snapshot.Body,
		Mood:     req.Snapshot.Mood,
		AuthorIP: req.Snapshot.AuthorIP,
	}
	if req.Snapshot.CreatedAt != nil {
		snap.CreatedAt = *req.Snapshot.CreatedAt
	}
	report, err := h.svc.Submit(middleware.GetUserID(c), service.SubmitReportInput{
		TargetType:   req.TargetType,
		TargetID:     req.TargetID,
		TargetUserID: req.TargetUserID,
		Reason:       req.Reason,
		Snapshot:     snap,
	}, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"report_id": report.ID,
		"status":    report.Status,
	})
}
