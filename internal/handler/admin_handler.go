package handler

import (
	"net/http"
	"strconv"

	"github.com/Hongbi-Kim/BreezI-sub000/internal/domain"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/middleware"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/repository"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin    *repository.AdminRepository
	users    *repository.UserRepository
	reports  *repository.ReportRepository
	unbans   *repository.UnbanRequestRepository
	verifs   *repository.VerificationRepository
	logs     *repository.ActivityLogRepository
	accounts *service.AccountService
	reportSv *service.ReportService
	unbanSv  *service.UnbanService
	verifSv  *service.VerificationService
}

func NewAdminHandler(
	admin *repository.AdminRepository,
	users *repository.UserRepository,
	reports *repository.ReportRepository,
	unbans *repository.UnbanRequestRepository,
	verifs *repository.VerificationRepository,
	logs *repository.ActivityLogRepository,
	accounts *service.AccountService,
	reportSv *service.ReportService,
	unbanSv *service.UnbanService,
	verifSv *service.VerificationService,
) *AdminHandler {
	return &AdminHandler{
		admin: admin, users: users, reports: reports, unbans: unbans,
		verifs: verifs, logs: logs, accounts: accounts,
		reportSv: reportSv, unbanSv: unbanSv, verifSv: verifSv,
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.GetDashboardStats()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.admin.ListUsers(c.Query("search"), c.Query("status"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	threshold := h.accounts.WarningThreshold()
	items := make([]gin.H, 0, len(users))
	for i := range users {
		u := &users[i]
		items = append(items, gin.H{
			"id":                 u.ID,
			"email":              u.Email,
			"nickname":           u.Nickname,
			"role":               u.Role,
			"status":             u.Status,
			"warning_count":      u.WarningCount,
			"threshold_reached":  u.ThresholdReached(threshold),
			"needs_verification": u.NeedsVerification,
			"created_at":         u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": items, "total": total, "page": page, "limit": limit})
}

// UserDetails returns the full moderation view of one account: state,
// restriction fields, reports filed against it, and its recent audit
// trail.
func (h *AdminHandler) UserDetails(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	against, err := h.reports.ListByTargetUser(id)
	if err != nil {
		respondError(c, err)
		return
	}
	trail, err := h.logs.ListByUser(id, 50)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":              u,
		"threshold_reached": u.ThresholdReached(h.accounts.WarningThreshold()),
		"reports_against":   against,
		"activity":          trail,
	})
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=2000"`
}

func (h *AdminHandler) SuspendUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.Suspend(id, req.Reason, middleware.GetUserID(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user suspended"})
}

func (h *AdminHandler) BanUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.Ban(id, req.Reason, middleware.GetUserID(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user banned"})
}

func (h *AdminHandler) ActivateUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.accounts.Activate(id, middleware.GetUserID(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user activated"})
}

// WarnUser issues a standalone warning outside any report.
func (h *AdminHandler) WarnUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.accounts.IncrementWarning(id, middleware.GetUserID(c), c.ClientIP()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "warning issued"})
}

func (h *AdminHandler) ListReports(c *gin.Context) {
	page, limit := parsePagination(c)
	status := c.DefaultQuery("status", domain.ReportStatusPending)
	if status == "all" {
		status = ""
	}
	reports, total, err := h.reports.List(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports, "total": total, "page": page, "limit": limit})
}

type ProcessReportRequest struct {
	Action  string `json:"action" binding:"required,oneof=suspend warning ignore reject"`
	Version uint   `json:"version"` // 0 means take the current version
}

// ProcessReport applies an admin disposition. A stale version returns
// 409 so the dashboard can reload the report.
func (h *AdminHandler) ProcessReport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProcessReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actorID := middleware.GetUserID(c)
	var err error
	var report interface{}
	if req.Action == "reject" {
		report, err = h.reportSv.Reject(id, req.Version, actorID, c.ClientIP())
	} else {
		report, err = h.reportSv.Dispose(id, req.Version, actorID, req.Action, c.ClientIP())
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (h *AdminHandler) ListUnbanRequests(c *gin.Context) {
	page, limit := parsePagination(c)
	status := c.DefaultQuery("status", domain.RequestStatusPending)
	if status == "all" {
		status = ""
	}
	requests, total, err := h.unbans.List(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "total": total, "page": page, "limit": limit})
}

type ProcessDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Version  uint   `json:"version"`
}

func (h *AdminHandler) ProcessUnbanRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProcessDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.unbanSv.Dispose(id, req.Version, middleware.GetUserID(c), req.Decision, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": r})
}

func (h *AdminHandler) ListVerifications(c *gin.Context) {
	page, limit := parsePagination(c)
	status := c.DefaultQuery("status", domain.RequestStatusPending)
	if status == "all" {
		status = ""
	}
	requests, total, err := h.verifs.List(status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) ProcessVerification(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProcessDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.verifSv.Dispose(id, req.Version, middleware.GetUserID(c), req.Decision, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": r})
}

func (h *AdminHandler) ListActivityLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	logs, total, err := h.logs.List(c.Query("action"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": total})
}

func (h *AdminHandler) ListUserActivityLogs(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit < 1 || limit > 500 {
		limit = 100
	}
	logs, err := h.logs.ListByUser(id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
