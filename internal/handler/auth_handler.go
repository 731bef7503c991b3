package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/Hongbi-Kim/BreezI-sub000/config"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/auth"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/middleware"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/models"
	"github.com/Hongbi-Kim/BreezI-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
	jwt *config.JWTConfig
}

func NewAuthHandler(svc *service.AuthService, jwt *config.JWTConfig) *AuthHandler {
	return &AuthHandler{svc: svc, jwt: jwt}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	Nickname  string `json:"nickname" binding:"required,min=2,max=64"`
	BirthDate string `json:"birth_date"` // optional, ISO date
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	in := service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Nickname: req.Nickname,
	}
	if req.BirthDate != "" {
		bd, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth_date format (use YYYY-MM-DD)"})
			return
		}
		in.BirthDate = &bd
	}
	u, held, err := h.svc.Register(in, c.ClientIP())
	if err != nil {
		switch err {
		case service.ErrEmailTaken, service.ErrNicknameTaken:
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			respondError(c, err)
		}
		return
	}
	access, err := auth.GenerateAccessToken(h.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("[auth] token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":               userResponse(u),
		"access_token":       access,
		"needs_verification": held,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		if err == service.ErrBadCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}
	access, err := auth.GenerateAccessToken(h.jwt, u.ID, u.Email, u.Role)
	if err != nil {
		log.Printf("[auth] token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	refresh, err := auth.GenerateRefreshToken(h.jwt, u.ID)
	if err != nil {
		log.Printf("[auth] token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          userResponse(u),
		"access_token":  access,
		"refresh_token": refresh,
	})
}

type SetBirthDateRequest struct {
	BirthDate string `json:"birth_date" binding:"required"`
}

func (h *AuthHandler) SetBirthDate(c *gin.Context) {
	var req SetBirthDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bd, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birth_date format (use YYYY-MM-DD)"})
		return
	}
	if err := h.svc.SetBirthDate(middleware.GetUserID(c), bd); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "birth date set"})
}

// userResponse strips the account down to what a client session needs,
// restriction fields included so the app can explain a suspended or
// banned login.
func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":                 u.ID,
		"email":              u.Email,
		"nickname":           u.Nickname,
		"role":               u.Role,
		"status":             u.Status,
		"suspended_at":       u.SuspendedAt,
		"banned_at":          u.BannedAt,
		"suspend_reason":     u.SuspendReason,
		"ban_reason":         u.BanReason,
		"needs_verification": u.NeedsVerification,
	}
}
