package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"clinic-records-server/internal/apperrors"
	"clinic-records-server/internal/config"
	"clinic-records-server/internal/middleware"
	"clinic-records-server/internal/models"
	"clinic-records-server/internal/repository"
	"clinic-records-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	Users  repository.UserRepository
	Tokens repository.RefreshTokenRepository
	Cfg    *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users repository.UserRepository, tokens repository.RefreshTokenRepository, cfg *config.Config) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, Cfg: cfg}
}

// LoginRequest represents the request body for staff login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login validates the credential pair and establishes a session. The raw
// password is never logged or echoed back.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Users.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			utils.RespondError(c, apperrors.Unauthenticatedf("invalid username or password"))
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.RespondError(c, apperrors.Unauthenticatedf("invalid username or password"))
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.Tokens.Create(c.Request.Context(), &refreshToken); err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user.Sanitize(),
	})
}

// RefreshTokenRequest represents the request body for refreshing a session.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid, unrevoked refresh token for a new access
// token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.RespondError(c, apperrors.Unauthenticatedf("invalid refresh token: %v", err))
		return
	}

	stored, err := h.Tokens.FindByToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(c, apperrors.Unauthenticatedf("refresh token not recognized"))
		return
	}
	if stored.IsRevoked || time.Now().After(stored.ExpiresAt) {
		utils.RespondError(c, apperrors.Unauthenticatedf("refresh token expired or revoked"))
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		utils.RespondError(c, apperrors.Unauthenticatedf("user no longer exists"))
		return
	}

	accessToken, _, err := utils.GenerateTokens(user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	utils.Success(c, "Token refreshed", gin.H{"accessToken": accessToken})
}

// Logout revokes the presented refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshTokenRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if err := h.Tokens.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		utils.InternalServerError(c, "Failed to revoke token: "+err.Error())
		return
	}
	utils.Success(c, "Logged out", nil)
}

// GetProfile returns the acting user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.RespondError(c, apperrors.Unauthenticatedf("user not found in token"))
		return
	}
	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "Profile fetched", user.Sanitize())
}

// ChangePasswordRequest represents the request body for rotating the
// acting user's credential.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangePassword rotates the acting user's credential. Rotation is the
// only user mutation in scope; accounts are never deleted.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.RespondError(c, apperrors.Unauthenticatedf("user not found in token"))
		return
	}

	var req ChangePasswordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Users.FindByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !user.CheckPassword(req.CurrentPassword) {
		utils.RespondError(c, apperrors.Unauthenticatedf("current password is incorrect"))
		return
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}
	if err := h.Users.Save(c.Request.Context(), user); err != nil {
		utils.InternalServerError(c, "Failed to update password: "+err.Error())
		return
	}
	utils.Success(c, "Password updated", nil)
}
