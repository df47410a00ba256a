package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// RecoveryHandlers handles password recovery and passwordless login requests
type RecoveryHandlers struct {
	recoverySvc  domain.RecoveryService
	loginCodeSvc domain.LoginCodeService
}

// NewRecoveryHandlers creates new recovery handlers
func NewRecoveryHandlers(recoverySvc domain.RecoveryService, loginCodeSvc domain.LoginCodeService) *RecoveryHandlers {
	return &RecoveryHandlers{
		recoverySvc:  recoverySvc,
		loginCodeSvc: loginCodeSvc,
	}
}

// EmailRequest carries the address for the enumeration-resistant request
// endpoints.
type EmailRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetByTokenRequest represents a link-based password reset confirmation
type ResetByTokenRequest struct {
	Token           string `json:"token" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// CodeRequest represents a code verification request
type CodeRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// ResetByCodeRequest represents a code-based password reset commit
type ResetByCodeRequest struct {
	Email           string `json:"email" binding:"required"`
	Code            string `json:"code" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// ForgotPassword handles a link-based recovery request. The response shape
// is uniform whether or not the account exists.
func (h *RecoveryHandlers) ForgotPassword(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	masked, err := h.recoverySvc.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("FORGOT_PASSWORD_FAILED: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "If the email exists, a reset link was sent",
			"email":   masked,
		},
	})
}

// ResetPassword handles a link-based password reset confirmation
func (h *RecoveryHandlers) ResetPassword(c *gin.Context) {
	var req ResetByTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.recoverySvc.ResetByToken(c.Request.Context(), req.Token, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.respondResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password has been reset",
		},
	})
}

// ForgotPasswordCode handles a code-based recovery request
func (h *RecoveryHandlers) ForgotPasswordCode(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	masked, err := h.recoverySvc.RequestResetCode(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("FORGOT_PASSWORD_CODE_FAILED: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "If the email exists, a recovery code was sent",
			"email":   masked,
		},
	})
}

// VerifyResetCode handles a pure code check; the code stays live for the
// subsequent reset commit.
func (h *RecoveryHandlers) VerifyResetCode(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.recoverySvc.VerifyResetCode(c.Request.Context(), req.Email, req.Code); err != nil {
		h.respondResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Code is valid",
		},
	})
}

// ResetPasswordCode handles a code-based password reset commit
func (h *RecoveryHandlers) ResetPasswordCode(c *gin.Context) {
	var req ResetByCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.recoverySvc.ResetByCode(c.Request.Context(), req.Email, req.Code, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		h.respondResetError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password has been reset",
		},
	})
}

// SendLoginCode handles a passwordless login code request
func (h *RecoveryHandlers) SendLoginCode(c *gin.Context) {
	var req EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	masked, err := h.loginCodeSvc.SendLoginCode(c.Request.Context(), req.Email)
	if err != nil {
		log.Printf("SEND_LOGIN_CODE_FAILED: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "If the email exists, a sign-in code was sent",
			"email":   masked,
		},
	})
}

// LoginWithCode handles passwordless login with a one-time code
func (h *RecoveryHandlers) LoginWithCode(c *gin.Context) {
	var req CodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.loginCodeSvc.LoginWithCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRecoveryCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
			return
		}
		log.Printf("LOGIN_WITH_CODE_FAILED: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"token":                result.Token,
			"token_type":           "Bearer",
			"expires_in":           result.ExpiresIn,
			"must_change_password": result.MustChangePassword,
			"user": gin.H{
				"id":    result.Account.ID,
				"email": result.Account.Email,
				"role":  result.Account.Role,
			},
		},
	})
}

// respondResetError maps recovery confirmation failures. Invalid-token is
// reported distinctly: the token itself is a secret the caller must possess.
func (h *RecoveryHandlers) respondResetError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRecoveryToken), errors.Is(err, domain.ErrInvalidRecoveryCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, domain.ErrPasswordReused):
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must differ from the current one"})
	default:
		log.Printf("RESET_PASSWORD_FAILED: error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
	}
}
