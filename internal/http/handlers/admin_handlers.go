package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// AdminHandlers handles account administration requests
type AdminHandlers struct {
	adminSvc domain.AdminService
}

// NewAdminHandlers creates new admin handlers
func NewAdminHandlers(adminSvc domain.AdminService) *AdminHandlers {
	return &AdminHandlers{adminSvc: adminSvc}
}

// ProvisionRequest represents an admin-created account
type ProvisionRequest struct {
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	Email          string `json:"email"`
	Role           string `json:"role,omitempty"`
}

// UpdateUserRequest represents admin edits to an account
type UpdateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     *string `json:"email"`
	Role      *string `json:"role"`
}

// CreateUser handles admin account provisioning. The generated temporary
// password travels by email only, never in the response.
func (h *AdminHandlers) CreateUser(c *gin.Context) {
	var req ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.adminSvc.ProvisionUser(c.Request.Context(), domain.ProvisionInput{
		FirstName:      req.FirstName,
		MiddleName:     req.MiddleName,
		LastName:       req.LastName,
		DocumentNumber: req.DocumentNumber,
		Email:          req.Email,
		Role:           req.Role,
	})
	if err != nil {
		switch {
		case domain.IsValidation(err), domain.IsConflict(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("PROVISION_USER_FAILED: email=%s error=%v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data": gin.H{
			"message": "User created; temporary password sent by email",
			"user_id": account.ID,
		},
	})
}

// GetUser handles fetching a single account
func (h *AdminHandlers) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	account, err := h.adminSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"id":              account.ID,
			"first_name":      account.FirstName,
			"last_name":       account.LastName,
			"document_number": account.DocumentNumber,
			"email":           account.Email,
			"role":            account.Role,
		},
	})
}

// UpdateUser handles admin account edits
func (h *AdminHandlers) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.adminSvc.UpdateUser(c.Request.Context(), id, domain.AdminUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleDemotion):
			c.JSON(http.StatusForbidden, gin.H{"error": "Existing admins cannot be demoted to student"})
		case domain.IsValidation(err), domain.IsConflict(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			log.Printf("UPDATE_USER_FAILED: user_id=%d error=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "User updated",
			"user": gin.H{
				"id":    account.ID,
				"email": account.Email,
				"role":  account.Role,
			},
		},
	})
}

// DeleteUser handles soft deletion
func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "User deleted",
		},
	})
}

// RestoreUser handles restoring a soft-deleted account
func (h *AdminHandlers) RestoreUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.adminSvc.RestoreUser(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, domain.ErrRestoreConflict):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Restore would duplicate email or document number"})
		default:
			log.Printf("RESTORE_USER_FAILED: user_id=%d error=%v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restore user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "User restored",
		},
	})
}

// pathID parses the :id path parameter, answering 400 on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return 0, false
	}
	return uint(id), true
}
