package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/NutriScanU/nutriscanu-backend/domain"
)

// mockEnforcer implements domain.CasbinEnforcer for middleware tests
type mockEnforcer struct {
	EnforceFunc func(rvals ...interface{}) (bool, error)
}

func (m *mockEnforcer) AddPolicy(params ...interface{}) (bool, error) { return true, nil }

func (m *mockEnforcer) Enforce(rvals ...interface{}) (bool, error) {
	return m.EnforceFunc(rvals...)
}

func (m *mockEnforcer) GetPolicy() ([][]string, error) { return nil, nil }

func (m *mockEnforcer) SavePolicy() error { return nil }

var _ domain.CasbinEnforcer = (*mockEnforcer)(nil)

func casbinRouter(enforcer domain.CasbinEnforcer, userID, role string) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		if role != "" {
			c.Set("user_role", role)
		}
	})
	router.Use(NewCasbinMW(enforcer).Enforce())
	router.GET("/admin/users/1", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	})
	return router
}

func TestCasbinMW_AllowsPermittedRole(t *testing.T) {
	var seenSubject string
	enforcer := &mockEnforcer{
		EnforceFunc: func(rvals ...interface{}) (bool, error) {
			seenSubject = rvals[0].(string)
			return true, nil
		},
	}
	router := casbinRouter(enforcer, "1", "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users/1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "role_admin", seenSubject)
}

func TestCasbinMW_DeniesForbiddenRole(t *testing.T) {
	enforcer := &mockEnforcer{
		EnforceFunc: func(rvals ...interface{}) (bool, error) {
			return false, nil
		},
	}
	router := casbinRouter(enforcer, "1", "student")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users/1", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access Denied")
}

func TestCasbinMW_RequiresIdentityInContext(t *testing.T) {
	enforcer := &mockEnforcer{
		EnforceFunc: func(rvals ...interface{}) (bool, error) {
			return true, nil
		},
	}
	router := casbinRouter(enforcer, "", "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users/1", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCasbinMW_EnforcerFailure(t *testing.T) {
	enforcer := &mockEnforcer{
		EnforceFunc: func(rvals ...interface{}) (bool, error) {
			return false, errors.New("adapter down")
		},
	}
	router := casbinRouter(enforcer, "1", "admin")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/users/1", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
